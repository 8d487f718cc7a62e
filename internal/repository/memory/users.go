package memory

import (
	"context"

	"github.com/senyabanana/freelance-market/internal/errs"
	"github.com/senyabanana/freelance-market/internal/models"
	"github.com/senyabanana/freelance-market/internal/repository"
)

type userRepo struct{ s *Store }

func (r userRepo) Create(_ context.Context, user *models.User) error {
	defer r.s.lock()()
	t := r.s.tables()

	for _, u := range t.users {
		if u.Username == user.Username {
			return repository.ErrUsernameTaken
		}
	}
	user.ID = t.nextID()
	user.CreatedAt = r.s.now()
	t.users[user.ID] = *user
	return nil
}

func (r userRepo) GetByID(_ context.Context, id int64) (*models.User, error) {
	defer r.s.lock()()

	u, ok := r.s.tables().users[id]
	if !ok {
		return nil, errs.NotFound("user not found")
	}
	return &u, nil
}

func (r userRepo) GetByUsername(_ context.Context, username string) (*models.User, error) {
	defer r.s.lock()()

	for _, u := range r.s.tables().users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, errs.NotFound("user not found")
}
