package models

import "time"

type Role string // Роль пользователя

const (
	ClientRole     Role = "client"     // Заказчик, публикует проекты
	ContractorRole Role = "contractor" // Исполнитель, подает предложения
)

// User представляет модель пользователя.
type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Password  string    `json:"-"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// Identity возвращает данные аутентифицированного пользователя.
func (u *User) Identity() Identity {
	return Identity{UserID: u.ID, Username: u.Username, Role: u.Role}
}

// Identity описывает аутентифицированного пользователя, от имени которого выполняется операция.
type Identity struct {
	UserID   int64  `json:"userId"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// IsClient сообщает, является ли пользователь заказчиком.
func (i Identity) IsClient() bool { return i.Role == ClientRole }

// IsContractor сообщает, является ли пользователь исполнителем.
func (i Identity) IsContractor() bool { return i.Role == ContractorRole }

// RegisterRequest представляет структуру запроса для регистрации.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,max=128"`
	Role     Role   `json:"role" validate:"required,oneof=client contractor"`
}

// LoginRequest представляет структуру запроса для входа.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}
