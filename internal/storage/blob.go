package storage

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

const (
	maxNameLen = 100
	sniffLen   = 512
)

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// LocalStore хранит загруженные файлы в каталоге на диске.
type LocalStore struct {
	dir string
	now func() time.Time
}

// NewLocalStore создает каталог dir при необходимости и возвращает хранилище.
func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStore{dir: dir, now: time.Now}, nil
}

// Save записывает файл под уникальным именем и возвращает путь к нему.
func (s *LocalStore) Save(ctx context.Context, ownerID int64, name string, body io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	path := filepath.Join(s.dir, UniqueName(s.now(), ownerID, name))
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create blob: %w", err)
	}
	if _, err := io.Copy(f, body); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("write blob: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("close blob: %w", err)
	}
	return path, nil
}

// Remove удаляет файл, ранее сохраненный этим хранилищем. Отсутствующий файл не считается ошибкой.
func (s *LocalStore) Remove(path string) error {
	rel, err := filepath.Rel(s.dir, path)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return fmt.Errorf("path %q is outside of upload dir", path)
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove blob: %w", err)
	}
	return nil
}

// UniqueName строит имя файла из времени загрузки, id владельца, случайного суффикса
// и очищенного исходного имени.
func UniqueName(at time.Time, ownerID int64, original string) string {
	return fmt.Sprintf("%s_%d_%s_%s",
		at.UTC().Format("20060102T150405"),
		ownerID,
		strings.ReplaceAll(uuid.NewString(), "-", "")[:12],
		SanitizeName(original),
	)
}

// SanitizeName оставляет от имени файла только безопасные символы.
func SanitizeName(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, `\`, "/"))
	name = unsafeChars.ReplaceAllString(name, "_")
	name = strings.TrimLeft(name, "._")
	if name == "" {
		return "file"
	}
	if len(name) > maxNameLen {
		ext := filepath.Ext(name)
		if len(ext) >= maxNameLen {
			ext = ""
		}
		name = name[:maxNameLen-len(ext)] + ext
	}
	return name
}

// IsPDFName проверяет расширение файла.
func IsPDFName(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".pdf")
}

// SniffPDF определяет тип содержимого по первым байтам. Возвращаемый reader
// отдает содержимое целиком, включая прочитанные байты.
func SniffPDF(body io.Reader) (io.Reader, bool, error) {
	br := bufio.NewReaderSize(body, sniffLen)
	head, err := br.Peek(sniffLen)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, false, fmt.Errorf("read file header: %w", err)
	}
	return br, mimetype.Detect(head).Is("application/pdf"), nil
}
