package models

import (
	"io"
	"time"
)

// Deliverable представляет одну версию результата работы по проекту.
type Deliverable struct {
	ID         int64     `json:"id"`
	ProjectID  int64     `json:"projectId"`
	FileName   string    `json:"fileName"`
	FilePath   string    `json:"filePath"`
	Message    string    `json:"message"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// Upload - файл, полученный от пользователя.
type Upload struct {
	Name string
	Body io.Reader
}
