package models

import "time"

// Места хранения файлов.
const (
	StorageLocal    = "local"
	StorageExternal = "external"
)

// Media — метаданные загруженного файла.
type Media struct {
	ID           int64     `json:"id"`
	FileName     string    `json:"file_name"`
	OriginalName string    `json:"original_name"`
	MimeType     string    `json:"mime_type"`
	Size         int64     `json:"size"`
	URL          string    `json:"url"`
	Storage      string    `json:"storage"`
	CreatedAt    time.Time `json:"created_at"`
}
