package models

import (
	"time"
)

// FileRecord is the metadata row written once per successful upload.
type FileRecord struct {
	ID          uint64    `json:"id" gorm:"primaryKey;autoIncrement"`
	Filename    string    `json:"filename" gorm:"size:512;not null"`
	ContentType string    `json:"content_type" gorm:"size:255;not null"`
	StoragePath string    `json:"storage_path" gorm:"size:1024;not null"` // backend location
	SizeBytes   *int64    `json:"size_bytes"`                             // nil when unknown
	CreatedAt   time.Time `json:"created_at" gorm:"not null;index;autoCreateTime:false"`
}

func (FileRecord) TableName() string {
	return "files"
}

// DefaultContentType is stored when the client sends no content type.
const DefaultContentType = "application/octet-stream"
