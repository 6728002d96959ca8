package models

import "time"

// FileRecord stores the metadata of one uploaded document. Filename is the
// client-supplied name; Filepath is the server-controlled on-disk location
// and never leaves the API.
type FileRecord struct {
	ID         uint      `json:"id" db:"id" gorm:"primaryKey;autoIncrement"`
	ProjectID  uint      `json:"project_id" db:"project_id" gorm:"not null;index"`
	Filename   string    `json:"filename" db:"filename" gorm:"type:text;not null"`
	Filepath   string    `json:"-" db:"filepath" gorm:"type:text;not null"`
	Filetype   string    `json:"filetype" db:"filetype" gorm:"type:text"`
	UploadedAt time.Time `json:"uploaded_at" db:"uploaded_at" gorm:"autoCreateTime"`
}

// TableName keeps the historical table name.
func (FileRecord) TableName() string {
	return "files"
}
