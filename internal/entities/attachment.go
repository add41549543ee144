package entities

import (
	"time"
)

type Attachment struct {
	ID         string    `db:"id"`
	RequestID  string    `db:"request_id"`
	Name       string    `db:"name"`
	URL        string    `db:"url"`
	Size       int64     `db:"size"`
	MimeType   string    `db:"mime_type"`
	UploadedBy string    `db:"uploaded_by"`
	CreatedAt  time.Time `db:"created_at"`
}
