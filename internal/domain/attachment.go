package domain

import "time"

// Attachment is a media-library item recorded alongside a stored file.
type Attachment struct {
	ID        int64
	FileKey   string
	MIMEType  string
	Title     string
	AltText   string
	CreatedAt time.Time
}
