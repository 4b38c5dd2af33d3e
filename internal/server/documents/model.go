package documents

import "time"

type Document struct {
	ID               int
	Title            string
	Description      string
	Filename         string
	OriginalFilename string
	ContentType      string
	Content          string
	Size             int
	UploadedAt       time.Time
}

// Upload is a file received from a client.
type Upload struct {
	Title            string
	Description      string
	OriginalFilename string
	ContentType      string
	Data             []byte
}
