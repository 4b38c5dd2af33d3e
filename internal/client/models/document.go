package models

// Document is an uploaded file known to the backend.
type Document struct {
	ID               int    `json:"id"`
	Title            string `json:"title"`
	Description      string `json:"description,omitempty"`
	Filename         string `json:"filename"`
	OriginalFilename string `json:"original_filename"`
	ContentType      string `json:"content_type"`
	FilePath         string `json:"file_path"`
	Content          string `json:"content,omitempty"`
	UploadedAt       string `json:"uploaded_at"`
}

// QueryRequest is the POST /query/ body. DocumentID 0 queries every document.
type QueryRequest struct {
	Query      string `json:"query"`
	DocumentID int    `json:"document_id,omitempty"`
}

// QueryResponse is the POST /query/ reply.
type QueryResponse struct {
	Response string `json:"response"`
}
