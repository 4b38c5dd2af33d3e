package models

// ImageRequest is the POST /generate-image/ body.
type ImageRequest struct {
	Prompt string `json:"prompt"`
}

// ImageResponse is the POST /generate-image/ reply. ImageData is base64.
type ImageResponse struct {
	Filename  string `json:"filename"`
	ImageURL  string `json:"image_url"`
	ImageData string `json:"image_data"`
}
