package httpapi

import (
	"time"

	"github.com/dmitrijs2005/chatdesk/internal/common"
	"github.com/dmitrijs2005/chatdesk/internal/server/documents"
	"github.com/dmitrijs2005/chatdesk/internal/server/users"
)

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type userResponse struct {
	ID       int         `json:"id"`
	Username string      `json:"username"`
	IsAdmin  bool        `json:"is_admin"`
	Plan     common.Plan `json:"user_plan"`
}

func toUser(u *users.User) userResponse {
	return userResponse{ID: u.ID, Username: u.Username, IsAdmin: u.IsAdmin, Plan: u.Plan}
}

type registerRequest struct {
	Username string      `json:"username"`
	Password string      `json:"password"`
	Plan     common.Plan `json:"user_plan"`
}

type updatePlanRequest struct {
	Plan common.Plan `json:"user_plan"`
}

type updatePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

type documentResponse struct {
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

// toDocument converts d; the content is only sent when withContent is set.
func toDocument(d *documents.Document, withContent bool) documentResponse {
	out := documentResponse{
		ID:               d.ID,
		Title:            d.Title,
		Description:      d.Description,
		Filename:         d.Filename,
		OriginalFilename: d.OriginalFilename,
		ContentType:      d.ContentType,
		FilePath:         "uploads/" + d.Filename,
		UploadedAt:       d.UploadedAt.UTC().Format(time.RFC3339),
	}
	if withContent {
		out.Content = d.Content
	}
	return out
}

type queryRequest struct {
	Query      string `json:"query"`
	DocumentID int    `json:"document_id"`
}

type queryResponse struct {
	Response string `json:"response"`
}

type imageRequest struct {
	Prompt string `json:"prompt"`
}

type imageResponse struct {
	Filename  string `json:"filename"`
	ImageURL  string `json:"image_url"`
	ImageData string `json:"image_data"`
}

type messageResponse struct {
	Message string `json:"message"`
}
