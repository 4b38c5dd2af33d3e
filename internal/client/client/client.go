package client

import (
	"context"
	"io"

	"github.com/dmitrijs2005/chatdesk/internal/client/models"
	"github.com/dmitrijs2005/chatdesk/internal/common"
)

// TokenSource yields the current bearer token, or "" when logged out.
type TokenSource interface {
	Token() string
}

// UploadRequest describes a document upload.
type UploadRequest struct {
	Filename    string
	Content     io.Reader
	Title       string
	Description string
}

type Client interface {
	Close() error
	Ping(ctx context.Context) error

	Login(ctx context.Context, username, password string) (string, error)
	Register(ctx context.Context, req models.RegisterRequest) (*models.User, error)
	CurrentUser(ctx context.Context) (*models.User, error)
	UpdatePlan(ctx context.Context, plan common.Plan) error
	UpdatePassword(ctx context.Context, currentPassword, newPassword string) error

	AdminDashboard(ctx context.Context) (models.Dashboard, error)
	RegularDashboard(ctx context.Context) (models.Dashboard, error)
	ListUsers(ctx context.Context) ([]models.User, error)

	ListDocuments(ctx context.Context) ([]models.Document, error)
	GetDocument(ctx context.Context, id int) (*models.Document, error)
	DeleteDocument(ctx context.Context, id int) error
	UploadDocument(ctx context.Context, req UploadRequest) (*models.Document, error)
	Query(ctx context.Context, query string, documentID int) (string, error)

	GenerateImage(ctx context.Context, prompt string) (*models.ImageResponse, error)
	FetchImage(ctx context.Context, url string) ([]byte, error)
	ResolveImageURL(raw string) string
}
