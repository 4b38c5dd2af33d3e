package services

import (
	"context"
	"io"
	"sync"

	"github.com/dmitrijs2005/chatdesk/internal/client/client"
	"github.com/dmitrijs2005/chatdesk/internal/client/models"
	"github.com/dmitrijs2005/chatdesk/internal/client/session"
	"github.com/dmitrijs2005/chatdesk/internal/common"
)

// fakeClient implements client.Client for service unit tests.
type fakeClient struct {
	mu sync.Mutex

	LoginToken string
	LoginErr   error

	RegisterErr error

	CurrentUserRet *models.User
	CurrentUserErr error

	UpdatePlanErr     error
	UpdatePasswordErr error

	AdminDashRet   models.Dashboard
	AdminDashErr   error
	RegularDashRet models.Dashboard
	RegularDashErr error

	UsersRet []models.User
	UsersErr error

	DocsRet   []models.Document
	DocRet    *models.Document
	DocErr    error
	DeleteErr error
	UploadErr error

	QueryRet string
	QueryErr error

	ImageRet *models.ImageResponse
	ImageErr error

	FetchRet []byte
	FetchErr error

	PingErr error

	// recorded arguments
	LastLogin        [2]string
	LastRegister     models.RegisterRequest
	LastPlan         common.Plan
	LastPassword     [2]string
	LastUpload       client.UploadRequest
	LastUploadBody   string
	LastDeleteID     int
	LastFetchURL     string
	AdminDashCalls   int
	RegularDashCalls int
	CurrentUserCalls int
}

func (f *fakeClient) Close() error                   { return nil }
func (f *fakeClient) Ping(ctx context.Context) error { return f.PingErr }

func (f *fakeClient) Login(ctx context.Context, username, password string) (string, error) {
	f.LastLogin = [2]string{username, password}
	return f.LoginToken, f.LoginErr
}

func (f *fakeClient) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	f.LastRegister = req
	if f.RegisterErr != nil {
		return nil, f.RegisterErr
	}
	return &models.User{ID: 10, Username: req.Username, Plan: req.Plan}, nil
}

func (f *fakeClient) CurrentUser(ctx context.Context) (*models.User, error) {
	f.CurrentUserCalls++
	if f.CurrentUserErr != nil {
		return nil, f.CurrentUserErr
	}
	u := *f.CurrentUserRet
	return &u, nil
}

func (f *fakeClient) UpdatePlan(ctx context.Context, plan common.Plan) error {
	f.LastPlan = plan
	if f.UpdatePlanErr == nil && f.CurrentUserRet != nil {
		f.CurrentUserRet.Plan = plan
	}
	return f.UpdatePlanErr
}

func (f *fakeClient) UpdatePassword(ctx context.Context, current, next string) error {
	f.LastPassword = [2]string{current, next}
	return f.UpdatePasswordErr
}

func (f *fakeClient) AdminDashboard(ctx context.Context) (models.Dashboard, error) {
	f.AdminDashCalls++
	return f.AdminDashRet, f.AdminDashErr
}

func (f *fakeClient) RegularDashboard(ctx context.Context) (models.Dashboard, error) {
	f.RegularDashCalls++
	return f.RegularDashRet, f.RegularDashErr
}

func (f *fakeClient) ListUsers(ctx context.Context) ([]models.User, error) {
	return f.UsersRet, f.UsersErr
}

func (f *fakeClient) ListDocuments(ctx context.Context) ([]models.Document, error) {
	return f.DocsRet, f.DocErr
}

func (f *fakeClient) GetDocument(ctx context.Context, id int) (*models.Document, error) {
	return f.DocRet, f.DocErr
}

func (f *fakeClient) DeleteDocument(ctx context.Context, id int) error {
	f.LastDeleteID = id
	return f.DeleteErr
}

func (f *fakeClient) UploadDocument(ctx context.Context, req client.UploadRequest) (*models.Document, error) {
	f.LastUpload = req
	b, _ := io.ReadAll(req.Content)
	f.LastUploadBody = string(b)
	if f.UploadErr != nil {
		return nil, f.UploadErr
	}
	return &models.Document{ID: 1, Title: req.Title, OriginalFilename: req.Filename}, nil
}

func (f *fakeClient) Query(ctx context.Context, query string, documentID int) (string, error) {
	return f.QueryRet, f.QueryErr
}

func (f *fakeClient) GenerateImage(ctx context.Context, prompt string) (*models.ImageResponse, error) {
	return f.ImageRet, f.ImageErr
}

func (f *fakeClient) FetchImage(ctx context.Context, url string) ([]byte, error) {
	f.mu.Lock()
	f.LastFetchURL = url
	f.mu.Unlock()
	return f.FetchRet, f.FetchErr
}

func (f *fakeClient) ResolveImageURL(raw string) string { return raw }

func loggedIn(t interface{ Helper() }, user models.User) *session.Store {
	t.Helper()
	s := session.NewStore(nil)
	_ = s.SetToken(context.Background(), "tok")
	_ = s.SetUser(context.Background(), user)
	return s
}
