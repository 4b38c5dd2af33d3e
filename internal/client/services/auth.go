// Package services contains the application services behind the chatdesk
// CLI: authentication and account flows, chat, and document management.
// Services combine the API client with the session store; they never print.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/chatdesk/internal/client/client"
	"github.com/dmitrijs2005/chatdesk/internal/client/models"
	"github.com/dmitrijs2005/chatdesk/internal/client/session"
	"github.com/dmitrijs2005/chatdesk/internal/common"
	"github.com/dmitrijs2005/chatdesk/internal/logging"
)

const MinPasswordLength = 8

var (
	ErrNotLoggedIn      = errors.New("not logged in")
	ErrSessionExpired   = errors.New("session expired")
	ErrNotAdmin         = errors.New("admin access required")
	ErrPlanRequired     = errors.New("premium plan required")
	ErrPasswordMismatch = errors.New("new passwords don't match")
	ErrPasswordTooShort = fmt.Errorf("password must be at least %d characters long", MinPasswordLength)
	// ErrProfileUnavailable means the login succeeded but the profile could
	// not be loaded; the session keeps its token.
	ErrProfileUnavailable = errors.New("error getting user details")
)

// AuthService defines the account flows of the CLI.
//
// Contract:
//   - Login: obtain a token, store it, then load and store the profile.
//   - Register: create an account; does not log in.
//   - Verify: check a restored session (expired JWT or rejected token ends it).
//   - Logout: drop the local session.
//   - UpdatePlan / UpdatePassword: account settings.
//   - Dashboard: admin dashboard for admins, regular one otherwise.
//   - ListUsers: admin-only user listing.
//
// All methods must honor context cancellation/timeouts.
type AuthService interface {
	Login(ctx context.Context, username, password string) (*models.User, error)
	Register(ctx context.Context, username, password string, plan common.Plan) (*models.User, error)
	Verify(ctx context.Context) (*models.User, error)
	Logout(ctx context.Context) error
	UpdatePlan(ctx context.Context, plan common.Plan) (*models.User, error)
	UpdatePassword(ctx context.Context, current, next, confirm string) error
	Dashboard(ctx context.Context) (*DashboardView, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// DashboardView is what the dashboard command shows. Denied is set when an
// admin dashboard request was refused and the regular one was shown instead.
type DashboardView struct {
	Admin  bool
	Denied bool
	User   *models.User
	Data   models.Dashboard
}

type authService struct {
	client client.Client
	store  *session.Store
	logger logging.Logger
	now    func() time.Time
}

// NewAuthService constructs an AuthService bound to the API client and the
// session store.
func NewAuthService(c client.Client, store *session.Store, logger logging.Logger) AuthService {
	if logger == nil {
		logger = logging.Nop()
	}
	return &authService{client: c, store: store, logger: logger, now: time.Now}
}

func (a *authService) Login(ctx context.Context, username, password string) (*models.User, error) {
	token, err := a.client.Login(ctx, username, password)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if err := a.store.SetToken(ctx, token); err != nil {
		return nil, err
	}

	user, err := a.refreshProfile(ctx)
	if err != nil {
		a.logger.Warn(ctx, "profile fetch after login failed", "username", username, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrProfileUnavailable, err)
	}
	a.logger.Info(ctx, "logged in", "username", user.Username, "plan", user.Plan)
	return user, nil
}

func (a *authService) Register(ctx context.Context, username, password string, plan common.Plan) (*models.User, error) {
	user, err := a.client.Register(ctx, models.RegisterRequest{Username: username, Password: password, Plan: plan})
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	return user, nil
}

// Verify checks a session restored from disk. A JWT past its exp is dropped,
// together with its persisted record, without contacting the backend. A rejected token ends the session (the
// client's unauthorized hook has already logged out); an unreachable
// backend keeps it.
func (a *authService) Verify(ctx context.Context) (*models.User, error) {
	if !a.store.IsAuthenticated() {
		return nil, ErrNotLoggedIn
	}
	if session.TokenExpired(a.store.Token(), a.now()) {
		if err := a.store.ClearStorage(ctx); err != nil {
			return nil, err
		}
		return nil, ErrSessionExpired
	}

	user, err := a.refreshProfile(ctx)
	switch {
	case err == nil:
		return user, nil
	case errors.Is(err, client.ErrUnavailable), errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return nil, err
	default:
		if lerr := a.store.Logout(ctx); lerr != nil {
			a.logger.Error(ctx, "logout after failed verify", "error", lerr)
		}
		return nil, fmt.Errorf("%w: %w", ErrSessionExpired, err)
	}
}

func (a *authService) Logout(ctx context.Context) error {
	return a.store.Logout(ctx)
}

// UpdatePlan changes the plan and reloads the profile so plan gates see it.
func (a *authService) UpdatePlan(ctx context.Context, plan common.Plan) (*models.User, error) {
	if err := a.client.UpdatePlan(ctx, plan); err != nil {
		return nil, fmt.Errorf("update plan: %w", err)
	}
	return a.refreshProfile(ctx)
}

func (a *authService) UpdatePassword(ctx context.Context, current, next, confirm string) error {
	if next != confirm {
		return ErrPasswordMismatch
	}
	if len(next) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	if err := a.client.UpdatePassword(ctx, current, next); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

func (a *authService) Dashboard(ctx context.Context) (*DashboardView, error) {
	view := &DashboardView{User: a.store.User()}

	if a.store.IsAdmin() {
		data, err := a.client.AdminDashboard(ctx)
		if err == nil {
			view.Admin = true
			view.Data = data
			return view, nil
		}
		if !errors.Is(err, client.ErrForbidden) {
			return nil, fmt.Errorf("admin dashboard: %w", err)
		}
		a.logger.Warn(ctx, "admin dashboard refused, falling back", "error", err)
		view.Denied = true
	}

	data, err := a.client.RegularDashboard(ctx)
	if err != nil {
		return nil, fmt.Errorf("dashboard: %w", err)
	}
	view.Data = data
	return view, nil
}

func (a *authService) ListUsers(ctx context.Context) ([]models.User, error) {
	if !a.store.IsAdmin() {
		return nil, ErrNotAdmin
	}
	users, err := a.client.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// Ping proxies a liveness check to the underlying client.
func (a *authService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}

// Close releases resources held by the underlying client.
func (a *authService) Close(ctx context.Context) error {
	return a.client.Close()
}

func (a *authService) refreshProfile(ctx context.Context) (*models.User, error) {
	user, err := a.client.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	if err := a.store.SetUser(ctx, *user); err != nil {
		return nil, err
	}
	return user, nil
}
