package cli

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/chatdesk/internal/client/client"
	"github.com/dmitrijs2005/chatdesk/internal/client/services"
	"github.com/dmitrijs2005/chatdesk/internal/common"
)

// getSimpleText, getPassword and getMultiline are indirections used to
// facilitate testing. They point to interactive input helpers and can be
// swapped in tests.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
	getMultiline  = GetMultiline
)

// Register prompts for username, password (twice) and plan and creates the
// account. It does not log in.
func (a *App) Register(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, "Enter password", a.out)
	if err != nil {
		return err
	}
	confirm, err := getPassword(a.reader, "Confirm password", a.out)
	if err != nil {
		return err
	}
	if password != confirm {
		a.render.Error("Passwords don't match!")
		return services.ErrPasswordMismatch
	}

	planText, err := getSimpleText(a.reader, "Choose plan (free/standard/premium) [free]", a.out)
	if err != nil {
		return err
	}
	plan := common.PlanFree
	if planText != "" {
		if plan, err = common.ParsePlan(planText); err != nil {
			a.render.Error("Unknown plan %q", planText)
			return err
		}
	}

	if _, err := a.authService.Register(ctx, username, password, plan); err != nil {
		a.report(ctx, err, "Registration failed")
		return err
	}
	a.render.Success("Registration successful! Please login.")
	return nil
}

// Login prompts for credentials, stores the session and shows the
// dashboard. When the token is accepted but the profile cannot be loaded
// the user stays logged in with a warning.
func (a *App) Login(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, "Enter password", a.out)
	if err != nil {
		return err
	}

	a.chat.Reset()
	user, err := a.authService.Login(ctx, username, password)
	switch {
	case errors.Is(err, services.ErrProfileUnavailable):
		a.logger.Warn(ctx, "login without profile", "error", err)
		a.render.Warn("Error getting user details")
		return nil
	case err != nil:
		a.logger.Info(ctx, "login failed", "username", username, "error", err)
		a.render.Error("%s", client.Detail(err, "Login failed"))
		return err
	}

	a.render.Success("Login successful!")
	a.logger.Info(ctx, "login", "username", user.Username)
	return a.Dashboard(ctx)
}

// Logout drops the session and discards the transcript.
func (a *App) Logout(ctx context.Context) error {
	a.chat.Reset()
	if err := a.authService.Logout(ctx); err != nil {
		a.report(ctx, err, "Logout failed")
		return err
	}
	a.render.Success("Logged out successfully")
	return nil
}

func (a *App) WhoAmI(ctx context.Context) error {
	a.render.User(a.store.User())
	return nil
}

// verifySession checks a session restored from disk before the first prompt.
func (a *App) verifySession(ctx context.Context) {
	if !a.store.IsAuthenticated() {
		return
	}
	user, err := a.authService.Verify(ctx)
	switch {
	case err == nil:
		a.render.Success("Welcome back, %s", user.Username)
	case errors.Is(err, services.ErrSessionExpired):
		a.render.Warn("Session expired, please login again")
	case errors.Is(err, client.ErrUnavailable):
		a.render.Warn("Server unavailable; keeping your saved session")
	default:
		a.logger.Warn(ctx, "verify failed", "error", err)
	}
}

// report logs err and prints the backend's detail message, or fallback.
// A 401 has already been announced by the unauthorized hook.
func (a *App) report(ctx context.Context, err error, fallback string) {
	a.logger.Warn(ctx, fallback, "error", err)
	switch {
	case errors.Is(err, client.ErrUnauthorized):
		if a.store.IsAuthenticated() {
			a.render.Error("%s", client.Detail(err, fallback))
		}
	case errors.Is(err, client.ErrUnavailable):
		a.render.Error("Server unavailable, please try again later")
	case errors.Is(err, context.DeadlineExceeded):
		a.render.Error("Request timed out")
	default:
		a.render.Error("%s", client.Detail(err, fallback))
	}
}
