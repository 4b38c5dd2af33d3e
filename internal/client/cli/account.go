package cli

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/chatdesk/internal/client/client"
	"github.com/dmitrijs2005/chatdesk/internal/client/services"
	"github.com/dmitrijs2005/chatdesk/internal/common"
)

// Dashboard shows the admin dashboard to admins and the regular one to
// everybody else. A refused admin dashboard falls back with a notice.
func (a *App) Dashboard(ctx context.Context) error {
	view, err := a.authService.Dashboard(ctx)
	if err != nil {
		a.report(ctx, err, "Failed to load dashboard data")
		return err
	}
	if view.Denied {
		a.render.Warn("Admin access required; showing your regular dashboard")
	}
	a.render.Dashboard(view)
	return nil
}

func (a *App) ChangePlan(ctx context.Context, arg string) error {
	plan, err := common.ParsePlan(arg)
	if err != nil {
		a.render.Error("Unknown plan %q (free, standard, premium)", arg)
		return err
	}
	if _, err := a.authService.UpdatePlan(ctx, plan); err != nil {
		a.report(ctx, err, "Failed to update plan. Please try again.")
		return err
	}
	a.render.Success("Plan updated to %s successfully!", plan)
	return nil
}

func (a *App) ChangePassword(ctx context.Context) error {
	current, err := getPassword(a.reader, "Current password", a.out)
	if err != nil {
		return err
	}
	next, err := getPassword(a.reader, "New password", a.out)
	if err != nil {
		return err
	}
	confirm, err := getPassword(a.reader, "Confirm new password", a.out)
	if err != nil {
		return err
	}

	err = a.authService.UpdatePassword(ctx, current, next, confirm)
	switch {
	case err == nil:
		a.render.Success("Password updated successfully!")
	case errors.Is(err, services.ErrPasswordMismatch), errors.Is(err, services.ErrPasswordTooShort):
		a.render.Error("%v", err)
	default:
		a.report(ctx, err, "Failed to update password. Please try again.")
	}
	return err
}

// Users lists every account (admins only).
func (a *App) Users(ctx context.Context) error {
	users, err := a.authService.ListUsers(ctx)
	switch {
	case err == nil:
		a.render.Users(users)
		return nil
	case errors.Is(err, services.ErrNotAdmin), errors.Is(err, client.ErrForbidden):
		a.render.Warn("Admin access required")
	default:
		a.report(ctx, err, "Failed to load users")
	}
	return err
}
