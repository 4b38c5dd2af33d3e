// Package server wires and runs the chatdesk development backend: in-memory
// users and documents, a placeholder image generator and the HTTP API.
package server

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/chatdesk/internal/logging"
	"github.com/dmitrijs2005/chatdesk/internal/server/config"
	"github.com/dmitrijs2005/chatdesk/internal/server/documents"
	"github.com/dmitrijs2005/chatdesk/internal/server/httpapi"
	"github.com/dmitrijs2005/chatdesk/internal/server/images"
	"github.com/dmitrijs2005/chatdesk/internal/server/users"
)

type App struct {
	config       *config.Config
	logger       *logging.ZapLogger
	userService  *users.Service
	docService   *documents.Service
	imageService *images.Generator
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger := logging.NewZapLogger(logging.Options{FilePath: c.LogFile, Console: true})

	us := users.NewService(users.NewMemoryRepository(), c)
	if err := us.EnsureAdmin(ctx, c.AdminUser, c.AdminPassword); err != nil {
		_ = logger.Sync()
		return nil, fmt.Errorf("seed admin: %w", err)
	}

	ds := documents.NewService(documents.NewMemoryRepository())
	ig := images.NewGenerator(images.DefaultSize, images.DefaultTTL)

	return &App{config: c, logger: logger, userService: us, docService: ds, imageService: ig}, nil
}

// Run serves HTTP until ctx is cancelled.
func (app *App) Run(ctx context.Context) error {
	defer app.logger.Sync()

	app.logger.Info(ctx, "Starting app...", "admin", app.config.AdminUser)

	s := httpapi.NewServer(app.config.Addr, app.logger, app.userService, app.docService, app.imageService)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		return err
	}
	return nil
}
