// Package httpapi exposes the development backend over HTTP with the routes
// and error envelope the chatdesk client expects.
package httpapi

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/chatdesk/internal/common"
	"github.com/dmitrijs2005/chatdesk/internal/logging"
	"github.com/dmitrijs2005/chatdesk/internal/server/documents"
	"github.com/dmitrijs2005/chatdesk/internal/server/images"
	"github.com/dmitrijs2005/chatdesk/internal/server/users"
	"github.com/gofiber/fiber/v2"
)

const bodyLimit = 10 * 1024 * 1024

type Server struct {
	address string
	app     *fiber.App
	users   *users.Service
	docs    *documents.Service
	images  *images.Generator
	logger  logging.Logger
}

func NewServer(a string, l logging.Logger, us *users.Service, ds *documents.Service, ig *images.Generator) *Server {
	s := &Server{
		address: a,
		logger:  l.With("module", "http_server"),
		users:   us,
		docs:    ds,
		images:  ig,
	}

	s.app = fiber.New(fiber.Config{
		BodyLimit:             bodyLimit,
		ErrorHandler:          s.errorHandler,
		DisableStartupMessage: true,
	})
	s.app.Use(s.requestLogger)
	s.registerRoutes()

	return s
}

// App exposes the router, mainly for app.Test in tests.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) registerRoutes() {
	app := s.app

	app.Get("/", s.Root)
	app.Post(common.PathToken, s.Token)
	app.Post(common.PathUsers, s.Register)
	app.Get(common.PathImages+":name", s.GetImage)

	user := s.requireUser
	app.Get(common.PathCurrentUser, user, s.CurrentUser)
	app.Patch(common.PathUpdatePlan, user, s.UpdatePlan)
	app.Patch(common.PathUpdatePassword, user, s.UpdatePassword)
	app.Get(common.PathRegularDash, user, s.RegularDashboard)

	app.Get(common.PathDocuments, user, s.ListDocuments)
	app.Get(common.PathDocuments+":id", user, s.GetDocument)
	app.Delete(common.PathDocuments+":id", user, s.DeleteDocument)
	app.Post(common.PathUploadDocument, user, s.UploadDocument)
	app.Post(common.PathQuery, user, s.Query)
	app.Post(common.PathGenerateImage, user, s.GenerateImage)

	app.Get(common.PathAdminDashboard, user, s.requireAdmin, s.AdminDashboard)
	app.Get(common.PathAdminUsers, user, s.requireAdmin, s.ListUsers)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "Starting HTTP server", "address", s.address)
		errCh <- s.app.Listen(s.address)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.logger.Info(ctx, "Stopping HTTP server...")
		return s.app.ShutdownWithContext(context.Background())
	}
}

// errorHandler renders every error as {"detail": "..."}.
func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := "Internal Server Error"

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code, msg = fe.Code, fe.Message
	} else {
		s.logger.Error(c.UserContext(), "request failed", "path", c.Path(), "error", err)
	}

	if code == fiber.StatusUnauthorized {
		c.Set(fiber.HeaderWWWAuthenticate, "Bearer")
	}
	return c.Status(code).JSON(common.ErrorBody{Detail: msg})
}
