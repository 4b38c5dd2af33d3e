package httpapi

import (
	"errors"
	"strings"
	"time"

	"github.com/dmitrijs2005/chatdesk/internal/common"
	"github.com/dmitrijs2005/chatdesk/internal/server/auth"
	"github.com/dmitrijs2005/chatdesk/internal/server/users"
	"github.com/gofiber/fiber/v2"
)

const userKey = "user"

func (s *Server) requestLogger(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	status := c.Response().StatusCode()
	if err != nil {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		} else {
			status = fiber.StatusInternalServerError
		}
	}
	s.logger.Info(c.UserContext(), "request",
		"method", c.Method(),
		"path", c.Path(),
		"status", status,
		"duration", time.Since(start),
	)
	return err
}

// requireUser resolves the bearer token to an account and stores it in the
// request locals.
func (s *Server) requireUser(c *fiber.Ctx) error {
	header := c.Get(common.AuthorizationHeader)
	if !strings.HasPrefix(header, common.BearerPrefix) {
		return fiber.NewError(fiber.StatusUnauthorized, "Not authenticated")
	}

	user, err := s.users.Authenticate(c.UserContext(), strings.TrimPrefix(header, common.BearerPrefix))
	switch {
	case errors.Is(err, auth.ErrTokenExpired):
		return fiber.NewError(fiber.StatusUnauthorized, "Token has expired")
	case errors.Is(err, auth.ErrInvalidToken):
		return fiber.NewError(fiber.StatusUnauthorized, "Could not validate credentials")
	case err != nil:
		return err
	}

	c.Locals(userKey, user)
	return c.Next()
}

func (s *Server) requireAdmin(c *fiber.Ctx) error {
	if !currentUser(c).IsAdmin {
		return fiber.NewError(fiber.StatusForbidden, "Not authorized to access admin resources")
	}
	return c.Next()
}

func currentUser(c *fiber.Ctx) *users.User {
	u, _ := c.Locals(userKey).(*users.User)
	return u
}
