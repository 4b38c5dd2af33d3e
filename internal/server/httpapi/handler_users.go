package httpapi

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/chatdesk/internal/common"
	"github.com/dmitrijs2005/chatdesk/internal/server/users"
	"github.com/gofiber/fiber/v2"
)

func (s *Server) Root(c *fiber.Ctx) error {
	return c.JSON(messageResponse{Message: "chatdesk development backend"})
}

// Token implements the OAuth2 password grant: a form with username and
// password in, a bearer token out.
func (s *Server) Token(c *fiber.Ctx) error {
	username, password := c.FormValue("username"), c.FormValue("password")
	if grant := c.FormValue("grant_type"); grant != "" && grant != "password" {
		return fiber.NewError(fiber.StatusBadRequest, "unsupported_grant_type")
	}

	token, err := s.users.Login(c.UserContext(), username, password)
	if err != nil {
		if errors.Is(err, users.ErrUnauthorized) {
			s.logger.Info(c.UserContext(), "login failed", "username", username)
			return fiber.NewError(fiber.StatusUnauthorized, "Incorrect username or password")
		}
		return err
	}

	s.logger.Info(c.UserContext(), "login", "username", username)
	return c.JSON(tokenResponse{AccessToken: token, TokenType: "bearer"})
}

func (s *Server) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusUnprocessableEntity, "Invalid request body")
	}

	user, err := s.users.Register(c.UserContext(), req.Username, req.Password, req.Plan)
	switch {
	case errors.Is(err, users.ErrAlreadyExists):
		return fiber.NewError(fiber.StatusBadRequest, "Username already registered")
	case errors.Is(err, users.ErrInvalidInput):
		return fiber.NewError(fiber.StatusUnprocessableEntity, "Username and password are required")
	case errors.Is(err, common.ErrUnknownPlan):
		return fiber.NewError(fiber.StatusUnprocessableEntity, "Invalid plan")
	case err != nil:
		return err
	}

	s.logger.Info(c.UserContext(), "Registered", "username", user.Username, "plan", user.Plan)
	return c.JSON(toUser(user))
}

func (s *Server) CurrentUser(c *fiber.Ctx) error {
	return c.JSON(toUser(currentUser(c)))
}

func (s *Server) UpdatePlan(c *fiber.Ctx) error {
	var req updatePlanRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusUnprocessableEntity, "Invalid request body")
	}

	user, err := s.users.UpdatePlan(c.UserContext(), currentUser(c).Username, req.Plan)
	if errors.Is(err, common.ErrUnknownPlan) {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid plan")
	}
	if err != nil {
		return err
	}
	return c.JSON(toUser(user))
}

func (s *Server) UpdatePassword(c *fiber.Ctx) error {
	var req updatePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusUnprocessableEntity, "Invalid request body")
	}

	err := s.users.UpdatePassword(c.UserContext(), currentUser(c).Username, req.CurrentPassword, req.NewPassword)
	switch {
	case errors.Is(err, users.ErrWrongPassword):
		return fiber.NewError(fiber.StatusBadRequest, "Incorrect current password")
	case errors.Is(err, users.ErrPasswordTooWeak):
		return fiber.NewError(fiber.StatusBadRequest, "New password is too short")
	case err != nil:
		return err
	}
	return c.JSON(messageResponse{Message: "Password updated successfully"})
}

func (s *Server) RegularDashboard(c *fiber.Ctx) error {
	u := currentUser(c)
	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Welcome to your dashboard, %s", u.Username),
		"plan":    u.Plan,
	})
}

func (s *Server) AdminDashboard(c *fiber.Ctx) error {
	all, err := s.users.List(c.UserContext())
	if err != nil {
		return err
	}
	docs, err := s.docs.Count(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message":         "Welcome to the admin dashboard",
		"total_users":     len(all),
		"total_documents": docs,
	})
}

func (s *Server) ListUsers(c *fiber.Ctx) error {
	all, err := s.users.List(c.UserContext())
	if err != nil {
		return err
	}
	out := make([]userResponse, 0, len(all))
	for i := range all {
		out = append(out, toUser(&all[i]))
	}
	return c.JSON(out)
}
