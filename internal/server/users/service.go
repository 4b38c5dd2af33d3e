package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/chatdesk/internal/common"
	"github.com/dmitrijs2005/chatdesk/internal/server/auth"
	"github.com/dmitrijs2005/chatdesk/internal/server/config"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUnauthorized    = errors.New("incorrect username or password")
	ErrInvalidInput    = errors.New("username and password are required")
	ErrWrongPassword   = errors.New("incorrect current password")
	ErrPasswordTooWeak = errors.New("password too short")
)

const minPasswordLength = 8

type Service struct {
	repo          Repository
	jwtSecret     []byte
	tokenValidity time.Duration
	hashCost      int
}

func NewService(repo Repository, cfg *config.Config) *Service {
	return &Service{
		repo:          repo,
		jwtSecret:     []byte(cfg.SecretKey),
		tokenValidity: cfg.TokenValidity,
		hashCost:      bcrypt.DefaultCost,
	}
}

func (s *Service) hash(password string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
}

// Register creates a regular account. An empty plan means free.
func (s *Service) Register(ctx context.Context, username, password string, plan common.Plan) (*User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrInvalidInput
	}
	if plan == "" {
		plan = common.PlanFree
	}
	if _, err := common.ParsePlan(string(plan)); err != nil {
		return nil, err
	}

	hash, err := s.hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.repo.Create(ctx, &User{Username: username, PasswordHash: hash, Plan: plan})
	if err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return user, nil
}

// EnsureAdmin creates the administrator account unless the name is taken.
func (s *Service) EnsureAdmin(ctx context.Context, username, password string) error {
	if _, err := s.repo.GetUserByLogin(ctx, username); err == nil {
		return nil
	}
	hash, err := s.hash(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	_, err = s.repo.Create(ctx, &User{Username: username, PasswordHash: hash, IsAdmin: true, Plan: common.PlanPremium})
	if err != nil && !errors.Is(err, ErrAlreadyExists) {
		return err
	}
	return nil
}

// Login checks the credentials and issues an access token.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.repo.GetUserByLogin(ctx, username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", ErrUnauthorized
		}
		return "", err
	}

	if bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)) != nil {
		return "", ErrUnauthorized
	}

	return auth.GenerateToken(user.Username, s.jwtSecret, s.tokenValidity)
}

// Authenticate resolves a bearer token to its account.
func (s *Service) Authenticate(ctx context.Context, token string) (*User, error) {
	username, err := auth.GetUsernameFromToken(token, s.jwtSecret)
	if err != nil {
		return nil, err
	}
	user, err := s.repo.GetUserByLogin(ctx, username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, auth.ErrInvalidToken
		}
		return nil, err
	}
	return user, nil
}

func (s *Service) UpdatePlan(ctx context.Context, username string, plan common.Plan) (*User, error) {
	if _, err := common.ParsePlan(string(plan)); err != nil {
		return nil, err
	}
	user, err := s.repo.GetUserByLogin(ctx, username)
	if err != nil {
		return nil, err
	}
	user.Plan = plan
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *Service) UpdatePassword(ctx context.Context, username, current, next string) error {
	if len(next) < minPasswordLength {
		return ErrPasswordTooWeak
	}
	user, err := s.repo.GetUserByLogin(ctx, username)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(current)) != nil {
		return ErrWrongPassword
	}
	hash, err := s.hash(next)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	user.PasswordHash = hash
	return s.repo.Update(ctx, user)
}

func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.repo.List(ctx)
}
