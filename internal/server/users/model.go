package users

import (
	"time"

	"github.com/dmitrijs2005/chatdesk/internal/common"
)

type User struct {
	ID           int
	Username     string
	PasswordHash []byte
	IsAdmin      bool
	Plan         common.Plan
	CreatedAt    time.Time
}
