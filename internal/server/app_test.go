package server

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/chatdesk/internal/server/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewApp_SeedsAdmin(t *testing.T) {
	c := &config.Config{SecretKey: "k", TokenValidity: time.Minute, AdminUser: "root", AdminPassword: "rootpassword"}

	app, err := NewApp(context.Background(), c)
	require.NoError(t, err)

	token, err := app.userService.Login(context.Background(), "root", "rootpassword")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	all, err := app.userService.List(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.True(t, all[0].IsAdmin)
}

func TestRun_ReturnsAfterCancel(t *testing.T) {
	c := &config.Config{Addr: "127.0.0.1:0", SecretKey: "k", TokenValidity: time.Minute, AdminUser: "a", AdminPassword: "b"}
	app, err := NewApp(context.Background(), c)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("app did not stop")
	}
}
