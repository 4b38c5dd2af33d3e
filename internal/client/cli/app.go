package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/chatdesk/internal/client/client"
	"github.com/dmitrijs2005/chatdesk/internal/client/config"
	"github.com/dmitrijs2005/chatdesk/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/chatdesk/internal/client/services"
	"github.com/dmitrijs2005/chatdesk/internal/client/session"
	"github.com/dmitrijs2005/chatdesk/internal/client/transcript"
	"github.com/dmitrijs2005/chatdesk/internal/filex"
	"github.com/dmitrijs2005/chatdesk/internal/logging"
	"golang.org/x/sync/errgroup"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

const pingTimeout = 3 * time.Second

type App struct {
	config *config.Config
	logger logging.Logger

	store       *session.Store
	authService services.AuthService
	docService  services.DocumentService
	chat        *services.ChatService

	render *Renderer
	reader *bufio.Reader
	out    io.Writer

	modeMu sync.Mutex
	mode   Mode

	closers []func() error
}

// NewApp opens the local state database, restores the saved session and
// wires the API client, services and renderer.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	zl := logging.NewZapLogger(logging.Options{FilePath: c.LogFile})
	a := &App{
		config: c,
		logger: zl,
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
		render: NewRenderer(os.Stdout, true),
	}
	a.closers = append(a.closers, zl.Sync)

	db, err := openState(ctx, c.StatePath)
	if err != nil {
		a.logger.Error(ctx, "error initializing database", "path", c.StatePath, "error", err)
		return nil, err
	}
	a.closers = append(a.closers, db.Close)

	a.store = session.NewStore(
		session.NewMetadataPersister(metadata.NewSQLiteRepository(db)),
		session.WithLogger(a.logger),
	)
	a.store.Rehydrate(ctx)

	apiClient, err := client.NewHTTPClient(c.APIURL, c.DocumentsURL, a.store,
		client.WithTimeout(c.RequestTimeout),
		client.WithDocumentsCacheTTL(c.DocumentsCacheTTL),
		client.WithLogger(a.logger),
		client.WithUnauthorizedHandler(a.onUnauthorized),
	)
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	a.authService = services.NewAuthService(apiClient, a.store, a.logger)
	a.docService = services.NewDocumentService(apiClient)
	manager := transcript.NewManager(apiClient,
		transcript.WithLogger(a.logger),
		transcript.WithOnChange(a.onTranscriptChange),
	)
	a.chat = services.NewChatService(manager, apiClient, a.store, a.logger)

	return a, nil
}

func openState(ctx context.Context, path string) (*sql.DB, error) {
	if _, err := filex.EnsureParentDir(path, 0o700); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}
	return client.InitDatabase(ctx, path)
}

// Run starts the connectivity watcher and the REPL and blocks until the
// user exits or ctx is cancelled. Requests still in flight are awaited
// before returning.
func (a *App) Run(ctx context.Context) error {
	defer a.Close()
	defer a.authService.Close(ctx)

	ctx, cancel := context.WithCancel(ctx)
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)
		return nil
	})
	g.Go(func() error {
		defer cancel()
		a.Root(ctx)
		a.chat.Wait()
		return nil
	})

	return g.Wait()
}

// Close releases the state database and flushes the log.
func (a *App) Close() error {
	var first error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	a.closers = nil
	return first
}

func (a *App) isLoggedIn() bool {
	return a.store.IsAuthenticated()
}

func (a *App) setMode(mode Mode) {
	a.modeMu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.modeMu.Unlock()

	if changed {
		a.logger.Info(context.Background(), "connectivity changed", "mode", mode)
		if mode == ModeOffline {
			a.render.Warn("Server unreachable, switched to %s mode", mode)
		}
	}
}

func (a *App) currentMode() Mode {
	a.modeMu.Lock()
	defer a.modeMu.Unlock()
	return a.mode
}

func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	a.probe(ctx)
	for {
		select {
		case <-ticker.C:
			a.probe(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) probe(ctx context.Context) {
	pctx, cancel := context.WithTimeout(ctx, pingTimeout)
	err := a.authService.Ping(pctx)
	cancel()

	if ctx.Err() != nil {
		return
	}
	if err != nil {
		a.setMode(ModeOffline)
	} else {
		a.setMode(ModeOnline)
	}
}

// onUnauthorized is the API client's 401 hook: the session ends and the
// prompt falls back to the logged-out commands.
func (a *App) onUnauthorized(ctx context.Context) {
	wasLoggedIn := a.store.IsAuthenticated()
	if err := a.store.Logout(ctx); err != nil {
		a.logger.Error(ctx, "logout after 401 failed", "error", err)
	}
	a.chat.Reset()
	if wasLoggedIn {
		a.logger.Info(ctx, "session expired")
		a.render.Warn("Session expired, please login again")
	}
}

func (a *App) onTranscriptChange(m transcript.Message) {
	if m.IsUser {
		return
	}
	a.render.Message(m)
}

func (a *App) getStatus() string {
	s := ""
	if u := a.store.User(); u != nil && a.store.IsAuthenticated() {
		s = fmt.Sprintf("%s/%s ", u.Username, u.Plan)
	}
	if m := a.currentMode(); m != "" {
		s += string(m)
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

// Root greets the user, verifies a restored session and runs the REPL.
func (a *App) Root(ctx context.Context) {
	a.render.Println("Welcome to chatdesk (type 'help' for commands)")
	a.verifySession(ctx)
	runREPL(ctx, a, a.getStatus, a.reader, a.render)
}
