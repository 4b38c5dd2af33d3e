package cli

import (
	"bufio"
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/chatdesk/internal/client/client"
	"github.com/dmitrijs2005/chatdesk/internal/client/config"
	"github.com/dmitrijs2005/chatdesk/internal/client/models"
	"github.com/dmitrijs2005/chatdesk/internal/client/services"
	"github.com/dmitrijs2005/chatdesk/internal/client/session"
	"github.com/dmitrijs2005/chatdesk/internal/client/transcript"
	"github.com/dmitrijs2005/chatdesk/internal/common"
	"github.com/dmitrijs2005/chatdesk/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ------------ fakes ------------

type fakeAuth struct {
	store *session.Store

	loginUser *models.User
	loginErr  error

	regUser string
	regPlan common.Plan
	regErr  error

	dashboard    *services.DashboardView
	dashboardErr error

	planSet common.Plan
	planErr error

	pwArgs [3]string
	pwErr  error

	users    []models.User
	usersErr error

	pingErr error
}

func (f *fakeAuth) Login(ctx context.Context, username, password string) (*models.User, error) {
	if f.loginErr != nil && !errors.Is(f.loginErr, services.ErrProfileUnavailable) {
		return nil, f.loginErr
	}
	_ = f.store.SetToken(ctx, "tok")
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	_ = f.store.SetUser(ctx, *f.loginUser)
	return f.loginUser, nil
}

func (f *fakeAuth) Register(ctx context.Context, username, password string, plan common.Plan) (*models.User, error) {
	f.regUser, f.regPlan = username, plan
	return &models.User{Username: username, Plan: plan}, f.regErr
}

func (f *fakeAuth) Verify(ctx context.Context) (*models.User, error) { return f.store.User(), nil }
func (f *fakeAuth) Logout(ctx context.Context) error                 { return f.store.Logout(ctx) }

func (f *fakeAuth) UpdatePlan(ctx context.Context, plan common.Plan) (*models.User, error) {
	f.planSet = plan
	return nil, f.planErr
}

func (f *fakeAuth) UpdatePassword(ctx context.Context, current, next, confirm string) error {
	f.pwArgs = [3]string{current, next, confirm}
	return f.pwErr
}

func (f *fakeAuth) Dashboard(ctx context.Context) (*services.DashboardView, error) {
	if f.dashboardErr != nil {
		return nil, f.dashboardErr
	}
	if f.dashboard != nil {
		return f.dashboard, nil
	}
	return &services.DashboardView{User: f.store.User(), Data: models.Dashboard{"message": "welcome"}}, nil
}

func (f *fakeAuth) ListUsers(ctx context.Context) ([]models.User, error) { return f.users, f.usersErr }
func (f *fakeAuth) Ping(ctx context.Context) error                       { return f.pingErr }
func (f *fakeAuth) Close(ctx context.Context) error                      { return nil }

type fakeDocs struct {
	docs      []models.Document
	deleted   int
	uploaded  [3]string
	uploadErr error
	getErr    error
}

func (f *fakeDocs) List(ctx context.Context) ([]models.Document, error) { return f.docs, nil }

func (f *fakeDocs) Get(ctx context.Context, id int) (*models.Document, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, d := range f.docs {
		if d.ID == id {
			return &d, nil
		}
	}
	return nil, &client.APIError{Status: 404, Detail: "Document not found"}
}

func (f *fakeDocs) Upload(ctx context.Context, path, title, description string) (*models.Document, error) {
	f.uploaded = [3]string{path, title, description}
	if f.uploadErr != nil {
		return nil, f.uploadErr
	}
	return &models.Document{ID: 5, Title: title}, nil
}

func (f *fakeDocs) Delete(ctx context.Context, id int) error {
	f.deleted = id
	return nil
}

// stubBackend answers immediately.
type stubBackend struct {
	answer string
	image  *models.ImageResponse
	err    error
	fetch  []byte
}

func (s *stubBackend) Query(ctx context.Context, query string, documentID int) (string, error) {
	return s.answer, s.err
}

func (s *stubBackend) GenerateImage(ctx context.Context, prompt string) (*models.ImageResponse, error) {
	return s.image, s.err
}

func (s *stubBackend) FetchImage(ctx context.Context, url string) ([]byte, error) {
	return s.fetch, nil
}

// ------------ helpers ------------

type testEnv struct {
	app     *App
	out     *bytes.Buffer
	auth    *fakeAuth
	docs    *fakeDocs
	backend *stubBackend
	store   *session.Store
}

func newTestApp(t *testing.T, input ...string) *testEnv {
	t.Helper()
	out := &bytes.Buffer{}
	store := session.NewStore(nil)
	env := &testEnv{
		out:     out,
		store:   store,
		auth:    &fakeAuth{store: store},
		docs:    &fakeDocs{},
		backend: &stubBackend{},
	}
	a := &App{
		config:      &config.Config{},
		logger:      logging.Nop(),
		store:       store,
		authService: env.auth,
		docService:  env.docs,
		render:      NewRenderer(out, false),
		reader:      bufio.NewReader(strings.NewReader(strings.Join(input, "\n") + "\n")),
		out:         io.Discard,
	}
	manager := transcript.NewManager(env.backend, transcript.WithOnChange(a.onTranscriptChange))
	a.chat = services.NewChatService(manager, env.backend, store, nil)
	env.app = a
	return env
}

func (e *testEnv) loginAs(t *testing.T, u models.User) {
	t.Helper()
	require.NoError(t, e.store.SetToken(context.Background(), "tok"))
	require.NoError(t, e.store.SetUser(context.Background(), u))
}

var (
	alice   = models.User{ID: 1, Username: "alice", Plan: common.PlanFree}
	premium = models.User{ID: 2, Username: "pat", Plan: common.PlanPremium}
	root    = models.User{ID: 3, Username: "root", IsAdmin: true, Plan: common.PlanPremium}
)

// ------------ tests ------------

func TestLogin_SuccessShowsDashboard(t *testing.T) {
	stubTerminal(t, false, "", nil)
	env := newTestApp(t, "alice", "pw")
	env.auth.loginUser = &alice

	require.NoError(t, env.app.Login(context.Background()))
	assert.True(t, env.app.isLoggedIn())
	assert.Contains(t, env.out.String(), "Login successful!")
	assert.Contains(t, env.out.String(), "User Dashboard")
	assert.Contains(t, env.out.String(), "welcome")
}

func TestLogin_FailureShowsDetail(t *testing.T) {
	stubTerminal(t, false, "", nil)
	env := newTestApp(t, "alice", "bad")
	env.auth.loginErr = &client.APIError{Status: 401, Detail: "Incorrect username or password"}

	require.Error(t, env.app.Login(context.Background()))
	assert.False(t, env.app.isLoggedIn())
	assert.Contains(t, env.out.String(), "Incorrect username or password")
}

func TestLogin_ProfileUnavailableStaysLoggedIn(t *testing.T) {
	stubTerminal(t, false, "", nil)
	env := newTestApp(t, "alice", "pw")
	env.auth.loginErr = services.ErrProfileUnavailable

	require.NoError(t, env.app.Login(context.Background()))
	assert.True(t, env.app.isLoggedIn())
	assert.Contains(t, env.out.String(), "Error getting user details")
}

func TestRegister(t *testing.T) {
	stubTerminal(t, false, "", nil)

	env := newTestApp(t, "carol", "longpassword", "longpassword", "Premium")
	require.NoError(t, env.app.Register(context.Background()))
	assert.Equal(t, "carol", env.auth.regUser)
	assert.Equal(t, common.PlanPremium, env.auth.regPlan)
	assert.Contains(t, env.out.String(), "Registration successful")
	assert.False(t, env.app.isLoggedIn())

	env = newTestApp(t, "carol", "one", "two")
	require.ErrorIs(t, env.app.Register(context.Background()), services.ErrPasswordMismatch)
	assert.Empty(t, env.auth.regUser)

	env = newTestApp(t, "carol", "pw", "pw", "gold")
	require.ErrorIs(t, env.app.Register(context.Background()), common.ErrUnknownPlan)

	env = newTestApp(t, "dave", "pw", "pw", "")
	require.NoError(t, env.app.Register(context.Background()))
	assert.Equal(t, common.PlanFree, env.auth.regPlan)
}

func TestAsk_PrintsReplyWhenSettled(t *testing.T) {
	env := newTestApp(t)
	env.loginAs(t, alice)
	env.backend.answer = "Hi **there**"

	require.NoError(t, env.app.Ask(context.Background(), "Hello"))
	env.app.chat.Wait()

	out := env.out.String()
	assert.Contains(t, out, "Assistant: ...")
	assert.Contains(t, out, "Assistant: Hi **there**")
	assert.NotContains(t, out, "You: Hello", "user input is not echoed")
}

func TestAsk_FailureShowsFixedError(t *testing.T) {
	env := newTestApp(t)
	env.loginAs(t, alice)
	env.backend.err = errors.New("boom")

	require.NoError(t, env.app.Ask(context.Background(), "Hello"))
	env.app.chat.Wait()
	assert.Contains(t, env.out.String(), transcript.TextErrorText)
}

func TestImage_RequiresPremium(t *testing.T) {
	env := newTestApp(t)
	env.loginAs(t, alice)

	require.ErrorIs(t, env.app.Image(context.Background(), "a cat"), services.ErrPlanRequired)
	assert.Contains(t, env.out.String(), "requires the premium plan")
	assert.Empty(t, env.app.chat.Messages())
}

func TestImageAndSaveImage(t *testing.T) {
	env := newTestApp(t)
	env.loginAs(t, premium)
	env.backend.fetch = []byte("downloaded")
	env.backend.image = &models.ImageResponse{
		ImageURL:  "http://docs/images/cat.png",
		ImageData: base64.StdEncoding.EncodeToString([]byte("not really a png")),
	}

	require.NoError(t, env.app.Image(context.Background(), "a cat"))
	env.app.chat.Wait()
	assert.Contains(t, env.out.String(), "[image url: http://docs/images/cat.png]")

	path := filepath.Join(t.TempDir(), "cat.png")
	require.NoError(t, env.app.SaveImage(context.Background(), path))
	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("downloaded"), got, "undecodable inline data falls back to the url")
}

func TestSaveImage_NothingToSave(t *testing.T) {
	env := newTestApp(t)
	env.loginAs(t, premium)
	require.ErrorIs(t, env.app.SaveImage(context.Background(), filepath.Join(t.TempDir(), "x.png")), services.ErrNoImage)
}

func TestHistoryAndClear(t *testing.T) {
	env := newTestApp(t)
	env.loginAs(t, alice)
	env.backend.answer = "pong"

	require.NoError(t, env.app.Ask(context.Background(), "ping"))
	env.app.chat.Wait()
	env.out.Reset()

	require.NoError(t, env.app.History(context.Background()))
	assert.Contains(t, env.out.String(), "You: ping")
	assert.Contains(t, env.out.String(), "Assistant: pong")

	require.NoError(t, env.app.Clear(context.Background()))
	env.out.Reset()
	require.NoError(t, env.app.History(context.Background()))
	assert.Contains(t, env.out.String(), "No messages yet")
}

func TestOnUnauthorized_LogsOutAndResets(t *testing.T) {
	env := newTestApp(t)
	env.loginAs(t, alice)
	env.backend.answer = "x"
	require.NoError(t, env.app.Ask(context.Background(), "hi"))
	env.app.chat.Wait()

	env.app.onUnauthorized(context.Background())

	assert.False(t, env.app.isLoggedIn())
	assert.Nil(t, env.store.User())
	assert.Empty(t, env.app.chat.Messages())
	assert.Contains(t, env.out.String(), "Session expired, please login again")

	env.out.Reset()
	env.app.onUnauthorized(context.Background())
	assert.Empty(t, env.out.String(), "announced once")
}

func TestLogout(t *testing.T) {
	env := newTestApp(t)
	env.loginAs(t, alice)
	env.app.chat.UseDocument(3)

	require.NoError(t, env.app.Logout(context.Background()))
	assert.False(t, env.app.isLoggedIn())
	assert.Zero(t, env.app.chat.Document())
	assert.Contains(t, env.out.String(), "Logged out successfully")
}

func TestDashboard_DeniedNotice(t *testing.T) {
	env := newTestApp(t)
	env.loginAs(t, root)
	env.auth.dashboard = &services.DashboardView{Denied: true, User: &root, Data: models.Dashboard{"message": "regular"}}

	require.NoError(t, env.app.Dashboard(context.Background()))
	assert.Contains(t, env.out.String(), "Admin access required")
	assert.Contains(t, env.out.String(), "regular")
}

func TestUsers(t *testing.T) {
	env := newTestApp(t)
	env.loginAs(t, alice)
	env.auth.usersErr = services.ErrNotAdmin
	require.Error(t, env.app.Users(context.Background()))
	assert.Contains(t, env.out.String(), "Admin access required")

	env = newTestApp(t)
	env.loginAs(t, root)
	env.auth.users = []models.User{root, alice}
	require.NoError(t, env.app.Users(context.Background()))
	assert.Contains(t, env.out.String(), "Administrator")
	assert.Contains(t, env.out.String(), "alice")
}

func TestChangePlan(t *testing.T) {
	env := newTestApp(t)
	env.loginAs(t, alice)

	require.ErrorIs(t, env.app.ChangePlan(context.Background(), "gold"), common.ErrUnknownPlan)
	require.NoError(t, env.app.ChangePlan(context.Background(), "STANDARD"))
	assert.Equal(t, common.PlanStandard, env.auth.planSet)
	assert.Contains(t, env.out.String(), "Plan updated to standard successfully!")

	env.auth.planErr = &client.APIError{Status: 400}
	require.Error(t, env.app.ChangePlan(context.Background(), "free"))
	assert.Contains(t, env.out.String(), "Failed to update plan. Please try again.")
}

func TestChangePassword(t *testing.T) {
	stubTerminal(t, false, "", nil)
	env := newTestApp(t, "old", "newpassword", "newpassword")
	env.loginAs(t, alice)

	require.NoError(t, env.app.ChangePassword(context.Background()))
	assert.Equal(t, [3]string{"old", "newpassword", "newpassword"}, env.auth.pwArgs)
	assert.Contains(t, env.out.String(), "Password updated successfully!")
}

func TestDocuments(t *testing.T) {
	env := newTestApp(t, "", "line one", "")
	env.loginAs(t, alice)
	env.docs.docs = []models.Document{{ID: 1, Title: "Report", OriginalFilename: "report.txt"}}
	ctx := context.Background()

	require.NoError(t, env.app.UseDoc(ctx, "1"))
	assert.Equal(t, 1, env.app.chat.Document())

	require.NoError(t, env.app.Docs(ctx))
	assert.Contains(t, env.out.String(), "Report")

	require.Error(t, env.app.UseDoc(ctx, "9"))
	assert.Contains(t, env.out.String(), "Document not found")
	require.Error(t, env.app.ShowDoc(ctx, "abc"))

	require.NoError(t, env.app.RemoveDoc(ctx, "1"))
	assert.Equal(t, 1, env.docs.deleted)
	assert.Zero(t, env.app.chat.Document(), "deleting the selected document clears the selection")

	require.NoError(t, env.app.UseDoc(ctx, "all"))

	require.NoError(t, env.app.Upload(ctx, "/tmp/report.txt"))
	assert.Equal(t, [3]string{"/tmp/report.txt", "", "line one"}, env.docs.uploaded)
}

func TestGetStatusAndMode(t *testing.T) {
	env := newTestApp(t)
	assert.Empty(t, env.app.getStatus())

	env.app.setMode(ModeOnline)
	assert.Equal(t, "(online)", env.app.getStatus())

	env.loginAs(t, alice)
	assert.Equal(t, "(alice/free online)", env.app.getStatus())

	env.app.setMode(ModeOffline)
	env.app.setMode(ModeOffline)
	assert.Equal(t, 1, strings.Count(env.out.String(), "switched to offline mode"))
}

func TestStartOnlineStatusWatcher(t *testing.T) {
	env := newTestApp(t)
	env.auth.pingErr = errors.New("down")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		env.app.StartOnlineStatusWatcher(ctx, 10*time.Millisecond)
		close(done)
	}()

	require.Eventually(t, func() bool { return env.app.currentMode() == ModeOffline }, 2*time.Second, time.Millisecond)
	cancel()
	<-done
}

func TestRoot_PromptSharesRendererWithAsyncOutput(t *testing.T) {
	const lines = 50
	env := newTestApp(t, strings.Repeat("\n", lines)+"exit")

	done := make(chan struct{})
	go func() {
		defer close(done)
		for range lines {
			env.app.render.Warn("Session expired, please login again")
		}
	}()
	env.app.Root(context.Background())
	<-done

	got := env.out.String()
	assert.Contains(t, got, "Welcome to chatdesk")
	assert.Equal(t, lines+1, strings.Count(got, "> \n"), "one prompt per input line")
	assert.Equal(t, lines, strings.Count(got, "Session expired, please login again"))
	assert.Contains(t, got, "Bye!")
}
