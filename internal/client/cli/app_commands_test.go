package cli

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avelasquez-dev/taskdeck/internal/client/config"
	"github.com/avelasquez-dev/taskdeck/internal/client/models"
	"github.com/avelasquez-dev/taskdeck/internal/client/tasks"
	"github.com/avelasquez-dev/taskdeck/internal/common"
)

type fakeAuth struct {
	loginErr      error
	loginCalls    int
	logoutCalls   int
	checkAuthRet  bool
	watcherStarts atomic.Int32
}

func (f *fakeAuth) Login(ctx context.Context, identifier, secret string) (*models.Credentials, error) {
	f.loginCalls++
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return &models.Credentials{AccessToken: "at", RefreshToken: "rt"}, nil
}
func (f *fakeAuth) Register(ctx context.Context, reg models.Registration) (*models.User, error) {
	return &models.User{Username: reg.Username}, nil
}
func (f *fakeAuth) Logout(ctx context.Context) error { f.logoutCalls++; return nil }
func (f *fakeAuth) CheckAuth(ctx context.Context) bool {
	return f.checkAuthRet
}
func (f *fakeAuth) StartLivenessWatcher(ctx context.Context, interval time.Duration) {
	f.watcherStarts.Add(1)
	<-ctx.Done()
}

type fakeProfile struct {
	me        *models.User
	meErr     error
	updateErr error
	lastPatch models.UserPatch
}

func (f *fakeProfile) Me(ctx context.Context) (*models.User, error) { return f.me, f.meErr }
func (f *fakeProfile) Update(ctx context.Context, patch models.UserPatch) (*models.User, error) {
	f.lastPatch = patch
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return f.me, nil
}

type fakeStore struct {
	fetchCalls  int
	fetchErr    error
	createErr   error
	updateErr   error
	deleteErr   error
	tasksRet    []models.Task
	lastStatus  models.Status
	lastID      int64
	statusCalls int
	searchQuery string
}

func (f *fakeStore) FetchTasks(ctx context.Context) error { f.fetchCalls++; return f.fetchErr }
func (f *fakeStore) GetTask(ctx context.Context, id int64) (*models.Task, error) {
	f.lastID = id
	if len(f.tasksRet) == 0 {
		return nil, common.ErrNotFound
	}
	t := f.tasksRet[0]
	return &t, nil
}
func (f *fakeStore) CreateTask(ctx context.Context, draft models.TaskDraft) (*models.Task, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &models.Task{ID: 1, Title: draft.Title}, nil
}
func (f *fakeStore) UpdateTask(ctx context.Context, id int64, patch models.TaskPatch) error {
	f.lastID = id
	return f.updateErr
}
func (f *fakeStore) UpdateTaskStatus(ctx context.Context, id int64, status models.Status) error {
	f.statusCalls++
	f.lastID = id
	f.lastStatus = status
	return f.updateErr
}
func (f *fakeStore) DeleteTask(ctx context.Context, id int64) error {
	f.lastID = id
	return f.deleteErr
}
func (f *fakeStore) Tasks() []models.Task          { return f.tasksRet }
func (f *fakeStore) Recent() []models.Task         { return f.tasksRet }
func (f *fakeStore) Stats() tasks.Stats            { return tasks.Stats{Total: len(f.tasksRet)} }
func (f *fakeStore) SetSearchQuery(query string)   { f.searchQuery = query }
func (f *fakeStore) SetPage(page int)              {}
func (f *fakeStore) PaginatedTasks() ([]models.Task, tasks.Pagination) {
	return f.tasksRet, tasks.Pagination{CurrentPage: 1, TotalPages: 1, TotalItems: len(f.tasksRet)}
}

func muteOutput(t *testing.T) {
	t.Helper()
	origPrint := printlnFn
	printlnFn = func(...any) (int, error) { return 0, nil }
	t.Cleanup(func() { printlnFn = origPrint })
}

func stubInputs(t *testing.T, lines []string, passwords [][]byte) {
	t.Helper()
	origText := getSimpleText
	origPass := getPassword

	ti, pi := 0, 0
	getSimpleText = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) {
		if ti >= len(lines) {
			return "", io.EOF
		}
		s := lines[ti]
		ti++
		return s, nil
	}
	getPassword = func(_ string, _ io.Writer) ([]byte, error) {
		if pi >= len(passwords) {
			return nil, io.EOF
		}
		p := passwords[pi]
		pi++
		return p, nil
	}

	t.Cleanup(func() {
		getSimpleText = origText
		getPassword = origPass
	})
}

func testApp() (*App, *fakeAuth, *fakeStore, *fakeProfile) {
	cfg := &config.Config{}
	cfg.LoadDefaults()

	auth := &fakeAuth{}
	store := &fakeStore{}
	profile := &fakeProfile{me: &models.User{Username: "ana", Email: "ana@example.com"}}

	app := &App{
		config:  cfg,
		auth:    auth,
		store:   store,
		profile: profile,
		reader:  bufio.NewReader(strings.NewReader("")),
	}
	app.userName = "ana"
	return app, auth, store, profile
}

func TestApp_Login_Success(t *testing.T) {
	muteOutput(t)
	stubInputs(t, []string{"ana"}, [][]byte{[]byte("secret")})

	app, auth, store, _ := testApp()
	app.userName = ""
	t.Cleanup(app.stopWatcher)

	require.NoError(t, app.Login(context.Background()))

	assert.Equal(t, 1, auth.loginCalls)
	assert.Equal(t, 1, store.fetchCalls, "tasks are fetched right after login")
	assert.Equal(t, "ana", app.userName)
	assert.True(t, app.isLoggedIn())

	require.Eventually(t, func() bool { return auth.watcherStarts.Load() == 1 },
		time.Second, 10*time.Millisecond, "liveness watcher must start")
}

func TestApp_Login_InvalidCredentials(t *testing.T) {
	muteOutput(t)
	stubInputs(t, []string{"ana"}, [][]byte{[]byte("wrong")})

	app, auth, _, _ := testApp()
	app.userName = ""
	auth.loginErr = common.ErrInvalidCredentials

	err := app.Login(context.Background())
	require.ErrorIs(t, err, common.ErrInvalidCredentials)
	assert.False(t, app.isLoggedIn())
}

func TestApp_Register_PasswordMismatch(t *testing.T) {
	muteOutput(t)
	stubInputs(t, []string{"ana@example.com", "ana"}, [][]byte{[]byte("one"), []byte("two")})

	app, _, _, _ := testApp()
	err := app.Register(context.Background())
	require.ErrorIs(t, err, common.ErrValidation)
}

func TestApp_Logout(t *testing.T) {
	muteOutput(t)

	app, auth, _, _ := testApp()
	app.userName = "ana"

	require.NoError(t, app.Logout(context.Background()))
	assert.Equal(t, 1, auth.logoutCalls)
	assert.False(t, app.isLoggedIn())
}

func TestApp_Done_And_Start(t *testing.T) {
	muteOutput(t)

	app, _, store, _ := testApp()

	require.NoError(t, app.Done(context.Background(), "42"))
	assert.EqualValues(t, 42, store.lastID)
	assert.Equal(t, models.StatusCompleted, store.lastStatus)

	require.NoError(t, app.Start(context.Background(), "7"))
	assert.Equal(t, models.StatusInProgress, store.lastStatus)
}

func TestApp_Done_BadID(t *testing.T) {
	muteOutput(t)

	app, _, store, _ := testApp()

	require.Error(t, app.Done(context.Background(), "abc"))
	assert.Zero(t, store.statusCalls)
}

func TestApp_Delete(t *testing.T) {
	muteOutput(t)

	app, _, store, _ := testApp()

	require.NoError(t, app.Delete(context.Background(), "5"))
	assert.EqualValues(t, 5, store.lastID)

	store.deleteErr = common.ErrNotFound
	require.ErrorIs(t, app.Delete(context.Background(), "99"), common.ErrNotFound)
}

func TestApp_Search(t *testing.T) {
	muteOutput(t)

	app, _, store, _ := testApp()
	require.NoError(t, app.Search(context.Background(), "report"))
	assert.Equal(t, "report", store.searchQuery)
}

func TestApp_Add(t *testing.T) {
	muteOutput(t)
	// title, priority, due date; description comes from the multiline
	// reader which hits an immediate empty line.
	stubInputs(t, []string{"new task", "high", "2026-09-01"}, nil)

	app, _, _, _ := testApp()
	app.reader = bufio.NewReader(strings.NewReader("\n"))

	require.NoError(t, app.Add(context.Background()))
}

func TestApp_Profile_Update(t *testing.T) {
	muteOutput(t)
	stubInputs(t, []string{"new@example.com", "", ""}, nil)

	app, _, _, profile := testApp()
	require.NoError(t, app.Profile(context.Background()))

	require.NotNil(t, profile.lastPatch.Email)
	assert.Equal(t, "new@example.com", *profile.lastPatch.Email)
	assert.Nil(t, profile.lastPatch.FirstName)
}

func TestApp_SessionExpiredFlag(t *testing.T) {
	muteOutput(t)

	app, _, _, _ := testApp()
	app.userName = "ana"
	require.True(t, app.isLoggedIn())

	app.onSessionExpired()
	assert.False(t, app.isLoggedIn())
	assert.Empty(t, app.getStatus())
}

var errBoom = errors.New("boom")

func TestApp_List_FetchFailureStillRenders(t *testing.T) {
	muteOutput(t)

	app, _, store, _ := testApp()
	store.fetchErr = errBoom
	store.tasksRet = []models.Task{{ID: 1, Title: "kept"}}

	require.NoError(t, app.List(context.Background()))
	assert.Equal(t, 1, store.fetchCalls)
}

func TestApp_Show(t *testing.T) {
	muteOutput(t)

	app, _, store, _ := testApp()
	store.tasksRet = []models.Task{{ID: 3, Title: "detail"}}

	require.NoError(t, app.Show(context.Background(), "3"))
	assert.EqualValues(t, 3, store.lastID)
}

func TestApp_CommandsRequireLogin(t *testing.T) {
	muteOutput(t)

	app, _, store, _ := testApp()
	app.userName = ""

	require.ErrorIs(t, app.List(context.Background()), common.ErrSessionExpired)
	require.ErrorIs(t, app.Add(context.Background()), common.ErrSessionExpired)
	require.ErrorIs(t, app.Done(context.Background(), "1"), common.ErrSessionExpired)
	require.ErrorIs(t, app.Me(context.Background()), common.ErrSessionExpired)
	assert.Zero(t, store.fetchCalls)
	assert.Zero(t, store.statusCalls)
}
