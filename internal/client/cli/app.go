package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"sync/atomic"
	"time"

	_ "modernc.org/sqlite"

	"github.com/avelasquez-dev/taskdeck/internal/client/api"
	"github.com/avelasquez-dev/taskdeck/internal/client/config"
	"github.com/avelasquez-dev/taskdeck/internal/client/credstore"
	"github.com/avelasquez-dev/taskdeck/internal/client/models"
	"github.com/avelasquez-dev/taskdeck/internal/client/session"
	"github.com/avelasquez-dev/taskdeck/internal/client/tasks"
	"github.com/avelasquez-dev/taskdeck/internal/client/users"
	"github.com/avelasquez-dev/taskdeck/internal/common"
	"github.com/avelasquez-dev/taskdeck/internal/logging"
)

// authService is the slice of session.Controller the CLI needs.
type authService interface {
	Login(ctx context.Context, identifier, secret string) (*models.Credentials, error)
	Register(ctx context.Context, reg models.Registration) (*models.User, error)
	Logout(ctx context.Context) error
	CheckAuth(ctx context.Context) bool
	StartLivenessWatcher(ctx context.Context, interval time.Duration)
}

// profileService is the slice of users.Service the CLI needs.
type profileService interface {
	Me(ctx context.Context) (*models.User, error)
	Update(ctx context.Context, patch models.UserPatch) (*models.User, error)
}

// taskStore is the slice of tasks.Store the CLI needs.
type taskStore interface {
	FetchTasks(ctx context.Context) error
	GetTask(ctx context.Context, id int64) (*models.Task, error)
	CreateTask(ctx context.Context, draft models.TaskDraft) (*models.Task, error)
	UpdateTask(ctx context.Context, id int64, patch models.TaskPatch) error
	UpdateTaskStatus(ctx context.Context, id int64, status models.Status) error
	DeleteTask(ctx context.Context, id int64) error
	Tasks() []models.Task
	Recent() []models.Task
	Stats() tasks.Stats
	SetSearchQuery(query string)
	SetPage(page int)
	PaginatedTasks() ([]models.Task, tasks.Pagination)
}

type App struct {
	config  *config.Config
	log     logging.Logger
	auth    authService
	store   taskStore
	profile profileService

	db     *sql.DB
	reader *bufio.Reader

	userName      string
	expired       atomic.Bool
	watcherCancel context.CancelFunc
}

// refresherHandle breaks the construction cycle between the transport and
// the refresher: the transport is built first and delegates to whatever
// refresher is set afterwards.
type refresherHandle struct {
	r atomic.Pointer[session.Refresher]
}

func (h *refresherHandle) Refresh(ctx context.Context) bool {
	if r := h.r.Load(); r != nil {
		return r.Refresh(ctx)
	}
	return false
}

func NewApp(c *config.Config, log logging.Logger) (*App, error) {
	if log == nil {
		log = logging.Nop()
	}

	ctx := context.Background()

	db, err := credstore.Open(ctx, c.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open credential database: %w", err)
	}

	origin, err := url.Parse(c.ServerBaseURL)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("invalid server base URL: %w", err)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		db.Close()
		return nil, err
	}

	creds := credstore.NewDualStore(
		credstore.NewCookieMedium(jar, origin),
		credstore.NewLocalMedium(db),
		log,
	)

	handle := &refresherHandle{}
	transport := api.NewTransport(creds, handle, log)
	transport.ExpiryThreshold = c.RefreshThreshold

	httpc := &http.Client{Transport: transport, Jar: jar, Timeout: 30 * time.Second}

	apiClient, err := api.NewHTTPClient(c.ServerBaseURL, httpc, log)
	if err != nil {
		db.Close()
		return nil, err
	}

	refresher := session.NewRefresher(creds, apiClient, log)
	handle.r.Store(refresher)

	controller := session.NewController(apiClient, creds, refresher, log)
	controller.ExpiryThreshold = c.RefreshThreshold

	app := &App{
		config:  c,
		log:     log,
		auth:    controller,
		store:   tasks.NewStore(apiClient, log),
		profile: users.NewService(apiClient, log),
		db:      db,
		reader:  bufio.NewReader(os.Stdin),
	}
	transport.OnSessionExpired = app.onSessionExpired

	return app, nil
}

// onSessionExpired is called by the request pipeline after a session
// teardown. It may fire from any goroutine; the REPL reads the flag on
// its next prompt.
func (a *App) onSessionExpired() {
	if a.expired.CompareAndSwap(false, true) {
		printlnFn("Session expired, please log in again.")
	}
}

func (a *App) isLoggedIn() bool {
	return a.userName != "" && !a.expired.Load()
}

// requireLogin gates commands that need an authenticated session.
func (a *App) requireLogin() error {
	if a.isLoggedIn() {
		return nil
	}
	printlnFn("Please log in first.")
	return common.ErrSessionExpired
}

func (a *App) getStatus() string {
	if a.userName == "" || a.expired.Load() {
		return ""
	}
	return fmt.Sprintf("(%s)", a.userName)
}

func (a *App) startWatcher(ctx context.Context) {
	a.stopWatcher()
	wctx, cancel := context.WithCancel(ctx)
	a.watcherCancel = cancel
	go a.auth.StartLivenessWatcher(wctx, a.config.LivenessInterval)
}

func (a *App) stopWatcher() {
	if a.watcherCancel != nil {
		a.watcherCancel()
		a.watcherCancel = nil
	}
}

// Run starts the REPL and blocks until the user exits or stdin is closed.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	printlnFn("Welcome to taskdeck CLI (type 'help' for commands)")

	// A surviving session from a previous run skips the login prompt.
	if a.auth.CheckAuth(ctx) {
		if u, err := a.profile.Me(ctx); err == nil {
			a.userName = u.Username
			a.startWatcher(ctx)
			printlnFn("Welcome back,", u.Username)
		}
	}

	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.getStatus, scanner)
}

func (a *App) Close() {
	a.stopWatcher()
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.log.Error(context.Background(), "failed to close credential database", "error", err)
		}
	}
}
