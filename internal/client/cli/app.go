package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/staffbook/internal/client/api"
	"github.com/dmitrijs2005/staffbook/internal/client/config"
	"github.com/dmitrijs2005/staffbook/internal/client/session"
)

type apiClient interface {
	SetToken(token string)
	PictureURL(ref string) string
	Signup(ctx context.Context, username, email, password string) (*api.AuthResponse, error)
	Login(ctx context.Context, email, password string) (*api.AuthResponse, error)
	ListEmployees(ctx context.Context) ([]api.Employee, error)
	SearchEmployees(ctx context.Context, department, position string) ([]api.Employee, error)
	GetEmployee(ctx context.Context, id string) (*api.Employee, error)
	CreateEmployee(ctx context.Context, f api.EmployeeForm, pic *api.Upload) (*api.Employee, error)
	UpdateEmployee(ctx context.Context, id string, f api.EmployeeForm, pic *api.Upload) (*api.Employee, error)
	DeleteEmployee(ctx context.Context, id string) error
}

type sessionStore interface {
	Load(ctx context.Context) (*session.Session, error)
	Save(ctx context.Context, s session.Session) error
	Clear(ctx context.Context) error
	Close() error
}

type App struct {
	api      apiClient
	sessions sessionStore
	session  *session.Session
	reader   *bufio.Reader
	out      io.Writer
	openFile func(name string) (io.ReadCloser, error)
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	store, err := session.Open(ctx, c.SessionDSN)
	if err != nil {
		return nil, fmt.Errorf("error initializing session store: %w", err)
	}

	a := newApp(api.New(c.ServerURL, c.RequestTimeout), store, os.Stdin, os.Stdout)
	if err := a.restoreSession(ctx); err != nil {
		_ = store.Close()
		return nil, err
	}
	return a, nil
}

func newApp(ac apiClient, ss sessionStore, in io.Reader, out io.Writer) *App {
	return &App{
		api:      ac,
		sessions: ss,
		reader:   bufio.NewReader(in),
		out:      out,
		openFile: func(name string) (io.ReadCloser, error) { return os.Open(name) },
	}
}

func (a *App) Run(ctx context.Context) {
	defer a.sessions.Close()

	fmt.Fprintln(a.out, "Welcome to staffbook (type 'help' for commands)")
	if !a.isLoggedIn() {
		fmt.Fprintln(a.out, "You are not logged in: use 'login' or 'signup'.")
	}

	runREPL(ctx, a, a.getStatus, a.reader, a.out)
}

func (a *App) isLoggedIn() bool {
	return a.session != nil
}

func (a *App) getStatus() string {
	if a.session == nil {
		return ""
	}
	return fmt.Sprintf("(%s)", a.session.Username)
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}
