package cli

import (
	"bytes"
	"context"
	"io"
	"strings"

	"github.com/dmitrijs2005/staffbook/internal/client/api"
	"github.com/dmitrijs2005/staffbook/internal/client/session"
)

type fakeAPI struct {
	token string

	authResp *api.AuthResponse
	authErr  error
	authArgs []string

	list        []api.Employee
	listErr     error
	searchDept  string
	searchPos   string
	employee    *api.Employee
	getErr      error
	submitted   *api.EmployeeForm
	submittedID string
	upload      *api.Upload
	uploadBody  string
	submitErr   error
	deletedID   string
	deleteErr   error
}

func (f *fakeAPI) SetToken(token string)        { f.token = token }
func (f *fakeAPI) PictureURL(ref string) string { return "http://srv/uploads/" + ref }

func (f *fakeAPI) Signup(_ context.Context, username, email, password string) (*api.AuthResponse, error) {
	f.authArgs = []string{username, email, password}
	return f.authResp, f.authErr
}

func (f *fakeAPI) Login(_ context.Context, email, password string) (*api.AuthResponse, error) {
	f.authArgs = []string{email, password}
	return f.authResp, f.authErr
}

func (f *fakeAPI) ListEmployees(context.Context) ([]api.Employee, error) {
	return f.list, f.listErr
}

func (f *fakeAPI) SearchEmployees(_ context.Context, department, position string) ([]api.Employee, error) {
	f.searchDept, f.searchPos = department, position
	return f.list, f.listErr
}

func (f *fakeAPI) GetEmployee(_ context.Context, id string) (*api.Employee, error) {
	return f.employee, f.getErr
}

func (f *fakeAPI) CreateEmployee(_ context.Context, form api.EmployeeForm, pic *api.Upload) (*api.Employee, error) {
	return f.submit("", form, pic)
}

func (f *fakeAPI) UpdateEmployee(_ context.Context, id string, form api.EmployeeForm, pic *api.Upload) (*api.Employee, error) {
	return f.submit(id, form, pic)
}

func (f *fakeAPI) submit(id string, form api.EmployeeForm, pic *api.Upload) (*api.Employee, error) {
	f.submittedID = id
	f.submitted = &form
	f.upload = pic
	if pic != nil {
		b, _ := io.ReadAll(pic.Body)
		f.uploadBody = string(b)
	}
	if f.submitErr != nil {
		return nil, f.submitErr
	}
	return &api.Employee{ID: "new-id"}, nil
}

func (f *fakeAPI) DeleteEmployee(_ context.Context, id string) error {
	f.deletedID = id
	return f.deleteErr
}

type fakeSessions struct {
	stored  *session.Session
	loadErr error
	saveErr error
	cleared bool
	closed  bool
}

func (f *fakeSessions) Load(context.Context) (*session.Session, error) {
	return f.stored, f.loadErr
}

func (f *fakeSessions) Save(_ context.Context, s session.Session) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.stored = &s
	return nil
}

func (f *fakeSessions) Clear(context.Context) error {
	f.cleared = true
	f.stored = nil
	return nil
}

func (f *fakeSessions) Close() error {
	f.closed = true
	return nil
}

type closeRecorder struct {
	io.Reader
	closed bool
}

func (c *closeRecorder) Close() error {
	c.closed = true
	return nil
}

// newTestApp builds an App reading the given input lines. Stdin is treated as
// a non-terminal so passwords come from the same input.
func newTestApp(t interface{ Cleanup(func()) }, input ...string) (*App, *fakeAPI, *fakeSessions, *bytes.Buffer) {
	orig := isTerminal
	isTerminal = func(int) bool { return false }
	t.Cleanup(func() { isTerminal = orig })

	ac := &fakeAPI{}
	ss := &fakeSessions{}
	out := &bytes.Buffer{}
	in := strings.Join(input, "\n")
	if len(input) > 0 {
		in += "\n"
	}
	return newApp(ac, ss, strings.NewReader(in), out), ac, ss, out
}

func loggedIn(a *App) {
	a.session = &session.Session{Token: "tok", UserID: "u1", Username: "alice123", Email: "alice@example.com"}
}
