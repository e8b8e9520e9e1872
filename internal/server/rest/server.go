// Package rest exposes the staffbook HTTP API on top of fiber.
package rest

import (
	"context"
	"net"
	"strings"
	"time"

	"github.com/dmitrijs2005/staffbook/internal/common"
	"github.com/dmitrijs2005/staffbook/internal/dbx"
	"github.com/dmitrijs2005/staffbook/internal/logging"
	"github.com/dmitrijs2005/staffbook/internal/server/models"
	"github.com/dmitrijs2005/staffbook/internal/server/services"
	"github.com/dmitrijs2005/staffbook/internal/server/storage"
	"github.com/dmitrijs2005/staffbook/internal/server/validation"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	shutdownTimeout = 10 * time.Second
	healthTimeout   = 2 * time.Second
	// formOverhead is the room left in the body limit for the text fields of
	// a multipart upload.
	formOverhead = 1 << 20
)

type UserService interface {
	Register(ctx context.Context, in validation.SignupInput) (*services.AuthResult, error)
	Login(ctx context.Context, in validation.LoginInput) (*services.AuthResult, error)
	Verify(token string) (string, error)
}

type EmployeeService interface {
	Create(ctx context.Context, in validation.EmployeeInput, pic *storage.Picture) (*models.Employee, error)
	List(ctx context.Context) ([]models.Employee, error)
	Search(ctx context.Context, filter models.EmployeeFilter) ([]models.Employee, error)
	Get(ctx context.Context, id string) (*models.Employee, error)
	Update(ctx context.Context, id string, in validation.EmployeeInput, pic *storage.Picture) (*models.Employee, error)
	Delete(ctx context.Context, id string) error
}

// Presigner is implemented by picture stores that hand out temporary URLs
// instead of serving bytes themselves.
type Presigner interface {
	PresignedURL(ctx context.Context, ref string) (string, error)
}

// Options carries the collaborators of Server.
type Options struct {
	Address       string
	AllowOrigins  string
	MaxUploadSize int64
	Users         UserService
	Employees     EmployeeService
	Store         dbx.Pinger
	Pictures      storage.PictureStore
}

type Server struct {
	address   string
	app       *fiber.App
	logger    logging.Logger
	users     UserService
	employees EmployeeService
	store     dbx.Pinger
}

func NewServer(o Options, l logging.Logger) *Server {
	s := &Server{
		address:   o.Address,
		logger:    l.With("module", "rest_server"),
		users:     o.Users,
		employees: o.Employees,
		store:     o.Store,
	}

	s.app = fiber.New(fiber.Config{
		DisableStartupMessage: true,
		BodyLimit:             int(o.MaxUploadSize) + formOverhead,
		ErrorHandler:          s.errorHandler,
	})

	s.app.Use(s.observe)
	s.app.Use(cors.New(cors.Config{
		AllowOrigins: o.AllowOrigins,
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	s.routes(o.Pictures)

	return s
}

func (s *Server) routes(pictures storage.PictureStore) {
	s.app.Get("/health", s.health)
	s.app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	a := s.app.Group("/auth")
	a.Post("/signup", s.signup)
	a.Post("/login", s.login)

	e := s.app.Group("/employees", s.requireAuth)
	e.Post("/", s.createEmployee)
	e.Get("/", s.listEmployees)
	e.Get("/search", s.searchEmployees)
	e.Get("/:id", s.getEmployee)
	e.Put("/:id", s.updateEmployee)
	e.Delete("/:id", s.deleteEmployee)

	switch p := pictures.(type) {
	case *storage.DiskStore:
		s.app.Static(strings.TrimSuffix(common.UploadsPrefix, "/"), p.Dir())
	case Presigner:
		s.app.Get(common.UploadsPrefix+":key", s.redirectToPicture(p))
	}
}

// App exposes the underlying fiber application, mainly for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping REST server...")
		if err := s.app.ShutdownWithTimeout(shutdownTimeout); err != nil {
			s.logger.Error(ctx, "REST shutdown failed", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting REST server", "address", listen.Addr().String())

	return s.app.Listener(listen)
}
