// Package server wires configuration, the store, picture storage and the
// services together and runs the REST and gRPC endpoints until shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/staffbook/internal/logging"
	"github.com/dmitrijs2005/staffbook/internal/server/config"
	"github.com/dmitrijs2005/staffbook/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/staffbook/internal/server/rest"
	"github.com/dmitrijs2005/staffbook/internal/server/services"
	"github.com/dmitrijs2005/staffbook/internal/server/storage"

	gs "github.com/dmitrijs2005/staffbook/internal/server/grpc"
)

type App struct {
	config          *config.Config
	logger          logging.Logger
	db              *sql.DB
	pictures        storage.PictureStore
	userService     *services.UserService
	employeeService *services.EmployeeService
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger := logging.New(os.Stdout, c.LogFormat, c.LogLevel)

	if c.UsesDefaultSecret() {
		logger.Warn(ctx, "JWT secret is the development default; set JWT_SECRET before deploying")
	}

	db, err := repomanager.OpenPostgres(ctx, c.DatabaseDSN, c.StoreConnectTimeout, c.StoreSocketTimeout)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	m := repomanager.NewPostgresRepositoryManager()
	if err := m.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}

	pictures, err := newPictureStore(ctx, c)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &App{
		config:          c,
		logger:          logger,
		db:              db,
		pictures:        pictures,
		userService:     services.NewUserService(db, m, c),
		employeeService: services.NewEmployeeService(db, m, pictures, c.MaxUploadSize, logger),
	}, nil
}

func newPictureStore(ctx context.Context, c *config.Config) (storage.PictureStore, error) {
	switch c.PictureBackend {
	case config.PictureBackendDisk, "":
		return storage.NewDiskStore(c.UploadDir)
	case config.PictureBackendS3:
		return storage.NewS3Store(ctx, storage.S3Options{
			User:         c.S3RootUser,
			Password:     c.S3RootPassword,
			Bucket:       c.S3Bucket,
			Region:       c.S3Region,
			BaseEndpoint: c.S3BaseEndpoint,
		})
	}
	return nil, fmt.Errorf("unknown picture backend %q", c.PictureBackend)
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startRESTServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := rest.NewServer(rest.Options{
		Address:       app.config.EndpointAddrHTTP,
		AllowOrigins:  app.config.AllowOrigins,
		MaxUploadSize: app.config.MaxUploadSize,
		Users:         app.userService,
		Employees:     app.employeeService,
		Store:         app.db,
		Pictures:      app.pictures,
	}, app.logger)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.db)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run blocks until a termination signal arrives or one of the servers fails.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startRESTServer(ctx, cancelFunc)
	}()

	if app.config.EndpointAddrGRPC != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			app.startGRPCServer(ctx, cancelFunc)
		}()
	}

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "closing db", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}
