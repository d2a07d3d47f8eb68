// Package server initializes and runs the NutriGenie application server.
// It wires the relational store, the model dispatcher and the HTTP API,
// and handles graceful shutdown on OS signals.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dkovalev/nutrigenie/internal/dispatcher"
	"github.com/dkovalev/nutrigenie/internal/genai"
	"github.com/dkovalev/nutrigenie/internal/logging"
	"github.com/dkovalev/nutrigenie/internal/server/config"
	"github.com/dkovalev/nutrigenie/internal/server/httpapi"
	"github.com/dkovalev/nutrigenie/internal/server/photos"
	"github.com/dkovalev/nutrigenie/internal/server/searches"
	"github.com/dkovalev/nutrigenie/internal/server/shared/db"
	"github.com/dkovalev/nutrigenie/internal/server/users"
)

type App struct {
	config        *config.Config
	logger        logging.Logger
	repos         db.RepositoryManager
	userService   *users.Service
	searchService *searches.Service
	photoService  *photos.Service
	dispatcher    *dispatcher.Dispatcher
}

func NewApp(c *config.Config) (*App, error) {

	sl := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(sl)

	rm, err := db.NewRepositoryManager(c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	us := users.NewService(rm.Users())
	ss := searches.NewService(rm.Searches(), us)
	ps := photos.NewService(rm.Photos(), c)

	gen := genai.NewClient(c.GenAIBaseURL, c.GenAIAPIKey)
	d := dispatcher.New(c.Models, gen, logger)

	return &App{
		config:        c,
		logger:        logger,
		repos:         rm,
		userService:   us,
		searchService: ss,
		photoService:  ps,
		dispatcher:    d,
	}, nil
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

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s, err := httpapi.NewHTTPServer(
		app.config.EndpointAddrHTTP,
		app.logger,
		app.userService,
		app.searchService,
		app.photoService,
		app.dispatcher,
		app.config.SecretKey,
		app.config.SessionTokenValidityDuration,
	)

	if err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
		return
	}

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.repos.Close(); err != nil {
		app.logger.Error(ctx, "closing db failed", "error", err.Error())
	}
}
