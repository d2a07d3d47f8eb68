// Package httpapi is the HTTP JSON surface of the NutriGenie server. It
// composes the core services (dispatcher, accounts, history, photo archive)
// for browser and terminal clients; session state travels in a signed cookie
// and is handed to handlers explicitly, never through package globals.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dkovalev/nutrigenie/internal/dispatcher"
	"github.com/dkovalev/nutrigenie/internal/logging"
	"github.com/dkovalev/nutrigenie/internal/server/photos"
	"github.com/dkovalev/nutrigenie/internal/server/searches"
	"github.com/dkovalev/nutrigenie/internal/server/users"
)

type HTTPServer struct {
	address         string
	logger          logging.Logger
	users           *users.Service
	searches        *searches.Service
	photos          *photos.Service
	dispatcher      *dispatcher.Dispatcher
	jwtSecret       []byte
	sessionValidity time.Duration
}

func NewHTTPServer(address string, l logging.Logger, us *users.Service, ss *searches.Service, ps *photos.Service, d *dispatcher.Dispatcher, secretKey string, sessionValidity time.Duration) (*HTTPServer, error) {
	return &HTTPServer{
		address:         address,
		logger:          l.With("module", "http_server"),
		users:           us,
		searches:        ss,
		photos:          ps,
		dispatcher:      d,
		jwtSecret:       []byte(secretKey),
		sessionValidity: sessionValidity,
	}, nil
}

// Router builds the gin engine with all routes attached.
func (s *HTTPServer) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(s.requestLogMiddleware())

	api := r.Group("/api")
	{
		api.GET("/ping", s.handlePing)
		api.POST("/register", s.handleRegister)
		api.POST("/login", s.handleLogin)
		api.POST("/logout", s.handleLogout)

		// the dispatcher works without a session; history is only saved
		// when one is present
		api.POST("/ask", s.sessionMiddleware(false), s.handleAsk)

		authed := api.Group("", s.sessionMiddleware(true))
		{
			authed.GET("/history/:feature", s.handleListHistory)
			authed.DELETE("/history/:id", s.handleDeleteHistory)
			authed.POST("/photos", s.handleUploadPhoto)
			authed.GET("/photos", s.handleListPhotos)
		}
	}

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {

	srv := &http.Server{
		Addr:    s.address,
		Handler: s.Router(),
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
