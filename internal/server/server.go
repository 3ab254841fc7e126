package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"

	"github.com/iiviie/bbsfront/internal/config"
	"github.com/iiviie/bbsfront/internal/models"
	"github.com/iiviie/bbsfront/internal/submit"
)

//go:embed templates/*.html
var templateFS embed.FS

const shutdownTimeout = 5 * time.Second

// Board is the rendered board the server displays.
type Board interface {
	Table() models.Table
	Refresh(ctx context.Context) models.Table
	Subscribe(fn func(models.Table)) (unsubscribe func())
}

// Submitter handles post submissions.
type Submitter interface {
	Submit(ctx context.Context, key string, form models.Form) submit.Outcome
}

// Server serves the board page, the JSON API and the live websocket feed.
type Server struct {
	cfg         config.ServerConfig
	engine      *gin.Engine
	handler     http.Handler
	board       Board
	submitter   Submitter
	hub         *Hub
	unsubscribe func()
	log         logrus.FieldLogger
}

// New builds the router and subscribes the websocket hub to board updates.
func New(cfg config.ServerConfig, board Board, submitter Submitter, log logrus.FieldLogger) (*Server, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	log = log.WithField("component", "server")
	s := &Server{
		cfg:       cfg,
		board:     board,
		submitter: submitter,
		hub:       NewHub(cfg.CORSOrigins, log),
		log:       log,
	}

	r := gin.New()
	// With no trusted proxies the client IP is the peer address, so
	// X-Forwarded-For cannot pick a fresh throttle key.
	if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}
	r.Use(gin.Recovery(), requestID(), accessLog(log))
	r.SetHTMLTemplate(tmpl)
	s.routes(r)
	s.engine = r

	c := cors.New(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Content-Type", requestIDHeader},
		ExposedHeaders: []string{requestIDHeader},
	})
	s.handler = c.Handler(r)

	s.unsubscribe = board.Subscribe(s.hub.Broadcast)
	return s, nil
}

func (s *Server) routes(r *gin.Engine) {
	r.GET("/health", s.health)
	r.GET("/", s.index)
	r.POST("/posts", s.submitPage)
	r.GET("/ws", s.websocket)

	api := r.Group("/api")
	api.GET("/posts", s.listPosts)
	api.POST("/posts", s.createPost)
	api.POST("/refresh", s.refresh)
}

// Handler returns the HTTP handler, CORS included.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr(),
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.WithField("addr", srv.Addr).Info("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		s.Close()
		return err
	case <-ctx.Done():
	}

	s.log.Info("Shutting down server")
	s.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// Close detaches from the board and disconnects websocket clients.
func (s *Server) Close() {
	if s.unsubscribe != nil {
		s.unsubscribe()
		s.unsubscribe = nil
	}
	s.hub.Close()
}
