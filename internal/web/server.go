package web

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"staff-bot/internal/schedule"
)

// Server is the read-only staff dashboard: a health endpoint, a JSON
// mirror of today's prep checklists, and Prometheus metrics. No auth;
// it serves a kitchen tablet on the local network.
type Server struct {
	svc     *schedule.Service
	loc     *time.Location
	log     *zap.Logger
	started time.Time
}

func NewServer(svc *schedule.Service, loc *time.Location, log *zap.Logger) *Server {
	return &Server{svc: svc, loc: loc, log: log, started: time.Now()}
}

func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", s.health)
	r.GET("/api/preps", s.preps)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	return r
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"uptime": time.Since(s.started).Round(time.Second).String(),
	})
}

func (s *Server) preps(c *gin.Context) {
	now := time.Now().In(s.loc)
	day := (int(now.Weekday()) + 6) % 7

	ctx := c.Request.Context()
	c.JSON(http.StatusOK, gin.H{
		"date":       now.Format("02.01.2006"),
		"is_morning": now.Hour() < 15,
		"morning":    s.svc.PrepsFor(ctx, day, true),
		"evening":    s.svc.PrepsFor(ctx, day, false),
	})
}

// Run serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Router(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	s.log.Info("dashboard listening", zap.String("addr", addr))

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}
