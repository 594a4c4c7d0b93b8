// Package httpapi exposes the latest oxygen reading over HTTP and websocket.
package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jiaziui/oxygensensor/monitor"
)

const writeTimeout = 5 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type Server struct {
	store    *monitor.Store
	gatherer prometheus.Gatherer
	router   *gin.Engine
}

func New(store *monitor.Store, gatherer prometheus.Gatherer) *Server {
	gin.SetMode(gin.ReleaseMode)
	s := &Server{
		store:    store,
		gatherer: gatherer,
		router:   gin.New(),
	}
	s.router.Use(gin.Recovery())
	s.router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})))
	s.router.GET("/api/reading", s.latest)
	s.router.GET("/ws", s.stream)
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.router}
	errCh := make(chan error, 1)
	go func() {
		slog.Info("http api listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) latest(c *gin.Context) {
	r, ok := s.store.Latest()
	if !ok {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no reading yet"})
		return
	}
	c.JSON(http.StatusOK, r)
}

func (s *Server) stream(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()
	readings, cancel := s.store.Subscribe()
	defer cancel()

	// detect client close
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if r, ok := s.store.Latest(); ok {
		if err := s.send(conn, r); err != nil {
			return
		}
	}
	for {
		select {
		case r, ok := <-readings:
			if !ok {
				return
			}
			if err := s.send(conn, r); err != nil {
				slog.Debug("websocket client gone", "error", err)
				return
			}
		case <-closed:
			return
		case <-c.Request.Context().Done():
			return
		}
	}
}

func (s *Server) send(conn *websocket.Conn, r monitor.Reading) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return conn.WriteJSON(r)
}
