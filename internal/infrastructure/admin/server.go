// Package admin serves the operator console over a websocket. Each JSON
// request carries one console line; the reply carries what it printed.
package admin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/younwookim/remnant/internal/application/console"
	"github.com/younwookim/remnant/internal/application/session"
	"github.com/younwookim/remnant/internal/infrastructure/logger"
)

// Executor runs one console line
type Executor interface {
	Execute(ctx context.Context, line string) (string, error)
}

// ExecutorFunc adapts a function to Executor
type ExecutorFunc func(ctx context.Context, line string) (string, error)

// Execute calls f
func (f ExecutorFunc) Execute(ctx context.Context, line string) (string, error) {
	return f(ctx, line)
}

// SessionExecutor runs lines through a console on the session's tick
// goroutine
func SessionExecutor(s *session.Session) Executor {
	con := console.New(s)
	return ExecutorFunc(func(ctx context.Context, line string) (string, error) {
		var out string
		err := s.Do(ctx, func(*session.Session) error {
			var err error
			out, err = con.Execute(line)
			return err
		})
		return out, err
	})
}

// Server is the admin HTTP endpoint
type Server struct {
	exec Executor
	addr string
	ctx  context.Context
}

// NewServer creates a server listening on addr
func NewServer(exec Executor, addr string) *Server {
	return &Server{exec: exec, addr: addr, ctx: context.Background()}
}

// Handler returns the routes: /ws for the console and /health
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("/health", s.handleHealth)
	return mux
}

// Run serves until ctx is done
func (s *Server) Run(ctx context.Context) error {
	s.ctx = ctx
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Log.WithField("addr", s.addr).Info("admin console listening")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return fmt.Errorf("admin server failed: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.WithError(err).Warn("admin upgrade failed")
		return
	}
	c := newClient(s.exec, conn)
	c.log.Info("admin client connected")
	go c.writePump()
	go c.readPump(s.ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
