// Package status serves a read-only HTTP view of live sessions and
// recorded matches.
package status

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nstehr/rampart/agent"
	"github.com/nstehr/rampart/store"
)

const (
	defaultMatchLimit = 20
	maxMatchLimit     = 500
)

// SessionLister reports live sessions. *agent.Registry satisfies it.
type SessionLister interface {
	Sessions() []agent.Summary
}

// MatchReader reads recorded matches. *store.Store satisfies it.
type MatchReader interface {
	RecentMatches(ctx context.Context, limit int) ([]store.Match, error)
	MatchTurns(ctx context.Context, matchID string) ([]store.TurnRecord, error)
}

// SetupRouter builds the status routes. matches may be nil when no store is
// configured; the match routes then answer 503.
func SetupRouter(sessions SessionLister, matches MatchReader) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/sessions", sessionsHandler(sessions))
	r.GET("/matches", matchesHandler(matches))
	r.GET("/matches/:id/turns", turnsHandler(matches))

	return r
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		slog.Debug("status request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"elapsed", time.Since(start),
		)
	}
}

func sessionsHandler(sessions SessionLister) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"sessions": sessions.Sessions()})
	}
}

func matchesHandler(matches MatchReader) gin.HandlerFunc {
	return func(c *gin.Context) {
		if matches == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "match store disabled"})
			return
		}
		limit := defaultMatchLimit
		if raw := c.Query("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 1 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
				return
			}
			limit = min(n, maxMatchLimit)
		}

		list, err := matches.RecentMatches(c.Request.Context(), limit)
		if err != nil {
			slog.Error("list matches", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "list matches failed"})
			return
		}
		if list == nil {
			list = []store.Match{}
		}
		c.JSON(http.StatusOK, gin.H{"matches": list})
	}
}

func turnsHandler(matches MatchReader) gin.HandlerFunc {
	return func(c *gin.Context) {
		if matches == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "match store disabled"})
			return
		}
		id := c.Param("id")
		turns, err := matches.MatchTurns(c.Request.Context(), id)
		if err != nil {
			slog.Error("list turns", "match", id, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "list turns failed"})
			return
		}
		if len(turns) == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "no turns recorded for match"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"match": id, "turns": turns})
	}
}

// Serve runs handler on addr until ctx is cancelled, then shuts down.
func Serve(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("status server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
