package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"goldmart/internal/poll"
)

const (
	watchOrders = "admin-orders"
	watchUsers  = "admin-users"
)

func (s *Server) watchFunc(name string) poll.Func {
	switch name {
	case watchOrders:
		return func(ctx context.Context) (any, error) { return s.d.Admin.API.AdminOrders(ctx) }
	default:
		return func(ctx context.Context) (any, error) { return s.d.Admin.Users(ctx) }
	}
}

// handleWatch starts re-fetching a list every poll interval. The loop runs
// under the server's lifetime, not the request's.
func (s *Server) handleWatch(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		s.d.Polls.Start(s.base, name, s.d.Config.PollInterval, s.watchFunc(name))
		c.JSON(http.StatusAccepted, gin.H{"watching": name, "interval": s.d.Config.PollInterval.String()})
	}
}

func (s *Server) handleUnwatch(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.d.Polls.Stop(name) {
			s.abort(c, http.StatusNotFound, "NotFound", name+" is not being watched")
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// Watched is the latest successful value of a running watch.
func (s *Server) Watched(name string) (any, bool) {
	if !s.d.Polls.Running(name) {
		return nil, false
	}
	r, ok := s.d.Polls.Latest(name)
	if !ok || r.Err != nil || r.Value == nil {
		return nil, false
	}
	return r.Value, true
}

// rewatch restarts a running watch so the next read reflects a change this
// gateway just made.
func (s *Server) rewatch(name string) {
	if s.d.Polls.Running(name) {
		s.d.Polls.Start(s.base, name, s.d.Config.PollInterval, s.watchFunc(name))
	}
}
