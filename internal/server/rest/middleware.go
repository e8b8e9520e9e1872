package rest

import (
	"errors"
	"strings"
	"time"

	"github.com/dmitrijs2005/staffbook/internal/common"
	"github.com/dmitrijs2005/staffbook/internal/logging"
	"github.com/dmitrijs2005/staffbook/internal/server/metrics"
	"github.com/gofiber/fiber/v2"
)

// requireAuth rejects requests without a valid bearer token before any
// handler runs.
func (s *Server) requireAuth(c *fiber.Ctx) error {
	token, ok := strings.CutPrefix(c.Get(common.AuthorizationHeaderName), common.BearerPrefix)
	token = strings.TrimSpace(token)
	if !ok || token == "" {
		return respond(c, fiber.StatusUnauthorized, msgNoToken)
	}

	userID, err := s.users.Verify(token)
	if err != nil {
		return s.fail(c, err, "verifying token")
	}

	c.SetUserContext(logging.ContextWith(c.UserContext(), "user_id", userID))
	return c.Next()
}

// observe logs every request and feeds the HTTP metrics.
func (s *Server) observe(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	latency := time.Since(start)

	status := c.Response().StatusCode()
	if err != nil {
		status = fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		}
	}

	route := c.Route().Path
	metrics.RecordHTTPRequest(c.Method(), route, status, latency)

	args := []any{
		"method", c.Method(),
		"path", c.Path(),
		"status", status,
		"latency", latency.String(),
	}
	s.logger.Info(c.UserContext(), "request", args...)

	return err
}
