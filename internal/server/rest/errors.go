package rest

import (
	"errors"

	"github.com/dmitrijs2005/staffbook/internal/common"
	"github.com/gofiber/fiber/v2"
)

const (
	msgValidationFailed = "Validation failed"
	msgInvalidBody      = "Invalid request body"
	msgInvalidCreds     = "Invalid credentials"
	msgNoToken          = "No token, authorization denied"
	msgBadToken         = "Token is not valid"
	msgTokenExpired     = "Token has expired"
	msgNotFound         = "Employee not found"
	msgNoCriteria       = "Please provide department or position to search"
	msgStoreUnavailable = "Database connection error. Please make sure the database is running."
)

type messageResponse struct {
	Message string              `json:"message"`
	Errors  []common.FieldError `json:"errors,omitempty"`
}

func respond(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(messageResponse{Message: msg})
}

// fail writes the response for err. op completes the 500 message, e.g.
// "creating employee" gives "Server error creating employee".
func (s *Server) fail(c *fiber.Ctx, err error, op string) error {
	var (
		ve *common.ValidationError
		ce *common.ConflictError
	)

	switch {
	case errors.Is(err, common.ErrorNoSearchCriteria):
		return respond(c, fiber.StatusBadRequest, msgNoCriteria)
	case errors.As(err, &ve):
		return c.Status(fiber.StatusBadRequest).JSON(messageResponse{Message: msgValidationFailed, Errors: ve.Errors})
	case errors.As(err, &ce):
		return respond(c, fiber.StatusBadRequest, ce.Error())
	case errors.Is(err, common.ErrorInvalidCredentials):
		return respond(c, fiber.StatusUnauthorized, msgInvalidCreds)
	case errors.Is(err, common.ErrTokenExpired):
		return respond(c, fiber.StatusUnauthorized, msgTokenExpired)
	case errors.Is(err, common.ErrorUnauthenticated):
		return respond(c, fiber.StatusUnauthorized, msgBadToken)
	case errors.Is(err, common.ErrorNotFound):
		return respond(c, fiber.StatusNotFound, msgNotFound)
	case errors.Is(err, common.ErrorStoreUnavailable):
		s.logger.Error(c.UserContext(), "store unavailable", "op", op, "error", err)
		return respond(c, fiber.StatusServiceUnavailable, msgStoreUnavailable)
	}

	s.logger.Error(c.UserContext(), "request failed", "op", op, "error", err)
	return respond(c, fiber.StatusInternalServerError, "Server error "+op)
}

// errorHandler handles errors fiber raises itself (unknown route, body too
// large) and anything a handler returns without writing a response.
func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return respond(c, fe.Code, fe.Message)
	}
	s.logger.Error(c.UserContext(), "unhandled error", "path", c.Path(), "error", err)
	return respond(c, fiber.StatusInternalServerError, "Server error")
}
