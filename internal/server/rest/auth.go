package rest

import (
	"github.com/dmitrijs2005/staffbook/internal/server/metrics"
	"github.com/dmitrijs2005/staffbook/internal/server/models"
	"github.com/dmitrijs2005/staffbook/internal/server/validation"
	"github.com/gofiber/fiber/v2"
)

type authResponse struct {
	Message string            `json:"message"`
	Token   string            `json:"token"`
	User    models.PublicUser `json:"user"`
}

func (s *Server) signup(c *fiber.Ctx) error {
	var in validation.SignupInput
	if err := c.BodyParser(&in); err != nil {
		return respond(c, fiber.StatusBadRequest, msgInvalidBody)
	}

	res, err := s.users.Register(c.UserContext(), in)
	metrics.RecordAuthAttempt("signup", err)
	if err != nil {
		return s.fail(c, err, "during signup")
	}

	return c.Status(fiber.StatusCreated).JSON(authResponse{
		Message: "User created successfully",
		Token:   res.Token,
		User:    res.User,
	})
}

func (s *Server) login(c *fiber.Ctx) error {
	var in validation.LoginInput
	if err := c.BodyParser(&in); err != nil {
		return respond(c, fiber.StatusBadRequest, msgInvalidBody)
	}

	res, err := s.users.Login(c.UserContext(), in)
	metrics.RecordAuthAttempt("login", err)
	if err != nil {
		return s.fail(c, err, "during login")
	}

	return c.JSON(authResponse{
		Message: "Login successful",
		Token:   res.Token,
		User:    res.User,
	})
}
