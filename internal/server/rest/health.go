package rest

import (
	"github.com/dmitrijs2005/staffbook/internal/dbx"
	"github.com/gofiber/fiber/v2"
)

type storeHealth struct {
	Status     string `json:"status"`
	ReadyState int    `json:"readyState"`
}

type healthResponse struct {
	Status string      `json:"status"`
	Store  storeHealth `json:"store"`
	Server string      `json:"server"`
}

var storeStates = map[int]string{
	dbx.StateDisconnected: "disconnected",
	dbx.StateConnected:    "connected",
}

func (s *Server) health(c *fiber.Ctx) error {
	state := dbx.ReadyState(c.UserContext(), s.store, healthTimeout)

	status := "unhealthy"
	if state == dbx.StateConnected {
		status = "healthy"
	}

	return c.JSON(healthResponse{
		Status: status,
		Store:  storeHealth{Status: storeStates[state], ReadyState: state},
		Server: "running",
	})
}
