package rest

import (
	"errors"

	"github.com/dmitrijs2005/staffbook/internal/common"
	"github.com/gofiber/fiber/v2"
)

// redirectToPicture sends clients to a short-lived URL of the object store.
func (s *Server) redirectToPicture(p Presigner) fiber.Handler {
	return func(c *fiber.Ctx) error {
		url, err := p.PresignedURL(c.UserContext(), common.UploadsPrefix+c.Params("key"))
		if errors.Is(err, common.ErrorNotFound) {
			return respond(c, fiber.StatusNotFound, "Picture not found")
		}
		if err != nil {
			return s.fail(c, err, "fetching picture")
		}
		return c.Redirect(url, fiber.StatusTemporaryRedirect)
	}
}
