package server

import (
	"postboard/internal/middleware"
	"postboard/internal/models"
	"postboard/internal/query"

	"github.com/gofiber/fiber/v2"
)

// Query handles POST /api/query. The body is {"operation": "...",
// "variables": {...}}; the caller comes from the Authorization header.
func (s *Server) Query(c *fiber.Ctx) error {
	req, err := query.DecodeRequest(c.Body())
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(query.Failure(models.AsAppError(err)))
	}

	resp := s.facade.Execute(c.UserContext(), middleware.CallerFrom(c), req)
	return c.Status(resp.HTTPStatus()).JSON(resp)
}
