package rest

import (
	"github.com/gofiber/fiber/v2"

	domainHealth "github.com/postpilot/postpilot/domains/health"
)

type Health struct {
	Service domainHealth.IHealthUsecase
}

func InitRestHealth(app fiber.Router, service domainHealth.IHealthUsecase) Health {
	rest := Health{Service: service}
	app.Get("/health", rest.GetStatus)
	return rest
}

func (h *Health) GetStatus(c *fiber.Ctx) error {
	snapshot, err := h.Service.Status(c.UserContext())
	if err != nil {
		return errorJSON(c, err)
	}

	status := 200
	if snapshot.Status != domainHealth.StatusOk {
		status = 503
	}
	return c.Status(status).JSON(snapshot)
}
