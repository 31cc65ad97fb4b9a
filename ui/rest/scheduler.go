package rest

import (
	"github.com/gofiber/fiber/v2"

	domainScheduler "github.com/postpilot/postpilot/domains/scheduler"
)

type Scheduler struct {
	Service domainScheduler.ISchedulerUsecase
}

func InitRestScheduler(app fiber.Router, service domainScheduler.ISchedulerUsecase) Scheduler {
	rest := Scheduler{Service: service}
	app.Get("/debug/scheduler", rest.ActiveTimers)
	return rest
}

// ActiveTimers exposes the live timer keys for operational visibility.
func (h *Scheduler) ActiveTimers(c *fiber.Ctx) error {
	return successJSON(c, "Active timers fetched", h.Service.ActiveKeys())
}
