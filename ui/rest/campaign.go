package rest

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	domainCampaign "github.com/postpilot/postpilot/domains/campaign"
	domainPost "github.com/postpilot/postpilot/domains/post"
	domainScheduler "github.com/postpilot/postpilot/domains/scheduler"
	"github.com/postpilot/postpilot/scheduler"
	"github.com/postpilot/postpilot/validations"
)

type Campaign struct {
	Service   domainCampaign.ICampaignUsecase
	Posts     domainPost.IPostUsecase
	Scheduler domainScheduler.ISchedulerUsecase
}

func InitRestCampaign(app fiber.Router, service domainCampaign.ICampaignUsecase, posts domainPost.IPostUsecase, sched domainScheduler.ISchedulerUsecase) Campaign {
	rest := Campaign{Service: service, Posts: posts, Scheduler: sched}
	app.Post("/campaigns", rest.CreateCampaign)
	app.Get("/campaigns", rest.ListCampaigns)
	app.Get("/campaigns/:id", rest.GetCampaign)
	app.Put("/campaigns/:id", rest.UpdateCampaign)
	app.Delete("/campaigns/:id", rest.DeleteCampaign)
	app.Post("/campaigns/:id/schedule", rest.ScheduleCampaign)
	app.Get("/campaigns/:id/schedule", rest.PreviewSchedule)
	app.Delete("/campaigns/:id/schedule", rest.UnscheduleCampaign)
	app.Post("/campaigns/:id/process", rest.ProcessCampaign)
	app.Get("/campaigns/:id/posts", rest.ListCampaignPosts)
	return rest
}

func (h *Campaign) CreateCampaign(c *fiber.Ctx) error {
	var req domainCampaign.CreateCampaignRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, err)
	}

	if err := validations.ValidateCreateCampaign(c.UserContext(), req); err != nil {
		return errorJSON(c, err)
	}

	campaign, err := h.Service.Create(c.UserContext(), req)
	if err != nil {
		return errorJSON(c, err)
	}

	return successJSON(c, "Campaign created", campaign)
}

func (h *Campaign) ListCampaigns(c *fiber.Ctx) error {
	userID := strings.TrimSpace(c.Query("user_id"))

	campaigns, err := h.Service.List(c.UserContext(), userID)
	if err != nil {
		return errorJSON(c, err)
	}

	return successJSON(c, "Campaigns fetched", campaigns)
}

func (h *Campaign) GetCampaign(c *fiber.Ctx) error {
	campaign, err := h.Service.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return errorJSON(c, err)
	}

	return successJSON(c, "Campaign fetched", campaign)
}

func (h *Campaign) UpdateCampaign(c *fiber.Ctx) error {
	var req domainCampaign.UpdateCampaignRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, err)
	}

	if err := validations.ValidateUpdateCampaign(c.UserContext(), req); err != nil {
		return errorJSON(c, err)
	}

	campaign, err := h.Service.Update(c.UserContext(), c.Params("id"), req)
	if err != nil {
		return errorJSON(c, err)
	}

	return successJSON(c, "Campaign updated", campaign)
}

// DeleteCampaign stops any live timer before removing the campaign and
// its posts.
func (h *Campaign) DeleteCampaign(c *fiber.Ctx) error {
	id := c.Params("id")

	if err := h.Scheduler.Deactivate(c.UserContext(), id); err != nil {
		return errorJSON(c, err)
	}

	if err := h.Service.Delete(c.UserContext(), id); err != nil {
		return errorJSON(c, err)
	}

	return successJSON(c, "Campaign deleted", nil)
}

func (h *Campaign) ScheduleCampaign(c *fiber.Ctx) error {
	if err := h.Scheduler.Activate(c.UserContext(), c.Params("id")); err != nil {
		return errorJSON(c, err)
	}

	return successJSON(c, "Campaign scheduled", nil)
}

func (h *Campaign) UnscheduleCampaign(c *fiber.Ctx) error {
	if err := h.Scheduler.Deactivate(c.UserContext(), c.Params("id")); err != nil {
		return errorJSON(c, err)
	}

	return successJSON(c, "Campaign unscheduled", nil)
}

// ProcessCampaign runs one execution pass right now, independent of the
// campaign's timer.
func (h *Campaign) ProcessCampaign(c *fiber.Ctx) error {
	if err := h.Scheduler.ExecuteNow(c.UserContext(), c.Params("id")); err != nil {
		return errorJSON(c, err)
	}

	return successJSON(c, "Campaign processed", nil)
}

// PreviewSchedule enumerates upcoming fire times. The preview honors
// every custom time while the installed trigger only honors the first,
// so it can show more daily entries than will actually fire.
func (h *Campaign) PreviewSchedule(c *fiber.Ctx) error {
	campaign, err := h.Service.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return errorJSON(c, err)
	}

	limit, _ := strconv.Atoi(c.Query("limit"))

	occurrences := scheduler.GenerateOccurrences(scheduler.ScheduleOptions{
		Frequency:   string(campaign.Frequency),
		StartDate:   campaign.StartDate,
		StartTime:   campaign.StartTime,
		EndDate:     campaign.EndDate,
		Timezone:    campaign.Timezone,
		CustomDays:  campaign.CustomDays,
		CustomTimes: campaign.CustomTimes,
		Limit:       limit,
	})

	return successJSON(c, "Schedule preview generated", occurrences)
}

func (h *Campaign) ListCampaignPosts(c *fiber.Ctx) error {
	id := c.Params("id")

	if _, err := h.Service.GetByID(c.UserContext(), id); err != nil {
		return errorJSON(c, err)
	}

	posts, err := h.Posts.ListByCampaign(c.UserContext(), id)
	if err != nil {
		return errorJSON(c, err)
	}

	return successJSON(c, "Posts fetched", posts)
}
