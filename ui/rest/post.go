package rest

import (
	"github.com/gofiber/fiber/v2"

	domainCampaign "github.com/postpilot/postpilot/domains/campaign"
	domainPost "github.com/postpilot/postpilot/domains/post"
	domainScheduler "github.com/postpilot/postpilot/domains/scheduler"
)

type Post struct {
	Service   domainPost.IPostUsecase
	Campaigns domainCampaign.ICampaignUsecase
	Scheduler domainScheduler.ISchedulerUsecase
}

func InitRestPost(app fiber.Router, service domainPost.IPostUsecase, campaigns domainCampaign.ICampaignUsecase, sched domainScheduler.ISchedulerUsecase) Post {
	rest := Post{Service: service, Campaigns: campaigns, Scheduler: sched}
	app.Post("/posts/process", rest.ProcessPosts)
	app.Get("/posts/:id", rest.GetPost)
	app.Delete("/posts/:id", rest.DeletePost)
	return rest
}

// ProcessPosts runs the reconciliation pass that the safety-net timer
// also runs every minute, for externally-triggered cleanup.
func (h *Post) ProcessPosts(c *fiber.Ctx) error {
	if err := h.Scheduler.ProcessDuePosts(c.UserContext()); err != nil {
		return errorJSON(c, err)
	}

	return successJSON(c, "Scheduled posts processed", nil)
}

func (h *Post) GetPost(c *fiber.Ctx) error {
	post, err := h.Service.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return errorJSON(c, err)
	}

	return successJSON(c, "Post fetched", post)
}

// DeletePost removes a post and keeps the campaign counter honest when
// the deleted post had been published.
func (h *Post) DeletePost(c *fiber.Ctx) error {
	id := c.Params("id")

	post, err := h.Service.GetByID(c.UserContext(), id)
	if err != nil {
		return errorJSON(c, err)
	}

	if err := h.Service.Delete(c.UserContext(), id); err != nil {
		return errorJSON(c, err)
	}

	if post.Status == domainPost.StatusPublished {
		if err := h.Campaigns.IncrementPostsCount(c.UserContext(), post.CampaignID, -1); err != nil {
			return errorJSON(c, err)
		}
	}

	return successJSON(c, "Post deleted", nil)
}
