package rest

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	domainUser "github.com/postpilot/postpilot/domains/user"
	pkgError "github.com/postpilot/postpilot/pkg/error"
	"github.com/postpilot/postpilot/validations"
)

type Integration struct {
	Service domainUser.IUserUsecase
}

func InitRestIntegration(app fiber.Router, service domainUser.IUserUsecase) Integration {
	rest := Integration{Service: service}
	app.Post("/integrations/twitter", rest.ConnectTwitter)
	app.Get("/integrations/twitter", rest.TwitterStatus)
	app.Delete("/integrations/twitter", rest.DisconnectTwitter)
	return rest
}

func (h *Integration) ConnectTwitter(c *fiber.Ctx) error {
	var req domainUser.ConnectTwitterRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, err)
	}

	if err := validations.ValidateConnectTwitter(c.UserContext(), req); err != nil {
		return errorJSON(c, err)
	}

	status, err := h.Service.ConnectTwitter(c.UserContext(), req)
	if err != nil {
		return errorJSON(c, err)
	}

	return successJSON(c, "Twitter account connected", status)
}

func (h *Integration) TwitterStatus(c *fiber.Ctx) error {
	userID := strings.TrimSpace(c.Query("user_id"))
	if userID == "" {
		return errorJSON(c, pkgError.ValidationError("user_id: cannot be blank."))
	}

	status, err := h.Service.TwitterStatus(c.UserContext(), userID)
	if err != nil {
		return errorJSON(c, err)
	}

	return successJSON(c, "Twitter status fetched", status)
}

func (h *Integration) DisconnectTwitter(c *fiber.Ctx) error {
	userID := strings.TrimSpace(c.Query("user_id"))
	if userID == "" {
		return errorJSON(c, pkgError.ValidationError("user_id: cannot be blank."))
	}

	if err := h.Service.DisconnectTwitter(c.UserContext(), userID); err != nil {
		return errorJSON(c, err)
	}

	return successJSON(c, "Twitter account disconnected", nil)
}
