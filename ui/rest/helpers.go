package rest

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	pkgError "github.com/postpilot/postpilot/pkg/error"
	"github.com/postpilot/postpilot/pkg/utils"
)

// errorJSON renders a failure in the standard envelope. Typed errors
// carry their own status and code, everything else is a bad request.
func errorJSON(c *fiber.Ctx, err error) error {
	status := 400
	code := "BAD_REQUEST"

	var generic pkgError.GenericError
	if errors.As(err, &generic) {
		status = generic.StatusCode()
		code = generic.ErrCode()
	}

	return c.Status(status).JSON(utils.ResponseData{
		Status:  status,
		Code:    code,
		Message: err.Error(),
		Results: nil,
	})
}

func successJSON(c *fiber.Ctx, message string, results any) error {
	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: message,
		Results: results,
	})
}
