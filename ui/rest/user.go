package rest

import (
	"github.com/gofiber/fiber/v2"

	domainUser "github.com/postpilot/postpilot/domains/user"
	"github.com/postpilot/postpilot/pkg/utils"
	"github.com/postpilot/postpilot/validations"
)

type User struct {
	Service domainUser.IUserUsecase
}

func InitRestUser(app fiber.Router, service domainUser.IUserUsecase) User {
	rest := User{Service: service}
	app.Post("/users", rest.CreateUser)
	app.Get("/users/:id", rest.GetUser)
	return rest
}

func (h *User) CreateUser(c *fiber.Ctx) error {
	var req domainUser.CreateUserRequest
	err := c.BodyParser(&req)
	utils.PanicIfNeeded(err)

	err = validations.ValidateCreateUser(c.UserContext(), req)
	utils.PanicIfNeeded(err)

	user, err := h.Service.Create(c.UserContext(), req)
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "User created",
		Results: user,
	})
}

func (h *User) GetUser(c *fiber.Ctx) error {
	user, err := h.Service.GetByID(c.UserContext(), c.Params("id"))
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "User fetched",
		Results: user,
	})
}
