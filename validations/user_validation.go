package validations

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	domainUser "github.com/postpilot/postpilot/domains/user"
	pkgError "github.com/postpilot/postpilot/pkg/error"
)

func ValidateCreateUser(ctx context.Context, request domainUser.CreateUserRequest) error {
	err := validation.ValidateStructWithContext(ctx, &request,
		validation.Field(&request.Name, validation.Required),
		validation.Field(&request.Email, validation.Required, is.Email),
		validation.Field(&request.Password, validation.Required, validation.Length(8, 0)),
	)

	if err != nil {
		return pkgError.ValidationError(err.Error())
	}

	return nil
}
