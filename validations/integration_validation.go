package validations

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	domainUser "github.com/postpilot/postpilot/domains/user"
	pkgError "github.com/postpilot/postpilot/pkg/error"
)

func ValidateConnectTwitter(ctx context.Context, request domainUser.ConnectTwitterRequest) error {
	err := validation.ValidateStructWithContext(ctx, &request,
		validation.Field(&request.UserID, validation.Required),
		validation.Field(&request.APIKey, validation.Required),
		validation.Field(&request.APISecret, validation.Required),
		validation.Field(&request.AccessToken, validation.Required),
		validation.Field(&request.AccessTokenSecret, validation.Required),
	)

	if err != nil {
		return pkgError.ValidationError(err.Error())
	}

	return nil
}
