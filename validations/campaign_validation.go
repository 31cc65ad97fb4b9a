package validations

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	domainCampaign "github.com/postpilot/postpilot/domains/campaign"
	pkgError "github.com/postpilot/postpilot/pkg/error"
)

func ValidateCreateCampaign(ctx context.Context, request domainCampaign.CreateCampaignRequest) error {
	err := validation.ValidateStructWithContext(ctx, &request,
		validation.Field(&request.UserID, validation.Required),
		validation.Field(&request.Title, validation.Required),
		validation.Field(&request.Frequency, validation.Required, validation.By(validFrequency)),
	)

	if err != nil {
		return pkgError.ValidationError(err.Error())
	}

	return nil
}

func ValidateUpdateCampaign(ctx context.Context, request domainCampaign.UpdateCampaignRequest) error {
	err := validation.ValidateStructWithContext(ctx, &request,
		validation.Field(&request.Frequency, validation.By(validFrequencyIfSet)),
	)

	if err != nil {
		return pkgError.ValidationError(err.Error())
	}

	return nil
}

func validFrequency(value interface{}) error {
	f, _ := value.(domainCampaign.Frequency)
	if !f.Valid() {
		return validation.NewError("validation_frequency", "must be a supported frequency")
	}
	return nil
}

func validFrequencyIfSet(value interface{}) error {
	f, _ := value.(domainCampaign.Frequency)
	if f == "" {
		return nil
	}
	return validFrequency(value)
}
