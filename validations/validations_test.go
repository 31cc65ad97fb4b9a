package validations

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	domainCampaign "github.com/postpilot/postpilot/domains/campaign"
	domainUser "github.com/postpilot/postpilot/domains/user"
)

func TestValidateCreateCampaign(t *testing.T) {
	ctx := context.Background()

	valid := domainCampaign.CreateCampaignRequest{
		UserID:    "user-1",
		Title:     "Daily tips",
		Frequency: domainCampaign.FrequencyDaily,
	}
	assert.NoError(t, ValidateCreateCampaign(ctx, valid))

	missingTitle := valid
	missingTitle.Title = ""
	assert.Error(t, ValidateCreateCampaign(ctx, missingTitle))

	badFrequency := valid
	badFrequency.Frequency = "hourly"
	assert.Error(t, ValidateCreateCampaign(ctx, badFrequency))
}

func TestValidateUpdateCampaign(t *testing.T) {
	ctx := context.Background()

	// Empty update is allowed, fields are optional.
	assert.NoError(t, ValidateUpdateCampaign(ctx, domainCampaign.UpdateCampaignRequest{}))

	assert.Error(t, ValidateUpdateCampaign(ctx, domainCampaign.UpdateCampaignRequest{Frequency: "hourly"}))
	assert.NoError(t, ValidateUpdateCampaign(ctx, domainCampaign.UpdateCampaignRequest{Frequency: domainCampaign.FrequencyWeekly}))
}

func TestValidateCreateUser(t *testing.T) {
	ctx := context.Background()

	valid := domainUser.CreateUserRequest{
		Name:     "Jordan",
		Email:    "jordan@example.com",
		Password: "super-secret",
	}
	assert.NoError(t, ValidateCreateUser(ctx, valid))

	badEmail := valid
	badEmail.Email = "not-an-email"
	assert.Error(t, ValidateCreateUser(ctx, badEmail))

	shortPassword := valid
	shortPassword.Password = "short"
	assert.Error(t, ValidateCreateUser(ctx, shortPassword))
}

func TestValidateConnectTwitter(t *testing.T) {
	ctx := context.Background()

	valid := domainUser.ConnectTwitterRequest{
		UserID:            "user-1",
		APIKey:            "ck",
		APISecret:         "cs",
		AccessToken:       "at",
		AccessTokenSecret: "as",
	}
	assert.NoError(t, ValidateConnectTwitter(ctx, valid))

	missing := valid
	missing.AccessTokenSecret = ""
	assert.Error(t, ValidateConnectTwitter(ctx, missing))
}
