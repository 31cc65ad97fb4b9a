package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainCampaign "github.com/postpilot/postpilot/domains/campaign"
	domainPost "github.com/postpilot/postpilot/domains/post"
	pkgError "github.com/postpilot/postpilot/pkg/error"
)

func createCampaignRequest() domainCampaign.CreateCampaignRequest {
	return domainCampaign.CreateCampaignRequest{
		UserID:          "user-1",
		Title:           "Daily tips",
		Frequency:       domainCampaign.FrequencyDaily,
		StartDate:       time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		StartTime:       "09:00",
		Timezone:        "UTC",
		Interests:       []string{"golang", "testing"},
		ContentTemplate: "Tip of the day",
	}
}

func TestCampaignCreateAndGet(t *testing.T) {
	svc := NewCampaignService(newTestDB(t))
	ctx := context.Background()

	created, err := svc.Create(ctx, createCampaignRequest())
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, domainCampaign.StatusDraft, created.Status)
	assert.Zero(t, created.PostsCount)

	got, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Daily tips", got.Title)
	assert.Equal(t, []string{"golang", "testing"}, got.Interests)
}

func TestCampaignCreateValidation(t *testing.T) {
	svc := NewCampaignService(newTestDB(t))
	ctx := context.Background()

	req := createCampaignRequest()
	req.Title = ""
	_, err := svc.Create(ctx, req)
	assert.Error(t, err)

	req = createCampaignRequest()
	req.UserID = ""
	_, err = svc.Create(ctx, req)
	assert.Error(t, err)

	req = createCampaignRequest()
	req.Frequency = "hourly"
	_, err = svc.Create(ctx, req)
	assert.Error(t, err)
}

func TestCampaignGetMissing(t *testing.T) {
	svc := NewCampaignService(newTestDB(t))

	_, err := svc.GetByID(context.Background(), "ghost")
	require.Error(t, err)
	assert.True(t, pkgError.IsNotFound(err))
}

func TestCampaignListByUserAndStatus(t *testing.T) {
	svc := NewCampaignService(newTestDB(t))
	ctx := context.Background()

	first, err := svc.Create(ctx, createCampaignRequest())
	require.NoError(t, err)

	other := createCampaignRequest()
	other.UserID = "user-2"
	_, err = svc.Create(ctx, other)
	require.NoError(t, err)

	mine, err := svc.List(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	require.NoError(t, svc.SetStatus(ctx, first.ID, domainCampaign.StatusActive))
	active, err := svc.ListByStatus(ctx, domainCampaign.StatusActive)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, first.ID, active[0].ID)
}

func TestCampaignSetStatusMissing(t *testing.T) {
	svc := NewCampaignService(newTestDB(t))

	err := svc.SetStatus(context.Background(), "ghost", domainCampaign.StatusActive)
	require.Error(t, err)
	assert.True(t, pkgError.IsNotFound(err))
}

func TestCampaignIncrementPostsCount(t *testing.T) {
	svc := NewCampaignService(newTestDB(t))
	ctx := context.Background()

	created, err := svc.Create(ctx, createCampaignRequest())
	require.NoError(t, err)

	require.NoError(t, svc.IncrementPostsCount(ctx, created.ID, 1))
	require.NoError(t, svc.IncrementPostsCount(ctx, created.ID, 1))
	require.NoError(t, svc.IncrementPostsCount(ctx, created.ID, -1))

	got, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.PostsCount)
}

func TestCampaignDeleteCascadesPosts(t *testing.T) {
	db := newTestDB(t)
	campaigns := NewCampaignService(db)
	posts := NewPostService(db)
	ctx := context.Background()

	created, err := campaigns.Create(ctx, createCampaignRequest())
	require.NoError(t, err)

	_, err = posts.Create(ctx, domainPost.CreatePostRequest{
		CampaignID: created.ID,
		Content:    "hello",
	})
	require.NoError(t, err)

	require.NoError(t, campaigns.Delete(ctx, created.ID))

	_, err = campaigns.GetByID(ctx, created.ID)
	assert.True(t, pkgError.IsNotFound(err))

	remaining, err := posts.ListByCampaign(ctx, created.ID)
	require.NoError(t, err)
	assert.Empty(t, remaining)
}

func TestCampaignUpdate(t *testing.T) {
	svc := NewCampaignService(newTestDB(t))
	ctx := context.Background()

	created, err := svc.Create(ctx, createCampaignRequest())
	require.NoError(t, err)

	updated, err := svc.Update(ctx, created.ID, domainCampaign.UpdateCampaignRequest{
		Title:           "Weekly tips",
		Frequency:       domainCampaign.FrequencyWeekly,
		CustomDays:      []string{"monday", "friday"},
		ContentTemplate: "New template",
	})
	require.NoError(t, err)
	assert.Equal(t, "Weekly tips", updated.Title)
	assert.Equal(t, domainCampaign.FrequencyWeekly, updated.Frequency)
	assert.Equal(t, []string{"monday", "friday"}, updated.CustomDays)
}
