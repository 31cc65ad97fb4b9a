package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainPost "github.com/postpilot/postpilot/domains/post"
	pkgError "github.com/postpilot/postpilot/pkg/error"
)

func TestPostCreateDefaults(t *testing.T) {
	svc := NewPostService(newTestDB(t))
	ctx := context.Background()

	created, err := svc.Create(ctx, domainPost.CreatePostRequest{
		CampaignID: "camp-1",
		Content:    "hello world",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, domainPost.StatusProcessing, created.Status)
	assert.WithinDuration(t, time.Now().UTC(), created.ScheduledFor, 5*time.Second)
}

func TestPostCreateRequiresCampaign(t *testing.T) {
	svc := NewPostService(newTestDB(t))

	_, err := svc.Create(context.Background(), domainPost.CreatePostRequest{Content: "x"})
	assert.Error(t, err)
}

func TestPostMarkPublished(t *testing.T) {
	svc := NewPostService(newTestDB(t))
	ctx := context.Background()

	created, err := svc.Create(ctx, domainPost.CreatePostRequest{CampaignID: "camp-1", Content: "x"})
	require.NoError(t, err)

	require.NoError(t, svc.MarkPublished(ctx, created.ID, `{"id":"42"}`))

	got, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, domainPost.StatusPublished, got.Status)
	assert.Equal(t, `{"id":"42"}`, got.PlatformData)
}

func TestPostMarkFailed(t *testing.T) {
	svc := NewPostService(newTestDB(t))
	ctx := context.Background()

	created, err := svc.Create(ctx, domainPost.CreatePostRequest{CampaignID: "camp-1", Content: "x"})
	require.NoError(t, err)

	require.NoError(t, svc.MarkFailed(ctx, created.ID, "platform rejected the request"))

	got, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, domainPost.StatusFailed, got.Status)
	assert.Equal(t, "platform rejected the request", got.Error)
}

func TestPostDelete(t *testing.T) {
	svc := NewPostService(newTestDB(t))
	ctx := context.Background()

	created, err := svc.Create(ctx, domainPost.CreatePostRequest{CampaignID: "camp-1", Content: "x"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))

	err = svc.Delete(ctx, created.ID)
	require.Error(t, err)
	assert.True(t, pkgError.IsNotFound(err))
}

func TestPostFailStalled(t *testing.T) {
	db := newTestDB(t)
	svc := NewPostService(db)
	ctx := context.Background()

	stale, err := svc.Create(ctx, domainPost.CreatePostRequest{CampaignID: "camp-1", Content: "stuck"})
	require.NoError(t, err)
	fresh, err := svc.Create(ctx, domainPost.CreatePostRequest{CampaignID: "camp-1", Content: "in flight"})
	require.NoError(t, err)

	// Backdate the stale row past the stall window.
	backdated := time.Now().UTC().Add(-time.Hour)
	require.NoError(t, db.Exec("UPDATE posts SET updated_at = ? WHERE id = ?", backdated, stale.ID).Error)

	failed, err := svc.FailStalled(ctx, time.Now().UTC().Add(-10*time.Minute))
	require.NoError(t, err)
	assert.EqualValues(t, 1, failed)

	got, err := svc.GetByID(ctx, stale.ID)
	require.NoError(t, err)
	assert.Equal(t, domainPost.StatusFailed, got.Status)
	assert.Equal(t, "publish attempt stalled", got.Error)

	got, err = svc.GetByID(ctx, fresh.ID)
	require.NoError(t, err)
	assert.Equal(t, domainPost.StatusProcessing, got.Status)
}
