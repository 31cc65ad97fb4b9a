package post

import (
	"context"
	"time"
)

type Status string

const (
	StatusScheduled  Status = "scheduled"
	StatusProcessing Status = "processing"
	StatusPublished  Status = "published"
	StatusFailed     Status = "failed"
)

type Post struct {
	ID           string    `json:"id"`
	CampaignID   string    `json:"campaign_id"`
	Content      string    `json:"content"`
	ScheduledFor time.Time `json:"scheduled_for"`
	Status       Status    `json:"status"`
	PlatformData string    `json:"platform_data,omitempty"` // raw JSON from the platform, success only
	Error        string    `json:"error,omitempty"`         // failure message, failure only
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type CreatePostRequest struct {
	CampaignID   string    `json:"campaign_id"`
	Content      string    `json:"content"`
	ScheduledFor time.Time `json:"scheduled_for"`
	Status       Status    `json:"status"`
	Error        string    `json:"error"`
}

type IPostUsecase interface {
	Create(ctx context.Context, req CreatePostRequest) (Post, error)
	GetByID(ctx context.Context, id string) (Post, error)
	ListByCampaign(ctx context.Context, campaignID string) ([]Post, error)
	MarkPublished(ctx context.Context, id string, platformData string) error
	MarkFailed(ctx context.Context, id string, message string) error
	Delete(ctx context.Context, id string) error
	FailStalled(ctx context.Context, olderThan time.Time) (int64, error)
}
