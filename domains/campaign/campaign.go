package campaign

import (
	"context"
	"time"
)

type Status string

const (
	StatusDraft     Status = "draft"
	StatusActive    Status = "active"
	StatusPaused    Status = "paused"
	StatusCompleted Status = "completed"
)

type Frequency string

const (
	FrequencyDaily         Frequency = "daily"
	FrequencyWeekly        Frequency = "weekly"
	FrequencyMonthly       Frequency = "monthly"
	FrequencyCustom        Frequency = "custom"
	FrequencyEveryMinute   Frequency = "every_minute"
	FrequencyEvery2Minutes Frequency = "every_2_minutes"
)

// NeedsImmediateKickoff reports whether an activation should trigger one
// out-of-band execution right away so the user sees feedback without
// waiting for the first natural tick.
func (f Frequency) NeedsImmediateKickoff() bool {
	return f == FrequencyEveryMinute || f == FrequencyEvery2Minutes
}

func (f Frequency) Valid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyCustom,
		FrequencyEveryMinute, FrequencyEvery2Minutes:
		return true
	}
	return false
}

type Campaign struct {
	ID              string     `json:"id"`
	UserID          string     `json:"user_id"`
	Title           string     `json:"title"`
	Status          Status     `json:"status"`
	Frequency       Frequency  `json:"frequency"`
	StartDate       time.Time  `json:"start_date"`
	StartTime       string     `json:"start_time"` // "HH:MM"
	EndDate         *time.Time `json:"end_date,omitempty"`
	Timezone        string     `json:"timezone"`
	CustomDays      []string   `json:"custom_days,omitempty"`  // weekday names, lowercase
	CustomTimes     []string   `json:"custom_times,omitempty"` // "HH:MM"
	Interests       []string   `json:"interests,omitempty"`
	Languages       []string   `json:"languages,omitempty"`
	Locations       []string   `json:"locations,omitempty"`
	AgeRange        string     `json:"age_range,omitempty"`
	Gender          []string   `json:"gender,omitempty"`
	ContentTemplate string     `json:"content_template,omitempty"`
	PostsCount      int        `json:"posts_count"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

type CreateCampaignRequest struct {
	UserID          string     `json:"user_id"`
	Title           string     `json:"title"`
	Frequency       Frequency  `json:"frequency"`
	StartDate       time.Time  `json:"start_date"`
	StartTime       string     `json:"start_time"`
	EndDate         *time.Time `json:"end_date"`
	Timezone        string     `json:"timezone"`
	CustomDays      []string   `json:"custom_days"`
	CustomTimes     []string   `json:"custom_times"`
	Interests       []string   `json:"interests"`
	Languages       []string   `json:"languages"`
	Locations       []string   `json:"locations"`
	AgeRange        string     `json:"age_range"`
	Gender          []string   `json:"gender"`
	ContentTemplate string     `json:"content_template"`
}

type UpdateCampaignRequest struct {
	Title           string     `json:"title"`
	Frequency       Frequency  `json:"frequency"`
	StartDate       *time.Time `json:"start_date"`
	StartTime       string     `json:"start_time"`
	EndDate         *time.Time `json:"end_date"`
	Timezone        string     `json:"timezone"`
	CustomDays      []string   `json:"custom_days"`
	CustomTimes     []string   `json:"custom_times"`
	Interests       []string   `json:"interests"`
	Languages       []string   `json:"languages"`
	Locations       []string   `json:"locations"`
	AgeRange        string     `json:"age_range"`
	Gender          []string   `json:"gender"`
	ContentTemplate string     `json:"content_template"`
}

type ICampaignUsecase interface {
	Create(ctx context.Context, req CreateCampaignRequest) (Campaign, error)
	List(ctx context.Context, userID string) ([]Campaign, error)
	GetByID(ctx context.Context, id string) (Campaign, error)
	Update(ctx context.Context, id string, req UpdateCampaignRequest) (Campaign, error)
	Delete(ctx context.Context, id string) error
	ListByStatus(ctx context.Context, status Status) ([]Campaign, error)
	SetStatus(ctx context.Context, id string, status Status) error
	IncrementPostsCount(ctx context.Context, id string, delta int) error
}
