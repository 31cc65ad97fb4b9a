package scheduler

import (
	"context"
	"errors"
)

// ErrCredentialsMissing is returned by an execution when the campaign's
// owner has no usable platform credentials configured.
var ErrCredentialsMissing = errors.New("user does not have complete twitter credentials set up")

// ErrScheduleUnresolvable is returned by activation when the campaign's
// schedule fields cannot be turned into a trigger expression.
var ErrScheduleUnresolvable = errors.New("could not determine cron schedule for campaign")

type ISchedulerUsecase interface {
	Activate(ctx context.Context, campaignID string) error
	Deactivate(ctx context.Context, campaignID string) error
	ExecuteNow(ctx context.Context, campaignID string) error
	ReconcileOnBoot(ctx context.Context) error
	ProcessDuePosts(ctx context.Context) error
	ActiveKeys() []string
}
