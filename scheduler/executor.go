package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/postpilot/postpilot/contentgen"
	domainCampaign "github.com/postpilot/postpilot/domains/campaign"
	domainPost "github.com/postpilot/postpilot/domains/post"
	domainScheduler "github.com/postpilot/postpilot/domains/scheduler"
	domainUser "github.com/postpilot/postpilot/domains/user"
	"github.com/postpilot/postpilot/integrations/twitter"
)

// fallbackFailedContent is stored on the audit row written when an
// execution dies before a real post row exists.
const fallbackFailedContent = "Content generation failed"

// CredentialResolver yields a user's platform credentials, or (nil, nil)
// when none are usable.
type CredentialResolver interface {
	GetTwitterCredentials(ctx context.Context, userID string) (*domainUser.TwitterCredentials, error)
}

// ContentProducer generates post text. Any error means "use fallback".
type ContentProducer interface {
	Generate(ctx context.Context, params contentgen.Params) (string, error)
}

// Publisher pushes text to the platform and returns the raw platform
// payload as JSON on success.
type Publisher interface {
	Publish(ctx context.Context, creds domainUser.TwitterCredentials, text string) (string, error)
}

// Executor runs a single generate-and-publish pass for one campaign.
type Executor struct {
	campaigns   domainCampaign.ICampaignUsecase
	posts       domainPost.IPostUsecase
	credentials CredentialResolver
	producer    ContentProducer
	publisher   Publisher
}

func NewExecutor(
	campaigns domainCampaign.ICampaignUsecase,
	posts domainPost.IPostUsecase,
	credentials CredentialResolver,
	producer ContentProducer,
	publisher Publisher,
) *Executor {
	return &Executor{
		campaigns:   campaigns,
		posts:       posts,
		credentials: credentials,
		producer:    producer,
		publisher:   publisher,
	}
}

// Execute performs one full execution pass: resolve credentials, produce
// content, create the post row, publish, settle the row's final status.
// Exactly one post row is written per invocation except for the
// fail-fast paths (campaign missing, credentials missing) which write
// none.
func (e *Executor) Execute(ctx context.Context, campaignID string) error {
	c, err := e.campaigns.GetByID(ctx, campaignID)
	if err != nil {
		return err
	}

	creds, err := e.credentials.GetTwitterCredentials(ctx, c.UserID)
	if err != nil {
		return err
	}
	if creds == nil {
		logrus.Errorf("[SCHEDULER] Missing twitter credentials for user %s (campaign %s)", c.UserID, c.ID)
		return fmt.Errorf("%w: user %s", domainScheduler.ErrCredentialsMissing, c.UserID)
	}

	content := e.produceContent(ctx, c)

	p, err := e.posts.Create(ctx, domainPost.CreatePostRequest{
		CampaignID:   c.ID,
		Content:      content,
		ScheduledFor: time.Now().UTC(),
		Status:       domainPost.StatusProcessing,
	})
	if err != nil {
		e.writeAuditRow(ctx, c.ID, err)
		return err
	}

	platformData, pubErr := e.publisher.Publish(ctx, *creds, content)
	if pubErr != nil {
		if markErr := e.posts.MarkFailed(ctx, p.ID, pubErr.Error()); markErr != nil {
			logrus.WithError(markErr).Errorf("[SCHEDULER] Could not mark post %s failed", p.ID)
		}
		return fmt.Errorf("publish failed for campaign %s: %w", c.ID, pubErr)
	}

	if err := e.posts.MarkPublished(ctx, p.ID, platformData); err != nil {
		logrus.WithError(err).Errorf("[SCHEDULER] Post %s published but status update failed", p.ID)
		return err
	}
	if err := e.campaigns.IncrementPostsCount(ctx, c.ID, 1); err != nil {
		logrus.WithError(err).Errorf("[SCHEDULER] Could not increment posts_count for campaign %s", c.ID)
	}

	logrus.Infof("[SCHEDULER] Published post %s for campaign %s", p.ID, c.ID)
	return nil
}

// produceContent runs the generation backend and falls back to the
// campaign template, then a synthesized placeholder. Never fails.
func (e *Executor) produceContent(ctx context.Context, c domainCampaign.Campaign) string {
	if e.producer != nil {
		content, err := e.producer.Generate(ctx, contentgen.Params{
			Theme:           c.Title,
			Interests:       c.Interests,
			Languages:       c.Languages,
			Locations:       c.Locations,
			AgeRange:        c.AgeRange,
			Gender:          c.Gender,
			MaxLength:       twitter.MaxTweetLength,
			ContentTemplate: c.ContentTemplate,
		})
		if err == nil && content != "" {
			return content
		}
		if err != nil {
			logrus.WithError(err).Warnf("[SCHEDULER] Content generation failed for campaign %s, using fallback", c.ID)
		}
	}

	if c.ContentTemplate != "" {
		return c.ContentTemplate
	}
	return fmt.Sprintf("Post from campaign %s at %s", c.Title, time.Now().UTC().Format(time.RFC3339))
}

// writeAuditRow leaves a failed post behind when the execution died
// before a real row could be created. Best effort only.
func (e *Executor) writeAuditRow(ctx context.Context, campaignID string, cause error) {
	_, err := e.posts.Create(ctx, domainPost.CreatePostRequest{
		CampaignID:   campaignID,
		Content:      fallbackFailedContent,
		ScheduledFor: time.Now().UTC(),
		Status:       domainPost.StatusFailed,
		Error:        cause.Error(),
	})
	if err != nil {
		logrus.WithError(err).Errorf("[SCHEDULER] Could not record failed execution for campaign %s", campaignID)
	}
}
