package scheduler

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	domainCampaign "github.com/postpilot/postpilot/domains/campaign"
	domainPost "github.com/postpilot/postpilot/domains/post"
	domainScheduler "github.com/postpilot/postpilot/domains/scheduler"
	pkgError "github.com/postpilot/postpilot/pkg/error"
)

// mainSchedulerKey is the reserved registry key for the global
// reconciliation tick.
const mainSchedulerKey = "main-scheduler"

const defaultKickoffDelay = 2 * time.Second

type registryEntry struct {
	expression string
	cron       *cron.Cron
}

// Registry owns the campaign-id to timer mapping. All mutation goes
// through Activate and Deactivate, both of which serialize on the
// internal mutex so re-activation can never leave two live timers for
// one campaign. The map is process memory only and is rebuilt from
// storage by ReconcileOnBoot.
type Registry struct {
	mu      sync.Mutex
	entries map[string]*registryEntry

	campaigns domainCampaign.ICampaignUsecase
	posts     domainPost.IPostUsecase
	executor  *Executor

	stalledAfter time.Duration
	kickoffDelay time.Duration
}

// NewRegistry builds a registry. stalledAfter bounds how long a post may
// sit in processing before the safety-net pass marks it failed.
func NewRegistry(
	campaigns domainCampaign.ICampaignUsecase,
	posts domainPost.IPostUsecase,
	executor *Executor,
	stalledAfter time.Duration,
) *Registry {
	if stalledAfter <= 0 {
		stalledAfter = 10 * time.Minute
	}
	return &Registry{
		entries:      map[string]*registryEntry{},
		campaigns:    campaigns,
		posts:        posts,
		executor:     executor,
		stalledAfter: stalledAfter,
		kickoffDelay: defaultKickoffDelay,
	}
}

var _ domainScheduler.ISchedulerUsecase = (*Registry)(nil)

// StartSafetyNet installs the global every-minute reconciliation tick.
func (r *Registry) StartSafetyNet() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entries[mainSchedulerKey]; ok {
		return
	}

	c := cron.New()
	_, err := c.AddFunc("* * * * *", func() {
		if err := r.ProcessDuePosts(context.Background()); err != nil {
			logrus.WithError(err).Error("[SCHEDULER] Safety-net pass failed")
		}
	})
	if err != nil {
		logrus.WithError(err).Error("[SCHEDULER] Could not install safety-net tick")
		return
	}
	c.Start()

	r.entries[mainSchedulerKey] = &registryEntry{expression: "* * * * *", cron: c}
	logrus.Info("[SCHEDULER] Main scheduler initialized, reconciliation runs every minute")
}

// Activate marks the campaign active and installs its recurring timer.
// Translation happens before any storage write so an unresolvable
// schedule leaves the campaign's status untouched.
func (r *Registry) Activate(ctx context.Context, campaignID string) error {
	c, err := r.campaigns.GetByID(ctx, campaignID)
	if err != nil {
		return err
	}

	expression, err := CronExpression(c)
	if err != nil {
		return err
	}

	location, err := time.LoadLocation(c.Timezone)
	if err != nil {
		logrus.Warnf("[SCHEDULER] Unknown timezone %q for campaign %s, using UTC", c.Timezone, campaignID)
		location = time.UTC
	}

	job := cron.New(cron.WithLocation(location))
	if _, err := job.AddFunc(expression, func() { r.fire(campaignID) }); err != nil {
		// Expression was derived above, so this means the translator and
		// the parser disagree on validity.
		return unresolvable(c, err)
	}

	// The timer is fully built before the status write so a failure on
	// either side leaves nothing half-applied.
	if err := r.campaigns.SetStatus(ctx, campaignID, domainCampaign.StatusActive); err != nil {
		return err
	}

	r.mu.Lock()
	if existing, ok := r.entries[campaignID]; ok {
		logrus.Infof("[SCHEDULER] Stopping existing timer for campaign %s", campaignID)
		existing.cron.Stop()
		delete(r.entries, campaignID)
	}
	job.Start()
	r.entries[campaignID] = &registryEntry{expression: expression, cron: job}
	r.mu.Unlock()

	logrus.Infof("[SCHEDULER] Scheduled campaign %s with expression %q", campaignID, expression)

	if c.Frequency.NeedsImmediateKickoff() {
		logrus.Infof("[SCHEDULER] Triggering immediate execution for %s campaign %s", c.Frequency, campaignID)
		time.AfterFunc(r.kickoffDelay, func() { r.fire(campaignID) })
	}

	return nil
}

// Deactivate stops and removes the campaign's timer and marks the
// campaign paused. Without a live timer it is a no-op.
func (r *Registry) Deactivate(ctx context.Context, campaignID string) error {
	r.mu.Lock()
	entry, ok := r.entries[campaignID]
	if ok {
		entry.cron.Stop()
		delete(r.entries, campaignID)
	}
	r.mu.Unlock()

	if !ok {
		logrus.Debugf("[SCHEDULER] No timer for campaign %s, nothing to deactivate", campaignID)
		return nil
	}

	logrus.Infof("[SCHEDULER] Stopped timer for campaign %s", campaignID)
	return r.campaigns.SetStatus(ctx, campaignID, domainCampaign.StatusPaused)
}

// ExecuteNow runs a single execution pass synchronously, surfacing any
// error to the caller. Unlike a timer fire it does not check campaign
// status first, so a manual process publishes even for a paused or
// draft campaign.
func (r *Registry) ExecuteNow(ctx context.Context, campaignID string) error {
	return r.executor.Execute(ctx, campaignID)
}

// ReconcileOnBoot reinstalls timers for every campaign stored as active.
// One broken campaign does not block the others.
func (r *Registry) ReconcileOnBoot(ctx context.Context) error {
	active, err := r.campaigns.ListByStatus(ctx, domainCampaign.StatusActive)
	if err != nil {
		return err
	}

	for _, c := range active {
		if err := r.Activate(ctx, c.ID); err != nil {
			logrus.WithError(err).Errorf("[SCHEDULER] Could not restore timer for campaign %s", c.ID)
		}
	}

	logrus.Infof("[SCHEDULER] Boot reconciliation finished, %d active campaign(s) considered", len(active))
	return nil
}

// ProcessDuePosts is the reconciliation pass behind the safety-net tick
// and the batch-processing endpoint. Posts stuck in processing beyond
// the stall window are marked failed; they are never retried here, the
// campaign's own next tick is the only retry mechanism.
func (r *Registry) ProcessDuePosts(ctx context.Context) error {
	cutoff := time.Now().UTC().Add(-r.stalledAfter)
	failed, err := r.posts.FailStalled(ctx, cutoff)
	if err != nil {
		return err
	}
	if failed > 0 {
		logrus.Warnf("[SCHEDULER] Marked %d stalled post(s) as failed", failed)
	}
	return nil
}

// ActiveKeys returns a sorted snapshot of live timer keys, including the
// safety-net entry when installed.
func (r *Registry) ActiveKeys() []string {
	r.mu.Lock()
	keys := make([]string, 0, len(r.entries))
	for key := range r.entries {
		keys = append(keys, key)
	}
	r.mu.Unlock()

	sort.Strings(keys)
	return keys
}

// Stop halts every timer. Used on shutdown.
func (r *Registry) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for key, entry := range r.entries {
		entry.cron.Stop()
		delete(r.entries, key)
	}
	logrus.Info("[SCHEDULER] All timers stopped")
}

// fire is the per-tick callback. The campaign is re-fetched so pausing
// takes effect on the next tick even though the timer keeps running, and
// every error is swallowed here so the timer never dies.
func (r *Registry) fire(campaignID string) {
	ctx := context.Background()

	c, err := r.campaigns.GetByID(ctx, campaignID)
	if err != nil {
		if pkgError.IsNotFound(err) {
			logrus.Debugf("[SCHEDULER] Campaign %s no longer exists, skipping tick", campaignID)
			return
		}
		logrus.WithError(err).Errorf("[SCHEDULER] Could not load campaign %s on tick", campaignID)
		return
	}

	if c.Status != domainCampaign.StatusActive {
		logrus.Debugf("[SCHEDULER] Campaign %s is %s, skipping tick", campaignID, c.Status)
		return
	}

	if err := r.executor.Execute(ctx, campaignID); err != nil {
		logrus.WithError(err).Errorf("[SCHEDULER] Execution failed for campaign %s", campaignID)
	}
}
