package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/postpilot/postpilot/contentgen"
	domainCampaign "github.com/postpilot/postpilot/domains/campaign"
	domainPost "github.com/postpilot/postpilot/domains/post"
	domainUser "github.com/postpilot/postpilot/domains/user"
	pkgError "github.com/postpilot/postpilot/pkg/error"
)

type fakeCampaignStore struct {
	mu           sync.Mutex
	campaigns    map[string]domainCampaign.Campaign
	setStatusErr error
}

func newFakeCampaignStore(campaigns ...domainCampaign.Campaign) *fakeCampaignStore {
	s := &fakeCampaignStore{campaigns: map[string]domainCampaign.Campaign{}}
	for _, c := range campaigns {
		s.campaigns[c.ID] = c
	}
	return s
}

func (s *fakeCampaignStore) Create(ctx context.Context, req domainCampaign.CreateCampaignRequest) (domainCampaign.Campaign, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := domainCampaign.Campaign{ID: uuid.NewString(), UserID: req.UserID, Title: req.Title, Status: domainCampaign.StatusDraft, Frequency: req.Frequency}
	s.campaigns[c.ID] = c
	return c, nil
}

func (s *fakeCampaignStore) List(ctx context.Context, userID string) ([]domainCampaign.Campaign, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domainCampaign.Campaign
	for _, c := range s.campaigns {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *fakeCampaignStore) GetByID(ctx context.Context, id string) (domainCampaign.Campaign, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.campaigns[id]
	if !ok {
		return domainCampaign.Campaign{}, pkgError.NotFoundError("campaign not found")
	}
	return c, nil
}

func (s *fakeCampaignStore) Update(ctx context.Context, id string, req domainCampaign.UpdateCampaignRequest) (domainCampaign.Campaign, error) {
	return s.GetByID(ctx, id)
}

func (s *fakeCampaignStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.campaigns, id)
	return nil
}

func (s *fakeCampaignStore) ListByStatus(ctx context.Context, status domainCampaign.Status) ([]domainCampaign.Campaign, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domainCampaign.Campaign
	for _, c := range s.campaigns {
		if c.Status == status {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *fakeCampaignStore) SetStatus(ctx context.Context, id string, status domainCampaign.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.setStatusErr != nil {
		return s.setStatusErr
	}
	c, ok := s.campaigns[id]
	if !ok {
		return pkgError.NotFoundError("campaign not found")
	}
	c.Status = status
	s.campaigns[id] = c
	return nil
}

func (s *fakeCampaignStore) IncrementPostsCount(ctx context.Context, id string, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.campaigns[id]
	if !ok {
		return pkgError.NotFoundError("campaign not found")
	}
	c.PostsCount += delta
	s.campaigns[id] = c
	return nil
}

func (s *fakeCampaignStore) get(id string) domainCampaign.Campaign {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.campaigns[id]
}

type fakePostStore struct {
	mu        sync.Mutex
	posts     map[string]domainPost.Post
	createErr error
}

func newFakePostStore() *fakePostStore {
	return &fakePostStore{posts: map[string]domainPost.Post{}}
}

func (s *fakePostStore) Create(ctx context.Context, req domainPost.CreatePostRequest) (domainPost.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return domainPost.Post{}, s.createErr
	}
	p := domainPost.Post{
		ID:           uuid.NewString(),
		CampaignID:   req.CampaignID,
		Content:      req.Content,
		ScheduledFor: req.ScheduledFor,
		Status:       req.Status,
		Error:        req.Error,
		UpdatedAt:    time.Now().UTC(),
	}
	if p.Status == "" {
		p.Status = domainPost.StatusProcessing
	}
	s.posts[p.ID] = p
	return p, nil
}

func (s *fakePostStore) GetByID(ctx context.Context, id string) (domainPost.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.posts[id]
	if !ok {
		return domainPost.Post{}, pkgError.NotFoundError("post not found")
	}
	return p, nil
}

func (s *fakePostStore) ListByCampaign(ctx context.Context, campaignID string) ([]domainPost.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domainPost.Post
	for _, p := range s.posts {
		if p.CampaignID == campaignID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *fakePostStore) MarkPublished(ctx context.Context, id string, platformData string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.posts[id]
	if !ok {
		return pkgError.NotFoundError("post not found")
	}
	p.Status = domainPost.StatusPublished
	p.PlatformData = platformData
	p.UpdatedAt = time.Now().UTC()
	s.posts[id] = p
	return nil
}

func (s *fakePostStore) MarkFailed(ctx context.Context, id string, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.posts[id]
	if !ok {
		return pkgError.NotFoundError("post not found")
	}
	p.Status = domainPost.StatusFailed
	p.Error = message
	p.UpdatedAt = time.Now().UTC()
	s.posts[id] = p
	return nil
}

func (s *fakePostStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.posts, id)
	return nil
}

// FailStalled keys on UpdatedAt, matching the gorm implementation's
// updated_at predicate.
func (s *fakePostStore) FailStalled(ctx context.Context, olderThan time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var failed int64
	for id, p := range s.posts {
		if p.Status == domainPost.StatusProcessing && p.UpdatedAt.Before(olderThan) {
			p.Status = domainPost.StatusFailed
			p.Error = "publish attempt stalled"
			s.posts[id] = p
			failed++
		}
	}
	return failed, nil
}

// backdate rewinds a post's UpdatedAt so stall handling can be exercised
// without waiting.
func (s *fakePostStore) backdate(id string, to time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.posts[id]
	p.UpdatedAt = to
	s.posts[id] = p
}

func (s *fakePostStore) all() []domainPost.Post {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domainPost.Post
	for _, p := range s.posts {
		out = append(out, p)
	}
	return out
}

type fakeCredentialResolver struct {
	creds *domainUser.TwitterCredentials
	err   error
}

func (f *fakeCredentialResolver) GetTwitterCredentials(ctx context.Context, userID string) (*domainUser.TwitterCredentials, error) {
	return f.creds, f.err
}

func validCredentials() *domainUser.TwitterCredentials {
	return &domainUser.TwitterCredentials{
		ConsumerKey:    "ck",
		ConsumerSecret: "cs",
		AccessToken:    "at",
		AccessSecret:   "as",
	}
}

type fakeProducer struct {
	text string
	err  error
}

func (f *fakeProducer) Generate(ctx context.Context, params contentgen.Params) (string, error) {
	return f.text, f.err
}

type fakePublisher struct {
	mu       sync.Mutex
	payload  string
	err      error
	attempts int
	lastText string
}

func (f *fakePublisher) Publish(ctx context.Context, creds domainUser.TwitterCredentials, text string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attempts++
	f.lastText = text
	if f.err != nil {
		return "", f.err
	}
	if f.payload == "" {
		return `{"id":"1"}`, nil
	}
	return f.payload, nil
}

var (
	errPublishBoom = errors.New("platform rejected the request")
	errStatusWrite = errors.New("status write refused")
)
