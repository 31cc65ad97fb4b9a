package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	domainPost "github.com/postpilot/postpilot/domains/post"
	pkgError "github.com/postpilot/postpilot/pkg/error"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// --- Persistence Model ---

type postModel struct {
	ID           string    `gorm:"primaryKey;column:id"`
	CampaignID   string    `gorm:"column:campaign_id;not null;index"`
	Content      string    `gorm:"column:content"`
	ScheduledFor time.Time `gorm:"column:scheduled_for"`
	Status       string    `gorm:"column:status;not null;index"`
	PlatformData string    `gorm:"column:platform_data"`
	Error        string    `gorm:"column:error"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (postModel) TableName() string {
	return "posts"
}

type postService struct {
	db *gorm.DB
}

func NewPostService(db *gorm.DB) domainPost.IPostUsecase {
	s := &postService{db: db}
	if db != nil {
		if err := db.AutoMigrate(&postModel{}); err != nil {
			logrus.WithError(err).Error("[POST] failed to init schema")
		}
	} else {
		logrus.Error("[POST] GORM DB is nil, service will be disabled")
	}
	return s
}

func (s *postService) ensureDB() error {
	if s.db == nil {
		return pkgError.InternalServerError("post storage is not initialized")
	}
	return nil
}

func (s *postService) Create(ctx context.Context, req domainPost.CreatePostRequest) (domainPost.Post, error) {
	if err := s.ensureDB(); err != nil {
		return domainPost.Post{}, err
	}

	if strings.TrimSpace(req.CampaignID) == "" {
		return domainPost.Post{}, pkgError.ValidationError("campaign_id: cannot be blank.")
	}

	status := req.Status
	if status == "" {
		status = domainPost.StatusProcessing
	}

	scheduledFor := req.ScheduledFor
	if scheduledFor.IsZero() {
		scheduledFor = time.Now().UTC()
	}

	model := postModel{
		ID:           uuid.NewString(),
		CampaignID:   strings.TrimSpace(req.CampaignID),
		Content:      req.Content,
		ScheduledFor: scheduledFor,
		Status:       string(status),
		Error:        req.Error,
	}

	if err := s.db.WithContext(ctx).Create(&model).Error; err != nil {
		return domainPost.Post{}, err
	}

	return postFromModel(model), nil
}

func (s *postService) GetByID(ctx context.Context, id string) (domainPost.Post, error) {
	if err := s.ensureDB(); err != nil {
		return domainPost.Post{}, err
	}

	var model postModel
	if err := s.db.WithContext(ctx).First(&model, "id = ?", strings.TrimSpace(id)).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return domainPost.Post{}, pkgError.NotFoundError("post not found")
		}
		return domainPost.Post{}, err
	}

	return postFromModel(model), nil
}

func (s *postService) ListByCampaign(ctx context.Context, campaignID string) ([]domainPost.Post, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}

	var models []postModel
	if err := s.db.WithContext(ctx).
		Where("campaign_id = ?", strings.TrimSpace(campaignID)).
		Order("scheduled_for DESC").
		Find(&models).Error; err != nil {
		return nil, err
	}

	result := make([]domainPost.Post, len(models))
	for i, m := range models {
		result[i] = postFromModel(m)
	}
	return result, nil
}

// MarkPublished finishes a processing post with the platform payload.
func (s *postService) MarkPublished(ctx context.Context, id string, platformData string) error {
	if err := s.ensureDB(); err != nil {
		return err
	}

	return s.db.WithContext(ctx).Model(&postModel{}).
		Where("id = ?", strings.TrimSpace(id)).
		Updates(map[string]any{
			"status":        string(domainPost.StatusPublished),
			"platform_data": platformData,
		}).Error
}

// MarkFailed finishes a processing post with the failure message.
func (s *postService) MarkFailed(ctx context.Context, id string, message string) error {
	if err := s.ensureDB(); err != nil {
		return err
	}

	return s.db.WithContext(ctx).Model(&postModel{}).
		Where("id = ?", strings.TrimSpace(id)).
		Updates(map[string]any{
			"status": string(domainPost.StatusFailed),
			"error":  message,
		}).Error
}

func (s *postService) Delete(ctx context.Context, id string) error {
	if err := s.ensureDB(); err != nil {
		return err
	}

	trimmed := strings.TrimSpace(id)
	if trimmed == "" {
		return pkgError.ValidationError("id: cannot be blank.")
	}

	result := s.db.WithContext(ctx).Delete(&postModel{}, "id = ?", trimmed)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgError.NotFoundError("post not found")
	}
	return nil
}

// FailStalled marks posts stuck in "processing" since before olderThan as
// failed. The safety-net tick uses this to close out attempts that died
// mid-flight (e.g. a crash between post creation and the publish call).
func (s *postService) FailStalled(ctx context.Context, olderThan time.Time) (int64, error) {
	if err := s.ensureDB(); err != nil {
		return 0, err
	}

	result := s.db.WithContext(ctx).Model(&postModel{}).
		Where("status = ? AND updated_at < ?", string(domainPost.StatusProcessing), olderThan).
		Updates(map[string]any{
			"status": string(domainPost.StatusFailed),
			"error":  "publish attempt stalled",
		})
	return result.RowsAffected, result.Error
}

// --- Helpers ---

func postFromModel(m postModel) domainPost.Post {
	return domainPost.Post{
		ID:           m.ID,
		CampaignID:   m.CampaignID,
		Content:      m.Content,
		ScheduledFor: m.ScheduledFor,
		Status:       domainPost.Status(m.Status),
		PlatformData: m.PlatformData,
		Error:        m.Error,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}
