package usecase

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	domainCampaign "github.com/postpilot/postpilot/domains/campaign"
	pkgError "github.com/postpilot/postpilot/pkg/error"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// --- Persistence Model ---

type campaignModel struct {
	ID              string     `gorm:"primaryKey;column:id"`
	UserID          string     `gorm:"column:user_id;not null;index"`
	Title           string     `gorm:"column:title;not null"`
	Status          string     `gorm:"column:status;not null;index"`
	Frequency       string     `gorm:"column:frequency;not null"`
	StartDate       time.Time  `gorm:"column:start_date"`
	StartTime       string     `gorm:"column:start_time"`
	EndDate         *time.Time `gorm:"column:end_date"`
	Timezone        string     `gorm:"column:timezone"`
	CustomDays      string     `gorm:"column:custom_days"`  // JSON array
	CustomTimes     string     `gorm:"column:custom_times"` // JSON array
	Interests       string     `gorm:"column:interests"`    // JSON array
	Languages       string     `gorm:"column:languages"`    // JSON array
	Locations       string     `gorm:"column:locations"`    // JSON array
	AgeRange        string     `gorm:"column:age_range"`
	Gender          string     `gorm:"column:gender"` // JSON array
	ContentTemplate string     `gorm:"column:content_template"`
	PostsCount      int        `gorm:"column:posts_count;not null;default:0"`
	CreatedAt       time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (campaignModel) TableName() string {
	return "campaigns"
}

type campaignService struct {
	db *gorm.DB
}

func NewCampaignService(db *gorm.DB) domainCampaign.ICampaignUsecase {
	s := &campaignService{db: db}
	if db != nil {
		if err := db.AutoMigrate(&campaignModel{}); err != nil {
			logrus.WithError(err).Error("[CAMPAIGN] failed to init schema")
		}
	} else {
		logrus.Error("[CAMPAIGN] GORM DB is nil, service will be disabled")
	}
	return s
}

func (s *campaignService) ensureDB() error {
	if s.db == nil {
		return pkgError.InternalServerError("campaign storage is not initialized")
	}
	return nil
}

func (s *campaignService) Create(ctx context.Context, req domainCampaign.CreateCampaignRequest) (domainCampaign.Campaign, error) {
	if err := s.ensureDB(); err != nil {
		return domainCampaign.Campaign{}, err
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return domainCampaign.Campaign{}, pkgError.ValidationError("title: cannot be blank.")
	}
	if strings.TrimSpace(req.UserID) == "" {
		return domainCampaign.Campaign{}, pkgError.ValidationError("user_id: cannot be blank.")
	}
	if !req.Frequency.Valid() {
		return domainCampaign.Campaign{}, pkgError.ValidationError("frequency: unsupported frequency.")
	}

	timezone := strings.TrimSpace(req.Timezone)
	if timezone == "" {
		timezone = "UTC"
	}

	model := campaignModel{
		ID:              uuid.NewString(),
		UserID:          strings.TrimSpace(req.UserID),
		Title:           title,
		Status:          string(domainCampaign.StatusDraft),
		Frequency:       string(req.Frequency),
		StartDate:       req.StartDate,
		StartTime:       strings.TrimSpace(req.StartTime),
		EndDate:         req.EndDate,
		Timezone:        timezone,
		CustomDays:      encodeStringList(req.CustomDays),
		CustomTimes:     encodeStringList(req.CustomTimes),
		Interests:       encodeStringList(req.Interests),
		Languages:       encodeStringList(req.Languages),
		Locations:       encodeStringList(req.Locations),
		AgeRange:        strings.TrimSpace(req.AgeRange),
		Gender:          encodeStringList(req.Gender),
		ContentTemplate: req.ContentTemplate,
	}

	if err := s.db.WithContext(ctx).Create(&model).Error; err != nil {
		return domainCampaign.Campaign{}, err
	}

	return campaignFromModel(model), nil
}

func (s *campaignService) List(ctx context.Context, userID string) ([]domainCampaign.Campaign, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}

	var models []campaignModel
	query := s.db.WithContext(ctx).Order("created_at DESC")
	if strings.TrimSpace(userID) != "" {
		query = query.Where("user_id = ?", strings.TrimSpace(userID))
	}
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}

	result := make([]domainCampaign.Campaign, len(models))
	for i, m := range models {
		result[i] = campaignFromModel(m)
	}
	return result, nil
}

func (s *campaignService) GetByID(ctx context.Context, id string) (domainCampaign.Campaign, error) {
	if err := s.ensureDB(); err != nil {
		return domainCampaign.Campaign{}, err
	}

	trimmed := strings.TrimSpace(id)
	if trimmed == "" {
		return domainCampaign.Campaign{}, pkgError.ValidationError("id: cannot be blank.")
	}

	var model campaignModel
	if err := s.db.WithContext(ctx).First(&model, "id = ?", trimmed).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return domainCampaign.Campaign{}, pkgError.NotFoundError("campaign not found")
		}
		return domainCampaign.Campaign{}, err
	}

	return campaignFromModel(model), nil
}

func (s *campaignService) Update(ctx context.Context, id string, req domainCampaign.UpdateCampaignRequest) (domainCampaign.Campaign, error) {
	if err := s.ensureDB(); err != nil {
		return domainCampaign.Campaign{}, err
	}

	var model campaignModel
	if err := s.db.WithContext(ctx).First(&model, "id = ?", strings.TrimSpace(id)).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return domainCampaign.Campaign{}, pkgError.NotFoundError("campaign not found")
		}
		return domainCampaign.Campaign{}, err
	}

	if req.Title != "" {
		model.Title = strings.TrimSpace(req.Title)
	}
	if req.Frequency != "" {
		if !req.Frequency.Valid() {
			return domainCampaign.Campaign{}, pkgError.ValidationError("frequency: unsupported frequency.")
		}
		model.Frequency = string(req.Frequency)
	}
	if req.StartDate != nil {
		model.StartDate = *req.StartDate
	}
	if req.StartTime != "" {
		model.StartTime = strings.TrimSpace(req.StartTime)
	}
	if req.EndDate != nil {
		model.EndDate = req.EndDate
	}
	if req.Timezone != "" {
		model.Timezone = strings.TrimSpace(req.Timezone)
	}
	if req.CustomDays != nil {
		model.CustomDays = encodeStringList(req.CustomDays)
	}
	if req.CustomTimes != nil {
		model.CustomTimes = encodeStringList(req.CustomTimes)
	}
	if req.Interests != nil {
		model.Interests = encodeStringList(req.Interests)
	}
	if req.Languages != nil {
		model.Languages = encodeStringList(req.Languages)
	}
	if req.Locations != nil {
		model.Locations = encodeStringList(req.Locations)
	}
	if req.AgeRange != "" {
		model.AgeRange = strings.TrimSpace(req.AgeRange)
	}
	if req.Gender != nil {
		model.Gender = encodeStringList(req.Gender)
	}
	if req.ContentTemplate != "" {
		model.ContentTemplate = req.ContentTemplate
	}

	if err := s.db.WithContext(ctx).Save(&model).Error; err != nil {
		return domainCampaign.Campaign{}, err
	}

	return campaignFromModel(model), nil
}

// Delete removes the campaign together with all of its posts.
func (s *campaignService) Delete(ctx context.Context, id string) error {
	if err := s.ensureDB(); err != nil {
		return err
	}

	trimmed := strings.TrimSpace(id)
	if trimmed == "" {
		return pkgError.ValidationError("id: cannot be blank.")
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&postModel{}, "campaign_id = ?", trimmed).Error; err != nil {
			return err
		}
		return tx.Delete(&campaignModel{}, "id = ?", trimmed).Error
	})
}

func (s *campaignService) ListByStatus(ctx context.Context, status domainCampaign.Status) ([]domainCampaign.Campaign, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}

	var models []campaignModel
	if err := s.db.WithContext(ctx).Where("status = ?", string(status)).Find(&models).Error; err != nil {
		return nil, err
	}

	result := make([]domainCampaign.Campaign, len(models))
	for i, m := range models {
		result[i] = campaignFromModel(m)
	}
	return result, nil
}

func (s *campaignService) SetStatus(ctx context.Context, id string, status domainCampaign.Status) error {
	if err := s.ensureDB(); err != nil {
		return err
	}

	result := s.db.WithContext(ctx).Model(&campaignModel{}).
		Where("id = ?", strings.TrimSpace(id)).
		Update("status", string(status))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgError.NotFoundError("campaign not found")
	}
	return nil
}

// IncrementPostsCount adjusts posts_count atomically in storage.
func (s *campaignService) IncrementPostsCount(ctx context.Context, id string, delta int) error {
	if err := s.ensureDB(); err != nil {
		return err
	}

	return s.db.WithContext(ctx).Model(&campaignModel{}).
		Where("id = ?", strings.TrimSpace(id)).
		UpdateColumn("posts_count", gorm.Expr("posts_count + ?", delta)).Error
}

// --- Helpers ---

func campaignFromModel(m campaignModel) domainCampaign.Campaign {
	return domainCampaign.Campaign{
		ID:              m.ID,
		UserID:          m.UserID,
		Title:           m.Title,
		Status:          domainCampaign.Status(m.Status),
		Frequency:       domainCampaign.Frequency(m.Frequency),
		StartDate:       m.StartDate,
		StartTime:       m.StartTime,
		EndDate:         m.EndDate,
		Timezone:        m.Timezone,
		CustomDays:      decodeStringList(m.CustomDays),
		CustomTimes:     decodeStringList(m.CustomTimes),
		Interests:       decodeStringList(m.Interests),
		Languages:       decodeStringList(m.Languages),
		Locations:       decodeStringList(m.Locations),
		AgeRange:        m.AgeRange,
		Gender:          decodeStringList(m.Gender),
		ContentTemplate: m.ContentTemplate,
		PostsCount:      m.PostsCount,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func encodeStringList(values []string) string {
	if len(values) == 0 {
		return ""
	}
	data, err := json.Marshal(values)
	if err != nil {
		return ""
	}
	return string(data)
}

func decodeStringList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var values []string
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return nil
	}
	return values
}
