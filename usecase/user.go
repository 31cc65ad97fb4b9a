package usecase

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	domainUser "github.com/postpilot/postpilot/domains/user"
	"github.com/postpilot/postpilot/pkg/crypto"
	pkgError "github.com/postpilot/postpilot/pkg/error"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// --- Persistence Model ---

type userModel struct {
	ID           string    `gorm:"primaryKey;column:id"`
	Name         string    `gorm:"column:name;not null"`
	Email        string    `gorm:"column:email;not null;uniqueIndex"`
	PasswordHash string    `gorm:"column:password_hash;not null"`
	Integrations string    `gorm:"column:integrations"` // JSON blob, credential values encrypted
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (userModel) TableName() string {
	return "users"
}

type userService struct {
	db      *gorm.DB
	twitter domainUser.ITwitterGateway
}

func NewUserService(db *gorm.DB, twitterGateway domainUser.ITwitterGateway) domainUser.IUserUsecase {
	s := &userService{db: db, twitter: twitterGateway}
	if db != nil {
		if err := db.AutoMigrate(&userModel{}); err != nil {
			logrus.WithError(err).Error("[USER] failed to init schema")
		}
	} else {
		logrus.Error("[USER] GORM DB is nil, service will be disabled")
	}
	return s
}

func (s *userService) ensureDB() error {
	if s.db == nil {
		return pkgError.InternalServerError("user storage is not initialized")
	}
	return nil
}

func (s *userService) Create(ctx context.Context, req domainUser.CreateUserRequest) (domainUser.User, error) {
	if err := s.ensureDB(); err != nil {
		return domainUser.User{}, err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return domainUser.User{}, pkgError.ValidationError("email: cannot be blank.")
	}
	if len(req.Password) < 8 {
		return domainUser.User{}, pkgError.ValidationError("password: must be at least 8 characters.")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return domainUser.User{}, err
	}

	model := userModel{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: string(hash),
	}

	if err := s.db.WithContext(ctx).Create(&model).Error; err != nil {
		return domainUser.User{}, err
	}

	return userFromModel(model), nil
}

func (s *userService) GetByID(ctx context.Context, id string) (domainUser.User, error) {
	if err := s.ensureDB(); err != nil {
		return domainUser.User{}, err
	}

	model, err := s.loadUser(ctx, id)
	if err != nil {
		return domainUser.User{}, err
	}
	return userFromModel(model), nil
}

// ConnectTwitter validates the submitted credentials against the platform,
// encrypts them and stores them in the user's integrations blob together
// with the resolved account name.
func (s *userService) ConnectTwitter(ctx context.Context, req domainUser.ConnectTwitterRequest) (domainUser.TwitterStatus, error) {
	if err := s.ensureDB(); err != nil {
		return domainUser.TwitterStatus{}, err
	}
	if s.twitter == nil {
		return domainUser.TwitterStatus{}, pkgError.InternalServerError("twitter gateway is not configured")
	}

	model, err := s.loadUser(ctx, req.UserID)
	if err != nil {
		return domainUser.TwitterStatus{}, err
	}

	creds := domainUser.TwitterCredentials{
		ConsumerKey:    strings.TrimSpace(req.APIKey),
		ConsumerSecret: strings.TrimSpace(req.APISecret),
		AccessToken:    strings.TrimSpace(req.AccessToken),
		AccessSecret:   strings.TrimSpace(req.AccessTokenSecret),
	}

	identity, err := s.twitter.Identify(ctx, creds)
	if err != nil {
		return domainUser.TwitterStatus{}, pkgError.ValidationError("twitter credentials are invalid: " + err.Error())
	}

	integration := domainUser.TwitterIntegration{Username: identity.Username}
	if integration.APIKey, err = crypto.Encrypt(creds.ConsumerKey); err != nil {
		return domainUser.TwitterStatus{}, err
	}
	if integration.APISecret, err = crypto.Encrypt(creds.ConsumerSecret); err != nil {
		return domainUser.TwitterStatus{}, err
	}
	if integration.AccessToken, err = crypto.Encrypt(creds.AccessToken); err != nil {
		return domainUser.TwitterStatus{}, err
	}
	if integration.AccessTokenSecret, err = crypto.Encrypt(creds.AccessSecret); err != nil {
		return domainUser.TwitterStatus{}, err
	}

	integrations := parseIntegrations(model.Integrations)
	if integrations == nil {
		integrations = map[string]json.RawMessage{}
	}
	raw, err := json.Marshal(integration)
	if err != nil {
		return domainUser.TwitterStatus{}, err
	}
	integrations["twitter"] = raw

	blob, err := json.Marshal(integrations)
	if err != nil {
		return domainUser.TwitterStatus{}, err
	}

	if err := s.db.WithContext(ctx).Model(&userModel{}).
		Where("id = ?", model.ID).
		Update("integrations", string(blob)).Error; err != nil {
		return domainUser.TwitterStatus{}, err
	}

	logrus.Infof("[CREDENTIAL] Linked twitter account @%s for user %s", identity.Username, model.ID)
	return domainUser.TwitterStatus{Connected: true, Username: identity.Username}, nil
}

func (s *userService) DisconnectTwitter(ctx context.Context, userID string) error {
	if err := s.ensureDB(); err != nil {
		return err
	}

	model, err := s.loadUser(ctx, userID)
	if err != nil {
		return err
	}

	integrations := parseIntegrations(model.Integrations)
	if _, ok := integrations["twitter"]; !ok {
		return nil
	}
	delete(integrations, "twitter")

	blob, err := json.Marshal(integrations)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Model(&userModel{}).
		Where("id = ?", model.ID).
		Update("integrations", string(blob)).Error
}

func (s *userService) TwitterStatus(ctx context.Context, userID string) (domainUser.TwitterStatus, error) {
	if err := s.ensureDB(); err != nil {
		return domainUser.TwitterStatus{}, err
	}

	model, err := s.loadUser(ctx, userID)
	if err != nil {
		return domainUser.TwitterStatus{}, err
	}

	integration, ok := twitterIntegrationFromBlob(model.Integrations)
	if !ok {
		return domainUser.TwitterStatus{Connected: false}, nil
	}
	return domainUser.TwitterStatus{Connected: true, Username: integration.Username}, nil
}

// GetTwitterCredentials loads and decrypts the user's stored twitter
// credentials. Every broken state (no blob, missing fields, decryption
// failure) is reported as (nil, nil) so callers treat it uniformly as
// "not configured".
func (s *userService) GetTwitterCredentials(ctx context.Context, userID string) (*domainUser.TwitterCredentials, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}

	model, err := s.loadUser(ctx, userID)
	if err != nil {
		if pkgError.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}

	integration, ok := twitterIntegrationFromBlob(model.Integrations)
	if !ok {
		return nil, nil
	}

	if integration.APIKey == "" || integration.APISecret == "" ||
		integration.AccessToken == "" || integration.AccessTokenSecret == "" {
		logrus.Debugf("[CREDENTIAL] User %s has incomplete twitter credentials", userID)
		return nil, nil
	}

	creds := &domainUser.TwitterCredentials{}
	fields := []struct {
		cipher string
		target *string
	}{
		{integration.APIKey, &creds.ConsumerKey},
		{integration.APISecret, &creds.ConsumerSecret},
		{integration.AccessToken, &creds.AccessToken},
		{integration.AccessTokenSecret, &creds.AccessSecret},
	}
	for _, f := range fields {
		plain, err := crypto.Decrypt(f.cipher)
		if err != nil {
			logrus.WithError(err).Errorf("[CREDENTIAL] Failed to decrypt twitter credentials for user %s", userID)
			return nil, nil
		}
		*f.target = plain
	}

	return creds, nil
}

// --- Helpers ---

func (s *userService) loadUser(ctx context.Context, id string) (userModel, error) {
	trimmed := strings.TrimSpace(id)
	if trimmed == "" {
		return userModel{}, pkgError.ValidationError("user_id: cannot be blank.")
	}

	var model userModel
	if err := s.db.WithContext(ctx).First(&model, "id = ?", trimmed).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return userModel{}, pkgError.NotFoundError("user not found")
		}
		return userModel{}, err
	}
	return model, nil
}

// parseIntegrations normalizes the stored blob. Legacy rows may hold the
// JSON object double-encoded as a JSON string; both shapes are accepted.
func parseIntegrations(raw string) map[string]json.RawMessage {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return map[string]json.RawMessage{}
	}

	var integrations map[string]json.RawMessage
	if err := json.Unmarshal([]byte(trimmed), &integrations); err == nil {
		return integrations
	}

	var nested string
	if err := json.Unmarshal([]byte(trimmed), &nested); err == nil {
		if err := json.Unmarshal([]byte(nested), &integrations); err == nil {
			return integrations
		}
	}

	logrus.Warn("[CREDENTIAL] Could not parse stored integrations blob, treating as empty")
	return map[string]json.RawMessage{}
}

func twitterIntegrationFromBlob(raw string) (domainUser.TwitterIntegration, bool) {
	integrations := parseIntegrations(raw)
	data, ok := integrations["twitter"]
	if !ok {
		return domainUser.TwitterIntegration{}, false
	}

	var integration domainUser.TwitterIntegration
	if err := json.Unmarshal(data, &integration); err != nil {
		return domainUser.TwitterIntegration{}, false
	}
	return integration, true
}

func userFromModel(m userModel) domainUser.User {
	return domainUser.User{
		ID:        m.ID,
		Name:      m.Name,
		Email:     m.Email,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
