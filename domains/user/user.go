package user

import (
	"context"
	"time"
)

type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TwitterCredentials is the decrypted, ready-to-use credential bag.
type TwitterCredentials struct {
	ConsumerKey    string
	ConsumerSecret string
	AccessToken    string
	AccessSecret   string
}

// TwitterIntegration is the stored (encrypted) shape inside the user's
// integrations blob, under the "twitter" key.
type TwitterIntegration struct {
	APIKey            string `json:"api_key"`
	APISecret         string `json:"api_secret"`
	AccessToken       string `json:"access_token"`
	AccessTokenSecret string `json:"access_token_secret"`
	Username          string `json:"username,omitempty"`
}

type CreateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ConnectTwitterRequest struct {
	UserID            string `json:"user_id"`
	APIKey            string `json:"api_key"`
	APISecret         string `json:"api_secret"`
	AccessToken       string `json:"access_token"`
	AccessTokenSecret string `json:"access_token_secret"`
}

type TwitterStatus struct {
	Connected bool   `json:"connected"`
	Username  string `json:"username,omitempty"`
}

// TwitterIdentity is the remote account identity resolved at link time.
type TwitterIdentity struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// ITwitterGateway validates a credential bag against the platform and
// resolves the account it belongs to.
type ITwitterGateway interface {
	Identify(ctx context.Context, creds TwitterCredentials) (TwitterIdentity, error)
}

type IUserUsecase interface {
	Create(ctx context.Context, req CreateUserRequest) (User, error)
	GetByID(ctx context.Context, id string) (User, error)
	ConnectTwitter(ctx context.Context, req ConnectTwitterRequest) (TwitterStatus, error)
	DisconnectTwitter(ctx context.Context, userID string) error
	TwitterStatus(ctx context.Context, userID string) (TwitterStatus, error)
	// GetTwitterCredentials returns (nil, nil) when the user has no usable
	// integration, so callers treat every broken state as "not configured".
	GetTwitterCredentials(ctx context.Context, userID string) (*TwitterCredentials, error)
}
