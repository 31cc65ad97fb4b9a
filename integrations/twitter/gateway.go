package twitter

import (
	"context"

	domainUser "github.com/postpilot/postpilot/domains/user"
)

// Gateway adapts the HTTP client to the credential-linking flow. A fresh
// client is built per call since every call carries its own credentials.
type Gateway struct {
	// NewClientFunc is swappable in tests. Defaults to NewClient.
	NewClientFunc func() *Client
}

func NewGateway() *Gateway {
	return &Gateway{NewClientFunc: NewClient}
}

func (g *Gateway) Identify(ctx context.Context, creds domainUser.TwitterCredentials) (domainUser.TwitterIdentity, error) {
	client := g.NewClientFunc()
	if err := client.Initialize(creds); err != nil {
		return domainUser.TwitterIdentity{}, err
	}

	info, err := client.GetUserInfo(ctx)
	if err != nil {
		return domainUser.TwitterIdentity{}, err
	}
	return domainUser.TwitterIdentity{ID: info.ID, Username: info.ScreenName}, nil
}
