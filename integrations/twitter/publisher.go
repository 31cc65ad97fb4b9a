package twitter

import (
	"context"
	"encoding/json"

	domainUser "github.com/postpilot/postpilot/domains/user"
)

// Publisher builds a fresh authenticated client per publish call, since
// each campaign execution resolves its own credentials.
type Publisher struct {
	NewClientFunc func() *Client
}

func NewPublisher() *Publisher {
	return &Publisher{NewClientFunc: NewClient}
}

// Publish posts text with the given credentials and returns the platform
// response serialized as JSON.
func (p *Publisher) Publish(ctx context.Context, creds domainUser.TwitterCredentials, text string) (string, error) {
	client := p.NewClientFunc()
	if err := client.Initialize(creds); err != nil {
		return "", err
	}

	result, err := client.PostTweet(ctx, text)
	if err != nil {
		return "", err
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return "", err
	}
	return string(payload), nil
}
