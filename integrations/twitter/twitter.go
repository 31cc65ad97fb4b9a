package twitter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dghubble/oauth1"
	"github.com/sirupsen/logrus"

	domainUser "github.com/postpilot/postpilot/domains/user"
)

// MaxTweetLength is the platform limit applied before any publish attempt.
const MaxTweetLength = 280

const (
	defaultV1BaseURL = "https://api.twitter.com/1.1"
	defaultV2BaseURL = "https://api.x.com/2"
)

var (
	ErrNotInitialized = errors.New("twitter client is not initialized")
	ErrEmptyTweet     = errors.New("tweet text cannot be empty")
)

// Client talks to the Twitter API on behalf of a single account. Base
// URLs are overridable for tests.
type Client struct {
	V1BaseURL string
	V2BaseURL string

	httpClient *http.Client
}

func NewClient() *Client {
	return &Client{
		V1BaseURL: defaultV1BaseURL,
		V2BaseURL: defaultV2BaseURL,
	}
}

// Initialize builds an OAuth 1.0a signed HTTP client from the four
// credential strings. All four must be non-empty.
func (c *Client) Initialize(creds domainUser.TwitterCredentials) error {
	if creds.ConsumerKey == "" || creds.ConsumerSecret == "" ||
		creds.AccessToken == "" || creds.AccessSecret == "" {
		return errors.New("all four twitter credentials are required")
	}

	config := oauth1.NewConfig(creds.ConsumerKey, creds.ConsumerSecret)
	token := oauth1.NewToken(creds.AccessToken, creds.AccessSecret)

	httpClient := config.Client(oauth1.NoContext, token)
	httpClient.Timeout = 30 * time.Second
	c.httpClient = httpClient
	return nil
}

// TweetResult is the subset of the publish response callers care about.
type TweetResult struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// UserInfo mirrors the profile fields we use.
type UserInfo struct {
	ID         string `json:"id_str"`
	ScreenName string `json:"screen_name"`
	Name       string `json:"name"`
}

// PostTweet publishes the given text, truncated to the platform limit.
// It tries the v1.1 statuses/update endpoint first and falls back to the
// v2 tweets endpoint when v1.1 rejects the request. On a double failure
// the v2 error is the one propagated.
func (c *Client) PostTweet(ctx context.Context, text string) (TweetResult, error) {
	if c.httpClient == nil {
		return TweetResult{}, ErrNotInitialized
	}
	if strings.TrimSpace(text) == "" {
		return TweetResult{}, ErrEmptyTweet
	}

	runes := []rune(text)
	if len(runes) > MaxTweetLength {
		logrus.Debugf("[TWITTER] Tweet exceeds %d characters, truncating", MaxTweetLength)
		text = string(runes[:MaxTweetLength])
	}

	result, v1Err := c.postTweetV1(ctx, text)
	if v1Err == nil {
		return result, nil
	}

	logrus.WithError(v1Err).Warn("[TWITTER] v1.1 publish failed, retrying via v2")

	result, v2Err := c.postTweetV2(ctx, text)
	if v2Err != nil {
		return TweetResult{}, v2Err
	}
	return result, nil
}

func (c *Client) postTweetV1(ctx context.Context, text string) (TweetResult, error) {
	form := url.Values{}
	form.Set("status", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.V1BaseURL+"/statuses/update.json", strings.NewReader(form.Encode()))
	if err != nil {
		return TweetResult{}, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	body, err := c.do(req)
	if err != nil {
		return TweetResult{}, err
	}

	var payload struct {
		IDStr string `json:"id_str"`
		Text  string `json:"text"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return TweetResult{}, fmt.Errorf("failed to decode v1.1 response: %w", err)
	}
	return TweetResult{ID: payload.IDStr, Text: payload.Text}, nil
}

func (c *Client) postTweetV2(ctx context.Context, text string) (TweetResult, error) {
	payload, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return TweetResult{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.V2BaseURL+"/tweets", strings.NewReader(string(payload)))
	if err != nil {
		return TweetResult{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	body, err := c.do(req)
	if err != nil {
		return TweetResult{}, err
	}

	var response struct {
		Data TweetResult `json:"data"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return TweetResult{}, fmt.Errorf("failed to decode v2 response: %w", err)
	}
	return response.Data, nil
}

// VerifyCredentials reports whether the configured credentials
// authenticate. It never returns an error, a failed lookup on both API
// versions just means "not valid".
func (c *Client) VerifyCredentials(ctx context.Context) bool {
	info, err := c.GetUserInfo(ctx)
	if err != nil {
		logrus.WithError(err).Debug("[TWITTER] Credential verification failed")
		return false
	}
	return info.ScreenName != "" || info.ID != ""
}

// GetUserInfo fetches the authenticated account's profile, trying the
// v1.1 verify_credentials endpoint first and the v2 users/me endpoint on
// failure.
func (c *Client) GetUserInfo(ctx context.Context) (UserInfo, error) {
	if c.httpClient == nil {
		return UserInfo{}, ErrNotInitialized
	}

	info, v1Err := c.getUserInfoV1(ctx)
	if v1Err == nil {
		return info, nil
	}

	logrus.WithError(v1Err).Debug("[TWITTER] v1.1 profile lookup failed, retrying via v2")

	info, v2Err := c.getUserInfoV2(ctx)
	if v2Err != nil {
		return UserInfo{}, v2Err
	}
	return info, nil
}

func (c *Client) getUserInfoV1(ctx context.Context) (UserInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.V1BaseURL+"/account/verify_credentials.json", nil)
	if err != nil {
		return UserInfo{}, err
	}

	body, err := c.do(req)
	if err != nil {
		return UserInfo{}, err
	}

	var info UserInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return UserInfo{}, fmt.Errorf("failed to decode profile response: %w", err)
	}
	return info, nil
}

func (c *Client) getUserInfoV2(ctx context.Context) (UserInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.V2BaseURL+"/users/me", nil)
	if err != nil {
		return UserInfo{}, err
	}

	body, err := c.do(req)
	if err != nil {
		return UserInfo{}, err
	}

	var response struct {
		Data struct {
			ID       string `json:"id"`
			Username string `json:"username"`
			Name     string `json:"name"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return UserInfo{}, fmt.Errorf("failed to decode users/me response: %w", err)
	}
	return UserInfo{ID: response.Data.ID, ScreenName: response.Data.Username, Name: response.Data.Name}, nil
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("twitter API returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return body, nil
}
