package contentgen

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

// Params is the parameter bag handed to a provider. Targeting fields are
// passed through opaquely from the campaign.
type Params struct {
	Theme           string
	Interests       []string
	Languages       []string
	Locations       []string
	AgeRange        string
	Gender          []string
	MaxLength       int
	ContentTemplate string
}

// Provider is a single AI backend able to produce post text.
type Provider interface {
	Generate(ctx context.Context, params Params) (string, error)
}

var ErrNotConfigured = errors.New("content generation is not configured")

// Service routes generation to the configured provider. Callers are
// expected to treat any returned error as "generation failed" and fall
// back on their own content.
type Service struct {
	provider Provider
	name     string
}

func NewService(providerName string, provider Provider) *Service {
	return &Service{provider: provider, name: providerName}
}

func (s *Service) Generate(ctx context.Context, params Params) (string, error) {
	if s == nil || s.provider == nil {
		return "", ErrNotConfigured
	}

	text, err := s.provider.Generate(ctx, params)
	if err != nil {
		return "", err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("provider %s returned empty content", s.name)
	}

	if params.MaxLength > 0 {
		runes := []rune(text)
		if len(runes) > params.MaxLength {
			logrus.Debugf("[CONTENT] Generated content exceeds %d characters, truncating", params.MaxLength)
			text = string(runes[:params.MaxLength])
		}
	}

	return text, nil
}

// buildPrompt renders the shared instruction both providers use.
func buildPrompt(params Params) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Write a single social media post about %q.\n", params.Theme)
	if len(params.Interests) > 0 {
		fmt.Fprintf(&b, "The audience is interested in: %s.\n", strings.Join(params.Interests, ", "))
	}
	if len(params.Languages) > 0 {
		fmt.Fprintf(&b, "Write it in: %s.\n", strings.Join(params.Languages, ", "))
	}
	if len(params.Locations) > 0 {
		fmt.Fprintf(&b, "The audience is located in: %s.\n", strings.Join(params.Locations, ", "))
	}
	if params.AgeRange != "" {
		fmt.Fprintf(&b, "The audience age range is %s.\n", params.AgeRange)
	}
	if len(params.Gender) > 0 {
		fmt.Fprintf(&b, "The audience gender focus is: %s.\n", strings.Join(params.Gender, ", "))
	}
	if params.ContentTemplate != "" {
		fmt.Fprintf(&b, "Use this template as inspiration: %q.\n", params.ContentTemplate)
	}

	maxLength := params.MaxLength
	if maxLength <= 0 {
		maxLength = 280
	}
	fmt.Fprintf(&b, "Hard limit: %d characters. Return only the post text, no quotes, no explanations.", maxLength)

	return b.String()
}
