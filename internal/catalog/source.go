// Package catalog fetches the community unit catalog and normalises its
// duck-typed JSON into canonical unit records. Everything past this package
// sees one shape only.
package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"evertale-team-optimiser/internal/env"
)

type Client struct {
	catalogURL      string
	leaderSkillsURL string
	http            *http.Client
}

func New(e env.Env) *Client {
	return &Client{
		catalogURL:      e.CatalogURL,
		leaderSkillsURL: e.LeaderSkillsURL,
		http:            http.DefaultClient,
	}
}

// FetchUnits returns the raw catalog payload. Parsing is left to the
// normaliser so transport and shape concerns stay separate.
func (c *Client) FetchUnits(ctx context.Context) ([]byte, error) {
	return c.fetch(ctx, c.catalogURL)
}

// FetchLeaderSkills returns the leader-skill metadata document, or nil when
// no endpoint is configured.
func (c *Client) FetchLeaderSkills(ctx context.Context) ([]byte, error) {
	if c.leaderSkillsURL == "" {
		return nil, nil
	}
	return c.fetch(ctx, c.leaderSkillsURL)
}

func (c *Client) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request for %s: %w", url, err)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d from %s", res.StatusCode, url)
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response from %s: %w", url, err)
	}

	return body, nil
}
