// Package profile reads the parts of a Discord user profile the gateway
// objects leave out, such as the banner image.
package profile

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"pokepolice/backend/internal/config"
	"pokepolice/backend/internal/platform"
)

// Client calls the REST endpoint GET /users/{id} with the bot credential.
type Client struct {
	HTTPClient *http.Client
	APIBase    string
	CDNBase    string
	Token      string
}

func NewClient(cfg config.DiscordConfig) *Client {
	return &Client{
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
		APIBase:    cfg.APIBase,
		CDNBase:    cfg.CDNBase,
		Token:      cfg.Token,
	}
}

type userPayload struct {
	ID     string  `json:"id"`
	Banner *string `json:"banner"`
}

// BannerURL returns the user's banner image URL, or "" when none is set.
func (c *Client) BannerURL(ctx context.Context, userID string) (string, error) {
	endpoint := c.APIBase + "/users/" + url.PathEscape(userID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bot "+c.Token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("get user %s: %w", userID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", platform.ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("get user %s: status %d: %s", userID, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload userPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode user %s: %w", userID, err)
	}
	if payload.Banner == nil || *payload.Banner == "" {
		return "", nil
	}
	return BannerURL(c.CDNBase, userID, *payload.Banner), nil
}

// BannerURL builds the CDN address of a banner. Animated banners have an "a_" prefix.
func BannerURL(cdnBase, userID, hash string) string {
	ext := "png"
	if strings.HasPrefix(hash, "a_") {
		ext = "gif"
	}
	return fmt.Sprintf("%s/banners/%s/%s.%s?size=%d", cdnBase, userID, hash, ext, config.BannerSize)
}
