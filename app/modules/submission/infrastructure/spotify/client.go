package spotify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/oauth2/clientcredentials"

	"github.com/jas7457/playlist-party/config"
)

// Client pushes saved tracks onto a user's side playlist through the Spotify
// Web API using the client-credentials flow.
type Client struct {
	httpClient *http.Client
	baseURL    string
	accountID  string
}

// NewClient constructs a Spotify client. The oauth2 transport refreshes the
// access token transparently. Playlists are created under the configured
// service account, not the individual members.
func NewClient(ctx context.Context, cfg config.SpotifyConfig) *Client {
	creds := clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     cfg.TokenURL,
	}
	return &Client{
		httpClient: creds.Client(ctx),
		baseURL:    strings.TrimRight(cfg.APIBaseURL, "/"),
		accountID:  cfg.AccountID,
	}
}

type createPlaylistRequest struct {
	Name   string `json:"name"`
	Public bool   `json:"public"`
}

type playlistResponse struct {
	ID string `json:"id"`
}

// CreatePlaylist creates a private playlist and returns its id.
func (c *Client) CreatePlaylist(ctx context.Context, name string) (string, error) {
	body, err := json.Marshal(createPlaylistRequest{Name: name, Public: false})
	if err != nil {
		return "", fmt.Errorf("failed to marshal playlist request: %w", err)
	}

	url := fmt.Sprintf("%s/users/%s/playlists", c.baseURL, c.accountID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create playlist request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("playlist request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("spotify create playlist: status %d", resp.StatusCode)
	}

	var pr playlistResponse
	if err := json.NewDecoder(resp.Body).Decode(&pr); err != nil {
		return "", fmt.Errorf("failed to decode playlist response: %w", err)
	}
	return pr.ID, nil
}

// AddTracks appends tracks to a playlist. Track ids are converted to Spotify
// URIs on the way out.
func (c *Client) AddTracks(ctx context.Context, playlistID string, trackIDs []string) error {
	if len(trackIDs) == 0 {
		return nil
	}

	uris := make([]string, len(trackIDs))
	for i, id := range trackIDs {
		uris[i] = fmt.Sprintf("spotify:track:%s", id)
	}

	body, err := json.Marshal(map[string][]string{"uris": uris})
	if err != nil {
		return fmt.Errorf("failed to marshal tracks request: %w", err)
	}

	url := fmt.Sprintf("%s/playlists/%s/tracks", c.baseURL, playlistID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create tracks request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("tracks request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("spotify add tracks: status %d", resp.StatusCode)
	}
	return nil
}
