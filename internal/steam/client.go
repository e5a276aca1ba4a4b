// Package steam fetches a player's owned library from the Steam Web API.
// Fetches are one-shot and best-effort: malformed entries are skipped
// individually instead of failing the batch.
package steam

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gamevault/gamevault/internal/config"
	"go.uber.org/zap"
)

const defaultAPIURL = "https://api.steampowered.com"

// OwnedGame is one entry of a player's library.
type OwnedGame struct {
	AppID           int64
	Name            string
	PlaytimeMinutes int64
	Developer       string
	Publisher       string
	Genre           string
	Description     string
}

// Client calls the Steam Web API.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
	log     *zap.Logger
}

func NewClient(cfg config.Config, log *zap.Logger) *Client {
	baseURL := strings.TrimSpace(cfg.SteamAPIURL)
	if baseURL == "" {
		baseURL = defaultAPIURL
	}
	return &Client{
		apiKey:  cfg.SteamAPIKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
		log:     log.Named("steam.client"),
	}
}

type ownedGamesEnvelope struct {
	Response struct {
		GameCount int64 `json:"game_count"`
		Games     []struct {
			AppID           json.Number `json:"appid"`
			Name            string      `json:"name"`
			PlaytimeForever json.Number `json:"playtime_forever"`
			Developer       string      `json:"developer"`
			Publisher       string      `json:"publisher"`
			Genre           string      `json:"genre"`
			Description     string      `json:"description"`
		} `json:"games"`
	} `json:"response"`
}

// FetchOwnedLibrary returns the owned games for a Steam account. Entries
// without an app id are dropped; missing metadata fields get defaults.
func (c *Client) FetchOwnedLibrary(ctx context.Context, steamID string) ([]OwnedGame, error) {
	steamID = strings.TrimSpace(steamID)
	if steamID == "" {
		return nil, fmt.Errorf("steam id is empty")
	}

	endpoint := fmt.Sprintf(
		"%s/IPlayerService/GetOwnedGames/v1/?key=%s&steamid=%s&include_appinfo=1&format=json",
		c.baseURL,
		url.QueryEscape(c.apiKey),
		url.QueryEscape(steamID),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("steam api request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("steam api status %d", resp.StatusCode)
	}

	var envelope ownedGamesEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("steam api decode: %w", err)
	}

	games := make([]OwnedGame, 0, len(envelope.Response.Games))
	for _, raw := range envelope.Response.Games {
		appID, err := raw.AppID.Int64()
		if err != nil || appID <= 0 {
			c.log.Warn("skipping malformed steam entry", zap.String("name", raw.Name))
			continue
		}

		playtime, err := raw.PlaytimeForever.Int64()
		if err != nil || playtime < 0 {
			playtime = 0
		}

		games = append(games, OwnedGame{
			AppID:           appID,
			Name:            strings.TrimSpace(raw.Name),
			PlaytimeMinutes: playtime,
			Developer:       defaultIfEmpty(raw.Developer, "Unknown Developer"),
			Publisher:       defaultIfEmpty(raw.Publisher, "Unknown Publisher"),
			Genre:           defaultIfEmpty(raw.Genre, "Uncategorized"),
			Description:     defaultIfEmpty(raw.Description, "No description available"),
		})
	}

	return games, nil
}

func defaultIfEmpty(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return strings.TrimSpace(value)
}
