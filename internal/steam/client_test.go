package steam

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gamevault/gamevault/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestFetchOwnedLibrarySkipsMalformedEntries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/IPlayerService/GetOwnedGames/v1/", r.URL.Path)
		assert.Equal(t, "76561198000000001", r.URL.Query().Get("steamid"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"response": {
				"game_count": 3,
				"games": [
					{"appid": 620, "name": "Portal 2", "playtime_forever": 120, "developer": "Valve", "publisher": "Valve", "genre": "Puzzle", "description": "Portals"},
					{"appid": 0, "name": "Broken Entry"},
					{"appid": 440, "name": "Team Fortress 2", "playtime_forever": -5}
				]
			}
		}`))
	}))
	defer server.Close()

	client := NewClient(config.Config{SteamAPIKey: "test-key", SteamAPIURL: server.URL}, zap.NewNop())

	games, err := client.FetchOwnedLibrary(context.Background(), "76561198000000001")
	require.NoError(t, err)
	require.Len(t, games, 2)

	assert.Equal(t, int64(620), games[0].AppID)
	assert.Equal(t, "Portal 2", games[0].Name)
	assert.Equal(t, int64(120), games[0].PlaytimeMinutes)
	assert.Equal(t, "Valve", games[0].Developer)

	assert.Equal(t, int64(440), games[1].AppID)
	assert.Equal(t, int64(0), games[1].PlaytimeMinutes)
	assert.Equal(t, "Unknown Developer", games[1].Developer)
	assert.Equal(t, "Unknown Publisher", games[1].Publisher)
	assert.Equal(t, "Uncategorized", games[1].Genre)
	assert.Equal(t, "No description available", games[1].Description)
}

func TestFetchOwnedLibraryRejectsErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client := NewClient(config.Config{SteamAPIKey: "bad-key", SteamAPIURL: server.URL}, zap.NewNop())

	_, err := client.FetchOwnedLibrary(context.Background(), "76561198000000001")
	assert.Error(t, err)

	_, err = client.FetchOwnedLibrary(context.Background(), "")
	assert.Error(t, err)
}
