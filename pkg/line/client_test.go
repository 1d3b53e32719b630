package line

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, profileStatus int) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		if r.Form.Get("code") != "good-code" {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"error": "invalid_grant"})
			return
		}
		assert.Equal(t, "channel-id", r.Form.Get("client_id"))
		assert.Equal(t, "channel-secret", r.Form.Get("client_secret"))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token": "access-123",
			"token_type":   "Bearer",
			"expires_in":   2592000,
		})
	})
	mux.HandleFunc("/profile", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer access-123", r.Header.Get("Authorization"))
		w.WriteHeader(profileStatus)
		json.NewEncoder(w).Encode(map[string]string{
			"userId":      "U1234",
			"displayName": "阿明",
			"pictureUrl":  "https://profile.line-scdn.net/abc",
			"message":     "not allowed",
		})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(srv *httptest.Server) Config {
	return Config{
		ChannelID:     "channel-id",
		ChannelSecret: "channel-secret",
		CallbackURL:   "http://localhost/api/line/callback",
		AuthURL:       srv.URL + "/authorize",
		TokenURL:      srv.URL + "/token",
		ProfileURL:    srv.URL + "/profile",
	}
}

func TestNewClient_InvalidConfig(t *testing.T) {
	_, err := NewClient(Config{ChannelID: "only-id"})
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestClient_AuthCodeURL(t *testing.T) {
	client, err := NewClient(Config{ChannelID: "id", ChannelSecret: "secret", CallbackURL: "http://localhost/cb"})
	require.NoError(t, err)

	u, err := url.Parse(client.AuthCodeURL("state-xyz"))
	require.NoError(t, err)
	assert.Equal(t, "access.line.me", u.Host)
	assert.Equal(t, "state-xyz", u.Query().Get("state"))
	assert.Equal(t, "code", u.Query().Get("response_type"))
	assert.Equal(t, "http://localhost/cb", u.Query().Get("redirect_uri"))
}

func TestClient_Exchange(t *testing.T) {
	srv := newTestServer(t, http.StatusOK)
	client, err := NewClient(testConfig(srv))
	require.NoError(t, err)

	profile, err := client.Exchange(context.Background(), "good-code")
	require.NoError(t, err)
	assert.Equal(t, "U1234", profile.UserID)
	assert.Equal(t, "阿明", profile.DisplayName)
}

func TestClient_Exchange_BadCode(t *testing.T) {
	srv := newTestServer(t, http.StatusOK)
	client, err := NewClient(testConfig(srv))
	require.NoError(t, err)

	_, err = client.Exchange(context.Background(), "bad-code")
	assert.ErrorIs(t, err, ErrExchangeFailed)
}

func TestClient_Exchange_ProfileError(t *testing.T) {
	srv := newTestServer(t, http.StatusUnauthorized)
	client, err := NewClient(testConfig(srv))
	require.NoError(t, err)

	_, err = client.Exchange(context.Background(), "good-code")
	assert.ErrorIs(t, err, ErrProfileFailed)
}
