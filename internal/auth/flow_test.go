package auth

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"golang.org/x/oauth2"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(
		m,
		goleak.IgnoreTopFunction("net/http.(*persistConn).readLoop"),
		goleak.IgnoreTopFunction("net/http.(*persistConn).writeLoop"),
		goleak.IgnoreTopFunction("internal/poll.runtime_pollWait"),
	)
}

func TestNewFlow_MissingCredentials(t *testing.T) {
	_, err := NewFlow("", "secret")
	assert.Error(t, err)
	_, err = NewFlow("id", "")
	assert.Error(t, err)
}

func TestFlow_AuthCodeURL(t *testing.T) {
	flow, err := NewFlow("client-id", "client-secret")
	require.NoError(t, err)
	flow.randStateGenerator = func() string { return "test-state" }

	rawURL := flow.AuthCodeURL()
	parsed, err := url.Parse(rawURL)
	require.NoError(t, err)

	assert.Equal(t, "cloud.ouraring.com", parsed.Host)
	assert.Equal(t, "/oauth/authorize", parsed.Path)

	query := parsed.Query()
	assert.Equal(t, "code", query.Get("response_type"))
	assert.Equal(t, "client-id", query.Get("client_id"))
	assert.Equal(t, "http://localhost:3000/callback", query.Get("redirect_uri"))
	assert.Equal(t, "test-state", query.Get("state"))
	assert.Contains(t, query.Get("scope"), "daily")
	assert.Contains(t, query.Get("scope"), "workout")
	assert.Contains(t, query.Get("scope"), "personal")
}

func TestFlow_RunWithoutAuthCodeURL(t *testing.T) {
	flow, err := NewFlow("client-id", "client-secret")
	require.NoError(t, err)

	_, err = flow.Run(context.Background())
	assert.ErrorContains(t, err, "authorization not started")
}

func TestGenerateStateString(t *testing.T) {
	a := GenerateStateString()
	b := GenerateStateString()
	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
}

func TestFlow_HandleCallback(t *testing.T) {
	tokenServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "authorization_code", r.Form.Get("grant_type"))
		assert.Equal(t, "test-code", r.Form.Get("code"))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"access_token":"new-access-token","token_type":"Bearer","expires_in":86400}`)
	}))
	defer tokenServer.Close()

	flow, err := NewFlow("client-id", "client-secret")
	require.NoError(t, err)
	flow.config.Endpoint = oauth2.Endpoint{
		AuthURL:  tokenServer.URL + "/authorize",
		TokenURL: tokenServer.URL + "/token",
	}
	flow.randStateGenerator = func() string { return "test-state" }
	flow.AuthCodeURL()

	resultCh := make(chan callbackResult, 1)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/callback?code=test-code&state=test-state", nil)
	flow.handleCallback(rec, req, resultCh)

	select {
	case res := <-resultCh:
		require.NoError(t, res.err)
		require.NotNil(t, res.token)
		assert.Equal(t, "new-access-token", res.token.AccessToken)
	case <-time.After(time.Second):
		t.Fatal("no callback result")
	}
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Success")
}

func TestFlow_HandleCallback_Errors(t *testing.T) {
	flow, err := NewFlow("client-id", "client-secret")
	require.NoError(t, err)
	flow.randStateGenerator = func() string { return "test-state" }
	flow.AuthCodeURL()

	cases := []struct {
		name         string
		target       string
		expectedCode int
		expectedErr  string
	}{
		{
			name:         "provider error",
			target:       "/callback?error=access_denied",
			expectedCode: http.StatusBadRequest,
			expectedErr:  "authorization refused",
		},
		{
			name:         "state mismatch",
			target:       "/callback?code=test-code&state=wrong",
			expectedCode: http.StatusForbidden,
			expectedErr:  "state mismatch",
		},
		{
			name:         "missing code",
			target:       "/callback?state=test-state",
			expectedCode: http.StatusBadRequest,
			expectedErr:  "no authorization code",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resultCh := make(chan callbackResult, 1)
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, tc.target, nil)
			flow.handleCallback(rec, req, resultCh)

			res := <-resultCh
			require.Error(t, res.err)
			assert.ErrorContains(t, res.err, tc.expectedErr)
			assert.Equal(t, tc.expectedCode, rec.Code)
		})
	}
}

func TestSaveTokenToEnvFile(t *testing.T) {
	t.Run("creates missing file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), ".env")
		require.NoError(t, SaveTokenToEnvFile(path, "abc123"))

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "OURA_TOKEN=abc123\n", string(content))
	})

	t.Run("replaces existing line", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), ".env")
		require.NoError(t, os.WriteFile(path, []byte("OURA_CLIENT_ID=id\nOURA_TOKEN=old\nOURA_CLIENT_SECRET=sec\n"), 0o600))

		require.NoError(t, SaveTokenToEnvFile(path, "fresh"))

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "OURA_CLIENT_ID=id\nOURA_TOKEN=fresh\nOURA_CLIENT_SECRET=sec\n", string(content))
	})

	t.Run("appends when absent", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), ".env")
		require.NoError(t, os.WriteFile(path, []byte("OURA_CLIENT_ID=id"), 0o600))

		require.NoError(t, SaveTokenToEnvFile(path, "abc"))

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.True(t, strings.HasSuffix(string(content), "\nOURA_TOKEN=abc\n"), "got: %q", content)
	})
}
