package assist

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSanitizeMessage(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "fix parser bug", "fix parser bug"},
		{"surrounding whitespace", "  fix parser bug \n", "fix parser bug"},
		{"fenced", "```\nfix parser bug\n```", "fix parser bug"},
		{"fenced with language", "```text\nfix parser bug\n```", "fix parser bug"},
		{"body preserved", "fix parser bug\n\nhandle empty hunks too", "fix parser bug\n\nhandle empty hunks too"},
		{"empty", "```\n```", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, sanitizeMessage(tt.in))
		})
	}
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("OPENROUTER_API_KEY", "")
	_, err := ConfigFromEnv()
	require.Error(t, err)

	t.Setenv("OPENROUTER_API_KEY", "sk-test")
	t.Setenv("OPENROUTER_MODEL", "")
	cfg, err := ConfigFromEnv()
	require.NoError(t, err)
	require.Equal(t, defaultModel, cfg.Model)

	t.Setenv("OPENROUTER_MODEL", "mistralai/mistral-small")
	t.Setenv("OPENROUTER_REFERER", "https://example.com")
	cfg, err = ConfigFromEnv()
	require.NoError(t, err)
	require.Equal(t, "mistralai/mistral-small", cfg.Model)
	require.Equal(t, "https://example.com", cfg.Referer)
}

func TestHeaderTransportSetsAttribution(t *testing.T) {
	var got http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
	}))
	defer srv.Close()

	client := &http.Client{Transport: &headerTransport{
		base:    http.DefaultTransport,
		referer: "https://example.com",
		title:   "gitscope",
	}}
	resp, err := client.Get(srv.URL)
	require.NoError(t, err)
	resp.Body.Close()

	require.Equal(t, "https://example.com", got.Get("HTTP-Referer"))
	require.Equal(t, "gitscope", got.Get("X-Title"))
}
