package main

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aktagon/pocket2omnivore/internal/importer"
)

func TestScan(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/gone" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	rows := []importer.RawRecord{
		{"url": srv.URL + "/ok"},
		{"url": srv.URL + "/gone"},
		{"url": "not-a-url"},
	}

	dead, err := scan(context.Background(), importer.NewLivenessProbe(srv.Client(), ""), rows, time.Second, 0, io.Discard)
	require.NoError(t, err)
	require.Len(t, dead, 2)

	assert.Equal(t, DeadLink{Row: 2, URL: srv.URL + "/gone", Reason: "HTTP 404"}, dead[0])
	assert.Equal(t, 3, dead[1].Row)
	assert.Contains(t, dead[1].Reason, "invalid URL format")
}

func TestScan_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := scan(ctx, importer.UncheckedProbe{}, []importer.RawRecord{{"url": "https://example.com"}}, time.Second, 0, io.Discard)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestScan_CancelledDuringDelay(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	time.AfterFunc(50*time.Millisecond, cancel)

	rows := []importer.RawRecord{{"url": "https://one.example"}, {"url": "https://two.example"}}

	start := time.Now()
	_, err := scan(ctx, importer.UncheckedProbe{}, rows, time.Second, time.Hour, io.Discard)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestLoadUserAgent(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("HOME", dir)
	t.Setenv("POCKET2OMNIVORE_HTTP_USER_AGENT", "")

	ua, err := loadUserAgent(rootCmd)
	require.NoError(t, err)
	assert.Equal(t, defaultUserAgent, ua)

	settings := "http:\n  user_agent: from-settings/2.0\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pocket2omnivore.yaml"), []byte(settings), 0644))

	ua, err = loadUserAgent(rootCmd)
	require.NoError(t, err)
	assert.Equal(t, "from-settings/2.0", ua)

	t.Setenv("POCKET2OMNIVORE_HTTP_USER_AGENT", "from-env/3.0")
	ua, err = loadUserAgent(rootCmd)
	require.NoError(t, err)
	assert.Equal(t, "from-env/3.0", ua)

	require.NoError(t, rootCmd.Flags().Set("user-agent", "from-flag/4.0"))
	ua, err = loadUserAgent(rootCmd)
	require.NoError(t, err)
	assert.Equal(t, "from-flag/4.0", ua)
}
