//go:build integration

package rod_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fwojciec/readable"
	"github.com/fwojciec/readable/rod"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetcher_Fetch(t *testing.T) {
	t.Parallel()

	fetcher, err := rod.NewFetcher(rod.WithSettle(200 * time.Millisecond))
	require.NoError(t, err)
	t.Cleanup(func() { fetcher.Close() })

	t.Run("returns rendered HTML", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte(`<!DOCTYPE html>
<html>
<head><title>Harbour</title></head>
<body>
<article id="story">Loading...</article>
<script>
document.getElementById('story').textContent = 'The harbour reopened on Monday.';
</script>
</body>
</html>`))
		}))
		defer srv.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		html, err := fetcher.Fetch(ctx, srv.URL)
		require.NoError(t, err)
		assert.Contains(t, html, "The harbour reopened on Monday.")
		assert.NotContains(t, html, "Loading...")
	})

	t.Run("honours cancelled context", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := fetcher.Fetch(ctx, "https://example.com/")
		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("rejects relative URL", func(t *testing.T) {
		t.Parallel()

		_, err := fetcher.Fetch(context.Background(), "/news/harbour")
		assert.Equal(t, readable.EINVALID, readable.ErrorCode(err))
	})
}

func TestBrowserManager_RecyclesAfterMaxPages(t *testing.T) {
	t.Parallel()

	manager, err := rod.NewBrowserManager(rod.WithMaxPages(2))
	require.NoError(t, err)
	defer manager.Close()

	ctx := context.Background()
	first := manager.LauncherPID()
	require.NotZero(t, first)

	for range 2 {
		_, release, err := manager.Page(ctx)
		require.NoError(t, err)
		release()
	}
	assert.Equal(t, first, manager.LauncherPID())

	page, release, err := manager.Page(ctx)
	require.NoError(t, err)
	defer release()
	assert.NotNil(t, page)
	assert.NotEqual(t, first, manager.LauncherPID())
}

func TestBrowserManager_PageAfterClose(t *testing.T) {
	t.Parallel()

	manager, err := rod.NewBrowserManager()
	require.NoError(t, err)
	require.NoError(t, manager.Close())
	require.NoError(t, manager.Close())

	_, _, err = manager.Page(context.Background())
	assert.Error(t, err)
}
