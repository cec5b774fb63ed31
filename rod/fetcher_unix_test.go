//go:build integration && !windows

package rod_test

import (
	"syscall"
	"testing"
	"time"

	"github.com/fwojciec/readable/rod"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// processAlive sends signal 0, which only checks that pid exists.
func processAlive(pid int) bool {
	return syscall.Kill(pid, syscall.Signal(0)) == nil
}

func TestFetcher_Close_StopsBrowser(t *testing.T) {
	t.Parallel()

	fetcher, err := rod.NewFetcher(rod.WithBrowserOptions(rod.WithMaxPages(2)))
	require.NoError(t, err)

	pid := fetcher.LauncherPID()
	require.NotZero(t, pid)
	require.True(t, processAlive(pid))

	require.NoError(t, fetcher.Close())
	require.NoError(t, fetcher.Close(), "second close is a no-op")

	assert.Eventually(t, func() bool { return !processAlive(pid) }, 2*time.Second, 50*time.Millisecond)
}
