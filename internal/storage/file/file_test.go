package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestStore_PersistsAcrossInstances(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "blogfront", "session.json")

	s := New(path)
	_, ok, err := s.Get(ctx, "user")
	require.NoError(t, err)
	require.False(t, ok, "missing file reads as empty")

	require.NoError(t, s.SetMany(ctx, map[string]string{"user": `{"id":1}`, "isAuthenticated": "true"}))

	again := New(path)
	v, ok, err := again.Get(ctx, "user")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, `{"id":1}`, v)

	st, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), st.Mode().Perm())

	require.NoError(t, again.Delete(ctx, "user", "isAuthenticated"))
	_, ok, _ = s.Get(ctx, "isAuthenticated")
	require.False(t, ok)
}

func TestStore_CorruptFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o600))

	_, _, err := New(path).Get(context.Background(), "user")
	require.Error(t, err)
}

func TestStore_EmptyFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	_, ok, err := New(path).Get(context.Background(), "user")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestStore_WatchSeesOtherWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	watched := New(path, WithLogger(zaptest.NewLogger(t)))

	ctx, cancel := context.WithCancel(context.Background())
	changed := make(chan struct{}, 16)
	done := make(chan error, 1)
	go func() {
		done <- watched.Watch(ctx, func() { changed <- struct{}{} })
	}()

	other := New(path)
	deadline := time.After(5 * time.Second)
	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()

	// the watcher registers asynchronously; keep writing until it notices
wait:
	for {
		select {
		case <-changed:
			break wait
		case <-tick.C:
			require.NoError(t, other.SetMany(context.Background(), map[string]string{"isAuthenticated": "true"}))
		case <-deadline:
			t.Fatalf("no change notification")
		}
	}

	cancel()
	require.NoError(t, <-done)
}
