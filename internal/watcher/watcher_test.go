package watcher_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ccj16/regdesk/internal/receipts"
	"github.com/ccj16/regdesk/internal/watcher"
)

func startWatcher(t *testing.T, dbPath string) <-chan struct{} {
	t.Helper()
	w, err := watcher.New(watcher.Config{DBPath: dbPath, DebounceDur: 50 * time.Millisecond})
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Stop() })

	onChange, err := w.Start()
	require.NoError(t, err)
	return onChange
}

func TestWatcher_CoalescesBurstOfWrites(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "receipts.db")
	require.NoError(t, os.WriteFile(dbPath, []byte("v0"), 0o600))

	onChange := startWatcher(t, dbPath)

	for i := 0; i < 10; i++ {
		require.NoError(t, os.WriteFile(dbPath, []byte(fmt.Sprintf("v%d", i)), 0o600))
		time.Sleep(10 * time.Millisecond)
	}

	select {
	case <-onChange:
	case <-time.After(time.Second):
		t.Fatal("expected a change notification")
	}

	select {
	case <-onChange:
		t.Fatal("burst should produce one notification")
	case <-time.After(150 * time.Millisecond):
	}
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "receipts.db")
	otherPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(dbPath, []byte("db"), 0o600))
	require.NoError(t, os.WriteFile(otherPath, []byte("api: {}"), 0o600))

	onChange := startWatcher(t, dbPath)

	require.NoError(t, os.WriteFile(otherPath, []byte("ui: {}"), 0o600))

	select {
	case <-onChange:
		t.Fatal("unrelated file should not notify")
	case <-time.After(150 * time.Millisecond):
	}
}

func TestWatcher_SidecarFiles(t *testing.T) {
	for _, suffix := range []string{"-wal", "-journal"} {
		t.Run(suffix, func(t *testing.T) {
			dir := t.TempDir()
			dbPath := filepath.Join(dir, "receipts.db")
			require.NoError(t, os.WriteFile(dbPath, []byte("db"), 0o600))

			onChange := startWatcher(t, dbPath)
			require.NoError(t, os.WriteFile(dbPath+suffix, []byte("page"), 0o600))

			select {
			case <-onChange:
			case <-time.After(time.Second):
				t.Fatalf("expected notification for %s", suffix)
			}
		})
	}
}

func TestWatcher_SeesWritesFromAnotherStore(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "receipts.db")

	store, err := receipts.Open(ctx, dbPath)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	onChange := startWatcher(t, dbPath)

	other, err := receipts.Open(ctx, dbPath)
	require.NoError(t, err)
	require.NoError(t, other.Add(ctx, receipts.Receipt{SecurityKey: "from-elsewhere"}))
	require.NoError(t, other.Close())

	select {
	case <-onChange:
	case <-time.After(2 * time.Second):
		t.Fatal("expected notification after another process wrote")
	}

	got, err := store.Get(ctx, "from-elsewhere")
	require.NoError(t, err)
	require.Equal(t, "from-elsewhere", got.SecurityKey)
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "receipts.db")
	w, err := watcher.New(watcher.DefaultConfig(dbPath))
	require.NoError(t, err)

	_, err = w.Start()
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		_ = w.Stop()
		_ = w.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop timed out")
	}
}

func TestNew_RequiresPath(t *testing.T) {
	_, err := watcher.New(watcher.Config{})
	require.Error(t, err)
}

func TestDefaultConfig(t *testing.T) {
	cfg := watcher.DefaultConfig("/data/receipts.db")
	require.Equal(t, "/data/receipts.db", cfg.DBPath)
	require.Equal(t, 500*time.Millisecond, cfg.DebounceDur)
}

func TestWaitCmd(t *testing.T) {
	require.Nil(t, watcher.WaitCmd(nil))

	changes := make(chan struct{}, 1)
	changes <- struct{}{}
	require.Equal(t, watcher.ChangedMsg{}, watcher.WaitCmd(changes)())

	close(changes)
	require.Nil(t, watcher.WaitCmd(changes)())
}
