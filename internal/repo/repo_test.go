package repo

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dkarlovs/habitsync/internal/cache"
	"github.com/dkarlovs/habitsync/internal/remote"

	_ "modernc.org/sqlite"
)

// testBackoff keeps restart delays negligible in tests.
var testBackoff = Backoff{Base: time.Millisecond, Cap: 5 * time.Millisecond}

func setupStores(t *testing.T) *cache.Stores {
	t.Helper()
	stores, err := cache.Open(context.Background(), filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = stores.Close() })
	return stores
}

type mergeCall struct {
	id     string
	fields map[string]any
}

// fakeRemote scripts a remote collection. FetchAll returns fetchDocs or
// fetchErr. Every Observe subscription replays snaps and then either
// terminates with streamErr or stays open until the context is cancelled.
// Write calls are recorded.
type fakeRemote struct {
	mu sync.Mutex

	fetchDocs []remote.Document
	fetchErr  error

	snaps     [][]remote.Document
	streamErr error
	subs      int

	createID  string
	createErr error
	created   []map[string]any

	mergeErr error
	merged   []mergeCall

	deleteErr error
	deleted   []string
}

func (f *fakeRemote) FetchAll(ctx context.Context) ([]remote.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetchDocs, f.fetchErr
}

func (f *fakeRemote) Observe(ctx context.Context) (<-chan []remote.Document, <-chan error) {
	f.mu.Lock()
	f.subs++
	snaps := f.snaps
	terminal := f.streamErr
	f.mu.Unlock()

	docs := make(chan []remote.Document)
	errs := make(chan error, 1)

	go func() {
		defer close(docs)
		for _, s := range snaps {
			select {
			case docs <- s:
			case <-ctx.Done():
				errs <- ctx.Err()
				return
			}
		}
		if terminal != nil {
			errs <- terminal
			return
		}
		<-ctx.Done()
		errs <- ctx.Err()
	}()

	return docs, errs
}

func (f *fakeRemote) Create(ctx context.Context, fields map[string]any) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return "", f.createErr
	}
	f.created = append(f.created, fields)
	if f.createID == "" {
		return "generated-id", nil
	}
	return f.createID, nil
}

func (f *fakeRemote) MergeSet(ctx context.Context, id string, fields map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.mergeErr != nil {
		return f.mergeErr
	}
	f.merged = append(f.merged, mergeCall{id: id, fields: fields})
	return nil
}

func (f *fakeRemote) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeRemote) subscriptions() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.subs
}

// waitErr receives a RunSync result or fails the test after a grace period.
func waitErr(t *testing.T, ch <-chan error) error {
	t.Helper()
	select {
	case err := <-ch:
		return err
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for RunSync to return")
		panic("unreachable")
	}
}
