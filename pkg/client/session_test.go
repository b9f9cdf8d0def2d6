package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskboard/internal/api"
	"taskboard/pkg/task"
)

type testServer struct {
	*httptest.Server
	store    *task.MemStore
	requests atomic.Int64
	fail     atomic.Bool
}

// newTestServer runs the real API over a memory store. While fail is set every
// request answers 500.
func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ts := &testServer{store: task.NewMemStore()}
	h := api.New(ts.store)
	ts.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ts.requests.Add(1)
		if ts.fail.Load() {
			http.Error(w, `{"message":"unavailable"}`, http.StatusInternalServerError)
			return
		}
		h.ServeHTTP(w, r)
	}))
	t.Cleanup(ts.Close)
	return ts
}

func newTestSession(t *testing.T, opts ...SessionOption) (*Session, *testServer) {
	ts := newTestServer(t)
	return NewSession(New(ts.URL, nil), opts...), ts
}

func TestSessionLoad(t *testing.T) {
	sess, ts := newTestSession(t)
	ctx := context.Background()
	_, err := ts.store.Create(ctx, "A", "")
	require.NoError(t, err)
	_, err = ts.store.Create(ctx, "B", "")
	require.NoError(t, err)

	assert.True(t, sess.Snapshot().Loading)
	require.NoError(t, sess.Load(ctx))

	snap := sess.Snapshot()
	assert.False(t, snap.Loading)
	require.Len(t, snap.Tasks, 2)
	assert.Equal(t, "B", snap.Tasks[0].Title)
}

func TestSessionLoadFailure(t *testing.T) {
	sess, ts := newTestSession(t)
	ts.fail.Store(true)

	err := sess.Load(context.Background())
	require.Error(t, err)

	snap := sess.Snapshot()
	assert.False(t, snap.Loading)
	assert.Empty(t, snap.Tasks)
}

func TestSessionCreateBlankTitleSendsNothing(t *testing.T) {
	sess, ts := newTestSession(t)
	sess.SetDraft("   ", "desc")

	_, err := sess.Create(context.Background())
	assert.ErrorIs(t, err, ErrEmptyTitle)
	assert.Zero(t, ts.requests.Load())
	assert.Equal(t, Draft{Title: "   ", Description: "desc"}, sess.Snapshot().Draft)
}

func TestSessionCreate(t *testing.T) {
	sess, _ := newTestSession(t)
	ctx := context.Background()
	require.NoError(t, sess.Load(ctx))

	sess.SetDraft("A", "")
	_, err := sess.Create(ctx)
	require.NoError(t, err)
	sess.SetDraft("B", "second")
	created, err := sess.Create(ctx)
	require.NoError(t, err)

	snap := sess.Snapshot()
	require.Len(t, snap.Tasks, 2)
	assert.Equal(t, created.ID, snap.Tasks[0].ID)
	assert.Equal(t, "A", snap.Tasks[1].Title)
	assert.Equal(t, Draft{}, snap.Draft)
}

func TestSessionCreateFailureKeepsDraft(t *testing.T) {
	sess, ts := newTestSession(t)
	ctx := context.Background()
	require.NoError(t, sess.Load(ctx))
	ts.fail.Store(true)

	sess.SetDraft("A", "desc")
	_, err := sess.Create(ctx)
	require.Error(t, err)

	snap := sess.Snapshot()
	assert.Empty(t, snap.Tasks)
	assert.Equal(t, Draft{Title: "A", Description: "desc"}, snap.Draft)
}

func TestSessionToggleRoundTrip(t *testing.T) {
	sess, _ := newTestSession(t)
	ctx := context.Background()
	require.NoError(t, sess.Load(ctx))
	sess.SetDraft("Buy milk", "2 litres")
	created, err := sess.Create(ctx)
	require.NoError(t, err)

	toggled, err := sess.Toggle(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, toggled.Completed)
	assert.Equal(t, "Buy milk", toggled.Title)
	assert.Equal(t, "2 litres", toggled.Description)
	assert.True(t, sess.Snapshot().Tasks[0].Completed)

	toggled, err = sess.Toggle(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, toggled.Completed)
	assert.False(t, sess.Snapshot().Tasks[0].Completed)
}

func TestSessionToggleUnknown(t *testing.T) {
	sess, ts := newTestSession(t)
	_, err := sess.Toggle(context.Background(), "missing")
	assert.ErrorIs(t, err, task.ErrNotFound)
	assert.Zero(t, ts.requests.Load())
}

func TestSessionUpdateExitsEditOnlyOnSuccess(t *testing.T) {
	sess, ts := newTestSession(t)
	ctx := context.Background()
	require.NoError(t, sess.Load(ctx))
	sess.SetDraft("Old", "")
	created, err := sess.Create(ctx)
	require.NoError(t, err)

	sess.StartEdit(created.ID)
	title := "New"

	ts.fail.Store(true)
	_, err = sess.Update(ctx, created.ID, task.Patch{Title: &title})
	require.Error(t, err)
	snap := sess.Snapshot()
	assert.Equal(t, created.ID, snap.EditingID)
	assert.Equal(t, "Old", snap.Tasks[0].Title)

	ts.fail.Store(false)
	_, err = sess.Update(ctx, created.ID, task.Patch{Title: &title})
	require.NoError(t, err)
	snap = sess.Snapshot()
	assert.Equal(t, "", snap.EditingID)
	assert.Equal(t, "New", snap.Tasks[0].Title)
}

func TestSessionDeleteConfirm(t *testing.T) {
	answer := false
	var prompts []string
	sess, ts := newTestSession(t, WithConfirm(func(p string) bool {
		prompts = append(prompts, p)
		return answer
	}))
	ctx := context.Background()
	require.NoError(t, sess.Load(ctx))
	sess.SetDraft("A", "")
	created, err := sess.Create(ctx)
	require.NoError(t, err)
	before := ts.requests.Load()

	err = sess.Delete(ctx, created.ID)
	assert.ErrorIs(t, err, ErrDeclined)
	assert.Equal(t, before, ts.requests.Load())
	assert.Len(t, sess.Snapshot().Tasks, 1)

	answer = true
	require.NoError(t, sess.Delete(ctx, created.ID))
	assert.Empty(t, sess.Snapshot().Tasks)
	assert.Equal(t, []string{DeletePrompt, DeletePrompt}, prompts)

	_, err = ts.store.Get(ctx, created.ID)
	assert.ErrorIs(t, err, task.ErrNotFound)
}

func TestSessionDeleteDeclinedByDefault(t *testing.T) {
	sess, ts := newTestSession(t)
	ctx := context.Background()
	require.NoError(t, sess.Load(ctx))
	sess.SetDraft("A", "")
	created, err := sess.Create(ctx)
	require.NoError(t, err)
	before := ts.requests.Load()

	assert.ErrorIs(t, sess.Delete(ctx, created.ID), ErrDeclined)
	assert.Equal(t, before, ts.requests.Load())
	_, err = ts.store.Get(ctx, created.ID)
	assert.NoError(t, err)
}

func TestSessionDeleteFailureKeepsTask(t *testing.T) {
	sess, ts := newTestSession(t, WithConfirm(func(string) bool { return true }))
	ctx := context.Background()
	require.NoError(t, sess.Load(ctx))
	sess.SetDraft("A", "")
	created, err := sess.Create(ctx)
	require.NoError(t, err)

	ts.fail.Store(true)
	require.Error(t, sess.Delete(ctx, created.ID))
	assert.Len(t, sess.Snapshot().Tasks, 1)
}

func TestSessionOnChange(t *testing.T) {
	var calls atomic.Int64
	sess, _ := newTestSession(t, WithOnChange(func() { calls.Add(1) }))

	require.NoError(t, sess.Load(context.Background()))
	sess.SetDraft("A", "")
	assert.EqualValues(t, 2, calls.Load())
}

func TestClientAPIError(t *testing.T) {
	ts := newTestServer(t)
	c := New(ts.URL, nil)
	ctx := context.Background()

	_, err := c.Get(ctx, "00000000-0000-7000-8000-000000000000")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	var ae *APIError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "Tarea no encontrada", ae.Message)

	_, err = c.Create(ctx, "  ", "")
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, http.StatusBadRequest, ae.StatusCode)
	assert.False(t, IsNotFound(err))
}

func TestClientStatus(t *testing.T) {
	ts := newTestServer(t)
	c := New(ts.URL+"/", nil)
	ctx := context.Background()

	a, err := c.Create(ctx, "A", "")
	require.NoError(t, err)
	_, err = c.Create(ctx, "B", "")
	require.NoError(t, err)
	done := true
	_, err = c.Update(ctx, a.ID, task.Patch{Completed: &done})
	require.NoError(t, err)

	counts, err := c.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, task.Counts{Total: 2, Completed: 1, Pending: 1}, counts)

	list, err := c.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, counts, task.Count(list))
}

func TestClientTimeout(t *testing.T) {
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer slow.Close()

	c := New(slow.URL, &http.Client{Timeout: 50 * time.Millisecond})
	_, err := c.List(context.Background())
	assert.Error(t, err)
}
