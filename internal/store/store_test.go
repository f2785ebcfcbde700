package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/idilsaglam/cardtodo/internal/kv"
	"github.com/idilsaglam/cardtodo/internal/model"
	"github.com/idilsaglam/cardtodo/internal/store/jsonstore"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakePersister records every save. When gate is set, each save blocks until
// a value is received from it.
type fakePersister struct {
	mu      sync.Mutex
	initial []model.Record
	saves   [][]model.Record
	err     error
	gate    chan struct{}
	started chan struct{}
}

func (f *fakePersister) Load(context.Context) []model.Record {
	return append([]model.Record{}, f.initial...)
}

func (f *fakePersister) Save(_ context.Context, records []model.Record) error {
	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.gate != nil {
		<-f.gate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saves = append(f.saves, append([]model.Record{}, records...))
	return f.err
}

func (f *fakePersister) Saves() [][]model.Record {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.saves
}

func newTestStore(t *testing.T, p Persister, opts ...Option) *Store {
	t.Helper()
	s := New(p, opts...)
	t.Cleanup(func() { _ = s.Close(context.Background()) })
	return s
}

func ticking() func() time.Time {
	var mu sync.Mutex
	now := time.UnixMilli(1_700_000_000_000)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		now = now.Add(time.Millisecond)
		return now
	}
}

func TestRoundTripThroughAdapter(t *testing.T) {
	ctx := context.Background()
	adapter := jsonstore.New(kv.NewMemory(), "", nil)
	s := newTestStore(t, adapter, WithClock(ticking()))

	a, err := s.Add("A", "1")
	require.NoError(t, err)
	b, err := s.Add("B", "2")
	require.NoError(t, err)
	_, err = s.Add("C", "3")
	require.NoError(t, err)
	s.Toggle(a.ID)
	s.Remove(b.ID)
	require.NoError(t, s.Flush(ctx))

	want := s.List()
	require.NoError(t, adapter.Save(ctx, want))

	reloaded := newTestStore(t, adapter)
	reloaded.Load(ctx)
	if diff := cmp.Diff(want, reloaded.List()); diff != "" {
		t.Errorf("reloaded list differs (-want +got):\n%s", diff)
	}
}

func TestAddValidation(t *testing.T) {
	p := &fakePersister{}
	s := newTestStore(t, p)

	for _, tc := range []struct{ name, age, field string }{
		{"", "30", model.FieldName},
		{"Sam", "", model.FieldAge},
	} {
		_, err := s.Add(tc.name, tc.age)
		var ve *model.ValidationError
		require.True(t, errors.As(err, &ve), "add(%q, %q)", tc.name, tc.age)
		assert.Equal(t, tc.field, ve.Field)
	}

	require.NoError(t, s.Flush(context.Background()))
	assert.Empty(t, s.List())
	assert.Empty(t, p.Saves(), "rejected adds must not write")
}

func TestAddNewestFirst(t *testing.T) {
	s := newTestStore(t, &fakePersister{}, WithClock(ticking()))

	a, err := s.Add("A", "1")
	require.NoError(t, err)
	b, err := s.Add("B", "2")
	require.NoError(t, err)

	got := s.List()
	require.Len(t, got, 2)
	assert.Equal(t, b, got[0])
	assert.Equal(t, a, got[1])
	assert.False(t, a.Completed)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestRemoveUnknownIDIsNoop(t *testing.T) {
	ctx := context.Background()
	p := &fakePersister{}
	s := newTestStore(t, p, WithClock(ticking()))
	_, err := s.Add("A", "1")
	require.NoError(t, err)
	before := s.List()

	assert.False(t, s.Remove("does-not-exist"))
	assert.Equal(t, before, s.List())

	require.NoError(t, s.Flush(ctx))
	saves := p.Saves()
	require.NotEmpty(t, saves)
	assert.Equal(t, before, saves[len(saves)-1])
}

func TestRemove(t *testing.T) {
	s := newTestStore(t, &fakePersister{}, WithClock(ticking()))
	a, _ := s.Add("A", "1")
	b, _ := s.Add("B", "2")

	assert.True(t, s.Remove(a.ID))
	assert.Equal(t, []model.Record{b}, s.List())
	assert.False(t, s.Remove(a.ID), "second remove finds nothing")
}

func TestToggleIsPureFlip(t *testing.T) {
	s := newTestStore(t, &fakePersister{}, WithClock(ticking()))
	orig, err := s.Add("Sam", "30")
	require.NoError(t, err)

	flipped, ok := s.Toggle(orig.ID)
	require.True(t, ok)
	assert.True(t, flipped.Completed)
	assert.Equal(t, orig.ID, flipped.ID)
	assert.Equal(t, orig.Name, flipped.Name)
	assert.Equal(t, orig.Age, flipped.Age)

	back, ok := s.Toggle(orig.ID)
	require.True(t, ok)
	assert.Equal(t, orig, back)
	assert.Equal(t, []model.Record{orig}, s.List())
}

func TestToggleUnknownID(t *testing.T) {
	s := newTestStore(t, &fakePersister{}, WithClock(ticking()))
	a, _ := s.Add("A", "1")

	_, ok := s.Toggle("nope")
	assert.False(t, ok)
	assert.Equal(t, []model.Record{a}, s.List())
}

func TestLoadCorruptDataYieldsEmpty(t *testing.T) {
	ctx := context.Background()
	backend := kv.NewMemory()
	require.NoError(t, backend.Set(ctx, jsonstore.DefaultKey, "[{broken"))

	s := newTestStore(t, jsonstore.New(backend, "", nil))
	s.Load(ctx)
	assert.Empty(t, s.List())
	assert.Zero(t, s.Len())
}

func TestLoadReplacesAndSeedsIDs(t *testing.T) {
	p := &fakePersister{initial: []model.Record{
		{ID: "1700000000500", Name: "Old", Age: "9"},
	}}
	// The clock sits before the stored id; new ids must still be fresh.
	stuck := func() time.Time { return time.UnixMilli(1_700_000_000_000) }
	s := newTestStore(t, p, WithClock(stuck))

	s.Load(context.Background())
	require.Equal(t, 1, s.Len())

	r, err := s.Add("New", "1")
	require.NoError(t, err)
	assert.Equal(t, "1700000000501", r.ID)
}

func TestLoadIgnoresOutOfRangeIDs(t *testing.T) {
	p := &fakePersister{initial: []model.Record{
		{ID: "9223372036854775807", Name: "Huge", Age: "1"},
		{ID: "1001", Name: "Old", Age: "2"},
	}}
	stuck := func() time.Time { return time.UnixMilli(1000) }
	s := newTestStore(t, p, WithClock(stuck))
	s.Load(context.Background())

	for i := 0; i < 3; i++ {
		_, err := s.Add("New", "1")
		require.NoError(t, err)
	}

	got := ids(s.List())
	assert.Equal(t, []string{"1004", "1003", "1002", "9223372036854775807", "1001"}, got)
	seen := map[string]bool{}
	for _, id := range got {
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestListIsSnapshot(t *testing.T) {
	s := newTestStore(t, &fakePersister{}, WithClock(ticking()))
	_, err := s.Add("A", "1")
	require.NoError(t, err)

	view := s.List()
	view[0].Name = "mutated"
	view[0].Completed = true

	assert.Equal(t, "A", s.List()[0].Name)
	assert.False(t, s.List()[0].Completed)
}

func TestWriteFailureKeepsMemory(t *testing.T) {
	ctx := context.Background()
	p := &fakePersister{err: errors.New("disk full")}
	s := newTestStore(t, p, WithClock(ticking()))

	r, err := s.Add("A", "1")
	require.NoError(t, err, "add succeeds even when the write will fail")
	assert.Equal(t, []model.Record{r}, s.List())

	assert.EqualError(t, s.Flush(ctx), "disk full")
	assert.Equal(t, []model.Record{r}, s.List(), "no rollback")
}

func TestMutationsDoNotWaitForWrites(t *testing.T) {
	ctx := context.Background()
	p := &fakePersister{gate: make(chan struct{}), started: make(chan struct{}, 8)}
	s := New(p, WithClock(ticking()))

	a, err := s.Add("A", "1")
	require.NoError(t, err)
	<-p.started // first write is now blocked in Save

	// These return while the first write is still in flight.
	b, _ := s.Add("B", "2")
	s.Toggle(a.ID)
	c, _ := s.Add("C", "3")
	final := s.List()
	assert.Len(t, final, 3)

	p.gate <- struct{}{} // release first write
	<-p.started          // coalesced write starts
	p.gate <- struct{}{}
	require.NoError(t, s.Close(ctx))

	saves := p.Saves()
	require.Len(t, saves, 2, "queued snapshots are coalesced")
	assert.Equal(t, []model.Record{a}, saves[0])
	assert.Equal(t, final, saves[1])
	assert.Equal(t, []string{c.ID, b.ID, a.ID}, ids(saves[1]))
}

func TestFlushRespectsContext(t *testing.T) {
	p := &fakePersister{gate: make(chan struct{}), started: make(chan struct{}, 1)}
	s := New(p, WithClock(ticking()))
	_, _ = s.Add("A", "1")
	<-p.started

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, s.Flush(ctx), context.DeadlineExceeded)

	close(p.gate)
	require.NoError(t, s.Close(context.Background()))
}

func TestFlushWhenIdle(t *testing.T) {
	s := newTestStore(t, &fakePersister{})
	assert.NoError(t, s.Flush(context.Background()))
}

func TestCloseIsIdempotentAndDropsLateWrites(t *testing.T) {
	ctx := context.Background()
	p := &fakePersister{}
	s := New(p, WithClock(ticking()))
	_, _ = s.Add("A", "1")
	require.NoError(t, s.Close(ctx))
	require.NoError(t, s.Close(ctx))

	_, _ = s.Add("B", "2")
	assert.Len(t, s.List(), 2, "memory still updates after close")
	assert.Len(t, p.Saves(), 1)
}

func TestConcurrentAddsKeepUniqueIDs(t *testing.T) {
	ctx := context.Background()
	adapter := jsonstore.New(kv.NewMemory(), "", nil)
	s := newTestStore(t, adapter)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.Add("n", "1")
		}()
	}
	wg.Wait()
	require.NoError(t, s.Flush(ctx))

	seen := map[string]bool{}
	for _, r := range s.List() {
		assert.False(t, seen[r.ID], "duplicate id %s", r.ID)
		seen[r.ID] = true
	}
	assert.Len(t, seen, 50)

	persisted, err := adapter.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, s.List(), persisted, "last write matches memory")
}

func TestMillisIDs(t *testing.T) {
	stuck := func() time.Time { return time.UnixMilli(1000) }
	g := NewMillisIDs(stuck)
	assert.Equal(t, "1000", g.Next())
	assert.Equal(t, "1001", g.Next())

	g.Seen("5000", "not-a-number", "10")
	assert.Equal(t, "5001", g.Next())

	g.Seen("9223372036854775807")
	assert.Equal(t, "5002", g.Next(), "ids near MaxInt64 are not counted past")
}

func TestUUIDs(t *testing.T) {
	var g UUIDs
	a, b := g.Next(), g.Next()
	assert.NotEqual(t, a, b)
	u, err := uuid.Parse(a)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), u.Version())
}

func ids(records []model.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}
