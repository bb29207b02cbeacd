package outbox

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/MrEthical07/goIdentity/user"
)

type memStore struct {
	mu      sync.Mutex
	records map[int64]Record
	listErr error
}

func newMemStore(t *testing.T, events ...user.Event) *memStore {
	t.Helper()
	s := &memStore{records: make(map[int64]Record)}
	for i, e := range events {
		raw, sum, err := e.Payload()
		require.NoError(t, err)
		id := int64(i + 1)
		s.records[id] = Record{ID: id, Checksum: sum, Kind: e.Kind, Payload: raw}
	}
	return s
}

func (s *memStore) List(_ context.Context, limit int) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}
	out := make([]Record, 0, len(s.records))
	for _, r := range s.records {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *memStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, id)
	return nil
}

func (s *memStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

type failingSink struct {
	after int
	seen  int
}

func (s *failingSink) Emit(context.Context, Record) error {
	if s.seen >= s.after {
		return errors.New("sink down")
	}
	s.seen++
	return nil
}

func testEvents(n int) []user.Event {
	out := make([]user.Event, n)
	for i := range out {
		u := &user.User{ID: user.NewID(), Credentials: user.Credentials{Email: "a@b.com"}}
		out[i] = user.NewEvent(u, user.EventCreated)
	}
	return out
}

// idle returns a publisher whose loop never ticks during the test.
func idle(store Store, sink Sink, batch int) *Publisher {
	return NewPublisher(store, sink, Config{Interval: time.Hour, BatchSize: batch})
}

func TestDrainPublishesInOrder(t *testing.T) {
	store := newMemStore(t, testEvents(3)...)
	sink := NewChannelSink(3)
	p := idle(store, sink, 10)
	defer p.Close()

	n, err := p.Drain(context.Background())
	require.NoError(t, err)
	require.Equal(t, 3, n)
	require.Zero(t, store.len())
	require.EqualValues(t, 3, p.Published())

	var ids []int64
	for i := 0; i < 3; i++ {
		r := <-sink.Records()
		ids = append(ids, r.ID)
		e, err := r.Event()
		require.NoError(t, err)
		require.Equal(t, user.EventCreated, e.Kind)
	}
	require.Equal(t, []int64{1, 2, 3}, ids)
}

func TestDrainKeepsRecordsOnSinkFailure(t *testing.T) {
	store := newMemStore(t, testEvents(3)...)
	p := idle(store, &failingSink{after: 1}, 10)
	defer p.Close()

	n, err := p.Drain(context.Background())
	require.Error(t, err)
	require.Equal(t, 1, n)
	require.Equal(t, 2, store.len())
	require.EqualValues(t, 1, p.Failed())
}

func TestDrainRespectsBatchSize(t *testing.T) {
	store := newMemStore(t, testEvents(5)...)
	p := idle(store, NewChannelSink(5), 2)
	defer p.Close()

	n, err := p.Drain(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, n)
	require.Equal(t, 3, store.len())
}

func TestDrainStoreError(t *testing.T) {
	store := newMemStore(t)
	store.listErr = errors.New("db down")
	p := idle(store, NewChannelSink(1), 1)
	defer p.Close()

	_, err := p.Drain(context.Background())
	require.EqualError(t, err, "db down")
}

func TestPublisherLoop(t *testing.T) {
	store := newMemStore(t, testEvents(4)...)
	sink := NewChannelSink(4)
	p := NewPublisher(store, sink, Config{Interval: 5 * time.Millisecond, BatchSize: 3})

	require.Eventually(t, func() bool { return store.len() == 0 }, time.Second, 5*time.Millisecond)
	p.Close()
	p.Close()
	require.EqualValues(t, 4, p.Published())
}

func TestJSONWriterSink(t *testing.T) {
	var buf bytes.Buffer
	sink := NewJSONWriterSink(&buf)
	store := newMemStore(t, testEvents(2)...)
	p := idle(store, sink, 10)
	defer p.Close()

	_, err := p.Drain(context.Background())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	var r Record
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &r))
	require.Equal(t, user.EventCreated, r.Kind)
}

func TestChannelSinkHonorsContext(t *testing.T) {
	sink := NewChannelSink(1)
	require.NoError(t, sink.Emit(context.Background(), Record{ID: 1}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, sink.Emit(ctx, Record{ID: 2}), context.Canceled)
}
