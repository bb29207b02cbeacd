package outbox

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/MrEthical07/goIdentity/user"
)

// Record is a stored event awaiting publication.
type Record struct {
	ID        int64           `json:"id"`
	Checksum  string          `json:"checksum"`
	Kind      user.EventKind  `json:"kind"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
}

// Event decodes the payload.
func (r Record) Event() (user.Event, error) {
	var e user.Event
	err := json.Unmarshal(r.Payload, &e)
	return e, err
}

// Store reads and acknowledges stored events.
type Store interface {
	List(ctx context.Context, limit int) ([]Record, error)
	Delete(ctx context.Context, id int64) error
}

// Sink receives published events. A record is deleted only after Emit
// returns nil.
type Sink interface {
	Emit(ctx context.Context, r Record) error
}

// ChannelSink writes records into a buffered channel.
type ChannelSink struct {
	records chan Record
}

func NewChannelSink(buffer int) *ChannelSink {
	if buffer <= 0 {
		buffer = 1
	}
	return &ChannelSink{records: make(chan Record, buffer)}
}

func (s *ChannelSink) Emit(ctx context.Context, r Record) error {
	select {
	case s.records <- r:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *ChannelSink) Records() <-chan Record {
	return s.records
}

// JSONWriterSink writes one JSON object per line.
type JSONWriterSink struct {
	writer io.Writer
	mu     sync.Mutex
}

func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return &JSONWriterSink{writer: w}
}

func (s *JSONWriterSink) Emit(_ context.Context, r Record) error {
	data, err := json.Marshal(r)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.writer.Write(append(data, '\n')); err != nil {
		return err
	}
	return nil
}

// LogSink logs each record at info level.
type LogSink struct {
	Logger *slog.Logger
}

func (s LogSink) Emit(ctx context.Context, r Record) error {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.InfoContext(ctx, "user event",
		"id", r.ID,
		"kind", r.Kind,
		"checksum", r.Checksum,
		"payload", string(r.Payload),
	)
	return nil
}
