package outbox

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// Config controls the publisher loop.
type Config struct {
	Interval  time.Duration
	BatchSize int
	Logger    *slog.Logger
}

// Publisher drains a Store into a Sink on a fixed interval.
type Publisher struct {
	cfg       Config
	store     Store
	sink      Sink
	logger    *slog.Logger
	done      chan struct{}
	wg        sync.WaitGroup
	published atomic.Uint64
	failed    atomic.Uint64
	closeOnce sync.Once
}

// NewPublisher starts the publishing loop. Close stops it.
func NewPublisher(store Store, sink Sink, cfg Config) *Publisher {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	p := &Publisher{
		cfg:    cfg,
		store:  store,
		sink:   sink,
		logger: logger,
		done:   make(chan struct{}),
	}

	p.wg.Add(1)
	go p.run()

	return p
}

func (p *Publisher) run() {
	defer p.wg.Done()

	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		<-p.done
		cancel()
	}()

	for {
		select {
		case <-ticker.C:
			p.drainAll(ctx)
		case <-p.done:
			return
		}
	}
}

func (p *Publisher) drainAll(ctx context.Context) {
	for {
		n, err := p.Drain(ctx)
		if err != nil {
			if ctx.Err() == nil {
				p.logger.WarnContext(ctx, "outbox drain", "error", err)
			}
			return
		}
		if n < p.cfg.BatchSize {
			return
		}
	}
}

// Drain publishes one batch and returns how many records were published.
// It stops at the first sink or store failure, leaving that record and the
// ones after it for the next pass.
func (p *Publisher) Drain(ctx context.Context) (int, error) {
	records, err := p.store.List(ctx, p.cfg.BatchSize)
	if err != nil {
		return 0, err
	}
	for i, r := range records {
		if err := p.sink.Emit(ctx, r); err != nil {
			p.failed.Add(1)
			return i, err
		}
		if err := p.store.Delete(ctx, r.ID); err != nil {
			return i, err
		}
		p.published.Add(1)
	}
	return len(records), nil
}

// Close stops the loop. Records not yet published stay in the store.
func (p *Publisher) Close() {
	if p == nil {
		return
	}
	p.closeOnce.Do(func() {
		close(p.done)
		p.wg.Wait()
	})
}

func (p *Publisher) Published() uint64 {
	if p == nil {
		return 0
	}
	return p.published.Load()
}

func (p *Publisher) Failed() uint64 {
	if p == nil {
		return 0
	}
	return p.failed.Load()
}
