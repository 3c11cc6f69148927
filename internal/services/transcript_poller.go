package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/thereayou/eventnet/internal/models"
)

const DefaultPollInterval = 3 * time.Second

var ErrPollerClosed = errors.New("transcript poller is closed")

// TranscriptFetcher загружает переписку мероприятия
type TranscriptFetcher func(ctx context.Context, eventID uuid.UUID) ([]models.Message, error)

// TranscriptSink получает результат опроса для выбранного чата.
// Вызывается под блокировкой опросчика, поэтому не должен вызывать его методы.
// false снимает выбор чата: опрос останавливается до следующего Select.
type TranscriptSink func(eventID uuid.UUID, messages []models.Message, err error) bool

// TranscriptPoller периодически перечитывает переписку выбранного чата.
// Для чата одновременно выполняется не больше одного запроса, лишние пропускаются.
type TranscriptPoller struct {
	fetch    TranscriptFetcher
	sink     TranscriptSink
	interval time.Duration
	log      *zerolog.Logger

	mu      sync.Mutex
	gen     uint64
	current *pollLoop
	closed  bool
}

type pollLoop struct {
	eventID  uuid.UUID
	gen      uint64
	ctx      context.Context
	cancel   context.CancelFunc
	inflight atomic.Bool
	done     chan struct{}
}

func NewTranscriptPoller(fetch TranscriptFetcher, sink TranscriptSink, interval time.Duration, log *zerolog.Logger) *TranscriptPoller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &TranscriptPoller{
		fetch:    fetch,
		sink:     sink,
		interval: interval,
		log:      log,
	}
}

// Select делает чат активным: прошлый таймер и запрос отменяются,
// затем переписка загружается сразу и далее раз в interval.
func (p *TranscriptPoller) Select(eventID uuid.UUID) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return ErrPollerClosed
	}
	prev := p.detachLocked()

	p.gen++
	ctx, cancel := context.WithCancel(context.Background())
	loop := &pollLoop{
		eventID: eventID,
		gen:     p.gen,
		ctx:     ctx,
		cancel:  cancel,
		done:    make(chan struct{}),
	}
	p.current = loop
	p.mu.Unlock()

	waitLoop(prev)

	p.log.Debug().
		Str("event_id", eventID.String()).
		Uint64("generation", loop.gen).
		Msg("chat selected")

	go p.run(loop)
	return nil
}

// Deselect приостанавливает опрос до следующего Select
func (p *TranscriptPoller) Deselect() {
	p.mu.Lock()
	prev := p.detachLocked()
	p.mu.Unlock()
	waitLoop(prev)
}

// Close освобождает таймер и запрос. Повторный вызов безопасен.
func (p *TranscriptPoller) Close() {
	p.mu.Lock()
	p.closed = true
	prev := p.detachLocked()
	p.mu.Unlock()
	waitLoop(prev)
}

// Refresh запускает внеочередную загрузку.
// Возвращает false, если чат не выбран или запрос уже выполняется.
func (p *TranscriptPoller) Refresh() bool {
	p.mu.Lock()
	loop := p.current
	p.mu.Unlock()
	if loop == nil {
		return false
	}
	return p.tick(loop)
}

// Selected возвращает активный чат
func (p *TranscriptPoller) Selected() (uuid.UUID, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == nil {
		return uuid.Nil, false
	}
	return p.current.eventID, true
}

func (p *TranscriptPoller) detachLocked() *pollLoop {
	prev := p.current
	if prev != nil {
		prev.cancel()
		p.current = nil
	}
	return prev
}

func waitLoop(loop *pollLoop) {
	if loop != nil {
		<-loop.done
	}
}

func (p *TranscriptPoller) run(loop *pollLoop) {
	defer close(loop.done)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.tick(loop)
	for {
		select {
		case <-loop.ctx.Done():
			return
		case <-ticker.C:
			if !p.tick(loop) {
				p.log.Debug().
					Str("event_id", loop.eventID.String()).
					Msg("poll skipped, previous fetch in flight")
			}
		}
	}
}

func (p *TranscriptPoller) tick(loop *pollLoop) bool {
	if loop.ctx.Err() != nil {
		return false
	}
	if !loop.inflight.CompareAndSwap(false, true) {
		return false
	}

	go func() {
		defer loop.inflight.Store(false)
		messages, err := p.fetch(loop.ctx, loop.eventID)
		p.deliver(loop, messages, err)
	}()
	return true
}

// deliver отбрасывает результат, если чат уже сменился
func (p *TranscriptPoller) deliver(loop *pollLoop, messages []models.Message, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.current != loop || loop.ctx.Err() != nil {
		return
	}
	if !p.sink(loop.eventID, messages, err) {
		// run завершится сам по отменённому ctx, ждать его здесь нельзя
		p.detachLocked()
		p.log.Debug().
			Str("event_id", loop.eventID.String()).
			Msg("chat released by sink")
	}
}
