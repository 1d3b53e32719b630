package notify

import (
	"context"
	"sync"
	"time"

	"github.com/chengtian/temple-backend/pkg/logger"
)

// Sink accepts messages for asynchronous delivery. Enqueue never blocks.
type Sink interface {
	Enqueue(msg Message) bool
}

// Dispatcher drains a bounded queue with a fixed worker pool. Delivery is
// best effort: a full queue drops the message and failures are only logged.
type Dispatcher struct {
	mailer      Mailer
	queue       chan Message
	workers     int
	sendTimeout time.Duration

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

func NewDispatcher(mailer Mailer, queueSize, workers int) *Dispatcher {
	if queueSize <= 0 {
		queueSize = 100
	}
	if workers <= 0 {
		workers = 1
	}
	return &Dispatcher{
		mailer:      mailer,
		queue:       make(chan Message, queueSize),
		workers:     workers,
		sendTimeout: 15 * time.Second,
	}
}

// Start launches the workers.
func (d *Dispatcher) Start() {
	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.work(i)
	}
	logger.Info("Mail dispatcher started", map[string]interface{}{
		"workers":    d.workers,
		"queue_size": cap(d.queue),
	})
}

func (d *Dispatcher) work(id int) {
	defer d.wg.Done()
	for msg := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), d.sendTimeout)
		err := d.mailer.Send(ctx, msg)
		cancel()

		if err != nil {
			logger.Error("Failed to send mail", err, map[string]interface{}{
				"worker": id,
				"kind":   msg.Kind,
			})
			continue
		}
		logger.Info("Mail sent", map[string]interface{}{
			"worker": id,
			"kind":   msg.Kind,
		})
	}
}

func (d *Dispatcher) Enqueue(msg Message) bool {
	if msg.To == "" {
		return false
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		logger.Warn("Mail dispatcher stopped, message dropped", map[string]interface{}{
			"kind": msg.Kind,
		})
		return false
	}

	select {
	case d.queue <- msg:
		return true
	default:
		logger.Warn("Mail queue full, message dropped", map[string]interface{}{
			"kind": msg.Kind,
		})
		return false
	}
}

// Stop closes the queue and waits for queued messages to drain or ctx to end.
func (d *Dispatcher) Stop(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		logger.Info("Mail dispatcher drained", nil)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
