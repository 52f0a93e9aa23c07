package notification

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/frahmantamala/leave-management/internal"
)

type job struct {
	ctx context.Context
	msg Message
}

type worker struct {
	id         int
	workerPool chan chan job
	jobChannel chan job
	logger     *slog.Logger
}

func newWorker(id int, workerPool chan chan job, logger *slog.Logger) *worker {
	return &worker{
		id:         id,
		workerPool: workerPool,
		jobChannel: make(chan job),
		logger:     logger,
	}
}

func (w *worker) start(ctx context.Context, wg *sync.WaitGroup, process func(job)) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			// advertise readiness, then wait for work
			select {
			case w.workerPool <- w.jobChannel:
			case <-ctx.Done():
				return
			}

			select {
			case j := <-w.jobChannel:
				process(j)
			case <-ctx.Done():
				w.logger.Debug("notification worker shutting down", "worker_id", w.id)
				return
			}
		}
	}()
}

type AsyncConfig struct {
	Workers     int
	QueueSize   int
	SendTimeout time.Duration
}

// AsyncDispatcher queues messages for a fixed pool of workers that deliver
// them through the wrapped dispatcher. Send never blocks: when the queue is
// full the message is dropped and an error returned.
type AsyncDispatcher struct {
	next        Dispatcher
	logger      *slog.Logger
	sendTimeout time.Duration

	jobQueue   chan job
	workerPool chan chan job
	maxWorkers int
	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup
	startOnce  sync.Once
	stopOnce   sync.Once

	// mu guards closed so no Send can enqueue after Shutdown starts draining.
	mu         sync.RWMutex
	closed     bool
	stopping   chan struct{}
	dispatched chan struct{}
}

func NewAsyncDispatcher(next Dispatcher, cfg AsyncConfig, logger *slog.Logger) *AsyncDispatcher {
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 100
	}
	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = 30 * time.Second
	}

	ctx, cancel := context.WithCancel(context.Background())
	d := &AsyncDispatcher{
		next:        next,
		logger:      logger,
		sendTimeout: cfg.SendTimeout,
		jobQueue:    make(chan job, cfg.QueueSize),
		workerPool:  make(chan chan job, cfg.Workers),
		maxWorkers:  cfg.Workers,
		ctx:         ctx,
		cancel:      cancel,
		stopping:    make(chan struct{}),
		dispatched:  make(chan struct{}),
	}
	d.start()
	return d
}

func (d *AsyncDispatcher) start() {
	d.startOnce.Do(func() {
		for i := 0; i < d.maxWorkers; i++ {
			newWorker(i, d.workerPool, d.logger).start(d.ctx, &d.wg, d.process)
		}

		go d.dispatch()

		d.logger.Info("notification worker pool started",
			"workers", d.maxWorkers,
			"queue_size", cap(d.jobQueue),
			"transport", d.next.Transport())
	})
}

func (d *AsyncDispatcher) dispatch() {
	defer close(d.dispatched)
	for {
		select {
		case j := <-d.jobQueue:
			if !d.handOff(j) {
				return
			}
		case <-d.stopping:
			// hand out what was accepted before Shutdown
			for {
				select {
				case j := <-d.jobQueue:
					if !d.handOff(j) {
						return
					}
				default:
					return
				}
			}
		case <-d.ctx.Done():
			return
		}
	}
}

// handOff waits for an idle worker. It reports false once the pool is
// cancelled.
func (d *AsyncDispatcher) handOff(j job) bool {
	select {
	case jobChannel := <-d.workerPool:
		select {
		case jobChannel <- j:
			return true
		case <-d.ctx.Done():
			return false
		}
	case <-d.ctx.Done():
		return false
	}
}

func (d *AsyncDispatcher) process(j job) {
	ctx, cancel := context.WithTimeout(j.ctx, d.sendTimeout)
	defer cancel()

	if err := d.next.Send(ctx, j.msg); err != nil {
		notifyErr := internal.NewNotificationError("notification delivery failed", err)
		d.logger.Error(notifyErr.Message,
			"type", notifyErr.Type,
			"to", j.msg.To,
			"subject", j.msg.Subject,
			"error", err)
	}
}

func (d *AsyncDispatcher) Send(ctx context.Context, msg Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return internal.NewNotificationError("notification dispatcher is shut down", nil)
	}

	select {
	case d.jobQueue <- job{ctx: context.WithoutCancel(ctx), msg: msg}:
		return nil
	default:
		err := internal.NewNotificationError("notification queue is full", nil)
		err.Code = internal.ErrCodeNotificationBacklog
		return err
	}
}

func (d *AsyncDispatcher) Transport() string { return d.next.Transport() }

func (d *AsyncDispatcher) Configured() bool { return d.next.Configured() }

// Shutdown stops accepting work, delivers everything already queued and
// waits for the workers. When ctx expires first the pool is cancelled and
// whatever is still queued is dropped.
func (d *AsyncDispatcher) Shutdown(ctx context.Context) error {
	var err error
	d.stopOnce.Do(func() {
		d.mu.Lock()
		d.closed = true
		d.mu.Unlock()

		d.logger.Info("shutting down notification worker pool", "queued", len(d.jobQueue))
		close(d.stopping)

		select {
		case <-d.dispatched:
		case <-ctx.Done():
			err = ctx.Err()
		}
		d.cancel()

		done := make(chan struct{})
		go func() {
			d.wg.Wait()
			close(done)
		}()

		select {
		case <-done:
		case <-ctx.Done():
			err = ctx.Err()
		}

		if err != nil {
			d.logger.Warn("notification worker pool stopped before draining",
				"dropped", len(d.jobQueue),
				"error", err)
			return
		}
		d.logger.Info("notification worker pool stopped")
	})
	return err
}
