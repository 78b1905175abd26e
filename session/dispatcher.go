package session

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	goStats "github.com/MrEthical07/goStats"
)

// AsyncConfig moves the Redis write of Backup off the request goroutine.
type AsyncConfig struct {
	Enabled    bool
	BufferSize int
	// DropIfFull rejects backups instead of blocking when the queue is full.
	DropIfFull bool
}

type backupJob struct {
	id   string
	data []byte
	ttl  time.Duration
	// backup is stopped once the write succeeds.
	backup *goStats.Watch
}

type dispatcher struct {
	cfg       AsyncConfig
	write     func(context.Context, backupJob)
	ch        chan backupJob
	done      chan struct{}
	wg        sync.WaitGroup
	dropped   atomic.Uint64
	closeOnce sync.Once

	// mu is held for reading across a send so close never overtakes an
	// accepted job.
	mu     sync.RWMutex
	closed bool
}

func newDispatcher(cfg AsyncConfig, write func(context.Context, backupJob)) *dispatcher {
	if !cfg.Enabled {
		return nil
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = 1
	}

	d := &dispatcher{
		cfg:   cfg,
		write: write,
		ch:    make(chan backupJob, cfg.BufferSize),
		done:  make(chan struct{}),
	}

	d.wg.Add(1)
	go d.run()

	return d
}

func (d *dispatcher) run() {
	defer d.wg.Done()

	for {
		select {
		case job := <-d.ch:
			d.write(context.Background(), job)
		case <-d.done:
			for {
				select {
				case job := <-d.ch:
					d.write(context.Background(), job)
				default:
					return
				}
			}
		}
	}
}

// enqueue reports whether job was accepted. An accepted job is written before
// close returns.
func (d *dispatcher) enqueue(ctx context.Context, job backupJob) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.dropped.Add(1)
		return false
	}

	if d.cfg.DropIfFull {
		select {
		case d.ch <- job:
			return true
		default:
			d.dropped.Add(1)
			return false
		}
	}

	select {
	case d.ch <- job:
		return true
	case <-ctx.Done():
	}
	d.dropped.Add(1)
	return false
}

// close stops accepting jobs and waits until the queue is drained.
func (d *dispatcher) close() {
	d.closeOnce.Do(func() {
		d.mu.Lock()
		d.closed = true
		d.mu.Unlock()

		close(d.done)
		d.wg.Wait()
	})
}
