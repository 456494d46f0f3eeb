package node

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// CachedReader memoizes the raw scan of a Reader for a fixed TTL.
// Only file names, contents and modification times are cached; staleness
// is evaluated by the caller against its own clock, so a cached scan never
// reports a stale node as fresh.
//
// If the status directory exists at construction time, an fsnotify
// watcher drops the cached scan as soon as anything in the directory
// changes. Without a watcher the cache falls back to TTL expiry alone.
type CachedReader struct {
	reader *Reader
	ttl    time.Duration
	now    func() time.Time
	logger *logrus.Logger

	mu       sync.Mutex
	statuses []Status
	fetched  time.Time
	valid    bool

	watcher *fsnotify.Watcher
	done    chan struct{}
	wg      sync.WaitGroup
}

// NewCachedReader wraps r with a cache of the given TTL.
func NewCachedReader(r *Reader, ttl time.Duration, logger *logrus.Logger) (*CachedReader, error) {
	if ttl <= 0 {
		return nil, fmt.Errorf("cache ttl must be positive, got %v", ttl)
	}
	if logger == nil {
		logger = r.logger
	}

	c := &CachedReader{
		reader: r,
		ttl:    ttl,
		now:    time.Now,
		logger: logger,
		done:   make(chan struct{}),
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create directory watcher: %w", err)
	}
	if err := watcher.Add(r.Dir()); err != nil {
		// Most likely the directory does not exist yet.
		logger.Warnf("Not watching status directory %s, relying on %v cache expiry: %v", r.Dir(), ttl, err)
		watcher.Close()
		return c, nil
	}
	c.watcher = watcher

	c.wg.Add(1)
	go c.watchLoop()

	return c, nil
}

// Scan returns the cached scan if it is younger than the TTL, otherwise it
// rescans the directory. Scan errors are never cached.
func (c *CachedReader) Scan(ctx context.Context) ([]Status, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if c.valid && now.Sub(c.fetched) < c.ttl {
		return cloneStatuses(c.statuses), nil
	}

	statuses, err := c.reader.Scan(ctx)
	if err != nil {
		c.valid = false
		return nil, err
	}
	c.statuses = statuses
	c.fetched = now
	c.valid = true
	return cloneStatuses(statuses), nil
}

// Invalidate drops the cached scan.
func (c *CachedReader) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.valid = false
	c.statuses = nil
}

// Close stops the directory watcher, if any.
func (c *CachedReader) Close() error {
	select {
	case <-c.done:
		return nil
	default:
	}
	close(c.done)
	if c.watcher == nil {
		return nil
	}
	err := c.watcher.Close()
	c.wg.Wait()
	return err
}

func (c *CachedReader) watchLoop() {
	defer c.wg.Done()
	for {
		select {
		case event, ok := <-c.watcher.Events:
			if !ok {
				return
			}
			// Chmod included: touching a file only changes its mtime.
			if event.Has(fsnotify.Create) || event.Has(fsnotify.Write) ||
				event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) ||
				event.Has(fsnotify.Chmod) {
				c.logger.Debugf("Status directory changed (%s), invalidating cache", event)
				c.Invalidate()
			}
		case err, ok := <-c.watcher.Errors:
			if !ok {
				return
			}
			c.logger.Errorf("Status directory watcher error: %v", err)
		case <-c.done:
			return
		}
	}
}

func cloneStatuses(in []Status) []Status {
	if in == nil {
		return nil
	}
	out := make([]Status, len(in))
	copy(out, in)
	return out
}
