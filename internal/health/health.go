package health

import (
	"context"
	"sync"
	"time"

	"github.com/DMarby/picsum-browser/internal/fetch"
	"github.com/DMarby/picsum-browser/internal/logger"
	"github.com/DMarby/picsum-browser/internal/photo"
)

const checkInterval = 10 * time.Second
const checkTimeout = 8 * time.Second

// Checker is a periodic health checker
type Checker struct {
	Ctx     context.Context
	Fetcher fetch.Fetcher
	ListURL string // List endpoint to fetch and decode when checking upstream health
	status  Status
	mutex   sync.RWMutex
	Log     *logger.Logger
}

// Status contains the healtcheck status
type Status struct {
	Healthy  bool   `json:"healthy"`
	Upstream string `json:"upstream,omitempty"`
}

// Run starts the health checker
func (c *Checker) Run() {
	ticker := time.NewTicker(checkInterval)
	go func() {
		for {
			select {
			case <-ticker.C:
				c.runCheck()
			case <-c.Ctx.Done():
				ticker.Stop()
				return
			}
		}
	}()

	c.runCheck()
}

// Status returns the status of the health checks
func (c *Checker) Status() Status {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return c.status
}

func (c *Checker) runCheck() {
	ctx, cancel := context.WithTimeout(c.Ctx, checkTimeout)
	defer cancel()

	channel := make(chan Status, 1)
	go func() {
		c.check(ctx, channel)
	}()

	select {
	case <-ctx.Done():
		c.markUnknown()
	case status, ok := <-channel:
		if !ok {
			// The check gave up because the context is done
			c.markUnknown()
			return
		}

		c.mutex.Lock()
		c.status = status
		c.mutex.Unlock()
		if !status.Healthy {
			c.Log.Errorw("healthcheck error",
				"status", status,
			)
		}
	}
}

func (c *Checker) markUnknown() {
	c.mutex.Lock()

	c.status = Status{
		Healthy: false,
	}
	if c.Fetcher != nil {
		c.status.Upstream = "unknown"
	}

	c.mutex.Unlock()
	c.Log.Errorw("healthcheck timed out")
}

func (c *Checker) check(ctx context.Context, channel chan Status) {
	defer close(channel)

	if ctx.Err() != nil {
		return
	}

	status := Status{
		Healthy: true,
	}

	if c.Fetcher != nil {
		status.Upstream = "healthy"

		data, err := c.Fetcher.Fetch(ctx, c.ListURL)
		if err == nil {
			_, err = photo.DecodeList(data)
		}

		if err != nil {
			c.Log.Warnw("upstream healthcheck failed", "url", c.ListURL, "error", err)
			status.Healthy = false
			status.Upstream = "unhealthy"
		}
	}

	if ctx.Err() != nil {
		return
	}

	channel <- status
}
