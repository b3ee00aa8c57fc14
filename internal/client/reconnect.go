package client

import (
	"math/rand"
	"time"
)

// scheduleReconnect increments the attempt counter and arms the one-shot
// retry timer. Idempotent: a pending timer wins over a second schedule
// request, so duplicate close signals cannot storm the endpoint.
func (c *Client) scheduleReconnect() {
	c.mu.Lock()
	if c.retryTimer != nil {
		c.mu.Unlock()
		return
	}
	if c.cfg.MaxAttempts > 0 && c.attempts >= c.cfg.MaxAttempts {
		attempts := c.attempts
		c.mu.Unlock()
		c.logger.Error("giving up on reconnection", "attempts", attempts)
		return
	}
	c.attempts++
	attempt := c.attempts
	delay := backoffDelay(attempt, c.cfg.ReconnectBaseDelay, c.cfg.ReconnectMaxDelay, c.cfg.ReconnectJitter)
	c.retryTimer = time.AfterFunc(delay, func() {
		c.mu.Lock()
		c.retryTimer = nil
		c.mu.Unlock()
		c.Connect()
	})
	c.mu.Unlock()

	c.metrics.IncReconnect()
	c.logger.Info("reconnect scheduled", "attempt", attempt, "delay", delay)
}

// stopRetryLocked clears any pending retry timer. Caller holds c.mu.
func (c *Client) stopRetryLocked() {
	if c.retryTimer != nil {
		c.retryTimer.Stop()
		c.retryTimer = nil
	}
}

// backoffDelay doubles from base per attempt, capped at max, with an
// optional ± jitter fraction applied after the cap.
func backoffDelay(attempt int, base, max time.Duration, jitter float64) time.Duration {
	delay := base
	for i := 1; i < attempt; i++ {
		delay *= 2
		if delay >= max {
			delay = max
			break
		}
	}
	if delay > max {
		delay = max
	}
	if jitter > 0 {
		delay = time.Duration(float64(delay) * (1 + (rand.Float64()*2-1)*jitter))
	}
	return delay
}
