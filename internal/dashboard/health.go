package dashboard

import "go.uber.org/zap"

// Activate starts the health check. Only the first call issues a request;
// it returns immediately and the returned channel is closed once the
// check has resolved (or been discarded by Close). Every call returns the
// same channel.
func (d *Dashboard) Activate() <-chan struct{} {
	d.activateOnce.Do(func() {
		d.mu.Lock()
		closed := d.closed
		if !closed {
			d.wg.Add(1)
		}
		d.mu.Unlock()

		if closed {
			close(d.healthDone)
			return
		}
		go func() {
			defer d.wg.Done()
			defer close(d.healthDone)
			d.checkHealth()
		}()
	})
	return d.healthDone
}

// checkHealth issues the single health request of this activation.
// No retries; the only cancellation is Close.
func (d *Dashboard) checkHealth() {
	body, err := d.api.Health(d.ctx)

	text, outcome := string(body), "ok"
	if err != nil {
		text, outcome = "error: "+err.Error(), "error"
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		d.logger.Debug("health check resolved after close, dropped")
		return
	}
	d.view.Health = text
	d.hooks.OnHealth(outcome)

	if err != nil {
		d.logger.Warn("health check failed", zap.Error(err))
		return
	}
	d.logger.Info("health check resolved", zap.String("health", text))
}
