package dashboard

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Trigger asks the backend to queue add(x, y) and stores the returned task
// id, or MissingTaskID when the body has none.
//
// A transport or decode failure is returned and recorded in
// View.TriggerError; TaskID keeps its previous value. A result only lands
// in the view if no trigger issued later has already resolved, so the view
// always reflects the most recent call.
func (d *Dashboard) Trigger(ctx context.Context) (string, error) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return "", ErrClosed
	}
	d.issued++
	seq := d.issued
	d.mu.Unlock()

	resp, err := d.api.Add(ctx, d.x, d.y)

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return "", ErrClosed
	}
	stale := seq < d.applied

	if err != nil {
		err = fmt.Errorf("trigger task: %w", err)
		d.hooks.OnTrigger("error")
		d.logger.Warn("trigger failed", zap.Uint64("seq", seq), zap.Error(err))
		if !stale {
			d.applied = seq
			d.view.TriggerError = err.Error()
		}
		return "", err
	}

	taskID := resp.TaskID
	outcome := "queued"
	if taskID == "" {
		taskID, outcome = MissingTaskID, "missing_id"
	}
	d.hooks.OnTrigger(outcome)

	if stale {
		d.logger.Debug("stale trigger result dropped", zap.Uint64("seq", seq), zap.String("task_id", taskID))
		return taskID, nil
	}
	d.applied = seq
	d.view.TaskID = taskID
	d.view.TriggerError = ""
	d.logger.Info("task triggered", zap.Uint64("seq", seq), zap.String("task_id", taskID))
	return taskID, nil
}
