package tasks

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ricirt/taskboard/internal/domain"
)

// Add sums the two integers in domain.AddArgs.
func Add(ctx context.Context, args json.RawMessage) (json.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var a domain.AddArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidArgs, err)
	}

	out, err := json.Marshal(a.X + a.Y)
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return out, nil
}
