package jobs

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/docuvault/docuvault/internal/access"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskCapabilityWarmup re-resolves capability sets after a broad
	// invalidation.
	TaskCapabilityWarmup = "access:warmup"
	// TaskTreeScan rebuilds every resource forest so structural faults show
	// up in logs before they hit a request path.
	TaskTreeScan = "access:tree_scan"
)

// CapabilityWarmupPayload lists the users to warm.
type CapabilityWarmupPayload struct {
	UserIDs []int64 `json:"user_ids"`
}

// NewCapabilityWarmupTask constructs an Asynq task.
func NewCapabilityWarmupTask(payload CapabilityWarmupPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskCapabilityWarmup, data), nil
}

// NewTreeScanTask constructs an Asynq task.
func NewTreeScanTask() *asynq.Task {
	return asynq.NewTask(TaskTreeScan, nil)
}

// HandleCapabilityWarmup returns the handler for TaskCapabilityWarmup.
func HandleCapabilityWarmup(engine *access.Engine, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload CapabilityWarmupPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
		for _, userID := range payload.UserIDs {
			if err := ctx.Err(); err != nil {
				return err
			}
			if _, err := engine.ResolveCapabilities(ctx, userID); err != nil {
				logger.Warn("capability warmup skipped user",
					slog.Int64("user_id", userID), slog.Any("error", err))
			}
		}
		return nil
	}
}

// HandleTreeScan returns the handler for TaskTreeScan.
func HandleTreeScan(engine *access.Engine, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		engine.InvalidateResources()
		for _, resourceType := range access.ResourceTypes() {
			if _, err := engine.Forest(ctx, resourceType); err != nil {
				logger.Error("resource tree scan failed",
					slog.String("type", string(resourceType)), slog.Any("error", err))
			}
		}
		return nil
	}
}
