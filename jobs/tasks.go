// Package jobs runs background work over Asynq: the nightly expiry scan and
// the report cache warmup.
package jobs

import "github.com/hibiken/asynq"

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskExpiryScan counts expired lots still carrying stock.
	TaskExpiryScan = "stock:expiry_scan"
	// TaskCacheWarmup pre-loads the report cache.
	TaskCacheWarmup = "reports:cache_warmup"
)

// NewExpiryScanTask constructs the nightly expiry scan task.
func NewExpiryScanTask() *asynq.Task {
	return asynq.NewTask(TaskExpiryScan, nil)
}

// NewCacheWarmupTask constructs the report cache warmup task.
func NewCacheWarmupTask() *asynq.Task {
	return asynq.NewTask(TaskCacheWarmup, nil)
}
