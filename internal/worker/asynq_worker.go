package worker

import (
	"context"
	"errors"
	"strings"

	"github.com/devblog-next/internal/logger"
	"github.com/devblog-next/internal/provider"
	"github.com/devblog-next/internal/queue"
	"github.com/devblog-next/internal/service"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskPostViewIncrement, c.handlePostViewIncrement)
}

func (c *Consumer) handlePostViewIncrement(ctx context.Context, task *asynq.Task) error {
	if c == nil || c.Container == nil || c.PostRepo == nil || task == nil {
		logger.Debugw("worker_post_view_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	payload, err := queue.ParsePostViewIncrementPayload(task)
	if err != nil {
		logger.Warnw("worker_post_view_unmarshal_failed", "error", err)
		return errors.Join(err, asynq.SkipRetry)
	}
	postID := strings.TrimSpace(payload.PostID)
	if postID == "" {
		logger.Debugw("worker_post_view_skip_invalid_payload", "post_id", payload.PostID)
		return nil
	}
	if err := service.IncrementPostView(ctx, c.PostRepo, postID); err != nil {
		logger.Warnw("worker_post_view_increment_failed", "post_id", postID, "error", err)
		return errors.Join(err, asynq.SkipRetry)
	}
	return nil
}
