package service

import (
	"context"
	"sync"
	"time"

	"github.com/devblog-next/internal/logger"
	"github.com/devblog-next/internal/queue"
	"github.com/devblog-next/internal/repository"
)

const defaultViewTimeout = 5 * time.Second

// ViewRecorder 记录文章浏览，调用方不等待结果
type ViewRecorder interface {
	RecordView(ctx context.Context, postID string)
}

// AsyncViewRecorder 在后台 goroutine 中递增浏览量
type AsyncViewRecorder struct {
	repo    repository.PostRepository
	timeout time.Duration
	wg      sync.WaitGroup
}

// NewAsyncViewRecorder 创建后台浏览量记录器
func NewAsyncViewRecorder(repo repository.PostRepository, timeout time.Duration) *AsyncViewRecorder {
	if timeout <= 0 {
		timeout = defaultViewTimeout
	}
	return &AsyncViewRecorder{repo: repo, timeout: timeout}
}

// RecordView 异步递增浏览量，请求结束不会取消写入
func (r *AsyncViewRecorder) RecordView(ctx context.Context, postID string) {
	if r == nil || r.repo == nil || postID == "" {
		return
	}
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		viewCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.timeout)
		defer cancel()
		if err := IncrementPostView(viewCtx, r.repo, postID); err != nil {
			logger.Warnw("post_view_record_failed", "post_id", postID, "error", err)
		}
	}()
}

// Wait 等待所有进行中的浏览量写入完成
func (r *AsyncViewRecorder) Wait() {
	if r == nil {
		return
	}
	r.wg.Wait()
}

// QueueViewRecorder 通过异步队列递增浏览量，队列未启用时回退到 fallback
type QueueViewRecorder struct {
	client   *queue.Client
	fallback ViewRecorder
	timeout  time.Duration
	enqueue  func(ctx context.Context, payload queue.PostViewIncrementPayload) error
	wg       sync.WaitGroup
}

// NewQueueViewRecorder 创建队列浏览量记录器
func NewQueueViewRecorder(client *queue.Client, fallback ViewRecorder, timeout time.Duration) *QueueViewRecorder {
	if timeout <= 0 {
		timeout = defaultViewTimeout
	}
	r := &QueueViewRecorder{client: client, fallback: fallback, timeout: timeout}
	r.enqueue = func(ctx context.Context, payload queue.PostViewIncrementPayload) error {
		return client.EnqueuePostViewIncrement(ctx, payload)
	}
	return r
}

// RecordView 在后台推送浏览量任务，不阻塞请求，失败仅记录日志
func (r *QueueViewRecorder) RecordView(ctx context.Context, postID string) {
	if r == nil || postID == "" {
		return
	}
	if !r.client.Enabled() {
		if r.fallback != nil {
			r.fallback.RecordView(ctx, postID)
		}
		return
	}
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		enqueueCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.timeout)
		defer cancel()
		if err := r.enqueue(enqueueCtx, queue.PostViewIncrementPayload{PostID: postID}); err != nil {
			logger.Warnw("post_view_enqueue_failed", "post_id", postID, "error", err)
		}
	}()
}

// Wait 等待进行中的入队与回退写入完成
func (r *QueueViewRecorder) Wait() {
	if r == nil {
		return
	}
	r.wg.Wait()
	if w, ok := r.fallback.(interface{ Wait() }); ok {
		w.Wait()
	}
}

// IncrementPostView 原子递增已发布文章浏览量
func IncrementPostView(ctx context.Context, repo repository.PostRepository, postID string) error {
	affected, err := repo.IncrementViewCount(ctx, postID)
	if err != nil {
		return storeUnavailable(err)
	}
	if affected == 0 {
		logger.Debugw("post_view_skipped", "post_id", postID)
	}
	return nil
}
