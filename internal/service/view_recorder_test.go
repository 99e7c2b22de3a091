package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/devblog-next/internal/config"
	"github.com/devblog-next/internal/queue"
	"github.com/devblog-next/internal/repository"
)

type captureViewRecorder struct {
	mu  sync.Mutex
	ids []string
}

func (r *captureViewRecorder) RecordView(_ context.Context, postID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ids = append(r.ids, postID)
}

func TestQueueViewRecorderFallsBackWhenQueueDisabled(t *testing.T) {
	client, err := queue.NewClient(&config.QueueConfig{Enabled: false})
	if err != nil {
		t.Fatalf("new queue client failed: %v", err)
	}
	fallback := &captureViewRecorder{}
	recorder := NewQueueViewRecorder(client, fallback, 0)

	recorder.RecordView(context.Background(), "post-1")
	recorder.RecordView(context.Background(), "")

	if len(fallback.ids) != 1 || fallback.ids[0] != "post-1" {
		t.Fatalf("fallback should receive exactly one view, got %v", fallback.ids)
	}
}

func TestIncrementPostViewUnknownIDIsNotError(t *testing.T) {
	_, views, db := setupPostServiceTest(t)
	views.RecordView(context.Background(), "")
	views.Wait()

	repo := repository.NewPostRepository(db)
	if err := IncrementPostView(context.Background(), repo, "unknown-id"); err != nil {
		t.Fatalf("unknown id should be skipped silently: %v", err)
	}
}

func TestQueueViewRecorderDoesNotBlockCaller(t *testing.T) {
	client, err := queue.NewClient(&config.QueueConfig{Enabled: true, Host: "127.0.0.1", Port: 1})
	if err != nil {
		t.Fatalf("new queue client failed: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	recorder := NewQueueViewRecorder(client, nil, time.Second)
	release := make(chan struct{})
	var enqueued []string
	var mu sync.Mutex
	recorder.enqueue = func(_ context.Context, payload queue.PostViewIncrementPayload) error {
		<-release
		mu.Lock()
		defer mu.Unlock()
		enqueued = append(enqueued, payload.PostID)
		return nil
	}

	returned := make(chan struct{})
	go func() {
		recorder.RecordView(context.Background(), "post-1")
		close(returned)
	}()
	select {
	case <-returned:
	case <-time.After(time.Second):
		t.Fatalf("RecordView blocked on a pending enqueue")
	}

	close(release)
	recorder.Wait()
	mu.Lock()
	defer mu.Unlock()
	if len(enqueued) != 1 || enqueued[0] != "post-1" {
		t.Fatalf("enqueue should run once in background, got %v", enqueued)
	}
}
