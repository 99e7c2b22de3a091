package queue

import (
	"encoding/json"

	"github.com/devblog-next/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskPostViewIncrement 文章浏览量递增任务
	TaskPostViewIncrement = constants.TaskPostViewIncrement
)

// PostViewIncrementPayload 浏览量递增任务载荷
type PostViewIncrementPayload struct {
	PostID string `json:"post_id"`
}

// NewPostViewIncrementTask 创建浏览量递增任务
func NewPostViewIncrementTask(payload PostViewIncrementPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskPostViewIncrement, body), nil
}

// ParsePostViewIncrementPayload 解析浏览量递增任务载荷
func ParsePostViewIncrementPayload(task *asynq.Task) (PostViewIncrementPayload, error) {
	var payload PostViewIncrementPayload
	if task == nil {
		return payload, nil
	}
	err := json.Unmarshal(task.Payload(), &payload)
	return payload, err
}
