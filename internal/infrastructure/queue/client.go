package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"campground-backend/internal/shared"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"
)

// Enqueuer - thứ mà task.Client cần có, để test thay bằng fake
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// ImageJobQueue đẩy job tạo thumbnail cho worker
type ImageJobQueue struct {
	client Enqueuer
}

func NewImageJobQueue(client Enqueuer) *ImageJobQueue {
	return &ImageJobQueue{client: client}
}

// EnqueueProcessImage tạo task campground:process_image cho handle vừa upload
func (q *ImageJobQueue) EnqueueProcessImage(ctx context.Context, handle string) error {
	payload, err := json.Marshal(shared.ProcessImagePayload{Handle: handle})
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	task := asynq.NewTask(shared.TypeProcessCampgroundImage, payload)
	info, err := q.client.EnqueueContext(ctx, task,
		asynq.Queue(shared.QueueCampground),
		asynq.MaxRetry(2),
	)
	if err != nil {
		return fmt.Errorf("enqueue %s: %w", shared.TypeProcessCampgroundImage, err)
	}

	log.Debug().
		Str("task_id", info.ID).
		Str("handle", handle).
		Msg("[Queue] process image task enqueued")
	return nil
}
