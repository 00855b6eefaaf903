package worker

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/ml-muebles/storefront/internal/logger"
	"github.com/ml-muebles/storefront/internal/provider"
	"github.com/ml-muebles/storefront/internal/queue"
	"github.com/ml-muebles/storefront/internal/service"

	"github.com/hibiken/asynq"
)

// OrphanCleaner 遗留远端购物车清理
type OrphanCleaner interface {
	Cleanup(ctx context.Context, payload queue.OrphanCleanupPayload) error
}

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
	orphans OrphanCleaner
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	consumer := &Consumer{Container: c}
	if c != nil && c.OrphanService != nil {
		consumer.orphans = c.OrphanService
	}
	return consumer
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskCheckoutOrphanCleanup, c.handleOrphanCleanup)
}

func (c *Consumer) handleOrphanCleanup(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_orphan_cleanup_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.OrphanCleanupPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_orphan_cleanup_unmarshal_failed", "error", err)
		// 载荷损坏重试也无意义
		return asynq.SkipRetry
	}
	if strings.TrimSpace(payload.CartToken) == "" {
		logger.Debugw("worker_orphan_cleanup_skip_invalid_payload", "attempt_id", payload.AttemptID)
		return nil
	}
	if c.orphans == nil {
		logger.Warnw("worker_orphan_cleanup_skip_service_nil", "attempt_id", payload.AttemptID)
		return nil
	}
	if err := c.orphans.Cleanup(ctx, payload); err != nil {
		logger.Warnw("worker_orphan_cleanup_failed", "attempt_id", payload.AttemptID, "error", err)
		return err
	}
	return nil
}

var _ OrphanCleaner = (*service.OrphanService)(nil)
