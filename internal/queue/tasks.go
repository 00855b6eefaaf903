package queue

import (
	"encoding/json"

	"github.com/ml-muebles/storefront/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskCheckoutOrphanCleanup 结账中断后清空远端购物车
	TaskCheckoutOrphanCleanup = constants.TaskCheckoutOrphanCleanup

	orphanCleanupMaxRetry = 5
)

// OrphanCleanupPayload 遗留远端购物车清理任务载荷
type OrphanCleanupPayload struct {
	AttemptID string `json:"attempt_id"`
	CartToken string `json:"cart_token"`
	Nonce     string `json:"nonce,omitempty"`
	Step      string `json:"step,omitempty"`
}

// NewOrphanCleanupTask 创建遗留购物车清理任务
func NewOrphanCleanupTask(payload OrphanCleanupPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskCheckoutOrphanCleanup, body), nil
}
