package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/ml-muebles/storefront/internal/checkout"
	"github.com/ml-muebles/storefront/internal/logger"
	"github.com/ml-muebles/storefront/internal/queue"
	"github.com/ml-muebles/storefront/internal/repository"
	"github.com/ml-muebles/storefront/internal/woocommerce"
)

// OrphanQueue 遗留购物车清理任务入队
type OrphanQueue interface {
	Enabled() bool
	EnqueueOrphanCleanup(payload queue.OrphanCleanupPayload, delay time.Duration) error
}

// RemoteCartBackend 远端购物车读取与清空
type RemoteCartBackend interface {
	GetCart(ctx context.Context, sess woocommerce.Session) (*woocommerce.Cart, woocommerce.Session, error)
	DeleteAllItems(ctx context.Context, sess woocommerce.Session) (woocommerce.Session, error)
}

// OrphanService 处理结账中断后遗留在远端的购物车。
// 队列未启用时不做补偿，交由远端会话过期回收。
type OrphanService struct {
	queue    OrphanQueue
	backend  RemoteCartBackend
	attempts repository.CheckoutAttemptRepository
	delay    time.Duration
}

// NewOrphanService 创建遗留购物车服务
func NewOrphanService(q OrphanQueue, backend RemoteCartBackend, attempts repository.CheckoutAttemptRepository, delay time.Duration) *OrphanService {
	return &OrphanService{
		queue:    q,
		backend:  backend,
		attempts: attempts,
		delay:    delay,
	}
}

// ReportOrphan 实现 checkout.OrphanReporter
func (s *OrphanService) ReportOrphan(ctx context.Context, orphan checkout.Orphan) error {
	if strings.TrimSpace(orphan.Session.CartToken) == "" {
		return nil
	}
	if s.attempts != nil && orphan.AttemptID != "" {
		if err := s.attempts.MarkOrphan(ctx, orphan.AttemptID, orphan.Session.CartToken); err != nil {
			logger.Warnw("checkout_orphan_mark_failed", "attempt_id", orphan.AttemptID, "error", err)
		}
	}
	if s.queue == nil || !s.queue.Enabled() {
		logger.Infow("checkout_orphan_left_to_expire",
			"attempt_id", orphan.AttemptID,
			"step", orphan.Step,
			"items_transferred", orphan.ItemsTransferred,
		)
		return nil
	}
	return s.queue.EnqueueOrphanCleanup(queue.OrphanCleanupPayload{
		AttemptID: orphan.AttemptID,
		CartToken: orphan.Session.CartToken,
		Nonce:     orphan.Session.Nonce,
		Step:      string(orphan.Step),
	}, s.delay)
}

// Cleanup 清空远端购物车；会话已失效视为已清理
func (s *OrphanService) Cleanup(ctx context.Context, payload queue.OrphanCleanupPayload) error {
	token := strings.TrimSpace(payload.CartToken)
	if token == "" {
		return nil
	}
	if s.attempts != nil && payload.AttemptID != "" {
		attempt, err := s.attempts.GetByAttemptID(ctx, payload.AttemptID)
		if err != nil {
			return err
		}
		if attempt != nil && attempt.OrphanCleanedAt != nil {
			return nil
		}
	}

	// 先读购物车换取当前 nonce，队列中的 nonce 可能已经轮换
	sess := woocommerce.Session{CartToken: token, Nonce: payload.Nonce}
	_, sess, err := s.backend.GetCart(ctx, sess)
	if err == nil {
		_, err = s.backend.DeleteAllItems(ctx, sess)
	}
	if err != nil {
		var apiErr *woocommerce.APIError
		if !errors.As(err, &apiErr) || !apiErr.SessionExpired() {
			logger.Warnw("checkout_orphan_cleanup_failed", "attempt_id", payload.AttemptID, "error", err)
			return err
		}
		logger.Debugw("checkout_orphan_session_expired", "attempt_id", payload.AttemptID, "status", apiErr.Status)
	}

	if s.attempts != nil && payload.AttemptID != "" {
		if err := s.attempts.MarkOrphanCleaned(ctx, payload.AttemptID, time.Now()); err != nil {
			logger.Warnw("checkout_orphan_mark_cleaned_failed", "attempt_id", payload.AttemptID, "error", err)
		}
	}
	logger.Infow("checkout_orphan_cleaned", "attempt_id", payload.AttemptID, "step", payload.Step)
	return nil
}
