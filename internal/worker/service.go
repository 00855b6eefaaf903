package worker

import (
	"context"
	"errors"
	"time"

	"github.com/ml-muebles/storefront/internal/config"
	"github.com/ml-muebles/storefront/internal/logger"
	"github.com/ml-muebles/storefront/internal/queue"

	"github.com/hibiken/asynq"
)

const (
	stalePurgeInterval = time.Hour
)

// StaleCartPurger 过期购物车清理
type StaleCartPurger interface {
	DeleteStale(ctx context.Context, before time.Time) (int64, error)
}

// Service 异步队列服务
type Service struct {
	name     string
	server   *asynq.Server
	mux      *asynq.ServeMux
	consumer *Consumer
	purger   StaleCartPurger
	cartTTL  time.Duration
}

// NewService 创建异步队列服务
func NewService(cfg *config.QueueConfig, consumer *Consumer) (*Service, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, errors.New("queue disabled")
	}
	if consumer == nil {
		return nil, errors.New("consumer is nil")
	}
	opt, serverCfg := queue.BuildServerConfig(cfg)
	server := asynq.NewServer(opt, serverCfg)
	mux := asynq.NewServeMux()
	consumer.Register(mux)
	svc := &Service{
		name:     "worker",
		server:   server,
		mux:      mux,
		consumer: consumer,
	}
	if consumer.Container != nil && consumer.Config != nil && consumer.CartRepo != nil {
		svc.purger = consumer.CartRepo
		svc.cartTTL = consumer.Config.Storage.CartTTL()
	}
	return svc, nil
}

// Name 服务名称
func (s *Service) Name() string {
	if s == nil || s.name == "" {
		return "worker"
	}
	return s.name
}

// Start 启动服务
func (s *Service) Start(ctx context.Context) error {
	if s == nil || s.server == nil || s.mux == nil {
		return errors.New("worker not initialized")
	}
	if s.purger != nil && s.cartTTL > 0 {
		go s.runStalePurgeLoop(ctx)
	}
	return s.server.Run(s.mux)
}

// Stop 停止服务
func (s *Service) Stop(ctx context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	_ = ctx
	s.server.Shutdown()
	return nil
}

func (s *Service) runStalePurgeLoop(ctx context.Context) {
	runOnce := func() {
		purgeStaleCarts(ctx, s.purger, s.cartTTL, time.Now())
	}
	runOnce()

	ticker := time.NewTicker(stalePurgeInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			runOnce()
		}
	}
}

func purgeStaleCarts(ctx context.Context, purger StaleCartPurger, ttl time.Duration, now time.Time) int64 {
	if purger == nil || ttl <= 0 {
		return 0
	}
	removed, err := purger.DeleteStale(ctx, now.Add(-ttl))
	if err != nil {
		logger.Warnw("worker_stale_cart_purge_failed", "error", err)
		return 0
	}
	if removed > 0 {
		logger.Infow("worker_stale_cart_purged", "removed", removed)
	}
	return removed
}
