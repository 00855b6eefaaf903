package repository

import (
	"context"
	"errors"
	"time"

	"github.com/ml-muebles/storefront/internal/models"

	"gorm.io/gorm"
)

// CheckoutAttemptRepository 结账尝试数据访问接口
type CheckoutAttemptRepository interface {
	Create(ctx context.Context, attempt *models.CheckoutAttempt) error
	GetByAttemptID(ctx context.Context, attemptID string) (*models.CheckoutAttempt, error)
	Update(ctx context.Context, attempt *models.CheckoutAttempt) error
	ListBySession(ctx context.Context, filter CheckoutAttemptListFilter) ([]models.CheckoutAttempt, int64, error)
	MarkOrphan(ctx context.Context, attemptID, cartToken string) error
	MarkOrphanCleaned(ctx context.Context, attemptID string, cleanedAt time.Time) error
	WithTx(tx *gorm.DB) *GormCheckoutAttemptRepository
}

// GormCheckoutAttemptRepository GORM 实现
type GormCheckoutAttemptRepository struct {
	db *gorm.DB
}

// NewCheckoutAttemptRepository 创建结账尝试仓库
func NewCheckoutAttemptRepository(db *gorm.DB) *GormCheckoutAttemptRepository {
	return &GormCheckoutAttemptRepository{db: db}
}

// WithTx 绑定事务
func (r *GormCheckoutAttemptRepository) WithTx(tx *gorm.DB) *GormCheckoutAttemptRepository {
	if tx == nil {
		return r
	}
	return &GormCheckoutAttemptRepository{db: tx}
}

// Create 创建结账尝试
func (r *GormCheckoutAttemptRepository) Create(ctx context.Context, attempt *models.CheckoutAttempt) error {
	return r.db.WithContext(ctx).Create(attempt).Error
}

// GetByAttemptID 按尝试ID获取
func (r *GormCheckoutAttemptRepository) GetByAttemptID(ctx context.Context, attemptID string) (*models.CheckoutAttempt, error) {
	var attempt models.CheckoutAttempt
	if err := r.db.WithContext(ctx).Where("attempt_id = ?", attemptID).First(&attempt).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &attempt, nil
}

// Update 写回结账结果字段；遗留购物车字段由 MarkOrphan / MarkOrphanCleaned 维护
func (r *GormCheckoutAttemptRepository) Update(ctx context.Context, attempt *models.CheckoutAttempt) error {
	if attempt == nil {
		return nil
	}
	return r.db.WithContext(ctx).Model(&models.CheckoutAttempt{}).
		Where("attempt_id = ?", attempt.AttemptID).
		Updates(map[string]interface{}{
			"status":       attempt.Status,
			"step":         attempt.Step,
			"order_id":     attempt.OrderID,
			"order_status": attempt.OrderStatus,
			"redirect_url": attempt.RedirectURL,
			"message":      attempt.Message,
			"completed_at": attempt.CompletedAt,
			"updated_at":   time.Now(),
		}).Error
}

// ListBySession 按会话分页查询，最新的在前
func (r *GormCheckoutAttemptRepository) ListBySession(ctx context.Context, filter CheckoutAttemptListFilter) ([]models.CheckoutAttempt, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.CheckoutAttempt{}).Where("session_key = ?", filter.SessionKey)
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var attempts []models.CheckoutAttempt
	if err := query.Order("created_at desc").Order("id desc").Find(&attempts).Error; err != nil {
		return nil, 0, err
	}
	return attempts, total, nil
}

// MarkOrphan 记录遗留在远端的购物车令牌
func (r *GormCheckoutAttemptRepository) MarkOrphan(ctx context.Context, attemptID, cartToken string) error {
	return r.db.WithContext(ctx).Model(&models.CheckoutAttempt{}).
		Where("attempt_id = ?", attemptID).
		Updates(map[string]interface{}{
			"orphan_cart_token": cartToken,
			"updated_at":        time.Now(),
		}).Error
}

// MarkOrphanCleaned 标记遗留远端购物车已清理
func (r *GormCheckoutAttemptRepository) MarkOrphanCleaned(ctx context.Context, attemptID string, cleanedAt time.Time) error {
	return r.db.WithContext(ctx).Model(&models.CheckoutAttempt{}).
		Where("attempt_id = ? AND orphan_cleaned_at IS NULL", attemptID).
		Updates(map[string]interface{}{
			"orphan_cleaned_at": cleanedAt,
			"orphan_cart_token": "",
		}).Error
}
