package repository

import (
	"context"
	"errors"
	"time"

	"github.com/ml-muebles/storefront/internal/cart"
	"github.com/ml-muebles/storefront/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CartRepository 会话购物车数据访问接口
type CartRepository interface {
	FindBySession(ctx context.Context, sessionKey string) (*models.StoredCart, error)
	Save(ctx context.Context, sessionKey string, payload []byte) error
	DeleteBySession(ctx context.Context, sessionKey string) error
	DeleteStale(ctx context.Context, before time.Time) (int64, error)
	WithTx(tx *gorm.DB) *GormCartRepository
}

// GormCartRepository GORM 实现
type GormCartRepository struct {
	db *gorm.DB
}

// NewCartRepository 创建购物车仓库
func NewCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// WithTx 绑定事务
func (r *GormCartRepository) WithTx(tx *gorm.DB) *GormCartRepository {
	if tx == nil {
		return r
	}
	return &GormCartRepository{db: tx}
}

// FindBySession 按会话键获取购物车快照
func (r *GormCartRepository) FindBySession(ctx context.Context, sessionKey string) (*models.StoredCart, error) {
	var stored models.StoredCart
	if err := r.db.WithContext(ctx).Where("session_key = ?", sessionKey).First(&stored).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &stored, nil
}

// Save 写入购物车快照，按会话键覆盖
func (r *GormCartRepository) Save(ctx context.Context, sessionKey string, payload []byte) error {
	now := time.Now()
	stored := models.StoredCart{
		SessionKey: sessionKey,
		Payload:    string(payload),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "session_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
	}).Create(&stored).Error
}

// DeleteBySession 删除会话购物车
func (r *GormCartRepository) DeleteBySession(ctx context.Context, sessionKey string) error {
	return r.db.WithContext(ctx).Where("session_key = ?", sessionKey).Delete(&models.StoredCart{}).Error
}

// DeleteStale 删除指定时间之前未更新的购物车
func (r *GormCartRepository) DeleteStale(ctx context.Context, before time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Where("updated_at < ?", before).Delete(&models.StoredCart{})
	return result.RowsAffected, result.Error
}

// CartStorage 将购物车仓库适配为 cart.Storage
type CartStorage struct {
	repo CartRepository
}

// NewCartStorage 创建数据库购物车存储
func NewCartStorage(repo CartRepository) *CartStorage {
	return &CartStorage{repo: repo}
}

// Load 读取快照，不存在时返回 cart.ErrNotFound
func (s *CartStorage) Load(ctx context.Context, key string) ([]byte, error) {
	stored, err := s.repo.FindBySession(ctx, key)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, cart.ErrNotFound
	}
	return []byte(stored.Payload), nil
}

// Save 写入快照
func (s *CartStorage) Save(ctx context.Context, key string, payload []byte) error {
	return s.repo.Save(ctx, key, payload)
}
