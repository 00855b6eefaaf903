package depiction

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/ml-muebles/storefront/internal/woocommerce"

	lru "github.com/hashicorp/golang-lru"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	defaultMemoSize     = 1024
	defaultFetchTimeout = 10 * time.Second
	cacheKeyPrefix      = "depiction:"
)

// ErrInvalidVariation 变体ID非法
var ErrInvalidVariation = errors.New("invalid variation id")

// Depiction 变体展示图
type Depiction struct {
	VariationID int64  `json:"variation_id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	Thumbnail   string `json:"thumbnail"`
	Alt         string `json:"alt"`
	// Fallback 变体无图时使用了父商品默认图
	Fallback bool `json:"fallback"`
}

// Fetcher 商品读取
type Fetcher interface {
	GetProduct(ctx context.Context, id int64) (*woocommerce.Product, error)
}

// Cache 共享缓存（Redis），未启用时可为 nil
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// Options 服务配置
type Options struct {
	TTL          time.Duration
	MemoSize     int
	FetchTimeout time.Duration
	Logger       *zap.SugaredLogger
}

// Service 按需获取变体展示图，同一变体并发请求只访问一次后端
type Service struct {
	fetcher Fetcher
	cache   Cache
	ttl     time.Duration
	timeout time.Duration
	log     *zap.SugaredLogger
	memo    *lru.Cache
	group   singleflight.Group
}

// NewService 创建服务
func NewService(fetcher Fetcher, cache Cache, opts Options) (*Service, error) {
	if fetcher == nil {
		return nil, errors.New("depiction fetcher is nil")
	}
	size := opts.MemoSize
	if size <= 0 {
		size = defaultMemoSize
	}
	memo, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	timeout := opts.FetchTimeout
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}
	return &Service{
		fetcher: fetcher,
		cache:   cache,
		ttl:     opts.TTL,
		timeout: timeout,
		log:     log,
		memo:    memo,
	}, nil
}

// Fetch 获取变体展示图
func (s *Service) Fetch(ctx context.Context, variationID int64) (Depiction, error) {
	if variationID <= 0 {
		return Depiction{}, ErrInvalidVariation
	}
	if cached, ok := s.memo.Get(variationID); ok {
		return cached.(Depiction), nil
	}

	key := strconv.FormatInt(variationID, 10)
	v, err, _ := s.group.Do(key, func() (interface{}, error) {
		// 共享请求不随首个调用方取消
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
		defer cancel()
		if cached, ok := s.memo.Get(variationID); ok {
			return cached.(Depiction), nil
		}
		if d, ok := s.loadShared(ctx, key); ok {
			s.memo.Add(variationID, d)
			return d, nil
		}
		d, err := s.load(ctx, variationID)
		if err != nil {
			return Depiction{}, err
		}
		s.memo.Add(variationID, d)
		s.storeShared(ctx, key, d)
		return d, nil
	})
	if err != nil {
		return Depiction{}, err
	}
	return v.(Depiction), nil
}

// Forget 丢弃本地记忆
func (s *Service) Forget(variationID int64) {
	s.memo.Remove(variationID)
}

func (s *Service) load(ctx context.Context, variationID int64) (Depiction, error) {
	product, err := s.fetcher.GetProduct(ctx, variationID)
	if err != nil {
		return Depiction{}, fmt.Errorf("fetch variation %d: %w", variationID, err)
	}
	d := Depiction{VariationID: variationID, Name: product.Name}
	if len(product.Images) > 0 {
		applyImage(&d, product.Images[0])
		return d, nil
	}
	if product.Parent <= 0 {
		return d, nil
	}
	parent, err := s.fetcher.GetProduct(ctx, product.Parent)
	if err != nil {
		s.log.Warnw("depiction_parent_fetch_failed", "variation_id", variationID, "parent_id", product.Parent, "error", err)
		return d, nil
	}
	if len(parent.Images) > 0 {
		applyImage(&d, parent.Images[0])
		d.Fallback = true
	}
	return d, nil
}

func applyImage(d *Depiction, img woocommerce.Image) {
	d.Image = img.Src
	d.Thumbnail = img.Thumbnail
	d.Alt = img.Alt
}

func (s *Service) loadShared(ctx context.Context, key string) (Depiction, bool) {
	if s.cache == nil {
		return Depiction{}, false
	}
	var d Depiction
	hit, err := s.cache.Get(ctx, cacheKeyPrefix+key, &d)
	if err != nil {
		s.log.Warnw("depiction_cache_get_failed", "key", key, "error", err)
		return Depiction{}, false
	}
	return d, hit
}

func (s *Service) storeShared(ctx context.Context, key string, d Depiction) {
	if s.cache == nil || s.ttl <= 0 {
		return
	}
	if err := s.cache.Set(ctx, cacheKeyPrefix+key, d, s.ttl); err != nil {
		s.log.Warnw("depiction_cache_set_failed", "key", key, "error", err)
	}
}
