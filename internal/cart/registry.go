package cart

import (
	"context"
	"errors"
	"strings"

	lru "github.com/hashicorp/golang-lru"
)

// ErrEmptySession 会话标识为空
var ErrEmptySession = errors.New("empty cart session")

// DefaultRegistrySize 常驻内存的购物车句柄上限
const DefaultRegistrySize = 4096

// Registry 按会话维护购物车句柄。存储可被多个进程共享，
// 命中的句柄在返回前会从存储刷新；淘汰后再次访问会重新加载。
type Registry struct {
	storage Storage
	opts    []Option
	prefix  string
	stores  *lru.Cache
}

// NewRegistry 创建购物车注册表
func NewRegistry(storage Storage, size int, prefix string, opts ...Option) (*Registry, error) {
	if size <= 0 {
		size = DefaultRegistrySize
	}
	stores, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(prefix) == "" {
		prefix = DefaultKey
	}
	if storage == nil {
		storage = NewMemoryStorage()
	}
	return &Registry{
		storage: storage,
		opts:    opts,
		prefix:  prefix,
		stores:  stores,
	}, nil
}

// Get 获取会话购物车；加载在锁外进行，并发首次访问以先写入者为准
func (r *Registry) Get(ctx context.Context, session string) (*Store, error) {
	session = strings.TrimSpace(session)
	if session == "" {
		return nil, ErrEmptySession
	}
	if cached, ok := r.stores.Get(session); ok {
		store := cached.(*Store)
		store.Refresh(ctx)
		return store, nil
	}
	store := NewStore(r.prefix+":"+session, r.storage, r.opts...)
	store.Load(ctx)
	if exists, _ := r.stores.ContainsOrAdd(session, store); exists {
		if cached, ok := r.stores.Get(session); ok {
			return cached.(*Store), nil
		}
	}
	return store, nil
}

// Forget 丢弃会话句柄（不影响已持久化数据）
func (r *Registry) Forget(session string) {
	r.stores.Remove(strings.TrimSpace(session))
}

// Len 当前常驻句柄数
func (r *Registry) Len() int {
	return r.stores.Len()
}
