package cart

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"

	"github.com/ml-muebles/storefront/internal/money"

	"go.uber.org/zap"
)

// DefaultKey 本地存储键名
const DefaultKey = "ml-cart"

// ErrInvalidItem 加购商品数据不合法
var ErrInvalidItem = errors.New("invalid cart item")

// Store 单个购物者的购物车句柄
type Store struct {
	key     string
	storage Storage
	format  money.Format
	log     *zap.SugaredLogger

	mu        sync.Mutex
	items     []LineItem
	unsynced  bool
	listeners map[int]func(Event)
	nextSubID int
}

// Option Store 配置项
type Option func(*Store)

// WithFormat 设置金额格式
func WithFormat(f money.Format) Option {
	return func(s *Store) {
		s.format = f.Normalize()
	}
}

// WithLogger 设置日志
func WithLogger(log *zap.SugaredLogger) Option {
	return func(s *Store) {
		if log != nil {
			s.log = log
		}
	}
}

// NewStore 创建购物车句柄；调用 Load 前为空
func NewStore(key string, storage Storage, opts ...Option) *Store {
	if strings.TrimSpace(key) == "" {
		key = DefaultKey
	}
	if storage == nil {
		storage = NewMemoryStorage()
	}
	s := &Store{
		key:       key,
		storage:   storage,
		format:    money.DefaultFormat,
		log:       zap.NewNop().Sugar(),
		items:     []LineItem{},
		listeners: make(map[int]func(Event)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Key 存储键
func (s *Store) Key() string {
	return s.key
}

// Load 从存储恢复；读取失败或数据损坏时以空购物车开始
func (s *Store) Load(ctx context.Context) {
	stored, _ := s.read(ctx)
	s.Dispatch(ctx, Hydrate{Items: stored})
}

// Refresh 以存储中的内容覆盖内存状态，不触发事件。
// 存储被多个进程共享时，读取前调用以拿到其他进程的写入。
func (s *Store) Refresh(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshLocked(ctx)
}

// refreshLocked 上次持久化失败时保留内存状态，直到下一次写入成功
func (s *Store) refreshLocked(ctx context.Context) {
	if s.unsynced {
		return
	}
	stored, ok := s.read(ctx)
	if !ok {
		return
	}
	s.items = hydrate(stored)
}

// read 返回存储内容；ok 为 false 表示读取失败或数据损坏
func (s *Store) read(ctx context.Context) ([]LineItem, bool) {
	payload, err := s.storage.Load(ctx, s.key)
	switch {
	case errors.Is(err, ErrNotFound):
		return nil, true
	case err != nil:
		s.log.Warnw("cart_load_failed", "key", s.key, "error", err)
		return nil, false
	case len(payload) == 0:
		return nil, true
	}
	var stored []LineItem
	if err := json.Unmarshal(payload, &stored); err != nil {
		s.log.Warnw("cart_payload_corrupted", "key", s.key, "error", err)
		return nil, false
	}
	return stored, true
}

// Dispatch 执行指令：读取-变更-持久化在同一把锁内完成，事件在锁外分发
func (s *Store) Dispatch(ctx context.Context, cmd Command) []Event {
	s.mu.Lock()
	_, hydrating := cmd.(Hydrate)
	if !hydrating {
		s.refreshLocked(ctx)
	}
	next, events := Reduce(s.items, cmd)
	if len(events) == 0 {
		s.mu.Unlock()
		return nil
	}
	s.items = next
	if !hydrating {
		s.unsynced = !s.persist(ctx, next)
	}
	listeners := make([]func(Event), 0, len(s.listeners))
	for _, fn := range s.listeners {
		listeners = append(listeners, fn)
	}
	s.mu.Unlock()

	for _, ev := range events {
		for _, fn := range listeners {
			fn(ev)
		}
	}
	return events
}

func (s *Store) persist(ctx context.Context, items []LineItem) bool {
	payload, err := json.Marshal(items)
	if err != nil {
		s.log.Warnw("cart_encode_failed", "key", s.key, "error", err)
		return false
	}
	if err := s.storage.Save(ctx, s.key, payload); err != nil {
		s.log.Warnw("cart_persist_failed", "key", s.key, "error", err)
		return false
	}
	return true
}

// AddItem 加入购物车；同一行合并数量
func (s *Store) AddItem(ctx context.Context, item LineItem) error {
	if item.ProductID <= 0 || item.Quantity < 1 {
		return ErrInvalidItem
	}
	if _, err := money.ParseDisplay(item.UnitPrice, s.format); err != nil {
		return errors.Join(ErrInvalidItem, err)
	}
	item.LineID = LineID(item.ProductID, item.VariationID)
	s.Dispatch(ctx, AddItem{Item: item})
	return nil
}

// UpdateQuantity 修改数量；<=0 视为移除，不存在的行忽略
func (s *Store) UpdateQuantity(ctx context.Context, lineID string, quantity int) {
	s.Dispatch(ctx, UpdateQuantity{LineID: lineID, Quantity: quantity})
}

// RemoveItem 移除行
func (s *Store) RemoveItem(ctx context.Context, lineID string) {
	s.Dispatch(ctx, RemoveItem{LineID: lineID})
}

// Clear 清空
func (s *Store) Clear(ctx context.Context) {
	s.Dispatch(ctx, Clear{})
}

// Settle 下单成功后扣除已转移的行，结账期间新增的行保留
func (s *Store) Settle(ctx context.Context, items []LineItem) {
	s.Dispatch(ctx, Settle{Items: items})
}

// Items 当前行的副本
func (s *Store) Items() []LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]LineItem(nil), s.items...)
}

// Item 按行ID查找
func (s *Store) Item(lineID string) (LineItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if pos := indexOf(s.items, lineID); pos >= 0 {
		return s.items[pos], true
	}
	return LineItem{}, false
}

// TotalItemCount 商品总件数
func (s *Store) TotalItemCount() int {
	return TotalItemCount(s.Items())
}

// SubtotalAmount 小计金额
func (s *Store) SubtotalAmount() string {
	return SubtotalAmount(s.Items(), s.format).String()
}

// Subtotal 小计展示字符串，如 "20.900"
func (s *Store) Subtotal() string {
	return Subtotal(s.Items(), s.format)
}

// Format 金额格式
func (s *Store) Format() money.Format {
	return s.format
}

// Subscribe 订阅状态变更，返回取消函数
func (s *Store) Subscribe(fn func(Event)) func() {
	if fn == nil {
		return func() {}
	}
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.listeners[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}
