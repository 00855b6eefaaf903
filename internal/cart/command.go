package cart

// Command 购物车状态变更指令
type Command interface {
	command()
}

// Hydrate 从持久化数据恢复
type Hydrate struct {
	Items []LineItem
}

// AddItem 加入购物车，同一行则累加数量
type AddItem struct {
	Item LineItem
}

// UpdateQuantity 修改数量，<=0 时移除
type UpdateQuantity struct {
	LineID   string
	Quantity int
}

// RemoveItem 移除行
type RemoveItem struct {
	LineID string
}

// Clear 清空购物车
type Clear struct{}

// Settle 扣除已下单的行：按行ID减去对应数量，减到 0 的行移除；其余行保持不变
type Settle struct {
	Items []LineItem
}

func (Hydrate) command()        {}
func (AddItem) command()        {}
func (UpdateQuantity) command() {}
func (RemoveItem) command()     {}
func (Clear) command()          {}
func (Settle) command()         {}

// EventType 状态变更事件类型
type EventType string

const (
	EventHydrated    EventType = "hydrated"
	EventItemAdded   EventType = "item_added"
	EventItemUpdated EventType = "item_updated"
	EventItemRemoved EventType = "item_removed"
	EventCleared     EventType = "cleared"
)

// Event 状态变更事件；UI 层可订阅（例如加购后展开购物车摘要）
type Event struct {
	Type     EventType
	LineID   string
	Quantity int
}
