package models

import "time"

// StoredCart 会话购物车的持久化快照（内容为不透明 JSON）
type StoredCart struct {
	ID         uint      `gorm:"primarykey" json:"id"`                                          // 主键
	SessionKey string    `gorm:"type:varchar(191);uniqueIndex;not null" json:"session_key"` // 会话存储键
	Payload    string    `gorm:"type:text;not null" json:"payload"`                             // 购物车 JSON
	CreatedAt  time.Time `json:"created_at"`                                                    // 创建时间
	UpdatedAt  time.Time `gorm:"index" json:"updated_at"`                                       // 更新时间
}

// TableName 指定表名
func (StoredCart) TableName() string {
	return "stored_carts"
}
