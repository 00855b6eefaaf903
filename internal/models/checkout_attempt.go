package models

import "time"

// 结账尝试状态
const (
	CheckoutStatusPending   = "pending"
	CheckoutStatusSucceeded = "succeeded"
	CheckoutStatusFailed    = "failed"
)

// CheckoutAttempt 结账尝试记录
type CheckoutAttempt struct {
	ID              uint       `gorm:"primarykey" json:"-"`                                     // 主键
	AttemptID       string     `gorm:"type:varchar(36);uniqueIndex;not null" json:"attempt_id"` // 尝试ID（uuid）
	SessionKey      string     `gorm:"type:varchar(191);index;not null" json:"-"`               // 会话
	Status          string     `gorm:"type:varchar(20);index;not null" json:"status"`           // 状态
	Step            string     `gorm:"type:varchar(32)" json:"step,omitempty"`                  // 失败步骤
	OrderID         int64      `gorm:"index" json:"order_id,omitempty"`                         // 远端订单ID
	OrderStatus     string     `gorm:"type:varchar(32)" json:"order_status,omitempty"`          // 远端订单状态
	PaymentMethod   string     `gorm:"type:varchar(64);not null" json:"payment_method"`         // 支付方式
	RedirectURL     string     `gorm:"type:text" json:"redirect_url,omitempty"`                 // 支付跳转地址
	ItemCount       int        `gorm:"not null;default:0" json:"item_count"`                    // 商品件数
	Subtotal        Money      `gorm:"type:decimal(20,2);not null;default:0" json:"subtotal"`   // 本地小计
	Message         string     `gorm:"type:text" json:"message,omitempty"`                      // 失败提示
	OrphanCartToken string     `gorm:"type:text" json:"-"`                                      // 遗留远端购物车令牌
	OrphanCleanedAt *time.Time `json:"-"`                                                       // 遗留购物车清理时间
	CompletedAt     *time.Time `json:"completed_at,omitempty"`                                  // 结束时间
	CreatedAt       time.Time  `gorm:"index" json:"created_at"`                                 // 创建时间
	UpdatedAt       time.Time  `json:"updated_at"`                                              // 更新时间
}

// TableName 指定表名
func (CheckoutAttempt) TableName() string {
	return "checkout_attempts"
}
