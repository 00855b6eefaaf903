package cart

import (
	"strconv"

	"github.com/ml-muebles/storefront/internal/money"

	"github.com/shopspring/decimal"
)

// LineItem 本地购物车中的一行（按商品 + 变体唯一）
type LineItem struct {
	LineID             string `json:"lineId"`
	ProductID          int64  `json:"productId"`
	VariationID        *int64 `json:"variationId,omitempty"`
	Name               string `json:"name"`
	Slug               string `json:"slug"`
	Image              string `json:"image"`
	UnitPrice          string `json:"unitPrice"`
	OriginalUnitPrice  string `json:"originalUnitPrice,omitempty"`
	Quantity           int    `json:"quantity"`
	VariantLabel       string `json:"variantLabel,omitempty"`
	VariantSwatchColor string `json:"variantSwatchColor,omitempty"`
}

// LineID 由商品ID与变体ID生成行标识；无变体时只用商品ID
func LineID(productID int64, variationID *int64) string {
	id := strconv.FormatInt(productID, 10)
	if variationID == nil || *variationID == 0 {
		return id
	}
	return id + "-" + strconv.FormatInt(*variationID, 10)
}

// RemoteID 后端加购时使用的ID：有变体用变体ID
func (i LineItem) RemoteID() int64 {
	if i.VariationID != nil && *i.VariationID != 0 {
		return *i.VariationID
	}
	return i.ProductID
}

// LineTotal 行小计
func (i LineItem) LineTotal(f money.Format) (decimal.Decimal, error) {
	price, err := money.ParseDisplay(i.UnitPrice, f)
	if err != nil {
		return decimal.Zero, err
	}
	return price.Mul(decimal.NewFromInt(int64(i.Quantity))), nil
}

func (i LineItem) withLineID() LineItem {
	if i.LineID == "" {
		i.LineID = LineID(i.ProductID, i.VariationID)
	}
	return i
}

// TotalItemCount 商品总件数
func TotalItemCount(items []LineItem) int {
	total := 0
	for _, item := range items {
		total += item.Quantity
	}
	return total
}

// SubtotalAmount 小计金额；无法解析的价格按 0 计
func SubtotalAmount(items []LineItem, f money.Format) decimal.Decimal {
	sum := decimal.Zero
	for _, item := range items {
		line, err := item.LineTotal(f)
		if err != nil {
			continue
		}
		sum = sum.Add(line)
	}
	return sum
}

// Subtotal 小计展示字符串
func Subtotal(items []LineItem, f money.Format) string {
	return money.FormatDisplay(SubtotalAmount(items, f), f)
}
