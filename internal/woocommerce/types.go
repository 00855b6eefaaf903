package woocommerce

// Image 商品图片
type Image struct {
	ID        int64  `json:"id"`
	Src       string `json:"src"`
	Thumbnail string `json:"thumbnail"`
	Name      string `json:"name"`
	Alt       string `json:"alt"`
}

// PriceRange 价格区间
type PriceRange struct {
	MinAmount string `json:"min_amount"`
	MaxAmount string `json:"max_amount"`
}

// Prices 价格（最小货币单位字符串 + 精度）
type Prices struct {
	Price                     string      `json:"price"`
	RegularPrice              string      `json:"regular_price"`
	SalePrice                 string      `json:"sale_price"`
	PriceRange                *PriceRange `json:"price_range"`
	CurrencyCode              string      `json:"currency_code"`
	CurrencySymbol            string      `json:"currency_symbol"`
	CurrencyMinorUnit         int         `json:"currency_minor_unit"`
	CurrencyDecimalSeparator  string      `json:"currency_decimal_separator"`
	CurrencyThousandSeparator string      `json:"currency_thousand_separator"`
	CurrencyPrefix            string      `json:"currency_prefix"`
	CurrencySuffix            string      `json:"currency_suffix"`
}

// AttributeTerm 属性值
type AttributeTerm struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Attribute 商品属性
type Attribute struct {
	ID            int64           `json:"id"`
	Name          string          `json:"name"`
	Taxonomy      string          `json:"taxonomy"`
	HasVariations bool            `json:"has_variations"`
	Terms         []AttributeTerm `json:"terms"`
}

// VariationAttribute 变体属性，Name 为属性显示名
type VariationAttribute struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Variation 变体
type Variation struct {
	ID         int64                `json:"id"`
	Attributes []VariationAttribute `json:"attributes"`
}

// ProductCategory 商品所属分类
type ProductCategory struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Product Store API 商品
type Product struct {
	ID               int64             `json:"id"`
	Name             string            `json:"name"`
	Slug             string            `json:"slug"`
	Parent           int64             `json:"parent"`
	Type             string            `json:"type"`
	Permalink        string            `json:"permalink"`
	SKU              string            `json:"sku"`
	ShortDescription string            `json:"short_description"`
	Description      string            `json:"description"`
	OnSale           bool              `json:"on_sale"`
	Prices           Prices            `json:"prices"`
	Images           []Image           `json:"images"`
	Categories       []ProductCategory `json:"categories"`
	Attributes       []Attribute       `json:"attributes"`
	Variations       []Variation       `json:"variations"`
	HasOptions       bool              `json:"has_options"`
	IsPurchasable    bool              `json:"is_purchasable"`
	IsInStock        bool              `json:"is_in_stock"`
}

// Category 商品分类
type Category struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	Parent      int64  `json:"parent"`
	Count       int    `json:"count"`
	Image       *Image `json:"image"`
	Permalink   string `json:"permalink"`
}

// Address 账单/收货地址
type Address struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Company   string `json:"company"`
	Address1  string `json:"address_1"`
	Address2  string `json:"address_2"`
	City      string `json:"city"`
	State     string `json:"state"`
	Postcode  string `json:"postcode"`
	Country   string `json:"country"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// CartItemTotals 购物车行合计
type CartItemTotals struct {
	LineSubtotal      string `json:"line_subtotal"`
	LineTotal         string `json:"line_total"`
	CurrencyCode      string `json:"currency_code"`
	CurrencyMinorUnit int    `json:"currency_minor_unit"`
}

// CartItem 远端购物车行
type CartItem struct {
	Key      string         `json:"key"`
	ID       int64          `json:"id"`
	Quantity int            `json:"quantity"`
	Name     string         `json:"name"`
	Totals   CartItemTotals `json:"totals"`
}

// CartTotals 远端购物车合计
type CartTotals struct {
	TotalItems        string `json:"total_items"`
	TotalPrice        string `json:"total_price"`
	TotalShipping     string `json:"total_shipping"`
	CurrencyCode      string `json:"currency_code"`
	CurrencyMinorUnit int    `json:"currency_minor_unit"`
}

// Cart 远端购物车
type Cart struct {
	Items           []CartItem `json:"items"`
	Totals          CartTotals `json:"totals"`
	ShippingAddress Address    `json:"shipping_address"`
	BillingAddress  Address    `json:"billing_address"`
	ItemsCount      int        `json:"items_count"`
	NeedsPayment    bool       `json:"needs_payment"`
	NeedsShipping   bool       `json:"needs_shipping"`
	PaymentMethods  []string   `json:"payment_methods"`
}

// AddItemRequest 加购请求，ID 为变体ID或商品ID
type AddItemRequest struct {
	ID       int64 `json:"id"`
	Quantity int   `json:"quantity"`
}

// CustomerRequest 更新客户信息请求
type CustomerRequest struct {
	BillingAddress  Address `json:"billing_address"`
	ShippingAddress Address `json:"shipping_address"`
}

// CheckoutRequest 下单请求
type CheckoutRequest struct {
	PaymentMethod   string  `json:"payment_method"`
	BillingAddress  Address `json:"billing_address"`
	ShippingAddress Address `json:"shipping_address"`
}

// PaymentDetail 支付附加信息
type PaymentDetail struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// PaymentResult 支付结果
type PaymentResult struct {
	PaymentStatus  string          `json:"payment_status"`
	RedirectURL    string          `json:"redirect_url"`
	PaymentDetails []PaymentDetail `json:"payment_details"`
}

// CheckoutResponse 下单响应
type CheckoutResponse struct {
	OrderID       int64         `json:"order_id"`
	Status        string        `json:"status"`
	OrderKey      string        `json:"order_key"`
	PaymentResult PaymentResult `json:"payment_result"`
}

// ProductQuery 商品列表查询
type ProductQuery struct {
	CategoryID int64
	Page       int
	PerPage    int
	Slug       string
	Search     string
}
