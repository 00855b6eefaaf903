package woocommerce

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultAPIPath Store API 路径
	DefaultAPIPath = "/wp-json/wc/store/v1"
	// HeaderCartToken 购物车令牌头
	HeaderCartToken = "Cart-Token"
	// HeaderNonce 请求签名头
	HeaderNonce = "Nonce"

	defaultTimeout     = 15 * time.Second
	defaultSearchLimit = 10
	defaultPerPage     = 100
	maxErrorBody       = 64 << 10
)

// Config 客户端配置
type Config struct {
	BaseURL     string
	APIPath     string
	Timeout     time.Duration
	UserAgent   string
	SearchLimit int
	PerPage     int
	HTTPClient  *http.Client
}

// Session 远端购物车会话，每次响应后轮换
type Session struct {
	CartToken string
	Nonce     string
}

// Empty 是否为空会话
func (s Session) Empty() bool {
	return s.CartToken == "" && s.Nonce == ""
}

// Client Store API 客户端
type Client struct {
	endpoint    string
	userAgent   string
	searchLimit int
	perPage     int
	http        *http.Client
}

// New 创建客户端
func New(cfg Config) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, fmt.Errorf("%w: base_url is required", ErrConfigInvalid)
	}
	if _, err := url.Parse(base); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigInvalid, err)
	}
	apiPath := strings.TrimSpace(cfg.APIPath)
	if apiPath == "" {
		apiPath = DefaultAPIPath
	}
	if !strings.HasPrefix(apiPath, "/") {
		apiPath = "/" + apiPath
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	searchLimit := cfg.SearchLimit
	if searchLimit <= 0 {
		searchLimit = defaultSearchLimit
	}
	perPage := cfg.PerPage
	if perPage <= 0 {
		perPage = defaultPerPage
	}
	return &Client{
		endpoint:    base + strings.TrimRight(apiPath, "/"),
		userAgent:   strings.TrimSpace(cfg.UserAgent),
		searchLimit: searchLimit,
		perPage:     perPage,
		http:        httpClient,
	}, nil
}

// GetCart 读取购物车；空会话时后端签发新的令牌与 nonce
func (c *Client) GetCart(ctx context.Context, sess Session) (*Cart, Session, error) {
	var cart Cart
	next, err := c.do(ctx, http.MethodGet, "/cart", nil, sess, nil, &cart)
	if err != nil {
		return nil, next, err
	}
	return &cart, next, nil
}

// AddItem 远端加购
func (c *Client) AddItem(ctx context.Context, sess Session, req AddItemRequest) (*Cart, Session, error) {
	var cart Cart
	next, err := c.do(ctx, http.MethodPost, "/cart/add-item", nil, sess, req, &cart)
	if err != nil {
		return nil, next, err
	}
	return &cart, next, nil
}

// UpdateCustomer 设置账单与收货地址
func (c *Client) UpdateCustomer(ctx context.Context, sess Session, req CustomerRequest) (*Cart, Session, error) {
	var cart Cart
	next, err := c.do(ctx, http.MethodPost, "/cart/update-customer", nil, sess, req, &cart)
	if err != nil {
		return nil, next, err
	}
	return &cart, next, nil
}

// Checkout 提交订单
func (c *Client) Checkout(ctx context.Context, sess Session, req CheckoutRequest) (*CheckoutResponse, Session, error) {
	var resp CheckoutResponse
	next, err := c.do(ctx, http.MethodPost, "/checkout", nil, sess, req, &resp)
	if err != nil {
		return nil, next, err
	}
	return &resp, next, nil
}

// DeleteAllItems 清空远端购物车
func (c *Client) DeleteAllItems(ctx context.Context, sess Session) (Session, error) {
	return c.do(ctx, http.MethodDelete, "/cart/items", nil, sess, nil, nil)
}

// GetProduct 按ID读取商品或变体
func (c *Client) GetProduct(ctx context.Context, id int64) (*Product, error) {
	if id <= 0 {
		return nil, ErrProductNotFound
	}
	var product Product
	_, err := c.do(ctx, http.MethodGet, "/products/"+strconv.FormatInt(id, 10), nil, Session{}, nil, &product)
	if err != nil {
		if apiErr, ok := AsAPIError(err); ok && apiErr.Status == http.StatusNotFound {
			return nil, fmt.Errorf("%w: %d", ErrProductNotFound, id)
		}
		return nil, err
	}
	return &product, nil
}

// GetProductBySlug 按 slug 读取商品
func (c *Client) GetProductBySlug(ctx context.Context, slug string) (*Product, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, ErrProductNotFound
	}
	products, err := c.ListProducts(ctx, ProductQuery{Slug: slug})
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrProductNotFound, slug)
	}
	return &products[0], nil
}

// ListProducts 商品列表
func (c *Client) ListProducts(ctx context.Context, query ProductQuery) ([]Product, error) {
	params := url.Values{}
	if query.Slug != "" {
		params.Set("slug", query.Slug)
	}
	if query.Search != "" {
		params.Set("search", query.Search)
	}
	if query.CategoryID > 0 {
		params.Set("category", strconv.FormatInt(query.CategoryID, 10))
	}
	if query.Page > 0 {
		params.Set("page", strconv.Itoa(query.Page))
	}
	if query.PerPage > 0 {
		params.Set("per_page", strconv.Itoa(query.PerPage))
	} else if query.Slug == "" {
		params.Set("per_page", strconv.Itoa(c.perPage))
	}
	var products []Product
	if _, err := c.do(ctx, http.MethodGet, "/products", params, Session{}, nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// SearchProducts 关键字搜索
func (c *Client) SearchProducts(ctx context.Context, term string) ([]Product, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return []Product{}, nil
	}
	return c.ListProducts(ctx, ProductQuery{Search: term, PerPage: c.searchLimit})
}

// ListCategories 分类列表
func (c *Client) ListCategories(ctx context.Context) ([]Category, error) {
	params := url.Values{}
	params.Set("per_page", "100")
	var categories []Category
	if _, err := c.do(ctx, http.MethodGet, "/products/categories", params, Session{}, nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// do 发送请求；无论成功与否都返回轮换后的会话
func (c *Client) do(ctx context.Context, method, path string, params url.Values, sess Session, body, out interface{}) (Session, error) {
	endpoint := c.endpoint + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return sess, fmt.Errorf("%w: encode body: %v", ErrRequestFailed, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return sess, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if sess.CartToken != "" {
		req.Header.Set(HeaderCartToken, sess.CartToken)
	}
	if sess.Nonce != "" {
		req.Header.Set(HeaderNonce, sess.Nonce)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return sess, fmt.Errorf("%w: %w", ErrRequestFailed, ctxErr)
		}
		return sess, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	next := rotate(sess, resp.Header)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return next, parseAPIError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return next, nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return next, fmt.Errorf("%w: empty body", ErrResponseInvalid)
		}
		return next, fmt.Errorf("%w: %v", ErrResponseInvalid, err)
	}
	return next, nil
}

func rotate(prev Session, header http.Header) Session {
	next := prev
	if token := strings.TrimSpace(header.Get(HeaderCartToken)); token != "" {
		next.CartToken = token
	}
	if nonce := strings.TrimSpace(header.Get(HeaderNonce)); nonce != "" {
		next.Nonce = nonce
	}
	return next
}

func parseAPIError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil || len(raw) == 0 {
		return apiErr
	}
	var body struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if json.Unmarshal(raw, &body) == nil {
		apiErr.Code = body.Code
		apiErr.Message = body.Message
	}
	return apiErr
}
