package woocommerce

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrConfigInvalid   = errors.New("woocommerce config invalid")
	ErrRequestFailed   = errors.New("woocommerce request failed")
	ErrResponseInvalid = errors.New("woocommerce response invalid")
	ErrProductNotFound = errors.New("woocommerce product not found")
)

// APIError 后端返回的非 2xx 响应
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("woocommerce api error %d (%s): %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("woocommerce api error %d: %s", e.Status, e.Message)
}

// UserMessage 面向用户的提示：优先后端 message，否则 "Error <status>"
func (e *APIError) UserMessage() string {
	if msg := strings.TrimSpace(e.Message); msg != "" {
		return msg
	}
	return fmt.Sprintf("Error %d", e.Status)
}

// SessionExpired 会话已失效（令牌过期或购物车不存在）
func (e *APIError) SessionExpired() bool {
	switch e.Status {
	case http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound:
		return true
	}
	return false
}

// AsAPIError 提取 APIError
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
