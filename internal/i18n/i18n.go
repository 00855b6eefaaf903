package i18n

import (
	"fmt"
	"strings"
	"sync"

	"github.com/ml-muebles/storefront/internal/constants"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"
)

const (
	LocaleES = "es-CL"
	LocaleEN = "en-US"
)

var (
	supportedTags = []language.Tag{
		language.MustParse(LocaleES),
		language.MustParse(LocaleEN),
	}
	matcher = language.NewMatcher(supportedTags)

	defaultMu     sync.RWMutex
	defaultLocale = LocaleES
)

// SetDefaultLocale 设置无法协商时的默认语言
func SetDefaultLocale(locale string) {
	normalized := NormalizeLocale(locale)
	if normalized == "" {
		return
	}
	defaultMu.Lock()
	defaultLocale = normalized
	defaultMu.Unlock()
}

// DefaultLocale 默认语言
func DefaultLocale() string {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLocale
}

// NormalizeLocale 将任意语言标签归一为受支持的语言，不支持时返回空串
func NormalizeLocale(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	tag, err := language.Parse(raw)
	if err != nil {
		return ""
	}
	_, idx, confidence := matcher.Match(tag)
	if confidence == language.No {
		return ""
	}
	return supportedTags[idx].String()
}

// ResolveLocale 依次读取上下文、lang 参数与 Accept-Language
func ResolveLocale(c *gin.Context) string {
	if c == nil {
		return DefaultLocale()
	}
	if value, ok := c.Get(constants.ContextKeyLocale); ok {
		if locale, ok := value.(string); ok && locale != "" {
			return locale
		}
	}
	if c.Request == nil {
		return DefaultLocale()
	}
	if locale := NormalizeLocale(c.Query("lang")); locale != "" {
		return locale
	}
	header := c.GetHeader("Accept-Language")
	if header == "" {
		return DefaultLocale()
	}
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return DefaultLocale()
	}
	_, idx, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return DefaultLocale()
	}
	return supportedTags[idx].String()
}

// T 翻译；缺失时回退默认语言，仍缺失则返回 key
func T(locale, key string) string {
	if msg, ok := lookup(locale, key); ok {
		return msg
	}
	if msg, ok := lookup(DefaultLocale(), key); ok {
		return msg
	}
	if msg, ok := lookup(LocaleES, key); ok {
		return msg
	}
	return key
}

// Sprintf 翻译并格式化
func Sprintf(locale, key string, args ...interface{}) string {
	return fmt.Sprintf(T(locale, key), args...)
}

func lookup(locale, key string) (string, bool) {
	table, ok := messages[locale]
	if !ok {
		return "", false
	}
	msg, ok := table[key]
	return msg, ok
}
