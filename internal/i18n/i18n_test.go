package i18n

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func newLocaleContext(target, acceptLanguage string) *gin.Context {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req := httptest.NewRequest("GET", target, nil)
	if acceptLanguage != "" {
		req.Header.Set("Accept-Language", acceptLanguage)
	}
	c.Request = req
	return c
}

func TestResolveLocale(t *testing.T) {
	cases := []struct {
		name   string
		target string
		accept string
		want   string
	}{
		{name: "default", target: "/", want: LocaleES},
		{name: "english header", target: "/", accept: "en-GB,en;q=0.9", want: LocaleEN},
		{name: "spanish variant", target: "/", accept: "es-AR", want: LocaleES},
		{name: "query wins", target: "/?lang=en", accept: "es-CL", want: LocaleEN},
		{name: "unsupported falls back", target: "/", accept: "ja-JP", want: LocaleES},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := newLocaleContext(tc.target, tc.accept)
			if got := ResolveLocale(c); got != tc.want {
				t.Fatalf("ResolveLocale() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestTFallbacks(t *testing.T) {
	if got := T(LocaleEN, "error.product_not_found"); got != "Product not found" {
		t.Fatalf("unexpected english message: %q", got)
	}
	if got := T("fr-FR", "error.product_not_found"); got != "Producto no encontrado" {
		t.Fatalf("unknown locale should fall back to default: %q", got)
	}
	if got := T(LocaleES, "error.missing_key"); got != "error.missing_key" {
		t.Fatalf("missing key should echo the key: %q", got)
	}
	if got := Sprintf(LocaleEN, "error.too_many_requests", 30); got != "Too many requests, wait 30 seconds" {
		t.Fatalf("unexpected formatted message: %q", got)
	}
}

func TestEveryKeyTranslated(t *testing.T) {
	for key := range messages[LocaleES] {
		if _, ok := messages[LocaleEN][key]; !ok {
			t.Fatalf("missing english translation for %s", key)
		}
	}
}
