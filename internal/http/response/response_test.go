package response

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body failed: %v", err)
	}
	return body
}

func TestErrorAttachesRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("request_id", "req-1")

	ErrorWithData(c, CodeBadRequest, "bad", gin.H{"fields": gin.H{"email": "x"}})

	body := decodeBody(t, w)
	if body["status_code"].(float64) != CodeBadRequest {
		t.Fatalf("unexpected status code: %v", body["status_code"])
	}
	data := body["data"].(map[string]interface{})
	if data["request_id"] != "req-1" {
		t.Fatalf("request_id missing: %v", data)
	}
	if _, ok := data["fields"]; !ok {
		t.Fatalf("fields missing: %v", data)
	}
}

func TestBuildPagination(t *testing.T) {
	p := BuildPagination(2, 10, 21)
	if p.TotalPage != 3 {
		t.Fatalf("unexpected total page: %d", p.TotalPage)
	}
	if BuildPagination(1, 0, 5).TotalPage != 0 {
		t.Fatalf("zero page size should yield zero pages")
	}
}

func TestAppErrorUnwrap(t *testing.T) {
	base := errors.New("boom")
	err := WrapError(CodeInternal, "failed", base).WithData(gin.H{"a": 1})
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error")
	}
	if err.Error() != "failed: boom" {
		t.Fatalf("unexpected message: %s", err.Error())
	}
}
