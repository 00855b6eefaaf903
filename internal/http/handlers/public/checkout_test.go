package public

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/ml-muebles/storefront/internal/checkout"
	"github.com/ml-muebles/storefront/internal/http/response"
)

func TestSubmitCheckoutFieldErrors(t *testing.T) {
	env := newTestEnv(t)

	body := validCheckoutBody()
	body["email"] = "no-es-correo"
	delete(body, "comuna")

	resp := env.do(t, http.MethodPost, "/checkout", body)
	if resp.StatusCode != response.CodeUnprocessable {
		t.Fatalf("status_code want 422 got %d", resp.StatusCode)
	}
	var data struct {
		Fields    map[string]string `json:"fields"`
		FieldKeys map[string]string `json:"field_keys"`
	}
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		t.Fatalf("decode data failed: %v", err)
	}
	if data.FieldKeys["email"] != "checkout.field.email.invalid" || data.Fields["email"] != "Correo electrónico no válido" {
		t.Fatalf("unexpected email error: %+v", data)
	}
	if data.FieldKeys["comuna"] != "checkout.field.comuna.required" {
		t.Fatalf("unexpected comuna error: %+v", data)
	}
	if env.processor.calls != 0 {
		t.Fatalf("invalid form must not reach the backend")
	}
}

func TestSubmitCheckoutSuccess(t *testing.T) {
	env := newTestEnv(t)
	env.do(t, http.MethodPost, "/cart/items", map[string]interface{}{"slug": "pouf-redondo"})

	resp := env.do(t, http.MethodPost, "/checkout", validCheckoutBody())
	if resp.StatusCode != response.CodeOK {
		t.Fatalf("status_code want 0 got %d msg=%s", resp.StatusCode, resp.Msg)
	}
	var data struct {
		AttemptID string `json:"attempt_id"`
		Order     struct {
			OrderID int64 `json:"order_id"`
		} `json:"order"`
		Navigation checkout.Navigation `json:"navigation"`
	}
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		t.Fatalf("decode data failed: %v", err)
	}
	if data.AttemptID == "" || data.Order.OrderID != 4521 {
		t.Fatalf("unexpected outcome: %+v", data)
	}
	if data.Navigation.External || data.Navigation.URL != "/checkout/confirmacion?order_id=4521" {
		t.Fatalf("unexpected navigation: %+v", data.Navigation)
	}
}

func TestSubmitCheckoutBackendFailure(t *testing.T) {
	env := newTestEnv(t)
	env.processor.err = &checkout.Error{Step: checkout.StepTransferItems, Message: "Sin stock", Status: 400}

	resp := env.do(t, http.MethodPost, "/checkout", validCheckoutBody())
	if resp.StatusCode != response.CodeUnprocessable {
		t.Fatalf("status_code want 422 got %d", resp.StatusCode)
	}
	if resp.Msg != "Sin stock" {
		t.Fatalf("backend message should pass through, got %s", resp.Msg)
	}
	var data struct {
		Step      string `json:"step"`
		Retryable bool   `json:"retryable"`
	}
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		t.Fatalf("decode data failed: %v", err)
	}
	if data.Step != string(checkout.StepTransferItems) || data.Retryable {
		t.Fatalf("unexpected failure data: %+v", data)
	}
}

func TestSubmitCheckoutRejectsPaymentMethod(t *testing.T) {
	env := newTestEnv(t)

	body := validCheckoutBody()
	body["payment_method"] = "bitcoin"
	resp := env.do(t, http.MethodPost, "/checkout", body)
	if resp.StatusCode != response.CodeBadRequest {
		t.Fatalf("status_code want 400 got %d", resp.StatusCode)
	}
}
