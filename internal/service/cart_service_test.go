package service

import (
	"context"
	"errors"
	"testing"

	"github.com/ml-muebles/storefront/internal/variant"
)

func TestCartAddFromSelectionResolvesVariation(t *testing.T) {
	svc := newTestCartService(t, newFakeCatalogBackend(), &fakeDepictions{images: map[int64]string{401: "https://cdn/401.jpg"}})
	ctx := context.Background()

	view, err := svc.AddFromSelection(ctx, AddToCartInput{
		Session:   "s-1",
		Slug:      "seccional-mustang",
		Selection: map[string]string{"pa_color": "felpa-gris", "pa_lado": "izquierdo"},
		Quantity:  2,
	})
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if len(view.Items) != 1 {
		t.Fatalf("expected one line, got %+v", view.Items)
	}
	item := view.Items[0]
	if item.LineID != "40-401" || *item.VariationID != 401 {
		t.Fatalf("unexpected line: %+v", item)
	}
	if item.VariantLabel != "Felpa Gris / Izquierdo" || item.VariantSwatchColor != variant.ResolveHex("Felpa Gris") {
		t.Fatalf("unexpected variant info: %+v", item)
	}
	if item.UnitPrice != "549.990" || item.OriginalUnitPrice != "649.990" || item.Image != "https://cdn/401.jpg" {
		t.Fatalf("unexpected pricing or image: %+v", item)
	}
	if view.TotalItemCount != 2 || view.Subtotal != "1.099.980" || view.SubtotalAmount != "1099980" {
		t.Fatalf("unexpected totals: %+v", view)
	}

	view, err = svc.AddFromSelection(ctx, AddToCartInput{
		Session:   "s-1",
		Slug:      "seccional-mustang",
		Selection: map[string]string{"pa_color": "felpa-gris", "pa_lado": "izquierdo"},
	})
	if err != nil {
		t.Fatalf("second add failed: %v", err)
	}
	if len(view.Items) != 1 || view.Items[0].Quantity != 3 {
		t.Fatalf("same variation should merge, got %+v", view.Items)
	}
}

func TestCartAddFromSelectionRejectsBadSelections(t *testing.T) {
	svc := newTestCartService(t, newFakeCatalogBackend(), nil)
	ctx := context.Background()

	_, err := svc.AddFromSelection(ctx, AddToCartInput{Session: "s-1", Slug: "seccional-mustang", Selection: map[string]string{"pa_color": "felpa-gris"}})
	var incomplete *variant.IncompleteSelectionError
	if !errors.Is(err, ErrVariantIncomplete) || !errors.As(err, &incomplete) || incomplete.Names[0] != "Lado" {
		t.Fatalf("expected incomplete selection, got %v", err)
	}

	_, err = svc.AddFromSelection(ctx, AddToCartInput{Session: "s-1", Slug: "seccional-mustang", Selection: map[string]string{"pa_color": "felpa-gris", "pa_lado": "derecho"}})
	if !errors.Is(err, ErrVariantUnavailable) {
		t.Fatalf("expected ErrVariantUnavailable, got %v", err)
	}

	_, err = svc.AddFromSelection(ctx, AddToCartInput{Session: "s-1", Slug: "seccional-mustang", Selection: map[string]string{"pa_tela": "x"}})
	if !errors.Is(err, ErrVariantInvalid) {
		t.Fatalf("expected ErrVariantInvalid, got %v", err)
	}

	_, err = svc.AddFromSelection(ctx, AddToCartInput{Session: "s-1", Slug: "pouf-redondo", Quantity: -1})
	if !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity, got %v", err)
	}

	_, err = svc.AddFromSelection(ctx, AddToCartInput{Session: " ", Slug: "pouf-redondo"})
	if !errors.Is(err, ErrSessionRequired) {
		t.Fatalf("expected ErrSessionRequired, got %v", err)
	}

	view, err := svc.Get(ctx, "s-1")
	if err != nil || len(view.Items) != 0 {
		t.Fatalf("rejected adds must leave cart empty, got %+v %v", view, err)
	}
}

func TestCartAddSimpleProductFallsBackToCardImage(t *testing.T) {
	svc := newTestCartService(t, newFakeCatalogBackend(), &fakeDepictions{})
	view, err := svc.AddFromSelection(context.Background(), AddToCartInput{Session: "s-2", Slug: "pouf-redondo"})
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	item := view.Items[0]
	if item.LineID != "77" || item.VariationID != nil || item.Image != "https://cdn/pouf.jpg" || item.Quantity != 1 {
		t.Fatalf("unexpected simple line: %+v", item)
	}
}

func TestCartUpdateAndRemove(t *testing.T) {
	svc := newTestCartService(t, newFakeCatalogBackend(), nil)
	ctx := context.Background()

	if _, err := svc.AddFromSelection(ctx, AddToCartInput{Session: "s-3", Slug: "pouf-redondo"}); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	view, err := svc.UpdateQuantity(ctx, "s-3", "999", 2)
	if err != nil || view.TotalItemCount != 1 {
		t.Fatalf("absent line update should leave the cart as is: %+v %v", view, err)
	}
	view, err = svc.RemoveItem(ctx, "s-3", "999")
	if err != nil || view.TotalItemCount != 1 {
		t.Fatalf("absent line removal should leave the cart as is: %+v %v", view, err)
	}
	view, err = svc.UpdateQuantity(ctx, "s-3", "77", 4)
	if err != nil || view.TotalItemCount != 4 {
		t.Fatalf("update failed: %+v %v", view, err)
	}
	view, err = svc.UpdateQuantity(ctx, "s-3", "77", -1)
	if err != nil || len(view.Items) != 0 {
		t.Fatalf("negative quantity should remove, got %+v %v", view, err)
	}
	view, err = svc.RemoveItem(ctx, "s-3", "77")
	if err != nil || len(view.Items) != 0 {
		t.Fatalf("removing twice should be a no-op, got %+v %v", view, err)
	}

	if _, err := svc.AddFromSelection(ctx, AddToCartInput{Session: "s-3", Slug: "pouf-redondo"}); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	view, err = svc.Clear(ctx, "s-3")
	if err != nil || view.TotalItemCount != 0 {
		t.Fatalf("clear failed: %+v %v", view, err)
	}
}

func TestCartSessionsAreIsolated(t *testing.T) {
	svc := newTestCartService(t, newFakeCatalogBackend(), nil)
	ctx := context.Background()
	if _, err := svc.AddFromSelection(ctx, AddToCartInput{Session: "a", Slug: "pouf-redondo"}); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	view, err := svc.Get(ctx, "b")
	if err != nil || len(view.Items) != 0 {
		t.Fatalf("session b must be empty, got %+v %v", view, err)
	}
}
