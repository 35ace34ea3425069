package enums

import "testing"

func TestParseProductCategoryNormalizesInput(t *testing.T) {
	cases := map[string]ProductCategory{
		"produce":       ProductCategoryProduce,
		"Canned Goods":  ProductCategoryCannedGoods,
		"personal-care": ProductCategoryPersonalCare,
		" OTHER ":       ProductCategoryOther,
	}
	for input, want := range cases {
		got, err := ParseProductCategory(input)
		if err != nil {
			t.Fatalf("ParseProductCategory(%q) returned error: %v", input, err)
		}
		if got != want {
			t.Fatalf("ParseProductCategory(%q) = %s, want %s", input, got, want)
		}
	}
	if _, err := ParseProductCategory("furniture"); err == nil {
		t.Fatal("expected unknown category to fail")
	}
}

func TestMovementKindAcceptsDelta(t *testing.T) {
	tests := []struct {
		kind  MovementKind
		delta int
		want  bool
	}{
		{MovementKindSale, -3, true},
		{MovementKindSale, 3, false},
		{MovementKindReceipt, 10, true},
		{MovementKindReceipt, -1, false},
		{MovementKindAdjustment, -2, true},
		{MovementKindAdjustment, 2, true},
		{MovementKindAdjustment, 0, false},
		{MovementKindSale, 0, false},
		{MovementKind("RETURN"), 1, false},
	}
	for _, tt := range tests {
		if got := tt.kind.AcceptsDelta(tt.delta); got != tt.want {
			t.Fatalf("%s.AcceptsDelta(%d) = %v, want %v", tt.kind, tt.delta, got, tt.want)
		}
	}
}

func TestRestockOrderStatusTerminal(t *testing.T) {
	for _, status := range RestockOrderStatuses() {
		if status.IsTerminal() == status.IsOpen() {
			t.Fatalf("status %s must be either open or terminal", status)
		}
	}
	if _, err := ParseRestockOrderStatus("submitted"); err != nil {
		t.Fatalf("expected lower case status to parse: %v", err)
	}
}

func TestRestockUrgencyRank(t *testing.T) {
	if !(RestockUrgencyCritical.Rank() < RestockUrgencyHigh.Rank() && RestockUrgencyHigh.Rank() < RestockUrgencyMedium.Rank()) {
		t.Fatal("urgency ranks out of order")
	}
}
