package suggestion

import (
	"context"
	"testing"
	"time"

	"kmcpos/backend/internal/cache"
	"kmcpos/backend/internal/domain"
)

func billWith(ids ...string) domain.Bill {
	items := make([]domain.BillItem, 0, len(ids))
	for _, id := range ids {
		items = append(items, domain.BillItem{MedicineID: id, Quantity: 1})
	}
	return domain.Bill{BillNo: "BILL-x", CreatedAt: time.Now().UTC(), Items: items}
}

func TestPairsFromBills(t *testing.T) {
	bills := []domain.Bill{
		billWith("MED001", "MED002"),
		billWith("MED001", "MED002"),
		billWith("MED001"),
		billWith("MED003"),
	}

	pairs := PairsFromBills(bills)
	var found *domain.AffinityPair
	for i := range pairs {
		if pairs[i].MedicineID == "MED001" && pairs[i].TargetID == "MED002" {
			found = &pairs[i]
		}
	}
	if found == nil {
		t.Fatalf("expected MED001->MED002 pair, got %+v", pairs)
	}
	// Both medicines appear together on 2 of 4 bills.
	if found.Affinity != 0.5 {
		t.Fatalf("expected affinity 0.5, got %f", found.Affinity)
	}

	if PairsFromBills(nil) != nil {
		t.Fatalf("expected nil pairs for no bills")
	}
}

func TestSuggestPicksCoOccurringMedicine(t *testing.T) {
	engine := NewEngine(cache.NoopSuggestionCache{}, time.Second)

	lines := []domain.CartLine{{MedicineID: "MED001", Quantity: 1}}
	medicines := []domain.Medicine{
		{ID: "MED001", Name: "Paracetamol 500mg", PriceCents: 1500, CostPriceCents: 1000, Stock: 100},
		{ID: "MED002", Name: "ORS Sachet", PriceCents: 800, CostPriceCents: 400, Stock: 60},
	}
	pairs := []domain.AffinityPair{
		{MedicineID: "MED001", TargetID: "MED002", Affinity: 0.9},
	}

	resp := engine.Suggest(context.Background(), lines, medicines, pairs)
	if !resp.Show || resp.Suggestion == nil {
		t.Fatalf("expected a suggestion, got %+v", resp)
	}
	if resp.Suggestion.MedicineID != "MED002" {
		t.Fatalf("expected MED002, got %s", resp.Suggestion.MedicineID)
	}
	if resp.Suggestion.Confidence < 0.35 || resp.Suggestion.Confidence > 1 {
		t.Fatalf("confidence out of range: %f", resp.Suggestion.Confidence)
	}
	if resp.Suggestion.ReasonCode == "" {
		t.Fatalf("expected a reason code")
	}
}

func TestSuggestSkipsCartAndOutOfStockItems(t *testing.T) {
	engine := NewEngine(cache.NoopSuggestionCache{}, time.Second)

	lines := []domain.CartLine{
		{MedicineID: "MED001", Quantity: 1},
		{MedicineID: "MED002", Quantity: 1},
	}
	medicines := []domain.Medicine{
		{ID: "MED001", Name: "Paracetamol 500mg", PriceCents: 1500, CostPriceCents: 1000, Stock: 100},
		{ID: "MED002", Name: "ORS Sachet", PriceCents: 800, CostPriceCents: 400, Stock: 60},
		{ID: "MED003", Name: "Vitamin C", PriceCents: 1200, CostPriceCents: 600, Stock: 0},
	}
	pairs := []domain.AffinityPair{
		{MedicineID: "MED001", TargetID: "MED002", Affinity: 0.9},
		{MedicineID: "MED001", TargetID: "MED003", Affinity: 0.9},
	}

	resp := engine.Suggest(context.Background(), lines, medicines, pairs)
	if resp.Show || resp.Suggestion != nil {
		t.Fatalf("expected no suggestion, got %+v", resp)
	}
}

func TestSuggestEmptyCartIsQuiet(t *testing.T) {
	engine := NewEngine(nil, 0)
	resp := engine.Suggest(context.Background(), nil, nil, nil)
	if resp.Show || resp.Suggestion != nil {
		t.Fatalf("expected empty response, got %+v", resp)
	}
}

func TestSuggestBelowConfidenceFloorIsQuiet(t *testing.T) {
	engine := NewEngine(cache.NoopSuggestionCache{}, time.Second)

	lines := []domain.CartLine{{MedicineID: "MED001", Quantity: 1}}
	medicines := []domain.Medicine{
		{ID: "MED002", Name: "ORS Sachet", PriceCents: 800, CostPriceCents: 790, Stock: 1},
	}
	pairs := []domain.AffinityPair{
		{MedicineID: "MED001", TargetID: "MED002", Affinity: 0.05},
	}

	resp := engine.Suggest(context.Background(), lines, medicines, pairs)
	if resp.Show {
		t.Fatalf("expected weak signal to stay quiet, got %+v", resp)
	}
}

func TestMarginRate(t *testing.T) {
	if got := marginRate(domain.Medicine{PriceCents: 1000, CostPriceCents: 600}); got != 0.4 {
		t.Fatalf("expected 0.4, got %f", got)
	}
	if got := marginRate(domain.Medicine{PriceCents: 1000, CostPriceCents: 1200}); got != 0 {
		t.Fatalf("expected 0 for negative margin, got %f", got)
	}
	if got := marginRate(domain.Medicine{PriceCents: 0, CostPriceCents: 0}); got != 0 {
		t.Fatalf("expected 0 for missing prices, got %f", got)
	}
}
