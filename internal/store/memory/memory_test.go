package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"kmcpos/backend/internal/domain"
	"kmcpos/backend/internal/store"
)

func seededBill(billNo string, medicineID string, qty int) domain.SaleCommit {
	return domain.SaleCommit{
		Bill: domain.Bill{
			BillNo:       billNo,
			CreatedAt:    time.Now().UTC(),
			CustomerID:   domain.WalkInCustomerID,
			CustomerName: domain.WalkInCustomerName,
			Items: []domain.BillItem{
				{MedicineID: medicineID, MedicineName: "x", Quantity: qty, UnitPriceCents: 1500, SubtotalCents: int64(qty) * 1500},
			},
			TotalCents:    int64(qty) * 1500,
			CashPaidCents: int64(qty) * 1500,
		},
		Deductions: []domain.StockDeduction{{MedicineID: medicineID, Quantity: qty}},
	}
}

func TestCommitSaleDeductsStockAndStoresBill(t *testing.T) {
	s := NewSeeded()
	ctx := context.Background()

	saved, err := s.CommitSale(ctx, seededBill("BILL-2026-08-001", "MED001", 3))
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	if saved.BillNo != "BILL-2026-08-001" {
		t.Fatalf("unexpected bill no %s", saved.BillNo)
	}

	med, err := s.GetMedicineByID(ctx, "MED001")
	if err != nil {
		t.Fatalf("get medicine: %v", err)
	}
	if med.Stock != 97 {
		t.Fatalf("expected stock 97, got %d", med.Stock)
	}

	bill, err := s.GetBillByNo(ctx, "BILL-2026-08-001")
	if err != nil {
		t.Fatalf("get bill: %v", err)
	}
	if bill.TotalCents != 4500 {
		t.Fatalf("expected total 4500, got %d", bill.TotalCents)
	}
}

func TestCommitSaleIsAtomicOnInsufficientStock(t *testing.T) {
	s := NewSeeded()
	ctx := context.Background()

	sale := domain.SaleCommit{
		Bill: domain.Bill{
			BillNo:    "BILL-2026-08-001",
			CreatedAt: time.Now().UTC(),
			Items: []domain.BillItem{
				{MedicineID: "MED001", Quantity: 2, UnitPriceCents: 1500, SubtotalCents: 3000},
				{MedicineID: "MED002", Quantity: 999, UnitPriceCents: 4500, SubtotalCents: 999 * 4500},
			},
		},
		Deductions: []domain.StockDeduction{
			{MedicineID: "MED001", Quantity: 2},
			{MedicineID: "MED002", Quantity: 999},
		},
	}
	if _, err := s.CommitSale(ctx, sale); !errors.Is(err, store.ErrInsufficientStock) {
		t.Fatalf("expected insufficient stock, got %v", err)
	}

	// The first deduction must not have been applied.
	med, err := s.GetMedicineByID(ctx, "MED001")
	if err != nil {
		t.Fatalf("get medicine: %v", err)
	}
	if med.Stock != 100 {
		t.Fatalf("expected stock untouched at 100, got %d", med.Stock)
	}
	if _, err := s.GetBillByNo(ctx, "BILL-2026-08-001"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected no bill written, got %v", err)
	}
}

func TestCommitSaleRejectsDuplicateBillNo(t *testing.T) {
	s := NewSeeded()
	ctx := context.Background()

	if _, err := s.CommitSale(ctx, seededBill("BILL-2026-08-001", "MED001", 1)); err != nil {
		t.Fatalf("first commit: %v", err)
	}
	if _, err := s.CommitSale(ctx, seededBill("BILL-2026-08-001", "MED001", 1)); !errors.Is(err, store.ErrInvalidInput) {
		t.Fatalf("expected invalid input on duplicate, got %v", err)
	}
}

func TestCommitSaleRejectsUnknownMedicine(t *testing.T) {
	s := NewSeeded()
	if _, err := s.CommitSale(context.Background(), seededBill("BILL-2026-08-001", "MED999", 1)); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestNextBillSequenceSurvivesDeletes(t *testing.T) {
	s := NewSeeded()
	ctx := context.Background()

	seq, err := s.NextBillSequence(ctx)
	if err != nil || seq != 1 {
		t.Fatalf("expected first sequence 1, got %d (%v)", seq, err)
	}
	if _, err := s.CommitSale(ctx, seededBill("BILL-2026-08-001", "MED001", 1)); err != nil {
		t.Fatalf("commit: %v", err)
	}
	if err := s.DeleteBill(ctx, "BILL-2026-08-001"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	seq, err = s.NextBillSequence(ctx)
	if err != nil || seq != 2 {
		t.Fatalf("expected sequence 2 after delete, got %d (%v)", seq, err)
	}
}

func TestCreatePurchaseAppliesStockAndCost(t *testing.T) {
	s := NewSeeded()
	ctx := context.Background()

	purchase, err := s.CreatePurchase(ctx, domain.Purchase{
		SupplierID: "SUP001",
		Items: []domain.PurchaseItem{
			{MedicineID: "MED001", Quantity: 25, CostPriceCents: 950},
			{MedicineID: "MED002", Quantity: 10, CostPriceCents: 2800},
		},
	})
	if err != nil {
		t.Fatalf("create purchase: %v", err)
	}
	if purchase.ID == "" {
		t.Fatalf("expected generated id")
	}
	if purchase.TotalAmountCents != 25*950+10*2800 {
		t.Fatalf("unexpected total %d", purchase.TotalAmountCents)
	}

	med, err := s.GetMedicineByID(ctx, "MED001")
	if err != nil {
		t.Fatalf("get medicine: %v", err)
	}
	if med.Stock != 125 || med.CostPriceCents != 950 {
		t.Fatalf("expected stock 125 cost 950, got %d/%d", med.Stock, med.CostPriceCents)
	}
}

func TestCreatePurchaseUnknownSupplierRejected(t *testing.T) {
	s := NewSeeded()
	_, err := s.CreatePurchase(context.Background(), domain.Purchase{
		SupplierID: "SUP404",
		Items:      []domain.PurchaseItem{{MedicineID: "MED001", Quantity: 1, CostPriceCents: 100}},
	})
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListMedicinesSortedByName(t *testing.T) {
	s := NewSeeded()
	meds, err := s.ListMedicines(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(meds) != 2 {
		t.Fatalf("expected 2 seeded medicines, got %d", len(meds))
	}
	if meds[0].Name > meds[1].Name {
		t.Fatalf("expected name order, got %s before %s", meds[0].Name, meds[1].Name)
	}
}

func TestListBillsNewestFirst(t *testing.T) {
	s := NewSeeded()
	ctx := context.Background()

	older := seededBill("BILL-2026-08-001", "MED001", 1)
	older.Bill.CreatedAt = time.Now().UTC().Add(-time.Hour)
	if _, err := s.CommitSale(ctx, older); err != nil {
		t.Fatalf("commit older: %v", err)
	}
	if _, err := s.CommitSale(ctx, seededBill("BILL-2026-08-002", "MED001", 1)); err != nil {
		t.Fatalf("commit newer: %v", err)
	}

	bills, err := s.ListBills(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(bills) != 2 || bills[0].BillNo != "BILL-2026-08-002" {
		t.Fatalf("expected newest first, got %+v", bills)
	}
}

func TestUpdateUserPasswordUnknownUser(t *testing.T) {
	s := NewSeeded()
	if err := s.UpdateUserPassword(context.Background(), "nobody", "secret"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
