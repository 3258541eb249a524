package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"kmcpos/backend/internal/cache"
	"kmcpos/backend/internal/cart"
	"kmcpos/backend/internal/domain"
	"kmcpos/backend/internal/store"
	"kmcpos/backend/internal/suggestion"
	"kmcpos/backend/internal/xid"
)

type actorContextKey struct{}

func WithActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

func ActorFromContext(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(actorContextKey{}).(domain.Actor)
	return actor, ok
}

const (
	catalogCacheKey = "medicines:all"
	catalogCacheTTL = 30 * time.Second
)

type Service struct {
	repo         store.Repository
	carts        *cart.Manager
	catalog      cache.CatalogCache
	suggest      *suggestion.Engine
	pharmacyName string
}

func New(repo store.Repository, carts *cart.Manager, catalog cache.CatalogCache, suggestions cache.SuggestionCache, pharmacyName string) *Service {
	if carts == nil {
		carts = cart.NewManager()
	}
	if catalog == nil {
		catalog = cache.NoopCatalogCache{}
	}
	if pharmacyName == "" {
		pharmacyName = "Khan Medical Complex"
	}

	return &Service{
		repo:         repo,
		carts:        carts,
		catalog:      catalog,
		suggest:      suggestion.NewEngine(suggestions, 20*time.Second),
		pharmacyName: pharmacyName,
	}
}

// MintBillNo formats a bill number from the commit date and the persistent
// sequence, e.g. BILL-2024-03-003. The sequence pads to three digits but is
// not capped at 999.
func MintBillNo(at time.Time, seq int) string {
	return fmt.Sprintf("BILL-%d-%02d-%03d", at.Year(), int(at.Month()), seq)
}

func (s *Service) ListMedicines(ctx context.Context) ([]domain.Medicine, error) {
	if cached, ok, err := s.catalog.Get(ctx, catalogCacheKey); err == nil && ok {
		return cached, nil
	} else if err != nil {
		log.Printf("[service] WARN: catalog cache get failed: %v", err)
	}

	medicines, err := s.repo.ListMedicines(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.catalog.Set(ctx, catalogCacheKey, medicines, catalogCacheTTL); err != nil {
		log.Printf("[service] WARN: catalog cache set failed: %v", err)
	}
	return medicines, nil
}

func (s *Service) GetMedicine(ctx context.Context, id string) (domain.Medicine, error) {
	medicine, err := s.repo.GetMedicineByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return domain.Medicine{}, err
	}
	return *medicine, nil
}

func (s *Service) CreateMedicine(ctx context.Context, req domain.MedicineCreateRequest) (domain.Medicine, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Role != "admin" {
		return domain.Medicine{}, fmt.Errorf("admin role required")
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Category = strings.TrimSpace(req.Category)
	if req.Name == "" || req.PriceCents < 1 || req.Stock < 0 || req.CostPriceCents < 0 {
		return domain.Medicine{}, store.ErrInvalidInput
	}

	medicine := domain.Medicine{
		ID:             uuid.NewString(),
		Name:           req.Name,
		Category:       req.Category,
		PriceCents:     req.PriceCents,
		CostPriceCents: req.CostPriceCents,
		Stock:          req.Stock,
		Expiry:         strings.TrimSpace(req.Expiry),
		SupplierID:     strings.TrimSpace(req.SupplierID),
	}

	created, err := s.repo.CreateMedicine(ctx, medicine)
	if err != nil {
		return domain.Medicine{}, err
	}

	s.invalidateCatalog(ctx)
	s.logAudit(ctx, "medicine_create", "medicine", created.ID, fmt.Sprintf("name=%s,price=%d,stock=%d", created.Name, created.PriceCents, created.Stock))
	return *created, nil
}

func (s *Service) UpdateMedicine(ctx context.Context, id string, req domain.MedicineUpdateRequest) (domain.Medicine, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Role != "admin" {
		return domain.Medicine{}, fmt.Errorf("admin role required")
	}

	id = strings.TrimSpace(id)
	if id == "" {
		return domain.Medicine{}, store.ErrInvalidInput
	}

	existing, err := s.repo.GetMedicineByID(ctx, id)
	if err != nil {
		return domain.Medicine{}, err
	}

	updated := *existing
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return domain.Medicine{}, store.ErrInvalidInput
		}
		updated.Name = name
	}
	if req.Category != nil {
		updated.Category = strings.TrimSpace(*req.Category)
	}
	if req.PriceCents != nil {
		if *req.PriceCents < 1 {
			return domain.Medicine{}, store.ErrInvalidInput
		}
		updated.PriceCents = *req.PriceCents
	}
	if req.CostPriceCents != nil {
		if *req.CostPriceCents < 0 {
			return domain.Medicine{}, store.ErrInvalidInput
		}
		updated.CostPriceCents = *req.CostPriceCents
	}
	if req.Stock != nil {
		if *req.Stock < 0 {
			return domain.Medicine{}, store.ErrInvalidInput
		}
		updated.Stock = *req.Stock
	}
	if req.Expiry != nil {
		updated.Expiry = strings.TrimSpace(*req.Expiry)
	}
	if req.SupplierID != nil {
		updated.SupplierID = strings.TrimSpace(*req.SupplierID)
	}

	saved, err := s.repo.UpdateMedicine(ctx, updated)
	if err != nil {
		return domain.Medicine{}, err
	}

	s.invalidateCatalog(ctx)
	s.logAudit(ctx, "medicine_update", "medicine", saved.ID, fmt.Sprintf("name=%s,price=%d,stock=%d", saved.Name, saved.PriceCents, saved.Stock))
	return *saved, nil
}

func (s *Service) DeleteMedicine(ctx context.Context, id string) error {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Role != "admin" {
		return fmt.Errorf("admin role required")
	}

	id = strings.TrimSpace(id)
	if id == "" {
		return store.ErrInvalidInput
	}
	if err := s.repo.DeleteMedicine(ctx, id); err != nil {
		return err
	}

	s.invalidateCatalog(ctx)
	s.logAudit(ctx, "medicine_delete", "medicine", id, "")
	return nil
}

func (s *Service) CreateCart(_ context.Context) domain.CartView {
	return s.carts.Create().View()
}

func (s *Service) GetCart(_ context.Context, cartID string) (domain.CartView, error) {
	c, err := s.carts.Get(cartID)
	if err != nil {
		return domain.CartView{}, err
	}
	return c.View(), nil
}

func (s *Service) AddCartItem(ctx context.Context, cartID string, medicineID string) (domain.CartView, error) {
	c, err := s.carts.Get(cartID)
	if err != nil {
		return domain.CartView{}, err
	}
	medicine, err := s.repo.GetMedicineByID(ctx, strings.TrimSpace(medicineID))
	if err != nil {
		return domain.CartView{}, err
	}
	if err := c.AddItem(*medicine); err != nil {
		return domain.CartView{}, err
	}
	return c.View(), nil
}

func (s *Service) SetCartQuantity(ctx context.Context, cartID string, medicineID string, qty int) (domain.CartView, error) {
	c, err := s.carts.Get(cartID)
	if err != nil {
		return domain.CartView{}, err
	}
	medicine, err := s.repo.GetMedicineByID(ctx, strings.TrimSpace(medicineID))
	if err != nil {
		return domain.CartView{}, err
	}
	if err := c.SetQuantity(*medicine, qty); err != nil {
		return domain.CartView{}, err
	}
	return c.View(), nil
}

func (s *Service) RemoveCartItem(_ context.Context, cartID string, medicineID string) (domain.CartView, error) {
	c, err := s.carts.Get(cartID)
	if err != nil {
		return domain.CartView{}, err
	}
	c.RemoveItem(strings.TrimSpace(medicineID))
	return c.View(), nil
}

func (s *Service) DiscardCart(_ context.Context, cartID string) {
	s.carts.Discard(cartID)
}

// SuggestAddOn offers at most one extra medicine for the cart, driven by what
// past bills sold alongside the items already in it.
func (s *Service) SuggestAddOn(ctx context.Context, cartID string) (domain.SuggestionResponse, error) {
	c, err := s.carts.Get(strings.TrimSpace(cartID))
	if err != nil {
		return domain.SuggestionResponse{}, err
	}
	lines := c.Lines()
	if len(lines) == 0 {
		return domain.SuggestionResponse{}, nil
	}

	medicines, err := s.ListMedicines(ctx)
	if err != nil {
		return domain.SuggestionResponse{}, err
	}
	bills, err := s.repo.ListBills(ctx)
	if err != nil {
		return domain.SuggestionResponse{}, err
	}

	return s.suggest.Suggest(ctx, lines, medicines, suggestion.PairsFromBills(bills)), nil
}

// Checkout turns a session cart into a persisted bill. The bill total is the
// sum of line subtotals at their snapshot prices, balance is the change due
// clamped at zero, and the stock deductions ride in the same repository
// commit as the bill append. The cart is discarded only after the commit
// succeeds, so a failed checkout leaves it editable.
func (s *Service) Checkout(ctx context.Context, req domain.CheckoutRequest) (domain.CheckoutResponse, error) {
	c, err := s.carts.Get(strings.TrimSpace(req.CartID))
	if err != nil {
		return domain.CheckoutResponse{}, err
	}
	lines := c.Lines()
	if len(lines) == 0 {
		return domain.CheckoutResponse{}, store.ErrEmptyCart
	}
	if req.CashPaidCents < 0 {
		return domain.CheckoutResponse{}, store.ErrInvalidInput
	}

	customerID := strings.TrimSpace(req.CustomerID)
	customerName := domain.WalkInCustomerName
	if customerID == "" {
		customerID = domain.WalkInCustomerID
	}
	if customer, err := s.repo.GetCustomerByID(ctx, customerID); err == nil {
		customerName = customer.Name
	} else if !errors.Is(err, store.ErrNotFound) {
		return domain.CheckoutResponse{}, err
	}

	total := int64(0)
	items := make([]domain.BillItem, 0, len(lines))
	deductions := make([]domain.StockDeduction, 0, len(lines))
	for _, line := range lines {
		items = append(items, domain.BillItem{
			MedicineID:     line.MedicineID,
			MedicineName:   line.MedicineName,
			Quantity:       line.Quantity,
			UnitPriceCents: line.UnitPriceCents,
			SubtotalCents:  line.SubtotalCents,
		})
		deductions = append(deductions, domain.StockDeduction{
			MedicineID: line.MedicineID,
			Quantity:   line.Quantity,
		})
		total += line.SubtotalCents
	}

	balance := req.CashPaidCents - total
	if balance < 0 {
		balance = 0
	}

	seq, err := s.repo.NextBillSequence(ctx)
	if err != nil {
		return domain.CheckoutResponse{}, err
	}

	now := time.Now().UTC()
	bill := domain.Bill{
		BillNo:        MintBillNo(now, seq),
		CreatedAt:     now,
		CustomerID:    customerID,
		CustomerName:  customerName,
		Items:         items,
		TotalCents:    total,
		CashPaidCents: req.CashPaidCents,
		BalanceCents:  balance,
	}

	saved, err := s.repo.CommitSale(ctx, domain.SaleCommit{Bill: bill, Deductions: deductions})
	if err != nil {
		return domain.CheckoutResponse{}, err
	}

	s.carts.Discard(c.ID)
	s.invalidateCatalog(ctx)
	s.logAudit(ctx, "bill_commit", "bill", saved.BillNo, fmt.Sprintf("total=%d,paid=%d,items=%d", saved.TotalCents, saved.CashPaidCents, len(saved.Items)))

	return domain.CheckoutResponse{Bill: *saved}, nil
}

func (s *Service) ListBills(ctx context.Context) ([]domain.Bill, error) {
	return s.repo.ListBills(ctx)
}

func (s *Service) GetBill(ctx context.Context, billNo string) (domain.Bill, error) {
	bill, err := s.repo.GetBillByNo(ctx, strings.TrimSpace(billNo))
	if err != nil {
		return domain.Bill{}, err
	}
	return *bill, nil
}

// DeleteBill removes the record only. Stock already deducted by the sale
// stays deducted, and the bill number is never reissued.
func (s *Service) DeleteBill(ctx context.Context, billNo string) error {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Role != "admin" {
		return fmt.Errorf("admin role required")
	}

	billNo = strings.TrimSpace(billNo)
	if err := s.repo.DeleteBill(ctx, billNo); err != nil {
		return err
	}
	s.logAudit(ctx, "bill_delete", "bill", billNo, "stock not restored")
	return nil
}

// BuildReceipt renders a plain-text counter receipt for a committed bill.
func (s *Service) BuildReceipt(ctx context.Context, billNo string) (domain.ReceiptResponse, error) {
	bill, err := s.repo.GetBillByNo(ctx, strings.TrimSpace(billNo))
	if err != nil {
		return domain.ReceiptResponse{}, err
	}

	lines := []string{
		s.pharmacyName,
		"==============================",
		"Bill No : " + bill.BillNo,
		"Date    : " + bill.CreatedAt.Format("2006-01-02 15:04:05"),
		"Customer: " + bill.CustomerName,
		"------------------------------",
	}
	for _, item := range bill.Items {
		lines = append(lines, fmt.Sprintf("%s x%d", item.MedicineName, item.Quantity))
		lines = append(lines, fmt.Sprintf("  %s @ %s", formatRupees(item.SubtotalCents), formatRupees(item.UnitPriceCents)))
	}
	lines = append(lines,
		"------------------------------",
		"Total   : "+formatRupees(bill.TotalCents),
		"Paid    : "+formatRupees(bill.CashPaidCents),
		"Balance : "+formatRupees(bill.BalanceCents),
		"==============================",
		"Thank you, get well soon",
		"",
	)

	return domain.ReceiptResponse{
		BillNo: bill.BillNo,
		Text:   strings.Join(lines, "\n"),
	}, nil
}

func formatRupees(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%sRs. %d.%02d", sign, cents/100, cents%100)
}

func (s *Service) CreateSupplier(ctx context.Context, req domain.SupplierCreateRequest) (domain.Supplier, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Role != "admin" {
		return domain.Supplier{}, fmt.Errorf("admin role required")
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return domain.Supplier{}, store.ErrInvalidInput
	}

	saved, err := s.repo.CreateSupplier(ctx, domain.Supplier{
		ID:      uuid.NewString(),
		Name:    req.Name,
		Contact: strings.TrimSpace(req.Contact),
		Email:   strings.TrimSpace(req.Email),
		Address: strings.TrimSpace(req.Address),
	})
	if err != nil {
		return domain.Supplier{}, err
	}

	s.logAudit(ctx, "supplier_create", "supplier", saved.ID, fmt.Sprintf("name=%s", saved.Name))
	return *saved, nil
}

func (s *Service) ListSuppliers(ctx context.Context) ([]domain.Supplier, error) {
	return s.repo.ListSuppliers(ctx)
}

func (s *Service) DeleteSupplier(ctx context.Context, id string) error {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Role != "admin" {
		return fmt.Errorf("admin role required")
	}

	id = strings.TrimSpace(id)
	if err := s.repo.DeleteSupplier(ctx, id); err != nil {
		return err
	}
	s.logAudit(ctx, "supplier_delete", "supplier", id, "")
	return nil
}

func (s *Service) CreateCustomer(ctx context.Context, req domain.CustomerCreateRequest) (domain.Customer, error) {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return domain.Customer{}, store.ErrInvalidInput
	}

	saved, err := s.repo.CreateCustomer(ctx, domain.Customer{
		ID:      uuid.NewString(),
		Name:    req.Name,
		Contact: strings.TrimSpace(req.Contact),
	})
	if err != nil {
		return domain.Customer{}, err
	}

	s.logAudit(ctx, "customer_create", "customer", saved.ID, fmt.Sprintf("name=%s", saved.Name))
	return *saved, nil
}

func (s *Service) ListCustomers(ctx context.Context) ([]domain.CustomerSummary, error) {
	customers, err := s.repo.ListCustomers(ctx)
	if err != nil {
		return nil, err
	}
	bills, err := s.repo.ListBills(ctx)
	if err != nil {
		return nil, err
	}

	countByID := make(map[string]int, len(customers))
	spentByID := make(map[string]int64, len(customers))
	for _, bill := range bills {
		countByID[bill.CustomerID]++
		spentByID[bill.CustomerID] += bill.TotalCents
	}

	summaries := make([]domain.CustomerSummary, 0, len(customers))
	for _, customer := range customers {
		summaries = append(summaries, domain.CustomerSummary{
			Customer:        customer,
			BillCount:       countByID[customer.ID],
			TotalSpentCents: spentByID[customer.ID],
		})
	}
	return summaries, nil
}

func (s *Service) CreatePurchase(ctx context.Context, req domain.PurchaseCreateRequest) (domain.Purchase, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Role != "admin" {
		return domain.Purchase{}, fmt.Errorf("admin role required")
	}

	req.SupplierID = strings.TrimSpace(req.SupplierID)
	if req.SupplierID == "" || len(req.Items) == 0 {
		return domain.Purchase{}, store.ErrInvalidInput
	}
	for _, item := range req.Items {
		if strings.TrimSpace(item.MedicineID) == "" || item.Quantity < 1 || item.CostPriceCents < 1 {
			return domain.Purchase{}, store.ErrInvalidInput
		}
	}

	saved, err := s.repo.CreatePurchase(ctx, domain.Purchase{
		SupplierID: req.SupplierID,
		Items:      req.Items,
	})
	if err != nil {
		return domain.Purchase{}, err
	}

	s.invalidateCatalog(ctx)
	s.logAudit(ctx, "purchase_create", "purchase", saved.ID, fmt.Sprintf("supplier=%s,items=%d,total=%d", saved.SupplierID, len(saved.Items), saved.TotalAmountCents))
	return *saved, nil
}

func (s *Service) ListPurchases(ctx context.Context) ([]domain.Purchase, error) {
	return s.repo.ListPurchases(ctx)
}

// SalesSummary aggregates over the full bill list. Profit is estimated from
// the catalog's current cost prices because bills do not snapshot costs.
func (s *Service) SalesSummary(ctx context.Context) (domain.SalesSummary, error) {
	bills, err := s.repo.ListBills(ctx)
	if err != nil {
		return domain.SalesSummary{}, err
	}
	medicines, err := s.repo.ListMedicines(ctx)
	if err != nil {
		return domain.SalesSummary{}, err
	}

	costByID := make(map[string]int64, len(medicines))
	for _, m := range medicines {
		costByID[m.ID] = m.CostPriceCents
	}

	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	summary := domain.SalesSummary{}
	for _, bill := range bills {
		summary.RevenueCents += bill.TotalCents
		summary.TotalOrders++
		for _, item := range bill.Items {
			summary.ItemsSold += item.Quantity
			summary.EstimatedProfitCents += item.SubtotalCents - costByID[item.MedicineID]*int64(item.Quantity)
		}
		if !bill.CreatedAt.Before(today) {
			summary.TodaySalesCents += bill.TotalCents
		}
	}
	if summary.TotalOrders > 0 {
		summary.AvgBillCents = summary.RevenueCents / int64(summary.TotalOrders)
	}
	return summary, nil
}

func (s *Service) TopSellers(ctx context.Context, limit int) ([]domain.TopSeller, error) {
	if limit < 1 {
		limit = 5
	}

	bills, err := s.repo.ListBills(ctx)
	if err != nil {
		return nil, err
	}

	qtyByName := map[string]int{}
	for _, bill := range bills {
		for _, item := range bill.Items {
			qtyByName[item.MedicineName] += item.Quantity
		}
	}

	sellers := make([]domain.TopSeller, 0, len(qtyByName))
	for name, qty := range qtyByName {
		sellers = append(sellers, domain.TopSeller{MedicineName: name, QuantitySold: qty})
	}
	slices.SortFunc(sellers, func(a, b domain.TopSeller) int {
		if a.QuantitySold == b.QuantitySold {
			return strings.Compare(a.MedicineName, b.MedicineName)
		}
		return b.QuantitySold - a.QuantitySold
	})
	if len(sellers) > limit {
		sellers = sellers[:limit]
	}
	return sellers, nil
}

// DailySeries returns per-day sales totals for the trailing window, oldest
// first, with zero entries for days without bills.
func (s *Service) DailySeries(ctx context.Context, days int) ([]domain.DailySales, error) {
	if days < 1 {
		days = 7
	}

	bills, err := s.repo.ListBills(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, -(days - 1))

	totalByDate := make(map[string]int64, days)
	for _, bill := range bills {
		if bill.CreatedAt.Before(start) {
			continue
		}
		totalByDate[bill.CreatedAt.Format("2006-01-02")] += bill.TotalCents
	}

	series := make([]domain.DailySales, 0, days)
	for i := 0; i < days; i++ {
		date := start.AddDate(0, 0, i).Format("2006-01-02")
		series = append(series, domain.DailySales{Date: date, TotalCents: totalByDate[date]})
	}
	return series, nil
}

func (s *Service) StockReport(ctx context.Context) (domain.StockReport, error) {
	medicines, err := s.repo.ListMedicines(ctx)
	if err != nil {
		return domain.StockReport{}, err
	}

	report := domain.StockReport{Medicines: make([]domain.StockStatus, 0, len(medicines))}
	for _, m := range medicines {
		status := domain.StockStatusOK
		switch {
		case m.Stock == 0:
			status = domain.StockStatusEmpty
			report.OutOfStock++
		case m.Stock <= domain.LowStockThreshold:
			status = domain.StockStatusCritical
			report.LowStock++
		default:
			report.Optimal++
		}
		report.Medicines = append(report.Medicines, domain.StockStatus{
			MedicineID: m.ID,
			Name:       m.Name,
			Stock:      m.Stock,
			Status:     status,
		})
	}

	slices.SortFunc(report.Medicines, func(a, b domain.StockStatus) int {
		if a.Stock == b.Stock {
			return strings.Compare(a.Name, b.Name)
		}
		return a.Stock - b.Stock
	})
	return report, nil
}

func (s *Service) ListAuditLogs(ctx context.Context, limit int) ([]domain.AuditLog, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Role != "admin" {
		return nil, fmt.Errorf("admin role required")
	}
	if limit < 1 || limit > 500 {
		limit = 100
	}
	return s.repo.ListAuditLogs(ctx, limit)
}

func (s *Service) invalidateCatalog(ctx context.Context) {
	if err := s.catalog.Invalidate(ctx, catalogCacheKey); err != nil {
		log.Printf("[service] WARN: catalog cache invalidate failed: %v", err)
	}
}

func (s *Service) logAudit(ctx context.Context, action string, entityType string, entityID string, detail string) {
	actor, ok := ActorFromContext(ctx)
	if !ok {
		actor = domain.Actor{Username: "system", Role: "system"}
	}

	if err := s.repo.CreateAuditLog(ctx, domain.AuditLog{
		ID:            xid.New("audit"),
		ActorUsername: actor.Username,
		ActorRole:     actor.Role,
		Action:        action,
		EntityType:    entityType,
		EntityID:      entityID,
		Detail:        detail,
		CreatedAt:     time.Now().UTC(),
	}); err != nil {
		log.Printf("[audit] WARN: failed to write audit log action=%s entity=%s/%s: %v", action, entityType, entityID, err)
	}
}
