package memory

import (
	"context"
	"log"
	"os"
	"slices"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"kmcpos/backend/internal/domain"
	"kmcpos/backend/internal/store"
	"kmcpos/backend/internal/xid"
)

type Store struct {
	mu              sync.RWMutex
	medicines       map[string]domain.Medicine
	billsByNo       map[string]*domain.Bill
	billSeq         int
	suppliersByID   map[string]domain.Supplier
	customersByID   map[string]domain.Customer
	purchasesByID   map[string]domain.Purchase
	auditLogs       []domain.AuditLog
	usersByUsername map[string]domain.UserAccount
}

// seedUsers builds the initial in-memory user accounts for dev/demo mode.
// Credentials are read from SEED_ADMIN_PASSWORD and SEED_STAFF_PASSWORD
// environment variables. If unset, hardcoded dev defaults are used with a
// warning printed to stdout. These credentials are never used in production
// (the backend uses PostgreSQL when DATABASE_URL is set).
func seedUsers() map[string]domain.UserAccount {
	adminPwd := envOr("SEED_ADMIN_PASSWORD", "admin123")
	staffPwd := envOr("SEED_STAFF_PASSWORD", "staff123")
	if os.Getenv("SEED_ADMIN_PASSWORD") == "" || os.Getenv("SEED_STAFF_PASSWORD") == "" {
		log.Println("[memory-store] WARNING: using default dev credentials. Set SEED_ADMIN_PASSWORD and SEED_STAFF_PASSWORD to override.")
	}

	now := time.Now().UTC()
	users := map[string]domain.UserAccount{}
	for _, u := range []struct {
		username string
		password string
		role     string
	}{
		{"admin", adminPwd, "admin"},
		{"staff", staffPwd, "staff"},
	} {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.password), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("[memory-store] failed to hash seed password for %s: %v", u.username, err)
		}
		users[u.username] = domain.UserAccount{
			Username:  u.username,
			Password:  string(hash),
			Role:      u.role,
			Active:    true,
			CreatedAt: now,
		}
	}
	return users
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func NewSeeded() *Store {
	now := time.Now().UTC()

	medicines := []domain.Medicine{
		{ID: "MED001", Name: "Paracetamol 500mg", Category: "Tablet", PriceCents: 1500, CostPriceCents: 1000, Stock: 100, Expiry: "2026-12-31", SupplierID: "SUP001"},
		{ID: "MED002", Name: "Amoxicillin 250mg", Category: "Capsule", PriceCents: 4500, CostPriceCents: 3000, Stock: 50, Expiry: "2026-06-30", SupplierID: "SUP001"},
	}

	medicineMap := make(map[string]domain.Medicine, len(medicines))
	for _, m := range medicines {
		medicineMap[m.ID] = m
	}

	return &Store{
		medicines: medicineMap,
		billsByNo: make(map[string]*domain.Bill),
		suppliersByID: map[string]domain.Supplier{
			"SUP001": {ID: "SUP001", Name: "Generic Pharma Corp", Contact: "0300-1234567", Email: "sales@genericpharma.example", Address: "Industrial Estate, Lahore", CreatedAt: now},
		},
		customersByID: map[string]domain.Customer{
			domain.WalkInCustomerID: {ID: domain.WalkInCustomerID, Name: domain.WalkInCustomerName, Contact: "", CreatedAt: now},
		},
		purchasesByID:   make(map[string]domain.Purchase),
		auditLogs:       make([]domain.AuditLog, 0, 128),
		usersByUsername: seedUsers(),
	}
}

func (s *Store) ListMedicines(_ context.Context) ([]domain.Medicine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	medicines := make([]domain.Medicine, 0, len(s.medicines))
	for _, m := range s.medicines {
		medicines = append(medicines, m)
	}

	slices.SortFunc(medicines, func(a, b domain.Medicine) int {
		if a.Name == b.Name {
			return cmpString(a.ID, b.ID)
		}
		return cmpString(a.Name, b.Name)
	})

	return medicines, nil
}

func (s *Store) GetMedicineByID(_ context.Context, id string) (*domain.Medicine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	medicine, exists := s.medicines[id]
	if !exists {
		return nil, store.ErrNotFound
	}
	copyMedicine := medicine
	return &copyMedicine, nil
}

func (s *Store) CreateMedicine(_ context.Context, medicine domain.Medicine) (*domain.Medicine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if medicine.ID == "" || medicine.Name == "" || medicine.PriceCents < 1 || medicine.Stock < 0 {
		return nil, store.ErrInvalidInput
	}
	if _, exists := s.medicines[medicine.ID]; exists {
		return nil, store.ErrInvalidInput
	}

	s.medicines[medicine.ID] = medicine
	created := medicine
	return &created, nil
}

func (s *Store) UpdateMedicine(_ context.Context, medicine domain.Medicine) (*domain.Medicine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if medicine.ID == "" || medicine.Name == "" || medicine.PriceCents < 1 || medicine.Stock < 0 {
		return nil, store.ErrInvalidInput
	}
	if _, exists := s.medicines[medicine.ID]; !exists {
		return nil, store.ErrNotFound
	}

	s.medicines[medicine.ID] = medicine
	updated := medicine
	return &updated, nil
}

func (s *Store) DeleteMedicine(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.medicines[id]; !exists {
		return store.ErrNotFound
	}
	delete(s.medicines, id)
	return nil
}

// CommitSale deducts stock and appends the bill under one lock. Stock is
// re-validated here: a deduction that would drive any medicine negative
// rejects the whole commit and leaves every collection untouched.
func (s *Store) CommitSale(_ context.Context, sale domain.SaleCommit) (*domain.Bill, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	bill := sale.Bill
	if bill.BillNo == "" || len(bill.Items) == 0 {
		return nil, store.ErrInvalidInput
	}
	if _, exists := s.billsByNo[bill.BillNo]; exists {
		return nil, store.ErrInvalidInput
	}

	for _, d := range sale.Deductions {
		if d.Quantity < 1 {
			return nil, store.ErrInvalidInput
		}
		medicine, exists := s.medicines[d.MedicineID]
		if !exists {
			return nil, store.ErrNotFound
		}
		if medicine.Stock-d.Quantity < 0 {
			return nil, store.ErrInsufficientStock
		}
	}

	for _, d := range sale.Deductions {
		medicine := s.medicines[d.MedicineID]
		medicine.Stock -= d.Quantity
		s.medicines[d.MedicineID] = medicine
	}

	if bill.CreatedAt.IsZero() {
		bill.CreatedAt = time.Now().UTC()
	}
	s.billsByNo[bill.BillNo] = cloneBill(&bill)

	return cloneBill(s.billsByNo[bill.BillNo]), nil
}

// NextBillSequence advances the persistent counter and returns its new value.
// The counter only grows, so deleting bills never frees a number for reuse.
func (s *Store) NextBillSequence(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.billSeq++
	return s.billSeq, nil
}

func (s *Store) ListBills(_ context.Context) ([]domain.Bill, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bills := make([]domain.Bill, 0, len(s.billsByNo))
	for _, bill := range s.billsByNo {
		bills = append(bills, *cloneBill(bill))
	}

	slices.SortFunc(bills, func(a, b domain.Bill) int {
		if a.CreatedAt.Equal(b.CreatedAt) {
			// Same-instant bills break the tie on bill number, descending,
			// so the higher sequence still lists first.
			return cmpString(b.BillNo, a.BillNo)
		}
		if a.CreatedAt.After(b.CreatedAt) {
			return -1
		}
		return 1
	})

	return bills, nil
}

func (s *Store) GetBillByNo(_ context.Context, billNo string) (*domain.Bill, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bill, exists := s.billsByNo[billNo]
	if !exists {
		return nil, store.ErrNotFound
	}
	return cloneBill(bill), nil
}

func (s *Store) DeleteBill(_ context.Context, billNo string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.billsByNo[billNo]; !exists {
		return store.ErrNotFound
	}
	delete(s.billsByNo, billNo)
	return nil
}

func (s *Store) ListSuppliers(_ context.Context) ([]domain.Supplier, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	suppliers := make([]domain.Supplier, 0, len(s.suppliersByID))
	for _, supplier := range s.suppliersByID {
		suppliers = append(suppliers, supplier)
	}
	slices.SortFunc(suppliers, func(a, b domain.Supplier) int {
		if a.CreatedAt.Equal(b.CreatedAt) {
			return cmpString(a.Name, b.Name)
		}
		if a.CreatedAt.Before(b.CreatedAt) {
			return -1
		}
		return 1
	})
	return suppliers, nil
}

func (s *Store) CreateSupplier(_ context.Context, supplier domain.Supplier) (*domain.Supplier, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	supplier.Name = strings.TrimSpace(supplier.Name)
	if supplier.Name == "" {
		return nil, store.ErrInvalidInput
	}
	if supplier.ID == "" {
		supplier.ID = xid.New("sup")
	}
	if supplier.CreatedAt.IsZero() {
		supplier.CreatedAt = time.Now().UTC()
	}

	s.suppliersByID[supplier.ID] = supplier
	copySupplier := supplier
	return &copySupplier, nil
}

func (s *Store) DeleteSupplier(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.suppliersByID[id]; !exists {
		return store.ErrNotFound
	}
	delete(s.suppliersByID, id)
	return nil
}

func (s *Store) ListCustomers(_ context.Context) ([]domain.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	customers := make([]domain.Customer, 0, len(s.customersByID))
	for _, customer := range s.customersByID {
		customers = append(customers, customer)
	}
	slices.SortFunc(customers, func(a, b domain.Customer) int {
		if a.CreatedAt.Equal(b.CreatedAt) {
			return cmpString(a.ID, b.ID)
		}
		if a.CreatedAt.Before(b.CreatedAt) {
			return -1
		}
		return 1
	})
	return customers, nil
}

func (s *Store) GetCustomerByID(_ context.Context, id string) (*domain.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	customer, exists := s.customersByID[id]
	if !exists {
		return nil, store.ErrNotFound
	}
	copyCustomer := customer
	return &copyCustomer, nil
}

func (s *Store) CreateCustomer(_ context.Context, customer domain.Customer) (*domain.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	customer.Name = strings.TrimSpace(customer.Name)
	if customer.Name == "" {
		return nil, store.ErrInvalidInput
	}
	if customer.ID == "" {
		customer.ID = xid.New("cust")
	}
	if customer.CreatedAt.IsZero() {
		customer.CreatedAt = time.Now().UTC()
	}

	s.customersByID[customer.ID] = customer
	copyCustomer := customer
	return &copyCustomer, nil
}

// CreatePurchase records incoming supplier stock and applies the quantity
// and cost-price updates to the catalog in the same critical section.
func (s *Store) CreatePurchase(_ context.Context, purchase domain.Purchase) (*domain.Purchase, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if purchase.SupplierID == "" || len(purchase.Items) == 0 {
		return nil, store.ErrInvalidInput
	}
	if _, exists := s.suppliersByID[purchase.SupplierID]; !exists {
		return nil, store.ErrNotFound
	}
	for _, item := range purchase.Items {
		if item.Quantity < 1 || item.CostPriceCents < 1 {
			return nil, store.ErrInvalidInput
		}
		if _, exists := s.medicines[item.MedicineID]; !exists {
			return nil, store.ErrNotFound
		}
	}

	if purchase.ID == "" {
		purchase.ID = xid.New("pur")
	}
	if purchase.CreatedAt.IsZero() {
		purchase.CreatedAt = time.Now().UTC()
	}

	total := int64(0)
	for _, item := range purchase.Items {
		medicine := s.medicines[item.MedicineID]
		medicine.Stock += item.Quantity
		medicine.CostPriceCents = item.CostPriceCents
		s.medicines[item.MedicineID] = medicine
		total += int64(item.Quantity) * item.CostPriceCents
	}
	purchase.TotalAmountCents = total

	s.purchasesByID[purchase.ID] = clonePurchase(purchase)
	saved := clonePurchase(s.purchasesByID[purchase.ID])
	return &saved, nil
}

func (s *Store) ListPurchases(_ context.Context) ([]domain.Purchase, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	purchases := make([]domain.Purchase, 0, len(s.purchasesByID))
	for _, purchase := range s.purchasesByID {
		purchases = append(purchases, clonePurchase(purchase))
	}
	slices.SortFunc(purchases, func(a, b domain.Purchase) int {
		if a.CreatedAt.Equal(b.CreatedAt) {
			return cmpString(b.ID, a.ID)
		}
		if a.CreatedAt.After(b.CreatedAt) {
			return -1
		}
		return 1
	})
	return purchases, nil
}

func (s *Store) CreateAuditLog(_ context.Context, entry domain.AuditLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry.ID == "" {
		entry.ID = xid.New("audit")
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	s.auditLogs = append(s.auditLogs, entry)
	return nil
}

func (s *Store) ListAuditLogs(_ context.Context, limit int) ([]domain.AuditLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.AuditLog, len(s.auditLogs))
	copy(result, s.auditLogs)

	slices.SortFunc(result, func(a, b domain.AuditLog) int {
		if a.CreatedAt.Equal(b.CreatedAt) {
			return cmpString(b.ID, a.ID)
		}
		if a.CreatedAt.After(b.CreatedAt) {
			return -1
		}
		return 1
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (s *Store) CreateUser(_ context.Context, user domain.UserAccount) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	username := strings.ToLower(strings.TrimSpace(user.Username))
	if username == "" || strings.TrimSpace(user.Password) == "" {
		return store.ErrInvalidInput
	}
	if _, exists := s.usersByUsername[username]; exists {
		return store.ErrInvalidInput
	}
	user.Username = username
	if user.Role == "" {
		user.Role = "staff"
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	user.Active = true
	s.usersByUsername[user.Username] = user
	return nil
}

func (s *Store) ListUsers(_ context.Context) ([]domain.UserAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]domain.UserAccount, 0, len(s.usersByUsername))
	for _, user := range s.usersByUsername {
		users = append(users, user)
	}
	slices.SortFunc(users, func(a, b domain.UserAccount) int {
		return cmpString(a.Username, b.Username)
	})
	return users, nil
}

func (s *Store) UpdateUserPassword(_ context.Context, username string, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" || strings.TrimSpace(password) == "" {
		return store.ErrInvalidInput
	}
	user, exists := s.usersByUsername[username]
	if !exists {
		return store.ErrNotFound
	}
	user.Password = password
	s.usersByUsername[username] = user
	return nil
}

func cmpString(a string, b string) int {
	if a == b {
		return 0
	}
	if a < b {
		return -1
	}
	return 1
}

func cloneBill(src *domain.Bill) *domain.Bill {
	if src == nil {
		return nil
	}
	dup := *src
	items := make([]domain.BillItem, len(src.Items))
	copy(items, src.Items)
	dup.Items = items
	return &dup
}

func clonePurchase(src domain.Purchase) domain.Purchase {
	dup := src
	items := make([]domain.PurchaseItem, len(src.Items))
	copy(items, src.Items)
	dup.Items = items
	return dup
}
