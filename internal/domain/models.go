package domain

import "time"

type Medicine struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Category       string `json:"category"`
	PriceCents     int64  `json:"price_cents"`
	CostPriceCents int64  `json:"cost_price_cents"`
	Stock          int    `json:"stock"`
	Expiry         string `json:"expiry"`
	SupplierID     string `json:"supplier_id"`
}

type MedicineCreateRequest struct {
	Name           string `json:"name"`
	Category       string `json:"category"`
	PriceCents     int64  `json:"price_cents"`
	CostPriceCents int64  `json:"cost_price_cents"`
	Stock          int    `json:"stock"`
	Expiry         string `json:"expiry"`
	SupplierID     string `json:"supplier_id"`
}

type MedicineUpdateRequest struct {
	Name           *string `json:"name,omitempty"`
	Category       *string `json:"category,omitempty"`
	PriceCents     *int64  `json:"price_cents,omitempty"`
	CostPriceCents *int64  `json:"cost_price_cents,omitempty"`
	Stock          *int    `json:"stock,omitempty"`
	Expiry         *string `json:"expiry,omitempty"`
	SupplierID     *string `json:"supplier_id,omitempty"`
}

type Supplier struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Contact   string    `json:"contact"`
	Email     string    `json:"email"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
}

type SupplierCreateRequest struct {
	Name    string `json:"name"`
	Contact string `json:"contact"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

type Customer struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Contact   string    `json:"contact"`
	CreatedAt time.Time `json:"created_at"`
}

type CustomerCreateRequest struct {
	Name    string `json:"name"`
	Contact string `json:"contact"`
}

// CustomerSummary is a customer plus purchase stats derived from the bill list.
type CustomerSummary struct {
	Customer
	BillCount       int   `json:"bill_count"`
	TotalSpentCents int64 `json:"total_spent_cents"`
}

// BillItem is a line snapshotted from the cart at commit time. Name and unit
// price are denormalized copies so later catalog edits never rewrite history.
type BillItem struct {
	MedicineID     string `json:"medicine_id"`
	MedicineName   string `json:"medicine_name"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int64  `json:"unit_price_cents"`
	SubtotalCents  int64  `json:"subtotal_cents"`
}

// Bill is an immutable record of a completed sale. There is no update path,
// only deletion, and deletion does not restore stock.
type Bill struct {
	BillNo        string     `json:"bill_no"`
	CreatedAt     time.Time  `json:"created_at"`
	CustomerID    string     `json:"customer_id"`
	CustomerName  string     `json:"customer_name"`
	Items         []BillItem `json:"items"`
	TotalCents    int64      `json:"total_cents"`
	CashPaidCents int64      `json:"cash_paid_cents"`
	BalanceCents  int64      `json:"balance_cents"`
}

type CheckoutRequest struct {
	CartID        string `json:"cart_id"`
	CustomerID    string `json:"customer_id"`
	CashPaidCents int64  `json:"cash_paid_cents"`
}

type CheckoutResponse struct {
	Bill Bill `json:"bill"`
}

// SaleCommit is the unit of work Checkout hands to the repository: the new
// bill plus the stock deductions it implies, applied together or not at all.
type SaleCommit struct {
	Bill       Bill
	Deductions []StockDeduction
}

type StockDeduction struct {
	MedicineID string
	Quantity   int
}

type CartLine struct {
	MedicineID     string `json:"medicine_id"`
	MedicineName   string `json:"medicine_name"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int64  `json:"unit_price_cents"`
	SubtotalCents  int64  `json:"subtotal_cents"`
}

type CartView struct {
	CartID     string     `json:"cart_id"`
	Lines      []CartLine `json:"lines"`
	TotalCents int64      `json:"total_cents"`
}

// AffinityPair records how often Target was sold on the same bill as
// MedicineID, normalised against the bill count.
type AffinityPair struct {
	MedicineID string
	TargetID   string
	Affinity   float64
}

type Suggestion struct {
	MedicineID string  `json:"medicine_id"`
	Name       string  `json:"name"`
	PriceCents int64   `json:"price_cents"`
	ReasonCode string  `json:"reason_code"`
	Confidence float64 `json:"confidence"`
}

type SuggestionResponse struct {
	Show       bool        `json:"show"`
	Suggestion *Suggestion `json:"suggestion,omitempty"`
}

type PurchaseItem struct {
	MedicineID     string `json:"medicine_id"`
	Quantity       int    `json:"quantity"`
	CostPriceCents int64  `json:"cost_price_cents"`
}

// Purchase is incoming stock from a supplier, the inverse write path of a sale.
type Purchase struct {
	ID               string         `json:"id"`
	SupplierID       string         `json:"supplier_id"`
	Items            []PurchaseItem `json:"items"`
	TotalAmountCents int64          `json:"total_amount_cents"`
	CreatedAt        time.Time      `json:"created_at"`
}

type PurchaseCreateRequest struct {
	SupplierID string         `json:"supplier_id"`
	Items      []PurchaseItem `json:"items"`
}

type SalesSummary struct {
	RevenueCents         int64 `json:"revenue_cents"`
	EstimatedProfitCents int64 `json:"estimated_profit_cents"`
	AvgBillCents         int64 `json:"avg_bill_cents"`
	TotalOrders          int   `json:"total_orders"`
	ItemsSold            int   `json:"items_sold"`
	TodaySalesCents      int64 `json:"today_sales_cents"`
}

type TopSeller struct {
	MedicineName string `json:"medicine_name"`
	QuantitySold int    `json:"quantity_sold"`
}

type DailySales struct {
	Date       string `json:"date"`
	TotalCents int64  `json:"total_cents"`
}

type StockStatus struct {
	MedicineID string `json:"medicine_id"`
	Name       string `json:"name"`
	Stock      int    `json:"stock"`
	Status     string `json:"status"`
}

type StockReport struct {
	OutOfStock int           `json:"out_of_stock"`
	LowStock   int           `json:"low_stock"`
	Optimal    int           `json:"optimal"`
	Medicines  []StockStatus `json:"medicines"`
}

type ReceiptResponse struct {
	BillNo string `json:"bill_no"`
	Text   string `json:"text"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	Role        string `json:"role"`
	ExpiresAt   string `json:"expires_at"`
}

type Actor struct {
	Username string
	Role     string
}

type StaffCreateRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type StaffUser struct {
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// UserAccount is an internal persistence model for auth credentials.
type UserAccount struct {
	Username  string
	Password  string
	Role      string
	Active    bool
	CreatedAt time.Time
}

type AuditLog struct {
	ID            string    `json:"id"`
	ActorUsername string    `json:"actor_username"`
	ActorRole     string    `json:"actor_role"`
	Action        string    `json:"action"`
	EntityType    string    `json:"entity_type"`
	EntityID      string    `json:"entity_id"`
	Detail        string    `json:"detail"`
	CreatedAt     time.Time `json:"created_at"`
}

const (
	// WalkInCustomerName is the sentinel used when a customer id cannot be
	// resolved at checkout.
	WalkInCustomerName = "Walk-in Customer"

	// WalkInCustomerID is the seeded sentinel customer record.
	WalkInCustomerID = "CUST001"
)

const (
	StockStatusEmpty    = "empty"
	StockStatusCritical = "critical"
	StockStatusOK       = "ok"

	// LowStockThreshold marks medicines that need reordering.
	LowStockThreshold = 10
)
