package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"kmcpos/backend/internal/domain"
	"kmcpos/backend/internal/store"
	"kmcpos/backend/internal/xid"
)

type Store struct {
	db *sql.DB
}

func New(ctx context.Context, databaseURL string) (*Store, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, err
	}

	db.SetMaxIdleConns(8)
	db.SetMaxOpenConns(30)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 6*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ListMedicines(ctx context.Context) ([]domain.Medicine, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, category, price_cents, cost_price_cents, stock, expiry, supplier_id
		FROM medicines
		ORDER BY name, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	medicines := make([]domain.Medicine, 0, 128)
	for rows.Next() {
		var m domain.Medicine
		if err := rows.Scan(&m.ID, &m.Name, &m.Category, &m.PriceCents, &m.CostPriceCents, &m.Stock, &m.Expiry, &m.SupplierID); err != nil {
			return nil, err
		}
		medicines = append(medicines, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return medicines, nil
}

func (s *Store) GetMedicineByID(ctx context.Context, id string) (*domain.Medicine, error) {
	var m domain.Medicine
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, category, price_cents, cost_price_cents, stock, expiry, supplier_id
		FROM medicines
		WHERE id = $1
	`, id).Scan(&m.ID, &m.Name, &m.Category, &m.PriceCents, &m.CostPriceCents, &m.Stock, &m.Expiry, &m.SupplierID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (s *Store) CreateMedicine(ctx context.Context, medicine domain.Medicine) (*domain.Medicine, error) {
	if medicine.ID == "" || medicine.Name == "" || medicine.PriceCents < 1 || medicine.Stock < 0 {
		return nil, store.ErrInvalidInput
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO medicines (id, name, category, price_cents, cost_price_cents, stock, expiry, supplier_id, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,now(),now())
	`, medicine.ID, medicine.Name, medicine.Category, medicine.PriceCents, medicine.CostPriceCents, medicine.Stock, medicine.Expiry, medicine.SupplierID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrInvalidInput
		}
		return nil, err
	}

	created := medicine
	return &created, nil
}

func (s *Store) UpdateMedicine(ctx context.Context, medicine domain.Medicine) (*domain.Medicine, error) {
	if medicine.ID == "" || medicine.Name == "" || medicine.PriceCents < 1 || medicine.Stock < 0 {
		return nil, store.ErrInvalidInput
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE medicines
		SET name = $2, category = $3, price_cents = $4, cost_price_cents = $5, stock = $6, expiry = $7, supplier_id = $8, updated_at = now()
		WHERE id = $1
	`, medicine.ID, medicine.Name, medicine.Category, medicine.PriceCents, medicine.CostPriceCents, medicine.Stock, medicine.Expiry, medicine.SupplierID)
	if err != nil {
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, store.ErrNotFound
	}

	updated := medicine
	return &updated, nil
}

func (s *Store) DeleteMedicine(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM medicines WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// CommitSale runs the stock deductions and the bill insert in one
// serializable transaction. Stock rows are locked and re-checked inside the
// transaction, so a concurrent sale cannot drive stock negative.
func (s *Store) CommitSale(ctx context.Context, sale domain.SaleCommit) (*domain.Bill, error) {
	bill := sale.Bill
	if bill.BillNo == "" || len(bill.Items) == 0 {
		return nil, store.ErrInvalidInput
	}
	if bill.CreatedAt.IsZero() {
		bill.CreatedAt = time.Now().UTC()
	}

	pgTx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return nil, err
	}
	defer func() { _ = pgTx.Rollback() }()

	for _, d := range sale.Deductions {
		if d.Quantity < 1 {
			return nil, store.ErrInvalidInput
		}
		var stock int
		err := pgTx.QueryRowContext(ctx, `
			SELECT stock FROM medicines WHERE id = $1 FOR UPDATE
		`, d.MedicineID).Scan(&stock)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, store.ErrNotFound
			}
			return nil, err
		}
		if stock-d.Quantity < 0 {
			return nil, store.ErrInsufficientStock
		}
		if _, err := pgTx.ExecContext(ctx, `
			UPDATE medicines SET stock = stock - $2, updated_at = now() WHERE id = $1
		`, d.MedicineID, d.Quantity); err != nil {
			return nil, err
		}
	}

	_, err = pgTx.ExecContext(ctx, `
		INSERT INTO bills (bill_no, created_at, customer_id, customer_name, total_cents, cash_paid_cents, balance_cents)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
	`, bill.BillNo, bill.CreatedAt, bill.CustomerID, bill.CustomerName, bill.TotalCents, bill.CashPaidCents, bill.BalanceCents)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrInvalidInput
		}
		return nil, err
	}

	// line_no preserves the order lines were added to the cart; reads order
	// by it so bills and receipts replay the cart, not medicine-id order.
	for i, item := range bill.Items {
		if _, err := pgTx.ExecContext(ctx, `
			INSERT INTO bill_items (bill_no, line_no, medicine_id, medicine_name, quantity, unit_price_cents, subtotal_cents)
			VALUES ($1,$2,$3,$4,$5,$6,$7)
		`, bill.BillNo, i+1, item.MedicineID, item.MedicineName, item.Quantity, item.UnitPriceCents, item.SubtotalCents); err != nil {
			return nil, err
		}
	}

	if err := pgTx.Commit(); err != nil {
		return nil, err
	}

	saved := bill
	return &saved, nil
}

// NextBillSequence advances the single-row counter and returns the new value.
// The upsert seeds the row on first use.
func (s *Store) NextBillSequence(ctx context.Context) (int, error) {
	var value int
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO bill_sequence (id, value)
		VALUES (1, 1)
		ON CONFLICT (id) DO UPDATE SET value = bill_sequence.value + 1
		RETURNING value
	`).Scan(&value)
	if err != nil {
		return 0, err
	}
	return value, nil
}

func (s *Store) ListBills(ctx context.Context) ([]domain.Bill, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT bill_no, created_at, customer_id, customer_name, total_cents, cash_paid_cents, balance_cents
		FROM bills
		ORDER BY created_at DESC, bill_no DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bills := make([]domain.Bill, 0, 64)
	index := make(map[string]int, 64)
	for rows.Next() {
		var b domain.Bill
		if err := rows.Scan(&b.BillNo, &b.CreatedAt, &b.CustomerID, &b.CustomerName, &b.TotalCents, &b.CashPaidCents, &b.BalanceCents); err != nil {
			return nil, err
		}
		b.Items = make([]domain.BillItem, 0, 4)
		index[b.BillNo] = len(bills)
		bills = append(bills, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	itemRows, err := s.db.QueryContext(ctx, `
		SELECT bill_no, medicine_id, medicine_name, quantity, unit_price_cents, subtotal_cents
		FROM bill_items
		ORDER BY bill_no, line_no
	`)
	if err != nil {
		return nil, err
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var billNo string
		var item domain.BillItem
		if err := itemRows.Scan(&billNo, &item.MedicineID, &item.MedicineName, &item.Quantity, &item.UnitPriceCents, &item.SubtotalCents); err != nil {
			return nil, err
		}
		if idx, ok := index[billNo]; ok {
			bills[idx].Items = append(bills[idx].Items, item)
		}
	}
	if err := itemRows.Err(); err != nil {
		return nil, err
	}

	return bills, nil
}

func (s *Store) GetBillByNo(ctx context.Context, billNo string) (*domain.Bill, error) {
	var b domain.Bill
	err := s.db.QueryRowContext(ctx, `
		SELECT bill_no, created_at, customer_id, customer_name, total_cents, cash_paid_cents, balance_cents
		FROM bills
		WHERE bill_no = $1
	`, billNo).Scan(&b.BillNo, &b.CreatedAt, &b.CustomerID, &b.CustomerName, &b.TotalCents, &b.CashPaidCents, &b.BalanceCents)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT medicine_id, medicine_name, quantity, unit_price_cents, subtotal_cents
		FROM bill_items
		WHERE bill_no = $1
		ORDER BY line_no
	`, billNo)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	b.Items = make([]domain.BillItem, 0, 4)
	for rows.Next() {
		var item domain.BillItem
		if err := rows.Scan(&item.MedicineID, &item.MedicineName, &item.Quantity, &item.UnitPriceCents, &item.SubtotalCents); err != nil {
			return nil, err
		}
		b.Items = append(b.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &b, nil
}

func (s *Store) DeleteBill(ctx context.Context, billNo string) error {
	pgTx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return err
	}
	defer func() { _ = pgTx.Rollback() }()

	if _, err := pgTx.ExecContext(ctx, `DELETE FROM bill_items WHERE bill_no = $1`, billNo); err != nil {
		return err
	}
	res, err := pgTx.ExecContext(ctx, `DELETE FROM bills WHERE bill_no = $1`, billNo)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}

	return pgTx.Commit()
}

func (s *Store) ListSuppliers(ctx context.Context) ([]domain.Supplier, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, contact, email, address, created_at
		FROM suppliers
		ORDER BY created_at, name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	suppliers := make([]domain.Supplier, 0, 32)
	for rows.Next() {
		var sup domain.Supplier
		if err := rows.Scan(&sup.ID, &sup.Name, &sup.Contact, &sup.Email, &sup.Address, &sup.CreatedAt); err != nil {
			return nil, err
		}
		suppliers = append(suppliers, sup)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return suppliers, nil
}

func (s *Store) CreateSupplier(ctx context.Context, supplier domain.Supplier) (*domain.Supplier, error) {
	if supplier.Name == "" {
		return nil, store.ErrInvalidInput
	}
	if supplier.ID == "" {
		supplier.ID = xid.New("sup")
	}
	if supplier.CreatedAt.IsZero() {
		supplier.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO suppliers (id, name, contact, email, address, created_at)
		VALUES ($1,$2,$3,$4,$5,$6)
	`, supplier.ID, supplier.Name, supplier.Contact, supplier.Email, supplier.Address, supplier.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrInvalidInput
		}
		return nil, err
	}

	created := supplier
	return &created, nil
}

func (s *Store) DeleteSupplier(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM suppliers WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, contact, created_at
		FROM customers
		ORDER BY created_at, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	customers := make([]domain.Customer, 0, 64)
	for rows.Next() {
		var c domain.Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.Contact, &c.CreatedAt); err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return customers, nil
}

func (s *Store) GetCustomerByID(ctx context.Context, id string) (*domain.Customer, error) {
	var c domain.Customer
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, contact, created_at
		FROM customers
		WHERE id = $1
	`, id).Scan(&c.ID, &c.Name, &c.Contact, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (s *Store) CreateCustomer(ctx context.Context, customer domain.Customer) (*domain.Customer, error) {
	if customer.Name == "" {
		return nil, store.ErrInvalidInput
	}
	if customer.ID == "" {
		customer.ID = xid.New("cust")
	}
	if customer.CreatedAt.IsZero() {
		customer.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO customers (id, name, contact, created_at)
		VALUES ($1,$2,$3,$4)
	`, customer.ID, customer.Name, customer.Contact, customer.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrInvalidInput
		}
		return nil, err
	}

	created := customer
	return &created, nil
}

// CreatePurchase inserts the purchase and applies stock increments and cost
// updates in one transaction.
func (s *Store) CreatePurchase(ctx context.Context, purchase domain.Purchase) (*domain.Purchase, error) {
	if purchase.SupplierID == "" || len(purchase.Items) == 0 {
		return nil, store.ErrInvalidInput
	}
	if purchase.ID == "" {
		purchase.ID = xid.New("pur")
	}
	if purchase.CreatedAt.IsZero() {
		purchase.CreatedAt = time.Now().UTC()
	}

	pgTx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return nil, err
	}
	defer func() { _ = pgTx.Rollback() }()

	var supplierID string
	err = pgTx.QueryRowContext(ctx, `SELECT id FROM suppliers WHERE id = $1`, purchase.SupplierID).Scan(&supplierID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}

	total := int64(0)
	for _, item := range purchase.Items {
		if item.Quantity < 1 || item.CostPriceCents < 1 {
			return nil, store.ErrInvalidInput
		}
		res, err := pgTx.ExecContext(ctx, `
			UPDATE medicines
			SET stock = stock + $2, cost_price_cents = $3, updated_at = now()
			WHERE id = $1
		`, item.MedicineID, item.Quantity, item.CostPriceCents)
		if err != nil {
			return nil, err
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return nil, err
		}
		if affected == 0 {
			return nil, store.ErrNotFound
		}
		total += int64(item.Quantity) * item.CostPriceCents
	}
	purchase.TotalAmountCents = total

	_, err = pgTx.ExecContext(ctx, `
		INSERT INTO purchases (id, supplier_id, total_amount_cents, created_at)
		VALUES ($1,$2,$3,$4)
	`, purchase.ID, purchase.SupplierID, purchase.TotalAmountCents, purchase.CreatedAt)
	if err != nil {
		return nil, err
	}

	for _, item := range purchase.Items {
		if _, err := pgTx.ExecContext(ctx, `
			INSERT INTO purchase_items (purchase_id, medicine_id, quantity, cost_price_cents)
			VALUES ($1,$2,$3,$4)
		`, purchase.ID, item.MedicineID, item.Quantity, item.CostPriceCents); err != nil {
			return nil, err
		}
	}

	if err := pgTx.Commit(); err != nil {
		return nil, err
	}

	saved := purchase
	return &saved, nil
}

func (s *Store) ListPurchases(ctx context.Context) ([]domain.Purchase, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, supplier_id, total_amount_cents, created_at
		FROM purchases
		ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	purchases := make([]domain.Purchase, 0, 32)
	index := make(map[string]int, 32)
	for rows.Next() {
		var p domain.Purchase
		if err := rows.Scan(&p.ID, &p.SupplierID, &p.TotalAmountCents, &p.CreatedAt); err != nil {
			return nil, err
		}
		p.Items = make([]domain.PurchaseItem, 0, 4)
		index[p.ID] = len(purchases)
		purchases = append(purchases, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	itemRows, err := s.db.QueryContext(ctx, `
		SELECT purchase_id, medicine_id, quantity, cost_price_cents
		FROM purchase_items
		ORDER BY purchase_id, medicine_id
	`)
	if err != nil {
		return nil, err
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var purchaseID string
		var item domain.PurchaseItem
		if err := itemRows.Scan(&purchaseID, &item.MedicineID, &item.Quantity, &item.CostPriceCents); err != nil {
			return nil, err
		}
		if idx, ok := index[purchaseID]; ok {
			purchases[idx].Items = append(purchases[idx].Items, item)
		}
	}
	if err := itemRows.Err(); err != nil {
		return nil, err
	}

	return purchases, nil
}

func (s *Store) CreateAuditLog(ctx context.Context, entry domain.AuditLog) error {
	if entry.ID == "" {
		entry.ID = xid.New("audit")
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO audit_logs (id, actor_username, actor_role, action, entity_type, entity_id, detail, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`, entry.ID, entry.ActorUsername, entry.ActorRole, entry.Action, entry.EntityType, entry.EntityID, entry.Detail, entry.CreatedAt)
	return err
}

func (s *Store) ListAuditLogs(ctx context.Context, limit int) ([]domain.AuditLog, error) {
	if limit < 1 {
		limit = 100
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, actor_username, actor_role, action, entity_type, entity_id, detail, created_at
		FROM audit_logs
		ORDER BY created_at DESC, id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := make([]domain.AuditLog, 0, limit)
	for rows.Next() {
		var entry domain.AuditLog
		if err := rows.Scan(&entry.ID, &entry.ActorUsername, &entry.ActorRole, &entry.Action, &entry.EntityType, &entry.EntityID, &entry.Detail, &entry.CreatedAt); err != nil {
			return nil, err
		}
		logs = append(logs, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return logs, nil
}

func (s *Store) CreateUser(ctx context.Context, user domain.UserAccount) error {
	if user.Username == "" || user.Password == "" {
		return store.ErrInvalidInput
	}
	if user.Role == "" {
		user.Role = "staff"
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (username, password, role, active, created_at)
		VALUES ($1,$2,$3,true,$4)
	`, user.Username, user.Password, user.Role, user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrInvalidInput
		}
		return err
	}
	return nil
}

func (s *Store) ListUsers(ctx context.Context) ([]domain.UserAccount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT username, password, role, active, created_at
		FROM users
		ORDER BY username
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]domain.UserAccount, 0, 16)
	for rows.Next() {
		var user domain.UserAccount
		if err := rows.Scan(&user.Username, &user.Password, &user.Role, &user.Active, &user.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *Store) UpdateUserPassword(ctx context.Context, username string, password string) error {
	if username == "" || password == "" {
		return store.ErrInvalidInput
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE users SET password = $2 WHERE username = $1
	`, username, password)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
