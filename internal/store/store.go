package store

import (
	"context"
	"errors"

	"kmcpos/backend/internal/domain"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidInput      = errors.New("invalid input")
	ErrEmptyCart         = errors.New("empty cart")
)

// Repository is the persistence boundary for the four record collections
// (medicines, bills, suppliers, customers) plus the purchase ledger, the
// bill-number counter, auth users and audit entries. CommitSale is the only
// multi-collection write: implementations must apply the stock deductions
// and the bill append as one unit, or not at all.
type Repository interface {
	ListMedicines(ctx context.Context) ([]domain.Medicine, error)
	GetMedicineByID(ctx context.Context, id string) (*domain.Medicine, error)
	CreateMedicine(ctx context.Context, medicine domain.Medicine) (*domain.Medicine, error)
	UpdateMedicine(ctx context.Context, medicine domain.Medicine) (*domain.Medicine, error)
	DeleteMedicine(ctx context.Context, id string) error

	CommitSale(ctx context.Context, sale domain.SaleCommit) (*domain.Bill, error)
	NextBillSequence(ctx context.Context) (int, error)
	ListBills(ctx context.Context) ([]domain.Bill, error)
	GetBillByNo(ctx context.Context, billNo string) (*domain.Bill, error)
	DeleteBill(ctx context.Context, billNo string) error

	ListSuppliers(ctx context.Context) ([]domain.Supplier, error)
	CreateSupplier(ctx context.Context, supplier domain.Supplier) (*domain.Supplier, error)
	DeleteSupplier(ctx context.Context, id string) error

	ListCustomers(ctx context.Context) ([]domain.Customer, error)
	GetCustomerByID(ctx context.Context, id string) (*domain.Customer, error)
	CreateCustomer(ctx context.Context, customer domain.Customer) (*domain.Customer, error)

	CreatePurchase(ctx context.Context, purchase domain.Purchase) (*domain.Purchase, error)
	ListPurchases(ctx context.Context) ([]domain.Purchase, error)

	CreateAuditLog(ctx context.Context, entry domain.AuditLog) error
	ListAuditLogs(ctx context.Context, limit int) ([]domain.AuditLog, error)

	CreateUser(ctx context.Context, user domain.UserAccount) error
	ListUsers(ctx context.Context) ([]domain.UserAccount, error)
	UpdateUserPassword(ctx context.Context, username string, password string) error
}
