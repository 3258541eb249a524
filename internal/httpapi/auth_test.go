package httpapi

import (
	"context"
	"strings"
	"testing"
	"time"

	"kmcpos/backend/internal/domain"
)

type userStoreStub struct {
	users   map[string]domain.UserAccount
	updates map[string]string
}

func newUserStoreStub(users ...domain.UserAccount) *userStoreStub {
	stub := &userStoreStub{
		users:   make(map[string]domain.UserAccount),
		updates: make(map[string]string),
	}
	for _, u := range users {
		stub.users[u.Username] = u
	}
	return stub
}

func (s *userStoreStub) CreateUser(_ context.Context, user domain.UserAccount) error {
	s.users[user.Username] = user
	return nil
}

func (s *userStoreStub) ListUsers(_ context.Context) ([]domain.UserAccount, error) {
	result := make([]domain.UserAccount, 0, len(s.users))
	for _, u := range s.users {
		result = append(result, u)
	}
	return result, nil
}

func (s *userStoreStub) UpdateUserPassword(_ context.Context, username string, password string) error {
	s.updates[username] = password
	if u, ok := s.users[username]; ok {
		u.Password = password
		s.users[username] = u
	}
	return nil
}

func TestLoginAndParseTokenRoundTrip(t *testing.T) {
	hash, err := hashPassword("admin123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	stub := newUserStoreStub(domain.UserAccount{
		Username: "admin", Password: hash, Role: "admin", Active: true, CreatedAt: time.Now().UTC(),
	})
	auth := NewAuthManager("roundtrip-secret-0123456789abcdef", time.Hour, "739154", stub)

	resp, err := auth.Login(context.Background(), domain.LoginRequest{Username: "admin", Password: "admin123"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if resp.Role != "admin" || resp.AccessToken == "" {
		t.Fatalf("unexpected response %+v", resp)
	}

	actor, err := auth.ParseToken(resp.AccessToken)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if actor.Username != "admin" || actor.Role != "admin" {
		t.Fatalf("unexpected actor %+v", actor)
	}
}

func TestParseTokenRejectsForeignSignature(t *testing.T) {
	stub := newUserStoreStub()
	auth := NewAuthManager("secret-a-0123456789abcdefghijklmn", time.Hour, "739154", stub)
	other := NewAuthManager("secret-b-0123456789abcdefghijklmn", time.Hour, "739154", stub)

	token, err := other.sign("admin", "admin", time.Now().UTC().Add(time.Hour))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := auth.ParseToken(token); err == nil {
		t.Fatalf("expected rejection of token signed with another secret")
	}
}

func TestLoginRejectsInactiveAccount(t *testing.T) {
	hash, err := hashPassword("staff123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	stub := newUserStoreStub(domain.UserAccount{
		Username: "staff", Password: hash, Role: "staff", Active: false, CreatedAt: time.Now().UTC(),
	})
	auth := NewAuthManager("inactive-secret-0123456789abcdef", time.Hour, "739154", stub)

	if _, err := auth.Login(context.Background(), domain.LoginRequest{Username: "staff", Password: "staff123"}); err == nil {
		t.Fatalf("expected inactive account rejection")
	}
}

func TestBootstrapUpgradesPlaintextPasswords(t *testing.T) {
	stub := newUserStoreStub(domain.UserAccount{
		Username: "legacy", Password: "oldplain", Role: "staff", Active: true, CreatedAt: time.Now().UTC(),
	})
	auth := NewAuthManager("upgrade-secret-0123456789abcdefg", time.Hour, "739154", stub)

	if _, err := auth.Login(context.Background(), domain.LoginRequest{Username: "legacy", Password: "oldplain"}); err != nil {
		t.Fatalf("login with upgraded password: %v", err)
	}
	upgraded, ok := stub.updates["legacy"]
	if !ok {
		t.Fatalf("expected plaintext password upgrade write-back")
	}
	if !isPasswordHash(upgraded) {
		t.Fatalf("expected bcrypt hash persisted, got %q", upgraded)
	}
}

func TestCreateStaffValidation(t *testing.T) {
	ctx := context.Background()
	auth := NewAuthManager("staff-secret-0123456789abcdefghi", time.Hour, "739154", newUserStoreStub())

	if _, err := auth.CreateStaff(ctx, domain.StaffCreateRequest{Username: "ab", Password: "secret99"}); err == nil {
		t.Fatalf("expected short username rejection")
	}
	if _, err := auth.CreateStaff(ctx, domain.StaffCreateRequest{Username: "cashier2", Password: "123"}); err == nil {
		t.Fatalf("expected short password rejection")
	}

	user, err := auth.CreateStaff(ctx, domain.StaffCreateRequest{Username: "Cashier2", Password: "secret99"})
	if err != nil {
		t.Fatalf("create staff: %v", err)
	}
	if user.Username != "cashier2" || user.Role != "staff" || !user.Active {
		t.Fatalf("unexpected staff user %+v", user)
	}

	if _, err := auth.CreateStaff(ctx, domain.StaffCreateRequest{Username: "cashier2", Password: "secret99"}); err == nil {
		t.Fatalf("expected duplicate username rejection")
	}

	staff := auth.ListStaff(ctx)
	if len(staff) != 1 || staff[0].Username != "cashier2" {
		t.Fatalf("unexpected staff list %+v", staff)
	}
}

func TestLoginRefreshesCacheOnMiss(t *testing.T) {
	ctx := context.Background()
	stub := newUserStoreStub()
	auth := NewAuthManager("refresh-secret-0123456789abcdefg", time.Hour, "739154", stub)

	// Account appears in the store after the manager has loaded its cache,
	// as if a seed script or another node created it.
	hash, err := hashPassword("latecomer1")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if err := stub.CreateUser(ctx, domain.UserAccount{
		Username: "latecomer", Password: hash, Role: "staff", Active: true, CreatedAt: time.Now().UTC(),
	}); err != nil {
		t.Fatalf("create user: %v", err)
	}

	resp, err := auth.Login(ctx, domain.LoginRequest{Username: "latecomer", Password: "latecomer1"})
	if err != nil {
		t.Fatalf("login after store-side creation: %v", err)
	}
	if resp.Role != "staff" {
		t.Fatalf("unexpected role %q", resp.Role)
	}

	staff := auth.ListStaff(ctx)
	if len(staff) != 1 || staff[0].Username != "latecomer" {
		t.Fatalf("unexpected staff list %+v", staff)
	}
}

func TestValidateManagerPIN(t *testing.T) {
	auth := NewAuthManager("pin-secret-0123456789abcdefghijk", time.Hour, "739154", newUserStoreStub())

	if !auth.ValidateManagerPIN("739154") {
		t.Fatalf("expected configured pin to validate")
	}
	if auth.ValidateManagerPIN("000000") {
		t.Fatalf("expected wrong pin rejection")
	}
	if auth.ValidateManagerPIN("") {
		t.Fatalf("expected empty pin rejection")
	}
	if auth.ValidateManagerPIN(" 739154 ") != true {
		t.Fatalf("expected surrounding whitespace to be trimmed")
	}
}

func TestIsPasswordHash(t *testing.T) {
	hash, err := hashPassword("whatever")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !isPasswordHash(hash) {
		t.Fatalf("expected bcrypt output to be recognised")
	}
	if isPasswordHash("plaintext") || isPasswordHash("") {
		t.Fatalf("expected plaintext rejection")
	}
	if !strings.HasPrefix(hash, "$2") {
		t.Fatalf("unexpected hash prefix %q", hash)
	}
}
