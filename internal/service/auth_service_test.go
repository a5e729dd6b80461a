package service

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/sparksupport/helpdesk/internal/config"
	"github.com/sparksupport/helpdesk/internal/domain"
	apperrors "github.com/sparksupport/helpdesk/pkg/util/errorutil"
)

func testAuthConfig() config.Config {
	return config.Config{Auth: config.AuthConfig{
		JWTSecret:             "test-secret",
		AccessTokenTTLMinutes: 5,
		BcryptCost:            bcrypt.MinCost,
	}}
}

func TestSignupThenLogin(t *testing.T) {
	f := newFixture()
	svc := NewAuthService(testAuthConfig(), &fakeUserRepo{f})
	ctx := context.Background()

	user, token, _, err := svc.Signup(ctx, "Nora Field", "Nora@Example.com ", "hunter22", nil)
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}
	if user.Role != domain.RoleCustomer {
		t.Errorf("signup role = %s, want customer", user.Role)
	}
	if user.Email != "nora@example.com" {
		t.Errorf("email = %q, want normalized lowercase", user.Email)
	}
	if user.PasswordHash == "hunter22" {
		t.Fatal("password stored in plaintext")
	}
	if token == "" {
		t.Error("signup did not issue a token")
	}

	loggedIn, token, _, err := svc.Login(ctx, "nora@example.com", "hunter22", domain.RoleCustomer)
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if loggedIn.ID != user.ID || token == "" {
		t.Error("login did not return the signed-up user with a token")
	}

	claims, err := svc.TokenManager().ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.UserID != user.ID || claims.Role != domain.RoleCustomer {
		t.Errorf("claims = %+v, want the user's id and role", claims)
	}
}

func TestSignupRejectsDuplicateEmail(t *testing.T) {
	f := newFixture()
	svc := NewAuthService(testAuthConfig(), &fakeUserRepo{f})

	_, _, _, err := svc.Signup(context.Background(), "Another Alice", "alice@example.com", "pw123456", nil)
	if !apperrors.IsCode(err, "VALIDATION_FAILED") {
		t.Errorf("duplicate email got %v, want VALIDATION_FAILED", err)
	}
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	f := newFixture()
	svc := NewAuthService(testAuthConfig(), &fakeUserRepo{f})
	ctx := context.Background()

	if _, _, _, err := svc.Signup(ctx, "Nora Field", "nora@example.com", "hunter22", nil); err != nil {
		t.Fatalf("Signup: %v", err)
	}

	cases := []struct {
		name            string
		email, password string
		role            domain.Role
	}{
		{"unknown email", "ghost@example.com", "hunter22", domain.RoleCustomer},
		{"wrong password", "nora@example.com", "wrong", domain.RoleCustomer},
		{"wrong role", "nora@example.com", "hunter22", domain.RoleStaff},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, _, err := svc.Login(ctx, tc.email, tc.password, tc.role)
			if !apperrors.IsCode(err, "UNAUTHORIZED") {
				t.Errorf("got %v, want UNAUTHORIZED", err)
			}
			var domainErr *apperrors.DomainError
			if errors.As(err, &domainErr) && domainErr.Message != "invalid credentials" {
				t.Errorf("message = %q, must not reveal which check failed", domainErr.Message)
			}
		})
	}
}

func TestStaffProvisioning(t *testing.T) {
	f := newFixture()
	svc := NewStaffService(testAuthConfig(), &fakeUserRepo{f}, nil)
	ctx := context.Background()

	if _, err := svc.CreateStaff(ctx, f.users["s1"], StaffCreateInput{
		Name: "New Agent", Email: "agent@example.com", Password: "pw123456", Role: domain.RoleStaff,
	}); !apperrors.IsCode(err, "FORBIDDEN") {
		t.Errorf("staff provisioning by non-admin got %v, want FORBIDDEN", err)
	}

	if _, err := svc.CreateStaff(ctx, f.users["a1"], StaffCreateInput{
		Name: "Sneaky", Email: "sneaky@example.com", Password: "pw123456", Role: domain.RoleCustomer,
	}); !apperrors.IsCode(err, "VALIDATION_FAILED") {
		t.Errorf("customer role on staff endpoint got %v, want VALIDATION_FAILED", err)
	}

	created, err := svc.CreateStaff(ctx, f.users["a1"], StaffCreateInput{
		Name: "New Agent", Email: "agent@example.com", Password: "pw123456", Role: domain.RoleStaff,
	})
	if err != nil {
		t.Fatalf("CreateStaff: %v", err)
	}
	if created.Role != domain.RoleStaff {
		t.Errorf("role = %s, want staff", created.Role)
	}

	list, err := svc.ListStaff(ctx, f.users["c1"])
	if err != nil {
		t.Fatalf("ListStaff: %v", err)
	}
	// Seeded staff + admin plus the new agent; customers never appear.
	if len(list) != 3 {
		t.Errorf("staff list length = %d, want 3", len(list))
	}
	for _, member := range list {
		if !member.Role.IsStaff() {
			t.Errorf("staff list contains %s with role %s", member.ID, member.Role)
		}
	}
}
