package service

import (
	"context"
	"testing"

	apperrors "github.com/sparksupport/helpdesk/pkg/util/errorutil"
)

func newCategoryService(f *fixture) *CategoryService {
	return NewCategoryService(&fakeCategoryRepo{f}, nil)
}

func TestCategoryMutationsAdminOnly(t *testing.T) {
	f := newFixture()
	svc := newCategoryService(f)
	ctx := context.Background()

	for _, caller := range []string{"c1", "s1"} {
		if _, err := svc.Create(ctx, f.users[caller], "Shipping", nil); !apperrors.IsCode(err, "FORBIDDEN") {
			t.Errorf("create as %s got %v, want FORBIDDEN", caller, err)
		}
		if _, err := svc.Update(ctx, f.users[caller], "cat1", CategoryPatch{}); !apperrors.IsCode(err, "FORBIDDEN") {
			t.Errorf("update as %s got %v, want FORBIDDEN", caller, err)
		}
		if err := svc.Delete(ctx, f.users[caller], "cat1"); !apperrors.IsCode(err, "FORBIDDEN") {
			t.Errorf("delete as %s got %v, want FORBIDDEN", caller, err)
		}
	}

	// Reads are open to every authenticated role.
	for _, caller := range []string{"c1", "s1", "a1"} {
		if _, err := svc.List(ctx, f.users[caller]); err != nil {
			t.Errorf("list as %s: %v", caller, err)
		}
	}
}

func TestCategoryCreateAndUpdate(t *testing.T) {
	f := newFixture()
	svc := newCategoryService(f)
	admin := f.users["a1"]
	ctx := context.Background()

	if _, err := svc.Create(ctx, admin, "   ", nil); !apperrors.IsCode(err, "VALIDATION_FAILED") {
		t.Errorf("blank name got %v, want VALIDATION_FAILED", err)
	}

	desc := "Shipping and delivery problems"
	created, err := svc.Create(ctx, admin, "Shipping", &desc)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == "" {
		t.Error("created category has no id")
	}

	newName := "Logistics"
	updated, err := svc.Update(ctx, admin, created.ID, CategoryPatch{Name: &newName})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Name != "Logistics" {
		t.Errorf("name = %q, want Logistics", updated.Name)
	}
	if updated.Description == nil || *updated.Description != desc {
		t.Error("description must survive a name-only patch")
	}

	if _, err := svc.Update(ctx, admin, "missing", CategoryPatch{Name: &newName}); !apperrors.IsCode(err, "NOT_FOUND") {
		t.Errorf("update missing got %v, want NOT_FOUND", err)
	}
}

func TestCategoryDeleteGuardedByTickets(t *testing.T) {
	f := newFixture()
	svc := newCategoryService(f)
	admin := f.users["a1"]
	ctx := context.Background()

	f.addTicket("c1", "cat1", "Incorrect invoice amount")

	if err := svc.Delete(ctx, admin, "cat1"); !apperrors.IsCode(err, "CONFLICT") {
		t.Errorf("delete of referenced category got %v, want CONFLICT", err)
	}
	if _, ok := f.categories["cat1"]; !ok {
		t.Fatal("referenced category was deleted anyway")
	}

	if err := svc.Delete(ctx, admin, "cat2"); err != nil {
		t.Fatalf("delete of unreferenced category: %v", err)
	}
	if _, ok := f.categories["cat2"]; ok {
		t.Error("unreferenced category still present after delete")
	}

	if err := svc.Delete(ctx, admin, "cat2"); !apperrors.IsCode(err, "NOT_FOUND") {
		t.Errorf("second delete got %v, want NOT_FOUND", err)
	}
}
