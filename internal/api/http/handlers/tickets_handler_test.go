package handlers

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/sparksupport/helpdesk/internal/domain"
	"github.com/sparksupport/helpdesk/internal/service"
	apperrors "github.com/sparksupport/helpdesk/pkg/util/errorutil"
)

// captureListQuery runs parseTicketListQuery against a real request so the
// fasthttp query-arg semantics (present vs absent parameters) are exercised.
func captureListQuery(t *testing.T, target string) (service.TicketListFilter, error) {
	t.Helper()

	var filter service.TicketListFilter
	var parseErr error
	app := fiber.New()
	app.Get("/api/tickets", func(c *fiber.Ctx) error {
		filter, parseErr = parseTicketListQuery(c)
		return nil
	})

	resp, err := app.Test(httptest.NewRequest("GET", target, nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()
	return filter, parseErr
}

func TestParseTicketListQuerySentinels(t *testing.T) {
	filter, err := captureListQuery(t, "/api/tickets?status=all&category=all&priority=all")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if filter.Status != nil || filter.CategoryID != nil || filter.Priority != nil || filter.AssigneeID != nil {
		t.Error("\"all\" sentinels must yield no restriction")
	}

	filter, err = captureListQuery(t, "/api/tickets")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if filter.Status != nil || filter.CategoryID != nil || filter.Priority != nil || filter.AssigneeID != nil || filter.Search != nil {
		t.Error("absent parameters must yield no restriction")
	}
}

func TestParseTicketListQueryAssigneePresence(t *testing.T) {
	// Omitted entirely: no assignee restriction.
	filter, err := captureListQuery(t, "/api/tickets?status=open")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if filter.AssigneeID != nil {
		t.Error("omitted assignee must not restrict")
	}

	// Present but empty: explicitly unassigned.
	filter, err = captureListQuery(t, "/api/tickets?assignee=")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if filter.AssigneeID == nil || *filter.AssigneeID != "" {
		t.Error("assignee= must select unassigned tickets")
	}

	// Present with a value: that staff member.
	filter, err = captureListQuery(t, "/api/tickets?assignee=s1")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if filter.AssigneeID == nil || *filter.AssigneeID != "s1" {
		t.Error("assignee=s1 must filter by that staff id")
	}

	// The "all" sentinel clears the restriction even when present.
	filter, err = captureListQuery(t, "/api/tickets?assignee=all")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if filter.AssigneeID != nil {
		t.Error("assignee=all must not restrict")
	}
}

func TestParseTicketListQueryValues(t *testing.T) {
	filter, err := captureListQuery(t, "/api/tickets?status=in_progress&priority=urgent&category=cat1&q=printer&mine=true&page=3&pageSize=10")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if filter.Status == nil || *filter.Status != domain.TicketStatusInProgress {
		t.Error("status filter not applied")
	}
	if filter.Priority == nil || *filter.Priority != domain.TicketPriorityUrgent {
		t.Error("priority filter not applied")
	}
	if filter.CategoryID == nil || *filter.CategoryID != "cat1" {
		t.Error("category filter not applied")
	}
	if filter.Search == nil || *filter.Search != "printer" {
		t.Error("search filter not applied")
	}
	if !filter.Mine {
		t.Error("mine flag not applied")
	}
	if filter.Limit != 10 || filter.Offset != 20 {
		t.Errorf("pagination = limit %d offset %d, want 10/20", filter.Limit, filter.Offset)
	}
}

func TestParseTicketListQueryRejectsUnknownEnums(t *testing.T) {
	if _, err := captureListQuery(t, "/api/tickets?status=pending"); !apperrors.IsCode(err, "VALIDATION_FAILED") {
		t.Errorf("unknown status got %v, want VALIDATION_FAILED", err)
	}
	if _, err := captureListQuery(t, "/api/tickets?priority=critical"); !apperrors.IsCode(err, "VALIDATION_FAILED") {
		t.Errorf("unknown priority got %v, want VALIDATION_FAILED", err)
	}
}

func TestParseTicketListQueryPaginationDefaults(t *testing.T) {
	filter, err := captureListQuery(t, "/api/tickets?page=0&pageSize=-5")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if filter.Limit != 50 || filter.Offset != 0 {
		t.Errorf("pagination = limit %d offset %d, want defaults 50/0", filter.Limit, filter.Offset)
	}
}
