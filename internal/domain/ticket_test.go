package domain

import "testing"

func TestStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to TicketStatus
		want     bool
	}{
		{TicketStatusOpen, TicketStatusInProgress, true},
		{TicketStatusOpen, TicketStatusResolved, true},
		{TicketStatusOpen, TicketStatusClosed, true},
		{TicketStatusOpen, TicketStatusOpen, true},
		{TicketStatusInProgress, TicketStatusResolved, true},
		{TicketStatusInProgress, TicketStatusOpen, false},
		{TicketStatusResolved, TicketStatusClosed, true},
		{TicketStatusResolved, TicketStatusOpen, false},
		{TicketStatusResolved, TicketStatusInProgress, false},
		{TicketStatusClosed, TicketStatusClosed, true},
		{TicketStatusClosed, TicketStatusOpen, false},
		{TicketStatusClosed, TicketStatusInProgress, false},
		{TicketStatusClosed, TicketStatusResolved, false},
	}
	for _, tc := range cases {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.want {
			t.Errorf("CanTransitionTo(%s -> %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestStatusTransitionRejectsUnknown(t *testing.T) {
	if TicketStatus("reopened").CanTransitionTo(TicketStatusOpen) {
		t.Error("unknown source status should not transition")
	}
	if TicketStatusOpen.CanTransitionTo(TicketStatus("archived")) {
		t.Error("unknown target status should not transition")
	}
}

func TestParseTicketStatus(t *testing.T) {
	for _, val := range []string{"open", "in_progress", "resolved", "closed"} {
		if _, ok := ParseTicketStatus(val); !ok {
			t.Errorf("ParseTicketStatus(%q) rejected a valid status", val)
		}
	}
	for _, val := range []string{"", "OPEN", "pending", "cancelled"} {
		if _, ok := ParseTicketStatus(val); ok {
			t.Errorf("ParseTicketStatus(%q) accepted an invalid status", val)
		}
	}
}

func TestParseTicketPriority(t *testing.T) {
	for _, val := range []string{"low", "medium", "high", "urgent"} {
		if _, ok := ParseTicketPriority(val); !ok {
			t.Errorf("ParseTicketPriority(%q) rejected a valid priority", val)
		}
	}
	if _, ok := ParseTicketPriority("critical"); ok {
		t.Error("ParseTicketPriority accepted a value outside the enumeration")
	}
}

func TestParseRole(t *testing.T) {
	for _, val := range []string{"customer", "staff", "admin"} {
		if _, ok := ParseRole(val); !ok {
			t.Errorf("ParseRole(%q) rejected a valid role", val)
		}
	}
	if _, ok := ParseRole("superuser"); ok {
		t.Error("ParseRole accepted a value outside the enumeration")
	}
}

func TestRoleIsStaff(t *testing.T) {
	if RoleCustomer.IsStaff() {
		t.Error("customer must not have staff access")
	}
	if !RoleStaff.IsStaff() || !RoleAdmin.IsStaff() {
		t.Error("staff and admin must have staff access")
	}
}
