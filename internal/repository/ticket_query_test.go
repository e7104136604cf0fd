package repository

import (
	"strings"
	"testing"

	"github.com/deskflow/helpdesk/internal/domain"
)

func statusPtr(s domain.TicketStatus) *domain.TicketStatus { return &s }

func priorityPtr(p domain.TicketPriority) *domain.TicketPriority { return &p }

func str(s string) *string { return &s }

func TestBuildTicketListQueryNoFilters(t *testing.T) {
	query, args := buildTicketListQuery(TicketFilter{})
	if len(args) != 0 {
		t.Fatalf("args = %d, want 0", len(args))
	}
	if !strings.Contains(query, "ORDER BY t.created_at DESC") {
		t.Error("query missing creation-time descending order")
	}
	if strings.Contains(query, "LIMIT") {
		t.Error("unpaginated query should not carry a LIMIT clause")
	}
}

func TestBuildTicketListQueryScopeFirst(t *testing.T) {
	query, args := buildTicketListQuery(TicketFilter{
		CreatedBy: str("u-1"),
		Status:    statusPtr(domain.TicketStatusOpen),
	})
	if len(args) != 2 {
		t.Fatalf("args = %d, want 2", len(args))
	}
	// The role scope binds before any user filter.
	if args[0] != "u-1" {
		t.Errorf("first arg = %v, want role scope", args[0])
	}
	if !strings.Contains(query, "t.created_by=$1") || !strings.Contains(query, "t.status=$2") {
		t.Errorf("unexpected clause placement in %q", query)
	}
}

func TestBuildTicketListQueryConjunction(t *testing.T) {
	query, args := buildTicketListQuery(TicketFilter{
		Status:     statusPtr(domain.TicketStatusInProgress),
		Priority:   priorityPtr(domain.TicketPriorityHigh),
		AssignedTo: str("u-2"),
	})
	if len(args) != 3 {
		t.Fatalf("args = %d, want 3", len(args))
	}
	if strings.Count(query, " AND ") != 3 {
		t.Errorf("filters should compose conjunctively, query %q", query)
	}
}

func TestBuildTicketListQuerySearch(t *testing.T) {
	query, args := buildTicketListQuery(TicketFilter{Search: str("  Printer ")})
	if len(args) != 1 {
		t.Fatalf("args = %d, want 1 (single bound search term)", len(args))
	}
	if args[0] != "%printer%" {
		t.Errorf("search arg = %v, want lowercased trimmed pattern", args[0])
	}
	if !strings.Contains(query, "LOWER(t.title) LIKE $1 OR LOWER(t.description) LIKE $1") {
		t.Errorf("search should match title OR description, query %q", query)
	}
}

func TestBuildTicketListQueryBlankSearchIgnored(t *testing.T) {
	_, args := buildTicketListQuery(TicketFilter{Search: str("   ")})
	if len(args) != 0 {
		t.Fatalf("blank search must not constrain results, got %d args", len(args))
	}
}

func TestBuildTicketListQueryPagination(t *testing.T) {
	query, _ := buildTicketListQuery(TicketFilter{Limit: 50, Offset: -3})
	if !strings.Contains(query, "LIMIT 50 OFFSET 0") {
		t.Errorf("negative offset should clamp to 0, query %q", query)
	}
}
