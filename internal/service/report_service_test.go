package service

import (
	"context"
	"testing"
	"time"

	"github.com/deskflow/helpdesk/internal/domain"
)

func reportTicket(status domain.TicketStatus, priority domain.TicketPriority, category *string, createdAt time.Time, resolvedAt *time.Time) domain.Ticket {
	return domain.Ticket{
		Status:     status,
		Priority:   priority,
		Category:   category,
		CreatedAt:  createdAt,
		ResolvedAt: resolvedAt,
	}
}

func timePtr(t time.Time) *time.Time { return &t }

func TestSummarizeEmpty(t *testing.T) {
	summary := Summarize(nil)
	if summary.Total != 0 {
		t.Errorf("total = %d, want 0", summary.Total)
	}
	if summary.ResolutionRate != 0 {
		t.Errorf("resolution rate = %d, want 0 on empty collection", summary.ResolutionRate)
	}
	if summary.AvgResolutionDays != 0 {
		t.Errorf("avg resolution = %f, want 0 on empty collection", summary.AvgResolutionDays)
	}
}

func TestSummarizeStatusBuckets(t *testing.T) {
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	tickets := []domain.Ticket{
		reportTicket(domain.TicketStatusOpen, domain.TicketPriorityLow, nil, base, nil),
		reportTicket(domain.TicketStatusOpen, domain.TicketPriorityHigh, nil, base, nil),
		reportTicket(domain.TicketStatusInProgress, domain.TicketPriorityMedium, nil, base, nil),
		reportTicket(domain.TicketStatusResolved, domain.TicketPriorityMedium, nil, base, timePtr(base.Add(24*time.Hour))),
		reportTicket(domain.TicketStatusClosed, domain.TicketPriorityUrgent, nil, base, timePtr(base.Add(48*time.Hour))),
	}

	summary := Summarize(tickets)
	if summary.OpenCount != 2 || summary.InProgressCount != 1 {
		t.Errorf("open/in_progress = %d/%d, want 2/1", summary.OpenCount, summary.InProgressCount)
	}
	// Resolved and closed share one bucket.
	if summary.ResolvedCount != 2 {
		t.Errorf("resolved bucket = %d, want 2", summary.ResolvedCount)
	}
	if summary.ByPriority[domain.TicketPriorityMedium] != 2 {
		t.Errorf("medium priority count = %d, want 2", summary.ByPriority[domain.TicketPriorityMedium])
	}
	// 2 of 5 settled -> 40%.
	if summary.ResolutionRate != 40 {
		t.Errorf("resolution rate = %d, want 40", summary.ResolutionRate)
	}
}

func TestSummarizeResolutionRateRounding(t *testing.T) {
	base := time.Now()
	tickets := []domain.Ticket{
		reportTicket(domain.TicketStatusResolved, domain.TicketPriorityLow, nil, base, timePtr(base)),
		reportTicket(domain.TicketStatusOpen, domain.TicketPriorityLow, nil, base, nil),
		reportTicket(domain.TicketStatusOpen, domain.TicketPriorityLow, nil, base, nil),
	}
	// 1/3 = 33.33... -> 33
	if got := Summarize(tickets).ResolutionRate; got != 33 {
		t.Errorf("resolution rate = %d, want 33", got)
	}

	tickets = append(tickets,
		reportTicket(domain.TicketStatusClosed, domain.TicketPriorityLow, nil, base, timePtr(base)),
		reportTicket(domain.TicketStatusResolved, domain.TicketPriorityLow, nil, base, timePtr(base)),
		reportTicket(domain.TicketStatusOpen, domain.TicketPriorityLow, nil, base, nil),
	)
	// 3/6 = 50
	if got := Summarize(tickets).ResolutionRate; got != 50 {
		t.Errorf("resolution rate = %d, want 50", got)
	}
}

func TestSummarizeAvgExcludesUnresolved(t *testing.T) {
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	tickets := []domain.Ticket{
		// Two days to resolve.
		reportTicket(domain.TicketStatusResolved, domain.TicketPriorityLow, nil, base, timePtr(base.Add(48*time.Hour))),
		// Four days to resolve.
		reportTicket(domain.TicketStatusClosed, domain.TicketPriorityLow, nil, base, timePtr(base.Add(96*time.Hour))),
		// Unresolved: excluded from numerator and denominator.
		reportTicket(domain.TicketStatusOpen, domain.TicketPriorityLow, nil, base, nil),
		reportTicket(domain.TicketStatusInProgress, domain.TicketPriorityLow, nil, base, nil),
	}

	summary := Summarize(tickets)
	if summary.AvgResolutionDays != 3 {
		t.Errorf("avg resolution days = %f, want 3 (unresolved excluded)", summary.AvgResolutionDays)
	}
}

func TestSummarizeCategoryBuckets(t *testing.T) {
	base := time.Now()
	printer := "Printer"
	network := "Network"
	tickets := []domain.Ticket{
		reportTicket(domain.TicketStatusOpen, domain.TicketPriorityLow, &printer, base, nil),
		reportTicket(domain.TicketStatusOpen, domain.TicketPriorityLow, &printer, base, nil),
		reportTicket(domain.TicketStatusOpen, domain.TicketPriorityLow, &network, base, nil),
		reportTicket(domain.TicketStatusOpen, domain.TicketPriorityLow, nil, base, nil),
	}

	summary := Summarize(tickets)
	if summary.ByCategory["Printer"] != 2 || summary.ByCategory["Network"] != 1 {
		t.Errorf("category buckets = %v", summary.ByCategory)
	}
	if summary.ByCategory[UncategorizedLabel] != 1 {
		t.Errorf("uncategorized bucket = %d, want 1", summary.ByCategory[UncategorizedLabel])
	}
}

func TestDashboardRoleScope(t *testing.T) {
	f := newTicketFixture()
	ctx := context.Background()
	reports := NewReportService(f.tickets)

	if _, err := f.service.CreateTicket(ctx, f.user, TicketCreateInput{Title: "mine", Description: "d"}); err != nil {
		t.Fatalf("CreateTicket: %v", err)
	}
	if _, err := f.service.CreateTicket(ctx, f.other, TicketCreateInput{Title: "theirs", Description: "d"}); err != nil {
		t.Fatalf("CreateTicket: %v", err)
	}

	mine, err := reports.Dashboard(ctx, f.user)
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}
	if mine.Total != 1 {
		t.Errorf("non-admin dashboard total = %d, want 1", mine.Total)
	}

	all, err := reports.Dashboard(ctx, f.admin)
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}
	if all.Total != 2 {
		t.Errorf("admin dashboard total = %d, want 2", all.Total)
	}
}
