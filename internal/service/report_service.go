package service

import (
	"context"
	"math"

	"github.com/deskflow/helpdesk/internal/domain"
	"github.com/deskflow/helpdesk/internal/repository"
	apperrors "github.com/deskflow/helpdesk/pkg/util"
)

// UncategorizedLabel buckets tickets without a category on the dashboard.
const UncategorizedLabel = "Uncategorized"

// DashboardSummary aggregates the tickets visible to a caller.
type DashboardSummary struct {
	Total             int
	OpenCount         int
	InProgressCount   int
	ResolvedCount     int // resolved or closed
	ByPriority        map[domain.TicketPriority]int
	ByCategory        map[string]int
	AvgResolutionDays float64
	ResolutionRate    int // percent, rounded to nearest integer
}

// ReportService computes dashboard aggregates from a fresh full fetch.
type ReportService struct {
	tickets repository.TicketRepository
}

// NewReportService constructs the service.
func NewReportService(tickets repository.TicketRepository) *ReportService {
	return &ReportService{tickets: tickets}
}

// Dashboard recomputes the summary over the caller's visible tickets.
func (s *ReportService) Dashboard(ctx context.Context, caller *domain.User) (DashboardSummary, error) {
	if caller == nil {
		return DashboardSummary{}, apperrors.NewUnauthorized("authentication required")
	}
	filter := repository.TicketFilter{}
	if !caller.IsAdmin() {
		callerID := caller.ID
		filter.CreatedBy = &callerID
	}
	tickets, err := s.tickets.ListWithFilter(ctx, filter)
	if err != nil {
		return DashboardSummary{}, err
	}
	return Summarize(tickets), nil
}

// Summarize derives dashboard aggregates from a ticket collection.
//
// Tickets without a resolution timestamp are excluded from the average
// entirely, not treated as zero-latency.
func Summarize(tickets []domain.Ticket) DashboardSummary {
	summary := DashboardSummary{
		Total:      len(tickets),
		ByPriority: make(map[domain.TicketPriority]int),
		ByCategory: make(map[string]int),
	}

	var resolvedWithLatency int
	var totalLatencyHours float64

	for i := range tickets {
		ticket := &tickets[i]
		switch {
		case ticket.Status == domain.TicketStatusOpen:
			summary.OpenCount++
		case ticket.Status == domain.TicketStatusInProgress:
			summary.InProgressCount++
		case ticket.Status.Settled():
			summary.ResolvedCount++
		}

		summary.ByPriority[ticket.Priority]++

		category := UncategorizedLabel
		if ticket.Category != nil && *ticket.Category != "" {
			category = *ticket.Category
		}
		summary.ByCategory[category]++

		if ticket.ResolvedAt != nil && !ticket.CreatedAt.IsZero() {
			totalLatencyHours += ticket.ResolvedAt.Sub(ticket.CreatedAt).Hours()
			resolvedWithLatency++
		}
	}

	if resolvedWithLatency > 0 {
		summary.AvgResolutionDays = totalLatencyHours / float64(resolvedWithLatency) / 24
	}
	if summary.Total > 0 {
		summary.ResolutionRate = int(math.Round(float64(summary.ResolvedCount) / float64(summary.Total) * 100))
	}
	return summary
}
