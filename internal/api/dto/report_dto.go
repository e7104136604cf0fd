package dto

import (
	"github.com/deskflow/helpdesk/internal/domain"
	"github.com/deskflow/helpdesk/internal/service"
)

// DashboardResponse is the aggregate reporting shape.
type DashboardResponse struct {
	Total             int                           `json:"total"`
	Open              int                           `json:"open"`
	InProgress        int                           `json:"in_progress"`
	Resolved          int                           `json:"resolved"`
	ByPriority        map[domain.TicketPriority]int `json:"by_priority"`
	ByCategory        map[string]int                `json:"by_category"`
	AvgResolutionDays float64                       `json:"avg_resolution_days"`
	ResolutionRate    int                           `json:"resolution_rate"`
}

// NewDashboardResponse maps a dashboard summary.
func NewDashboardResponse(summary service.DashboardSummary) DashboardResponse {
	return DashboardResponse{
		Total:             summary.Total,
		Open:              summary.OpenCount,
		InProgress:        summary.InProgressCount,
		Resolved:          summary.ResolvedCount,
		ByPriority:        summary.ByPriority,
		ByCategory:        summary.ByCategory,
		AvgResolutionDays: summary.AvgResolutionDays,
		ResolutionRate:    summary.ResolutionRate,
	}
}
