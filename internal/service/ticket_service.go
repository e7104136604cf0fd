package service

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jackc/pgx/v5"

	"github.com/deskflow/helpdesk/internal/domain"
	"github.com/deskflow/helpdesk/internal/events"
	"github.com/deskflow/helpdesk/internal/policy"
	"github.com/deskflow/helpdesk/internal/repository"
	apperrors "github.com/deskflow/helpdesk/pkg/util"
)

// TicketService coordinates ticket workflows: the lifecycle operations,
// the query facade, and the comment thread.
type TicketService struct {
	tickets    repository.TicketRepository
	comments   repository.CommentRepository
	users      repository.UserRepository
	dispatcher events.Dispatcher
	now        func() time.Time
}

// TicketDependencies bundles repositories for ticket service.
type TicketDependencies struct {
	TicketRepo  repository.TicketRepository
	CommentRepo repository.CommentRepository
	UserRepo    repository.UserRepository
	Dispatcher  events.Dispatcher
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:    deps.TicketRepo,
		comments:   deps.CommentRepo,
		users:      deps.UserRepo,
		dispatcher: deps.Dispatcher,
		now:        time.Now,
	}
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	Title       string
	Description string
	Priority    domain.TicketPriority
	Category    *string
	AssignedTo  *string
}

// TicketUpdateInput is the typed partial update. Nil leaves a field
// unchanged; ClearAssignee unsets the assignee explicitly since a nil
// pointer cannot distinguish "absent" from "null".
type TicketUpdateInput struct {
	Title         *string
	Description   *string
	Priority      *domain.TicketPriority
	Status        *domain.TicketStatus
	Category      *string
	AssignedTo    *string
	ClearAssignee bool
}

// TicketQuery captures the user-facing list filters. Empty strings mean
// "all"; the role scope is applied on top regardless of these values.
type TicketQuery struct {
	Status     string
	Priority   string
	AssignedTo string
	Search     string
	Limit      int
	Offset     int
}

// CreateTicket files a ticket. The creator is always the caller, status
// starts open, and only admins may pre-assign.
func (s *TicketService) CreateTicket(ctx context.Context, caller *domain.User, input TicketCreateInput) (*domain.Ticket, error) {
	if caller == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)
	if title == "" || description == "" {
		return nil, apperrors.NewValidationError("title and description required", nil)
	}
	priority := input.Priority
	if priority == "" {
		priority = domain.TicketPriorityMedium
	}
	if !priority.Valid() {
		return nil, apperrors.NewValidationError("invalid priority", map[string]any{"priority": string(input.Priority)})
	}

	ticket := &domain.Ticket{
		Title:       title,
		Description: description,
		Priority:    priority,
		Status:      domain.TicketStatusOpen,
		Category:    normalizeCategory(input.Category),
		CreatedBy:   caller.ID,
	}
	if input.AssignedTo != nil && caller.IsAdmin() {
		if err := s.ensureUserExists(ctx, *input.AssignedTo); err != nil {
			return nil, err
		}
		ticket.AssignedTo = input.AssignedTo
	}
	if !policy.CanCreateTicket(caller, ticket.CreatedBy) {
		return nil, apperrors.NewForbidden("cannot create tickets for another identity")
	}

	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, err
	}
	ticket.Creator = caller.Summary()

	s.publish(ctx, caller, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		Payload: events.TicketCreatedPayload{
			Title:    ticket.Title,
			Priority: ticket.Priority,
			Category: ticket.Category,
		},
	})
	return ticket, nil
}

// ListTickets is the query facade. The role scope binds before any user
// filter: non-admins only ever see tickets they created.
func (s *TicketService) ListTickets(ctx context.Context, caller *domain.User, query TicketQuery) ([]domain.Ticket, error) {
	if caller == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	filter, err := buildFilter(caller, query)
	if err != nil {
		return nil, err
	}
	return s.tickets.ListWithFilter(ctx, filter)
}

func buildFilter(caller *domain.User, query TicketQuery) (repository.TicketFilter, error) {
	filter := repository.TicketFilter{
		Limit:  query.Limit,
		Offset: query.Offset,
	}
	if !caller.IsAdmin() {
		callerID := caller.ID
		filter.CreatedBy = &callerID
	}
	if query.Status != "" && query.Status != "all" {
		status := domain.TicketStatus(query.Status)
		if !status.Valid() {
			return filter, apperrors.NewValidationError("invalid status filter", map[string]any{"status": query.Status})
		}
		filter.Status = &status
	}
	if query.Priority != "" && query.Priority != "all" {
		priority := domain.TicketPriority(query.Priority)
		if !priority.Valid() {
			return filter, apperrors.NewValidationError("invalid priority filter", map[string]any{"priority": query.Priority})
		}
		filter.Priority = &priority
	}
	if query.AssignedTo != "" && query.AssignedTo != "all" {
		assignee := query.AssignedTo
		filter.AssignedTo = &assignee
	}
	if strings.TrimSpace(query.Search) != "" {
		search := query.Search
		filter.Search = &search
	}
	return filter, nil
}

// GetTicket fetches a ticket the caller may read, with its comment thread.
func (s *TicketService) GetTicket(ctx context.Context, caller *domain.User, ticketID string) (*domain.Ticket, []domain.Comment, error) {
	ticket, err := s.fetchTicket(ctx, ticketID)
	if err != nil {
		return nil, nil, err
	}
	if !policy.CanReadTicket(caller, ticket) {
		return nil, nil, apperrors.NewForbidden("access denied")
	}
	comments, err := s.comments.ListByTicket(ctx, ticket.ID)
	if err != nil {
		return nil, nil, err
	}
	return ticket, comments, nil
}

// UpdateTicket applies a partial update. Non-admin creators may change
// status and priority only; admins may change any field. Every successful
// update refreshes updated_at, and the first transition into resolved or
// closed stamps resolved_at exactly once.
func (s *TicketService) UpdateTicket(ctx context.Context, caller *domain.User, ticketID string, input TicketUpdateInput) (*domain.Ticket, error) {
	ticket, err := s.fetchTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !policy.CanUpdateTicket(caller, ticket) {
		return nil, apperrors.NewForbidden("access denied")
	}
	if !caller.IsAdmin() {
		if input.Title != nil || input.Description != nil || input.Category != nil ||
			input.AssignedTo != nil || input.ClearAssignee {
			return nil, apperrors.NewForbidden("only status and priority may be changed on your own ticket")
		}
	}

	oldStatus := ticket.Status
	oldAssignee := ticket.AssignedTo
	var changed []string

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, apperrors.NewValidationError("title cannot be empty", nil)
		}
		ticket.Title = title
		changed = append(changed, "title")
	}
	if input.Description != nil {
		description := strings.TrimSpace(*input.Description)
		if description == "" {
			return nil, apperrors.NewValidationError("description cannot be empty", nil)
		}
		ticket.Description = description
		changed = append(changed, "description")
	}
	if input.Priority != nil {
		if !input.Priority.Valid() {
			return nil, apperrors.NewValidationError("invalid priority", map[string]any{"priority": string(*input.Priority)})
		}
		ticket.Priority = *input.Priority
		changed = append(changed, "priority")
	}
	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": string(*input.Status)})
		}
		ticket.Status = *input.Status
		changed = append(changed, "status")
	}
	if input.Category != nil {
		ticket.Category = normalizeCategory(input.Category)
		changed = append(changed, "category")
	}
	if input.ClearAssignee {
		ticket.AssignedTo = nil
		ticket.Assignee = nil
		changed = append(changed, "assigned_to")
	} else if input.AssignedTo != nil {
		if err := s.ensureUserExists(ctx, *input.AssignedTo); err != nil {
			return nil, err
		}
		ticket.AssignedTo = input.AssignedTo
		changed = append(changed, "assigned_to")
	}

	// First transition into a settled status stamps resolution time; the
	// repository additionally guards the column so it is never overwritten.
	if ticket.Status.Settled() && ticket.ResolvedAt == nil {
		now := s.now()
		ticket.ResolvedAt = &now
	}

	if err := s.tickets.Update(ctx, ticket); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"id": ticketID})
		}
		return nil, err
	}

	if ticket.Status != oldStatus {
		s.publish(ctx, caller, events.Event{
			Type:     events.EventTicketStatusChanged,
			TicketID: ticket.ID,
			Payload: events.TicketStatusChangedPayload{
				OldStatus: oldStatus,
				NewStatus: ticket.Status,
			},
		})
	}
	if !equalAssignee(oldAssignee, ticket.AssignedTo) {
		s.publish(ctx, caller, events.Event{
			Type:     events.EventTicketAssigned,
			TicketID: ticket.ID,
			Payload:  events.TicketAssignedPayload{AssignedTo: ticket.AssignedTo},
		})
	}
	if len(changed) > 0 {
		s.publish(ctx, caller, events.Event{
			Type:     events.EventTicketUpdated,
			TicketID: ticket.ID,
			Payload:  events.TicketUpdatedPayload{Fields: changed},
		})
	}
	return ticket, nil
}

// DeleteTicket removes a ticket and its thread. Admin only.
func (s *TicketService) DeleteTicket(ctx context.Context, caller *domain.User, ticketID string) error {
	if !policy.CanDeleteTicket(caller) {
		return apperrors.NewForbidden("only admins may delete tickets")
	}
	ticket, err := s.fetchTicket(ctx, ticketID)
	if err != nil {
		return err
	}
	if err := s.comments.DeleteByTicket(ctx, ticket.ID); err != nil {
		return err
	}
	if err := s.tickets.Delete(ctx, ticket.ID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("ticket", map[string]any{"id": ticketID})
		}
		return err
	}
	s.publish(ctx, caller, events.Event{
		Type:     events.EventTicketDeleted,
		TicketID: ticket.ID,
	})
	return nil
}

// ListComments returns the thread for a readable ticket, oldest first.
func (s *TicketService) ListComments(ctx context.Context, caller *domain.User, ticketID string) ([]domain.Comment, error) {
	ticket, err := s.fetchTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !policy.CanReadTicket(caller, ticket) {
		return nil, apperrors.NewForbidden("access denied")
	}
	return s.comments.ListByTicket(ctx, ticket.ID)
}

// AddComment appends to a thread. The author is always the caller and the
// caller must be able to read the parent ticket.
func (s *TicketService) AddComment(ctx context.Context, caller *domain.User, ticketID, body string) (*domain.Comment, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, apperrors.NewValidationError("comment body required", nil)
	}
	ticket, err := s.fetchTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !policy.CanComment(caller, ticket) {
		return nil, apperrors.NewForbidden("access denied")
	}

	comment := &domain.Comment{
		TicketID: ticket.ID,
		UserID:   caller.ID,
		Body:     body,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}
	comment.Author = caller.Summary()

	s.publish(ctx, caller, events.Event{
		Type:     events.EventCommentAdded,
		TicketID: ticket.ID,
		Payload: events.CommentAddedPayload{
			CommentID:   comment.ID,
			BodyPreview: preview(comment.Body, 120),
		},
	})
	return comment, nil
}

func (s *TicketService) fetchTicket(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"id": ticketID})
		}
		return nil, err
	}
	return ticket, nil
}

func (s *TicketService) ensureUserExists(ctx context.Context, userID string) error {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("assignee", map[string]any{"id": userID})
		}
		return err
	}
	return nil
}

func (s *TicketService) publish(ctx context.Context, caller *domain.User, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.Actor = events.Actor{UserID: caller.ID, Role: caller.Role}
	event.Timestamp = s.now()
	_ = s.dispatcher.Publish(ctx, event)
}

func normalizeCategory(category *string) *string {
	if category == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*category)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func equalAssignee(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func preview(s string, max int) string {
	if len(s) <= max {
		return s
	}
	// Back up to a rune boundary so the cut never splits a multi-byte
	// character.
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
