package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/deskflow/helpdesk/internal/domain"
	"github.com/deskflow/helpdesk/internal/repository"
)

// fakeClock hands out strictly increasing timestamps so updated_at
// assertions are deterministic.
type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.t = c.t.Add(time.Second)
	return c.t
}

type fakeUserRepo struct {
	byID  map[string]*domain.User
	creds *fakeCredentialRepo

	// createErr, when set, fails the next CreateWithCredential. Used to
	// model the insert losing a duplicate-email race.
	createErr error
}

func newFakeUserRepo(users ...*domain.User) *fakeUserRepo {
	repo := &fakeUserRepo{byID: make(map[string]*domain.User)}
	for _, u := range users {
		repo.byID[u.ID] = u
	}
	return repo
}

// CreateWithCredential mirrors the transactional write path: either both the
// user row and its hash land, or neither does.
func (r *fakeUserRepo) CreateWithCredential(_ context.Context, user *domain.User, passwordHash string) error {
	if r.createErr != nil {
		err := r.createErr
		r.createErr = nil
		return err
	}
	for _, existing := range r.byID {
		if existing.Email == user.Email {
			return &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}
		}
	}
	user.ID = fmt.Sprintf("u-%d", len(r.byID)+1)
	r.byID[user.ID] = user
	if r.creds != nil {
		r.creds.hashes[user.ID] = passwordHash
	}
	return nil
}

func (r *fakeUserRepo) UpdateProfile(_ context.Context, user *domain.User) error {
	if _, ok := r.byID[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.byID[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	user, ok := r.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, user := range r.byID {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) ListAdmins(_ context.Context) ([]domain.User, error) {
	var result []domain.User
	for _, user := range r.byID {
		if user.Role == domain.RoleAdmin {
			result = append(result, *user)
		}
	}
	return result, nil
}

type fakeTicketRepo struct {
	clock *fakeClock
	seq   int
	byID  map[string]*domain.Ticket
}

func newFakeTicketRepo(clock *fakeClock) *fakeTicketRepo {
	return &fakeTicketRepo{clock: clock, byID: make(map[string]*domain.Ticket)}
}

func (r *fakeTicketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	r.seq++
	ticket.ID = fmt.Sprintf("t-%d", r.seq)
	now := r.clock.Now()
	ticket.CreatedAt = now
	ticket.UpdatedAt = now
	copied := *ticket
	r.byID[ticket.ID] = &copied
	return nil
}

// Update mirrors the SQL write path: updated_at always refreshes and a
// resolved_at already present in storage is never overwritten.
func (r *fakeTicketRepo) Update(_ context.Context, ticket *domain.Ticket) error {
	existing, ok := r.byID[ticket.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	copied := *ticket
	copied.UpdatedAt = r.clock.Now()
	if existing.ResolvedAt != nil {
		copied.ResolvedAt = existing.ResolvedAt
	}
	r.byID[ticket.ID] = &copied
	*ticket = copied
	return nil
}

func (r *fakeTicketRepo) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	ticket, ok := r.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *ticket
	return &copied, nil
}

func (r *fakeTicketRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.byID, id)
	return nil
}

func (r *fakeTicketRepo) ListWithFilter(_ context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for _, ticket := range r.byID {
		if filter.CreatedBy != nil && ticket.CreatedBy != *filter.CreatedBy {
			continue
		}
		if filter.Status != nil && ticket.Status != *filter.Status {
			continue
		}
		if filter.Priority != nil && ticket.Priority != *filter.Priority {
			continue
		}
		if filter.AssignedTo != nil && (ticket.AssignedTo == nil || *ticket.AssignedTo != *filter.AssignedTo) {
			continue
		}
		if filter.Search != nil {
			needle := strings.ToLower(strings.TrimSpace(*filter.Search))
			title := strings.ToLower(ticket.Title)
			description := strings.ToLower(ticket.Description)
			if !strings.Contains(title, needle) && !strings.Contains(description, needle) {
				continue
			}
		}
		result = append(result, *ticket)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

type fakeCredentialRepo struct {
	hashes map[string]string
}

func newFakeCredentialRepo() *fakeCredentialRepo {
	return &fakeCredentialRepo{hashes: make(map[string]string)}
}

func (r *fakeCredentialRepo) GetHash(_ context.Context, userID string) (string, error) {
	hash, ok := r.hashes[userID]
	if !ok {
		return "", pgx.ErrNoRows
	}
	return hash, nil
}

type fakeRevocationStore struct {
	revoked map[string]time.Time
}

func newFakeRevocationStore() *fakeRevocationStore {
	return &fakeRevocationStore{revoked: make(map[string]time.Time)}
}

func (s *fakeRevocationStore) Revoke(_ context.Context, tokenID string, expiresAt time.Time) error {
	s.revoked[tokenID] = expiresAt
	return nil
}

func (s *fakeRevocationStore) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	_, ok := s.revoked[tokenID]
	return ok, nil
}

type fakeCommentRepo struct {
	seq      int
	byTicket map[string][]domain.Comment
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{byTicket: make(map[string][]domain.Comment)}
}

func (r *fakeCommentRepo) Create(_ context.Context, comment *domain.Comment) error {
	r.seq++
	comment.ID = fmt.Sprintf("c-%d", r.seq)
	comment.CreatedAt = time.Now()
	r.byTicket[comment.TicketID] = append(r.byTicket[comment.TicketID], *comment)
	return nil
}

func (r *fakeCommentRepo) ListByTicket(_ context.Context, ticketID string) ([]domain.Comment, error) {
	return append([]domain.Comment(nil), r.byTicket[ticketID]...), nil
}

func (r *fakeCommentRepo) DeleteByTicket(_ context.Context, ticketID string) error {
	delete(r.byTicket, ticketID)
	return nil
}
