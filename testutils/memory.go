package testutils

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/samber/mo"

	"dailydose/core"
	"dailydose/models"
)

// MemoryResponsesRepository is an in-memory StandupResponsesRepository keyed like the (team, user, date) index
type MemoryResponsesRepository struct {
	mu   sync.Mutex
	rows map[string]*models.StandupResponse
}

func NewMemoryResponsesRepository() *MemoryResponsesRepository {
	return &MemoryResponsesRepository{rows: make(map[string]*models.StandupResponse)}
}

func responseKey(teamID, userID string, date time.Time) string {
	return teamID + "|" + userID + "|" + core.FormatDate(date)
}

func (r *MemoryResponsesRepository) UpsertStandupResponse(
	_ context.Context,
	response *models.StandupResponse,
) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := responseKey(response.TeamID, response.UserID, response.StandupDate)
	if existing, ok := r.rows[key]; ok {
		existing.Yesterday = response.Yesterday
		existing.Today = response.Today
		existing.Blockers = response.Blockers
		existing.IsLate = response.IsLate
		existing.SubmittedAt = response.SubmittedAt
		existing.UpdatedAt = response.SubmittedAt
		*response = *existing
		return false, nil
	}

	stored := *response
	stored.CreatedAt = response.SubmittedAt
	stored.UpdatedAt = response.SubmittedAt
	r.rows[key] = &stored
	*response = stored
	return true, nil
}

func (r *MemoryResponsesRepository) GetStandupResponse(
	_ context.Context,
	teamID, userID string,
	date time.Time,
) (mo.Option[*models.StandupResponse], error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if row, ok := r.rows[responseKey(teamID, userID, date)]; ok {
		copied := *row
		return mo.Some(&copied), nil
	}
	return mo.None[*models.StandupResponse](), nil
}

func (r *MemoryResponsesRepository) GetStandupResponsesByLateness(
	_ context.Context,
	teamID string,
	date time.Time,
	isLate bool,
) ([]*models.StandupResponse, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*models.StandupResponse
	for _, row := range r.rows {
		if row.TeamID == teamID && core.FormatDate(row.StandupDate) == core.FormatDate(date) && row.IsLate == isLate {
			copied := *row
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SubmittedAt.Equal(out[j].SubmittedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].SubmittedAt.Before(out[j].SubmittedAt)
	})
	return out, nil
}

// Count returns the number of stored responses
func (r *MemoryResponsesRepository) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows)
}

// MemoryPostsRepository is an in-memory StandupPostsRepository with atomic insert-if-absent
type MemoryPostsRepository struct {
	mu   sync.Mutex
	rows map[string]*models.StandupPost
}

func NewMemoryPostsRepository() *MemoryPostsRepository {
	return &MemoryPostsRepository{rows: make(map[string]*models.StandupPost)}
}

func postKey(teamID string, date time.Time) string {
	return teamID + "|" + core.FormatDate(date)
}

func (r *MemoryPostsRepository) InsertStandupPostIfAbsent(_ context.Context, post *models.StandupPost) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := postKey(post.TeamID, post.StandupDate)
	if _, ok := r.rows[key]; ok {
		return false, nil
	}
	stored := *post
	r.rows[key] = &stored
	return true, nil
}

func (r *MemoryPostsRepository) GetStandupPost(
	_ context.Context,
	teamID string,
	date time.Time,
) (mo.Option[*models.StandupPost], error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if row, ok := r.rows[postKey(teamID, date)]; ok {
		copied := *row
		return mo.Some(&copied), nil
	}
	return mo.None[*models.StandupPost](), nil
}

// Count returns the number of stored posts
func (r *MemoryPostsRepository) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows)
}

// MemoryTransactionManager runs functions directly and counts them; in-memory repositories need no transaction
type MemoryTransactionManager struct {
	mu    sync.Mutex
	calls int
}

func (m *MemoryTransactionManager) WithReadSnapshot(ctx context.Context, fn func(context.Context) error) error {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	return fn(ctx)
}

func (m *MemoryTransactionManager) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
