package handler

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/openboard/api/internal/database"
	"github.com/openboard/api/internal/jsearch"
	"github.com/openboard/api/internal/model"
)

// ============================================================================
// In-memory job repository
// ============================================================================

type memJobRepo struct {
	mu   sync.Mutex
	jobs map[string]*model.JobPosting
}

func newMemJobRepo() *memJobRepo {
	return &memJobRepo{jobs: make(map[string]*model.JobPosting)}
}

func (r *memJobRepo) Create(ctx context.Context, job *model.JobPosting) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.jobs[job.JobID]; ok {
		return database.ErrDuplicate
	}
	r.jobs[job.JobID] = job
	return nil
}

func (r *memJobRepo) FilterExistingIDs(ctx context.Context, ids []string) (map[string]struct{}, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing := make(map[string]struct{})
	for _, id := range ids {
		if _, ok := r.jobs[id]; ok {
			existing[id] = struct{}{}
		}
	}
	return existing, nil
}

func (r *memJobRepo) List(ctx context.Context, filter model.JobFilter) ([]*model.JobPosting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	results := make([]*model.JobPosting, 0, len(r.jobs))
	for _, job := range r.jobs {
		if filter.Title != "" && !strings.Contains(strings.ToLower(job.Title), strings.ToLower(filter.Title)) {
			continue
		}
		if filter.Location != "" && !strings.Contains(strings.ToLower(job.Location), strings.ToLower(filter.Location)) {
			continue
		}
		if filter.EmploymentType != "" && job.EmploymentType != filter.EmploymentType {
			continue
		}
		results = append(results, job)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].JobID < results[j].JobID })
	return results, nil
}

func (r *memJobRepo) ListByJobIDs(ctx context.Context, ids []string) ([]*model.JobPosting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	results := make([]*model.JobPosting, 0, len(ids))
	for _, id := range ids {
		if job, ok := r.jobs[id]; ok {
			results = append(results, job)
		}
	}
	return results, nil
}

func (r *memJobRepo) Count(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.jobs), nil
}

// ============================================================================
// In-memory saved job repository
// ============================================================================

type memSavedJobRepo struct {
	mu    sync.Mutex
	saved map[string][]string // userID -> jobIDs, newest first
}

func newMemSavedJobRepo() *memSavedJobRepo {
	return &memSavedJobRepo{saved: make(map[string][]string)}
}

func (r *memSavedJobRepo) Save(ctx context.Context, userID, jobID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range r.saved[userID] {
		if id == jobID {
			return database.ErrDuplicate
		}
	}
	r.saved[userID] = append([]string{jobID}, r.saved[userID]...)
	return nil
}

func (r *memSavedJobRepo) Remove(ctx context.Context, userID, jobID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := r.saved[userID]
	for i, id := range ids {
		if id == jobID {
			r.saved[userID] = append(ids[:i], ids[i+1:]...)
			return nil
		}
	}
	return database.ErrNotFound
}

func (r *memSavedJobRepo) ListJobIDs(ctx context.Context, userID string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.saved[userID]...), nil
}

func (r *memSavedJobRepo) Exists(ctx context.Context, userID, jobID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range r.saved[userID] {
		if id == jobID {
			return true, nil
		}
	}
	return false, nil
}

// ============================================================================
// In-memory user repository
// ============================================================================

type memUserRepo struct {
	mu    sync.Mutex
	users map[string]*model.User // keyed by ID
	email map[string]*model.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{
		users: make(map[string]*model.User),
		email: make(map[string]*model.User),
	}
}

func (r *memUserRepo) Create(ctx context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.email[user.Email]; ok {
		return database.ErrDuplicate
	}
	user.ID = "user:" + user.Email
	user.CreatedOn = time.Now()
	user.UpdatedOn = time.Now()
	r.users[user.ID] = user
	r.email[user.Email] = user
	return nil
}

func (r *memUserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.users[id], nil
}

func (r *memUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.email[email], nil
}

func (r *memUserRepo) UpdateLoginTime(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user, ok := r.users[userID]; ok {
		now := time.Now()
		user.LoginOn = &now
	}
	return nil
}

func (r *memUserRepo) SetEmailVerified(ctx context.Context, userID string, verified bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user, ok := r.users[userID]; ok {
		user.EmailVerified = verified
	}
	return nil
}

// ============================================================================
// In-memory refresh token repository
// ============================================================================

type memTokenRepo struct {
	mu     sync.Mutex
	tokens map[string]*model.RefreshToken // keyed by hash
}

func newMemTokenRepo() *memTokenRepo {
	return &memTokenRepo{tokens: make(map[string]*model.RefreshToken)}
}

func (r *memTokenRepo) CreateRefreshToken(ctx context.Context, token *model.RefreshToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	token.ID = "refresh_token:" + token.TokenHash[:8]
	r.tokens[token.TokenHash] = token
	return nil
}

func (r *memTokenRepo) GetRefreshTokenByHash(ctx context.Context, hash string) (*model.RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tokens[hash], nil
}

func (r *memTokenRepo) RevokeRefreshToken(ctx context.Context, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if token, ok := r.tokens[hash]; ok {
		token.Revoked = true
	}
	return nil
}

func (r *memTokenRepo) RevokeAllUserTokens(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, token := range r.tokens {
		if token.UserID == userID {
			token.Revoked = true
		}
	}
	return nil
}

func (r *memTokenRepo) DeleteExpiredTokens(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for hash, token := range r.tokens {
		if token.IsExpired() {
			delete(r.tokens, hash)
		}
	}
	return nil
}

// ============================================================================
// Stub search client
// ============================================================================

type stubSearchClient struct {
	pages map[int][]jsearch.RawJob
	err   error
}

func (c *stubSearchClient) Search(ctx context.Context, query, location string, page int, datePosted string) (*jsearch.SearchPage, error) {
	if c.err != nil {
		return nil, c.err
	}
	jobs := c.pages[page]
	return &jsearch.SearchPage{Jobs: jobs, HasMore: len(jobs) > 0}, nil
}

// ============================================================================
// Stub database (health checks)
// ============================================================================

type stubDB struct {
	pingErr error
}

func (d *stubDB) Connect(ctx context.Context) error      { return nil }
func (d *stubDB) Close() error                           { return nil }
func (d *stubDB) Ping(ctx context.Context) error         { return d.pingErr }
func (d *stubDB) EnsureSchema(ctx context.Context) error { return nil }

func (d *stubDB) Query(ctx context.Context, query string, vars map[string]interface{}) ([]interface{}, error) {
	return nil, nil
}

func (d *stubDB) QueryOne(ctx context.Context, query string, vars map[string]interface{}) (interface{}, error) {
	return nil, database.ErrNotFound
}

func (d *stubDB) Execute(ctx context.Context, query string, vars map[string]interface{}) error {
	return nil
}

func rawJob(id string) jsearch.RawJob {
	return jsearch.RawJob{
		JobID:        id,
		EmployerName: "Acme",
		Title:        "Developer",
		City:         "Erie",
		PostedAtUTC:  time.Now().UTC().Format(time.RFC3339),
	}
}
