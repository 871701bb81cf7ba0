package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/openboard/api/internal/database"
	"github.com/openboard/api/internal/jsearch"
	"github.com/openboard/api/internal/model"
)

// Mock implementations shared by the service tests

type mockUserRepo struct {
	users      map[string]*model.User
	emailIndex map[string]*model.User
	createErr  error
	getErr     error
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{
		users:      make(map[string]*model.User),
		emailIndex: make(map[string]*model.User),
	}
}

func (m *mockUserRepo) Create(ctx context.Context, user *model.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	user.ID = "user:" + user.Email
	user.CreatedOn = time.Now()
	user.UpdatedOn = time.Now()
	m.users[user.ID] = user
	m.emailIndex[user.Email] = user
	return nil
}

func (m *mockUserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.users[id], nil
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.emailIndex[email], nil
}

func (m *mockUserRepo) UpdateLoginTime(ctx context.Context, userID string) error {
	if user, ok := m.users[userID]; ok {
		now := time.Now()
		user.LoginOn = &now
	}
	return nil
}

func (m *mockUserRepo) SetEmailVerified(ctx context.Context, userID string, verified bool) error {
	if user, ok := m.users[userID]; ok {
		user.EmailVerified = verified
	}
	return nil
}

type mockTokenRepo struct {
	tokens    map[string]*model.RefreshToken
	createErr error
}

func newMockTokenRepo() *mockTokenRepo {
	return &mockTokenRepo{tokens: make(map[string]*model.RefreshToken)}
}

func (m *mockTokenRepo) CreateRefreshToken(ctx context.Context, token *model.RefreshToken) error {
	if m.createErr != nil {
		return m.createErr
	}
	token.ID = "refresh_token:" + token.TokenHash[:8]
	m.tokens[token.TokenHash] = token
	return nil
}

func (m *mockTokenRepo) GetRefreshTokenByHash(ctx context.Context, hash string) (*model.RefreshToken, error) {
	return m.tokens[hash], nil
}

func (m *mockTokenRepo) RevokeRefreshToken(ctx context.Context, hash string) error {
	if token, ok := m.tokens[hash]; ok {
		token.Revoked = true
	}
	return nil
}

func (m *mockTokenRepo) RevokeAllUserTokens(ctx context.Context, userID string) error {
	for _, token := range m.tokens {
		if token.UserID == userID {
			token.Revoked = true
		}
	}
	return nil
}

func (m *mockTokenRepo) DeleteExpiredTokens(ctx context.Context) error {
	for hash, token := range m.tokens {
		if token.IsExpired() {
			delete(m.tokens, hash)
		}
	}
	return nil
}

// mockJobRepo stores postings in memory and enforces job_id uniqueness the
// way the real unique index does.
type mockJobRepo struct {
	mu        sync.Mutex
	jobs      map[string]*model.JobPosting
	order     []string
	createErr error
	filterErr error
}

func newMockJobRepo() *mockJobRepo {
	return &mockJobRepo{jobs: make(map[string]*model.JobPosting)}
}

func (m *mockJobRepo) Create(ctx context.Context, job *model.JobPosting) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	if _, ok := m.jobs[job.JobID]; ok {
		return database.ErrDuplicate
	}
	job.ID = "job:" + job.JobID
	m.jobs[job.JobID] = job
	m.order = append(m.order, job.JobID)
	return nil
}

func (m *mockJobRepo) FilterExistingIDs(ctx context.Context, ids []string) (map[string]struct{}, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.filterErr != nil {
		return nil, m.filterErr
	}
	existing := make(map[string]struct{})
	for _, id := range ids {
		if _, ok := m.jobs[id]; ok {
			existing[id] = struct{}{}
		}
	}
	return existing, nil
}

func (m *mockJobRepo) List(ctx context.Context, filter model.JobFilter) ([]*model.JobPosting, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*model.JobPosting
	for _, id := range m.order {
		job := m.jobs[id]
		if filter.Title != "" && !strings.Contains(strings.ToLower(job.Title), strings.ToLower(filter.Title)) {
			continue
		}
		if filter.Location != "" && !strings.Contains(strings.ToLower(job.Location), strings.ToLower(filter.Location)) {
			continue
		}
		if filter.EmploymentType != "" && job.EmploymentType != filter.EmploymentType {
			continue
		}
		result = append(result, job)
	}
	return result, nil
}

func (m *mockJobRepo) ListByJobIDs(ctx context.Context, ids []string) ([]*model.JobPosting, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*model.JobPosting
	for _, id := range ids {
		if job, ok := m.jobs[id]; ok {
			result = append(result, job)
		}
	}
	return result, nil
}

func (m *mockJobRepo) Count(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.jobs), nil
}

type mockSavedJobRepo struct {
	saved map[string]struct{} // key: userID + "|" + jobID
}

func newMockSavedJobRepo() *mockSavedJobRepo {
	return &mockSavedJobRepo{saved: make(map[string]struct{})}
}

func savedKey(userID, jobID string) string { return userID + "|" + jobID }

func (m *mockSavedJobRepo) Save(ctx context.Context, userID, jobID string) error {
	key := savedKey(userID, jobID)
	if _, ok := m.saved[key]; ok {
		return database.ErrDuplicate
	}
	m.saved[key] = struct{}{}
	return nil
}

func (m *mockSavedJobRepo) Remove(ctx context.Context, userID, jobID string) error {
	delete(m.saved, savedKey(userID, jobID))
	return nil
}

func (m *mockSavedJobRepo) ListJobIDs(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	for key := range m.saved {
		parts := strings.SplitN(key, "|", 2)
		if parts[0] == userID {
			ids = append(ids, parts[1])
		}
	}
	return ids, nil
}

func (m *mockSavedJobRepo) Exists(ctx context.Context, userID, jobID string) (bool, error) {
	_, ok := m.saved[savedKey(userID, jobID)]
	return ok, nil
}

// mockSearchClient serves scripted pages keyed by page number. Pages beyond
// the script come back empty.
type mockSearchClient struct {
	pages    map[int][]jsearch.RawJob
	errs     map[int]error
	calls    int
	requests []string
}

func newMockSearchClient() *mockSearchClient {
	return &mockSearchClient{
		pages: make(map[int][]jsearch.RawJob),
		errs:  make(map[int]error),
	}
}

func (m *mockSearchClient) Search(ctx context.Context, query, location string, page int, datePosted string) (*jsearch.SearchPage, error) {
	m.calls++
	m.requests = append(m.requests, fmt.Sprintf("%s|%s|%d", query, location, page))
	if err, ok := m.errs[page]; ok {
		return nil, err
	}
	jobs := m.pages[page]
	return &jsearch.SearchPage{Jobs: jobs, HasMore: len(jobs) > 0}, nil
}

type mockMailer struct {
	sent    []string
	sendErr error
}

func (m *mockMailer) SendVerificationEmail(ctx context.Context, to, verifyURL string) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.sent = append(m.sent, to)
	return nil
}

func rawJob(id string) jsearch.RawJob {
	return jsearch.RawJob{
		JobID:       id,
		Title:       "Software Developer",
		City:        "Scranton",
		State:       "PA",
		Country:     "US",
		PostedAtUTC: "2026-08-20T00:00:00.000Z",
	}
}
