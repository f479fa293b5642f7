// internal/storage/memory/memory.go

// Package memory is the in-process storage implementation used by tests and
// local runs. All maps hold values, not pointers, so snapshots are cheap and
// callers can never mutate stored state through a returned record.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/Mahek226/LoanManagementSystem/internal/common/errors"
	"github.com/Mahek226/LoanManagementSystem/internal/models"
)

// Store implements every storage interface over mutex-guarded maps.
type Store struct {
	mu sync.Mutex

	applications map[string]models.LoanApplication
	assignments  map[string]models.Assignment
	profiles     map[string]models.ApplicantProfile
	reviewers    map[models.ReviewTier][]models.Reviewer
	signals      map[string][]models.AuditEntry
}

func NewStore() *Store {
	return &Store{
		applications: make(map[string]models.LoanApplication),
		assignments:  make(map[string]models.Assignment),
		profiles:     make(map[string]models.ApplicantProfile),
		reviewers:    make(map[models.ReviewTier][]models.Reviewer),
		signals:      make(map[string][]models.AuditEntry),
	}
}

// --- Applications ---

func (s *Store) CreateApplication(_ context.Context, app *models.LoanApplication) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.applications[app.ApplicationID] = *app
	return nil
}

func (s *Store) GetApplication(_ context.Context, applicationID string) (*models.LoanApplication, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	app, ok := s.applications[applicationID]
	if !ok {
		return nil, errors.NewApplicationNotFoundError(applicationID)
	}
	return &app, nil
}

func (s *Store) UpdateApplication(_ context.Context, app *models.LoanApplication) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.applications[app.ApplicationID]; !ok {
		return errors.NewApplicationNotFoundError(app.ApplicationID)
	}
	s.applications[app.ApplicationID] = *app
	return nil
}

// --- Assignments ---

func (s *Store) CreateAssignment(_ context.Context, a *models.Assignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.assignments {
		if existing.ApplicationID == a.ApplicationID && existing.Tier == a.Tier && existing.Status.IsActive() {
			return errors.NewAssignmentConflictError(a.ApplicationID, string(a.Tier))
		}
	}
	s.assignments[a.AssignmentID] = *a
	return nil
}

func (s *Store) GetAssignment(_ context.Context, assignmentID string) (*models.Assignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.assignments[assignmentID]
	if !ok {
		return nil, errors.NewAssignmentNotFoundError(assignmentID)
	}
	return &a, nil
}

func (s *Store) UpdateAssignment(_ context.Context, a *models.Assignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.assignments[a.AssignmentID]; !ok {
		return errors.NewAssignmentNotFoundError(a.AssignmentID)
	}
	s.assignments[a.AssignmentID] = *a
	return nil
}

func (s *Store) ActiveAssignment(_ context.Context, applicationID string, tier models.ReviewTier) (*models.Assignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.assignments {
		if a.ApplicationID == applicationID && a.Tier == tier && a.Status.IsActive() {
			out := a
			return &out, nil
		}
	}
	return nil, errors.NewAssignmentNotFoundError(applicationID)
}

func (s *Store) WorkloadByReviewer(_ context.Context, tier models.ReviewTier) (map[string]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	workload := make(map[string]int)
	for _, a := range s.assignments {
		if a.Tier == tier && a.Status.IsActive() {
			workload[a.ReviewerID]++
		}
	}
	return workload, nil
}

// --- Reviewers ---

// AddReviewer registers a reviewer into its tier pool.
func (s *Store) AddReviewer(r models.Reviewer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reviewers[r.Tier()] = append(s.reviewers[r.Tier()], r)
}

func (s *Store) ListReviewers(_ context.Context, tier models.ReviewTier) ([]models.Reviewer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pool := make([]models.Reviewer, len(s.reviewers[tier]))
	copy(pool, s.reviewers[tier])
	sort.Slice(pool, func(i, j int) bool { return pool[i].ReviewerID() < pool[j].ReviewerID() })
	return pool, nil
}

// --- Profiles ---

// PutProfile stores a profile snapshot.
func (s *Store) PutProfile(p models.ApplicantProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[p.ApplicantID] = p
}

// GetProfile returns the snapshot with DuplicateContact computed against the
// other stored profiles.
func (s *Store) GetProfile(_ context.Context, applicantID string) (*models.ApplicantProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[applicantID]
	if !ok {
		return nil, errors.NewApplicantNotFoundError(applicantID)
	}
	for id, other := range s.profiles {
		if id == applicantID {
			continue
		}
		if (p.Phone != "" && p.Phone == other.Phone) || (p.Email != "" && p.Email == other.Email) {
			p.DuplicateContact = true
			break
		}
	}
	return &p, nil
}

// --- Signals ---

func (s *Store) AppendSignals(_ context.Context, entries []models.AuditEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range entries {
		s.signals[e.ApplicationID] = append(s.signals[e.ApplicationID], e)
	}
	return nil
}

func (s *Store) SignalsForApplication(_ context.Context, applicationID string) ([]models.AuditEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := make([]models.AuditEntry, len(s.signals[applicationID]))
	copy(entries, s.signals[applicationID])
	return entries, nil
}

// --- Transactions ---

// InTx snapshots the mutable maps, runs fn, and restores the snapshot when fn
// fails. Gives tests the same all-or-nothing behavior the SQL implementation
// provides.
func (s *Store) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	s.mu.Lock()
	apps := cloneMap(s.applications)
	assigns := cloneMap(s.assignments)
	sigs := cloneSignalMap(s.signals)
	s.mu.Unlock()

	if err := fn(ctx); err != nil {
		s.mu.Lock()
		s.applications = apps
		s.assignments = assigns
		s.signals = sigs
		s.mu.Unlock()
		return err
	}
	return nil
}

func cloneMap[V any](src map[string]V) map[string]V {
	dst := make(map[string]V, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func cloneSignalMap(src map[string][]models.AuditEntry) map[string][]models.AuditEntry {
	dst := make(map[string][]models.AuditEntry, len(src))
	for k, v := range src {
		entries := make([]models.AuditEntry, len(v))
		copy(entries, v)
		dst[k] = entries
	}
	return dst
}
