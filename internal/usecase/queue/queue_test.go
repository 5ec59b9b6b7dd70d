package queue

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/BruksfildServices01/walkin-queue/internal/audit"
	domain "github.com/BruksfildServices01/walkin-queue/internal/domain/queue"
	"github.com/BruksfildServices01/walkin-queue/internal/httperr"
	"github.com/BruksfildServices01/walkin-queue/internal/models"
)

// --------------------------------------------------
// Test doubles
// --------------------------------------------------

type noopSink struct{}

func (noopSink) Log(actorID *uint, action, entity, entityID string, metadata any) error {
	return nil
}

type countingBus struct {
	mu        sync.Mutex
	published int
}

func (b *countingBus) Publish(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.published++
	return nil
}

func (b *countingBus) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.published
}

// memRepo is an in-memory repository honoring the atomic admission and
// conditional transition contracts under a single mutex.
type memRepo struct {
	mu       sync.Mutex
	services map[uint]models.Service
	entries  map[string]models.QueueEntry
	nextID   int
	clock    time.Time
}

func newMemRepo(services ...models.Service) *memRepo {
	r := &memRepo{
		services: make(map[uint]models.Service),
		entries:  make(map[string]models.QueueEntry),
		clock:    time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC),
	}
	for _, s := range services {
		r.services[s.ID] = s
	}
	return r
}

func (r *memRepo) GetService(ctx context.Context, serviceID uint) (*models.Service, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.services[serviceID]
	if !ok {
		return nil, httperr.ErrBusiness(httperr.CodeServiceNotFound)
	}
	out := s
	return &out, nil
}

func (r *memRepo) CreateEntry(ctx context.Context, entry *models.QueueEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	active := 0
	for _, e := range r.entries {
		if !domain.IsActive(domain.Status(e.Status)) {
			continue
		}
		if e.CustomerID == entry.CustomerID {
			return httperr.ErrBusiness(httperr.CodeAlreadyQueued)
		}
		active++
	}

	r.nextID++
	r.clock = r.clock.Add(time.Second)

	entry.ID = fmt.Sprintf("entry-%04d", r.nextID)
	entry.SequenceNumber = active + 1
	entry.JoinedAt = r.clock
	entry.Status = string(domain.StatusWaiting)

	r.entries[entry.ID] = *entry
	return nil
}

func (r *memRepo) GetEntry(ctx context.Context, entryID string) (*models.QueueEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[entryID]
	if !ok {
		return nil, httperr.ErrBusiness(httperr.CodeEntryNotFound)
	}
	out := e
	return &out, nil
}

func (r *memRepo) UpdateStatus(
	ctx context.Context,
	entryID string,
	from domain.Status,
	to domain.Status,
	at time.Time,
) (*models.QueueEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[entryID]
	if !ok {
		return nil, httperr.ErrBusiness(httperr.CodeEntryNotFound)
	}
	if domain.Status(e.Status) != from {
		return nil, httperr.ErrBusiness(httperr.CodeStaleEntry)
	}

	e.Status = string(to)
	switch to {
	case domain.StatusInService:
		e.StartedAt = &at
	case domain.StatusCompleted:
		e.CompletedAt = &at
	case domain.StatusRemoved:
		e.RemovedAt = &at
	}

	r.entries[entryID] = e
	out := e
	return &out, nil
}

func (r *memRepo) ActiveEntries(ctx context.Context) ([]models.QueueEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []models.QueueEntry
	for _, e := range r.entries {
		if domain.IsActive(domain.Status(e.Status)) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].JoinedAt.Equal(out[j].JoinedAt) {
			return out[i].JoinedAt.Before(out[j].JoinedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *memRepo) ActiveEntryFor(ctx context.Context, customerID uint) (*models.QueueEntry, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.entries {
		if e.CustomerID == customerID && domain.IsActive(domain.Status(e.Status)) {
			out := e
			return &out, true, nil
		}
	}
	return nil, false, nil
}

var _ domain.Repository = (*memRepo)(nil)

// staleReadRepo serves GetEntry from a snapshot taken at construction,
// simulating two staff clients that both read the entry before either
// writes. Everything else delegates to the wrapped repository.
type staleReadRepo struct {
	domain.Repository
	snapshot models.QueueEntry
}

func (r *staleReadRepo) GetEntry(ctx context.Context, entryID string) (*models.QueueEntry, error) {
	out := r.snapshot
	return &out, nil
}

func testServices() []models.Service {
	return []models.Service{
		{ID: 1, Name: "Haircut", DurationMin: 30, Price: 25, Active: true},
		{ID: 2, Name: "Shave", DurationMin: 15, Price: 12, Active: true},
		{ID: 3, Name: "Retired Perm", DurationMin: 90, Price: 60, Active: false},
	}
}

func newDispatcher() *audit.Dispatcher {
	return audit.NewDispatcher(noopSink{})
}

// --------------------------------------------------
// Join
// --------------------------------------------------

func TestJoinCreatesWaitingEntry(t *testing.T) {
	repo := newMemRepo(testServices()...)
	changes := &countingBus{}
	uc := NewJoinQueue(repo, newDispatcher(), changes)

	entry, err := uc.Execute(context.Background(), JoinInput{
		CustomerID:    7,
		CustomerName:  "Ana",
		ContactHandle: "+55 11 99999-0000",
		ServiceID:     1,
	})
	if err != nil {
		t.Fatalf("join: %v", err)
	}

	if entry.ID == "" {
		t.Fatal("entry id must be assigned")
	}
	if entry.Status != string(domain.StatusWaiting) {
		t.Fatalf("status=%q, want waiting", entry.Status)
	}
	if entry.SequenceNumber != 1 {
		t.Fatalf("sequence=%d, want 1", entry.SequenceNumber)
	}
	if entry.ServiceName != "Haircut" || entry.ServiceDurationMin != 30 {
		t.Fatalf("service fields not denormalized: %+v", entry)
	}
	if changes.count() != 1 {
		t.Fatalf("published=%d, want 1", changes.count())
	}
}

func TestJoinUnknownService(t *testing.T) {
	uc := NewJoinQueue(newMemRepo(testServices()...), newDispatcher(), &countingBus{})

	_, err := uc.Execute(context.Background(), JoinInput{CustomerID: 7, ServiceID: 99})
	if !httperr.IsBusiness(err, httperr.CodeServiceNotFound) {
		t.Fatalf("err=%v, want service_not_found", err)
	}
}

func TestJoinInactiveService(t *testing.T) {
	uc := NewJoinQueue(newMemRepo(testServices()...), newDispatcher(), &countingBus{})

	_, err := uc.Execute(context.Background(), JoinInput{CustomerID: 7, ServiceID: 3})
	if !httperr.IsBusiness(err, httperr.CodeServiceNotFound) {
		t.Fatalf("err=%v, want service_not_found", err)
	}
}

func TestJoinDoubleSubmit(t *testing.T) {
	repo := newMemRepo(testServices()...)
	uc := NewJoinQueue(repo, newDispatcher(), &countingBus{})

	in := JoinInput{CustomerID: 7, CustomerName: "Ana", ServiceID: 1}

	if _, err := uc.Execute(context.Background(), in); err != nil {
		t.Fatalf("first join: %v", err)
	}
	if _, err := uc.Execute(context.Background(), in); !httperr.IsBusiness(err, httperr.CodeAlreadyQueued) {
		t.Fatalf("second join err=%v, want already_queued", err)
	}

	entries, _ := repo.ActiveEntries(context.Background())
	if len(entries) != 1 {
		t.Fatalf("active entries=%d, want 1", len(entries))
	}
}

func TestJoinConcurrentSameCustomer(t *testing.T) {
	repo := newMemRepo(testServices()...)
	uc := NewJoinQueue(repo, newDispatcher(), &countingBus{})

	const n = 16

	var wg sync.WaitGroup
	results := make(chan error, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.Execute(context.Background(), JoinInput{
				CustomerID: 7, CustomerName: "Ana", ServiceID: 1,
			})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	successes, rejected := 0, 0
	for err := range results {
		switch {
		case err == nil:
			successes++
		case httperr.IsBusiness(err, httperr.CodeAlreadyQueued):
			rejected++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if successes != 1 || rejected != n-1 {
		t.Fatalf("successes=%d rejected=%d, want 1 and %d", successes, rejected, n-1)
	}
}

func TestJoinAssignsDistinctJoinTimes(t *testing.T) {
	repo := newMemRepo(testServices()...)
	uc := NewJoinQueue(repo, newDispatcher(), &countingBus{})

	for customer := uint(1); customer <= 5; customer++ {
		if _, err := uc.Execute(context.Background(), JoinInput{
			CustomerID: customer, ServiceID: 2,
		}); err != nil {
			t.Fatalf("join customer %d: %v", customer, err)
		}
	}

	entries, _ := repo.ActiveEntries(context.Background())
	seen := make(map[int64]bool)
	for _, e := range entries {
		if seen[e.JoinedAt.UnixNano()] {
			t.Fatal("two entries share a joined_at value")
		}
		seen[e.JoinedAt.UnixNano()] = true
	}

	for i, e := range entries {
		if e.SequenceNumber != i+1 {
			t.Fatalf("sequence of rank %d is %d", i+1, e.SequenceNumber)
		}
	}
}

// --------------------------------------------------
// Transition
// --------------------------------------------------

func joinOne(t *testing.T, repo *memRepo, customerID uint) *models.QueueEntry {
	t.Helper()
	uc := NewJoinQueue(repo, newDispatcher(), &countingBus{})
	entry, err := uc.Execute(context.Background(), JoinInput{
		CustomerID: customerID, ServiceID: 1,
	})
	if err != nil {
		t.Fatalf("join: %v", err)
	}
	return entry
}

func TestTransitionLifecycle(t *testing.T) {
	repo := newMemRepo(testServices()...)
	entry := joinOne(t, repo, 7)
	uc := NewTransitionEntry(repo, newDispatcher(), &countingBus{})

	started, err := uc.Execute(context.Background(), TransitionInput{
		EntryID: entry.ID, Action: domain.ActionStart, ActorID: 1, ActorRole: domain.RoleStaff,
	})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if started.Status != string(domain.StatusInService) || started.StartedAt == nil {
		t.Fatalf("after start: %+v", started)
	}

	completed, err := uc.Execute(context.Background(), TransitionInput{
		EntryID: entry.ID, Action: domain.ActionComplete, ActorID: 1, ActorRole: domain.RoleOwner,
	})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if completed.Status != string(domain.StatusCompleted) || completed.CompletedAt == nil {
		t.Fatalf("after complete: %+v", completed)
	}

	entries, _ := repo.ActiveEntries(context.Background())
	if len(entries) != 0 {
		t.Fatal("completed entry must leave the active set")
	}
}

func TestTransitionCompleteOnWaitingFails(t *testing.T) {
	repo := newMemRepo(testServices()...)
	entry := joinOne(t, repo, 7)
	uc := NewTransitionEntry(repo, newDispatcher(), &countingBus{})

	_, err := uc.Execute(context.Background(), TransitionInput{
		EntryID: entry.ID, Action: domain.ActionComplete, ActorID: 1, ActorRole: domain.RoleStaff,
	})
	if !httperr.IsBusiness(err, httperr.CodeIllegalTransition) {
		t.Fatalf("err=%v, want illegal_transition", err)
	}
}

func TestTransitionNoWayBack(t *testing.T) {
	repo := newMemRepo(testServices()...)
	entry := joinOne(t, repo, 7)
	uc := NewTransitionEntry(repo, newDispatcher(), &countingBus{})

	if _, err := uc.Execute(context.Background(), TransitionInput{
		EntryID: entry.ID, Action: domain.ActionRemove, ActorID: 1, ActorRole: domain.RoleStaff,
	}); err != nil {
		t.Fatalf("remove: %v", err)
	}

	for _, action := range []domain.Action{domain.ActionStart, domain.ActionComplete, domain.ActionRemove} {
		_, err := uc.Execute(context.Background(), TransitionInput{
			EntryID: entry.ID, Action: action, ActorID: 1, ActorRole: domain.RoleStaff,
		})
		if !httperr.IsBusiness(err, httperr.CodeIllegalTransition) {
			t.Fatalf("action %q after remove err=%v, want illegal_transition", action, err)
		}
	}
}

func TestTransitionUnauthorizedRole(t *testing.T) {
	repo := newMemRepo(testServices()...)
	entry := joinOne(t, repo, 7)
	uc := NewTransitionEntry(repo, newDispatcher(), &countingBus{})

	_, err := uc.Execute(context.Background(), TransitionInput{
		EntryID: entry.ID, Action: domain.ActionStart, ActorID: 7, ActorRole: domain.RoleCustomer,
	})
	if !httperr.IsBusiness(err, httperr.CodeUnauthorized) {
		t.Fatalf("err=%v, want unauthorized", err)
	}
}

func TestTransitionUnknownEntry(t *testing.T) {
	repo := newMemRepo(testServices()...)
	uc := NewTransitionEntry(repo, newDispatcher(), &countingBus{})

	_, err := uc.Execute(context.Background(), TransitionInput{
		EntryID: "missing", Action: domain.ActionStart, ActorID: 1, ActorRole: domain.RoleStaff,
	})
	if !httperr.IsBusiness(err, httperr.CodeEntryNotFound) {
		t.Fatalf("err=%v, want entry_not_found", err)
	}
}

// Two staff sessions race to start the same waiting entry. Both read it
// as waiting; the conditional update lets exactly one through and the
// other gets stale_entry.
func TestTransitionConcurrentStart(t *testing.T) {
	repo := newMemRepo(testServices()...)
	entry := joinOne(t, repo, 7)

	stale := &staleReadRepo{Repository: repo, snapshot: *entry}
	uc := NewTransitionEntry(stale, newDispatcher(), &countingBus{})

	var wg sync.WaitGroup
	results := make(chan error, 2)

	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.Execute(context.Background(), TransitionInput{
				EntryID: entry.ID, Action: domain.ActionStart, ActorID: 1, ActorRole: domain.RoleStaff,
			})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	successes, staleLosses := 0, 0
	for err := range results {
		switch {
		case err == nil:
			successes++
		case httperr.IsBusiness(err, httperr.CodeStaleEntry):
			staleLosses++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if successes != 1 || staleLosses != 1 {
		t.Fatalf("successes=%d stale=%d, want 1 and 1", successes, staleLosses)
	}

	got, err := repo.GetEntry(context.Background(), entry.ID)
	if err != nil {
		t.Fatalf("get entry: %v", err)
	}
	if got.Status != string(domain.StatusInService) {
		t.Fatalf("final status=%q, want in_service", got.Status)
	}
}
