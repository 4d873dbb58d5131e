package animals

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"testing"
	"time"
)

// -------------------------
// Test store (in-memory)
// -------------------------

var errBoom = errors.New("store: boom")

type testStore struct {
	rows      []RawRecord
	failRead  bool
	failWrite bool
	acquired  int
	released  int
}

func (s *testStore) Acquire(ctx context.Context) (Handle, error) {
	s.acquired++
	return s, nil
}

func (s *testStore) Close() error {
	s.released++
	return nil
}

func (s *testStore) GetAll(ctx context.Context) ([]RawRecord, error) {
	if s.failRead {
		return nil, errBoom
	}
	out := make([]RawRecord, len(s.rows))
	copy(out, s.rows)
	return out, nil
}

func (s *testStore) GetOne(ctx context.Context, id string) (*RawRecord, error) {
	if s.failRead {
		return nil, errBoom
	}
	for _, r := range s.rows {
		if r.ID == id {
			return &r, nil
		}
	}
	return nil, nil
}

func (s *testStore) Insert(ctx context.Context, a NewAnimal) (string, error) {
	if s.failWrite {
		return "", errBoom
	}
	id := fmt.Sprintf("id-%d", len(s.rows)+1)
	s.rows = append(s.rows, RawRecord{
		ID: id, Nom: a.Name, Espece: a.Species, Race: a.Breed, Age: a.Age,
		Description: a.Description, Courriel: a.OwnerEmail, Adresse: a.Address,
		Ville: a.City, CP: a.PostalCode,
	})
	return id, nil
}

func seededStore() *testStore {
	return &testStore{rows: []RawRecord{
		{ID: "1", Nom: "Rex", Espece: "Dog", Race: "Berger", Age: 3, Description: "Gardien", Ville: "Laval"},
		{ID: "2", Nom: "Minou", Espece: "Chat", Race: "Siamois", Age: 2, Description: "Aime les doggies", Ville: "Québec"},
		{ID: "3", Nom: "Coco", Espece: "Oiseau", Race: "Perroquet", Age: 10, Description: "Bavard", Ville: "Montréal"},
		{ID: "4", Nom: "Dogzilla", Espece: "Dog", Race: "Dogue", Age: 5, Description: "Gros dog", Ville: "Dogville"},
	}}
}

func fixedNow() time.Time { return time.Date(2025, 12, 22, 10, 0, 0, 0, time.UTC) }

func newTestService(store *testStore) *Service {
	svc := NewService(store, WithRand(rand.New(rand.NewPCG(1, 2))))
	svc.now = fixedNow
	return svc
}

func ids(items []Animal) []string {
	out := make([]string, 0, len(items))
	for _, a := range items {
		out = append(out, a.ID)
	}
	return out
}

// -------------------------
// Tests
// -------------------------

func TestCatalog_ListAll_PreservesStoreOrder(t *testing.T) {
	svc := newTestService(seededStore())

	got, err := svc.ListAll(context.Background())
	if err != nil {
		t.Fatalf("ListAll error: %v", err)
	}
	if fmt.Sprint(ids(got)) != "[1 2 3 4]" {
		t.Fatalf("unexpected order %v", ids(got))
	}
	if got[0].Name != "Rex" || got[0].Species != "Dog" || got[0].City != "Laval" {
		t.Fatalf("unexpected mapping %#v", got[0])
	}
}

func TestCatalog_Search_EmptyQueryEqualsListAll(t *testing.T) {
	svc := newTestService(seededStore())

	all, _ := svc.ListAll(context.Background())
	for _, q := range []string{"", "   "} {
		got, err := svc.Search(context.Background(), q)
		if err != nil {
			t.Fatalf("Search error: %v", err)
		}
		if fmt.Sprint(ids(got)) != fmt.Sprint(ids(all)) {
			t.Fatalf("query %q: expected %v, got %v", q, ids(all), ids(got))
		}
	}
}

func TestCatalog_Search_CaseInsensitiveAcrossFields_NoDuplicates(t *testing.T) {
	svc := newTestService(seededStore())

	got, err := svc.Search(context.Background(), "  DOG ")
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}
	// 1: species; 2: description ("doggies"); 4: every field matches, once.
	if fmt.Sprint(ids(got)) != "[1 2 4]" {
		t.Fatalf("unexpected results %v", ids(got))
	}
}

func TestCatalog_Search_MatchesCity(t *testing.T) {
	svc := newTestService(seededStore())

	got, err := svc.Search(context.Background(), "montréal")
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}
	if fmt.Sprint(ids(got)) != "[3]" {
		t.Fatalf("unexpected results %v", ids(got))
	}
}

func TestCatalog_Search_NoMatch(t *testing.T) {
	svc := newTestService(seededStore())

	got, err := svc.Search(context.Background(), "lapin")
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}

func TestCatalog_Sample_DistinctAndFromStore(t *testing.T) {
	store := &testStore{}
	for i := 1; i <= 10; i++ {
		store.rows = append(store.rows, RawRecord{ID: fmt.Sprint(i), Nom: fmt.Sprintf("Animal %d", i)})
	}
	svc := newTestService(store)

	for round := 0; round < 20; round++ {
		got, err := svc.Sample(context.Background(), 3)
		if err != nil {
			t.Fatalf("Sample error: %v", err)
		}
		if len(got) != 3 {
			t.Fatalf("expected 3 animals, got %d", len(got))
		}
		seen := map[string]bool{}
		for _, a := range got {
			if seen[a.ID] {
				t.Fatalf("duplicate id %s in %v", a.ID, ids(got))
			}
			seen[a.ID] = true
			if _, err := svc.GetByID(context.Background(), a.ID); err != nil {
				t.Fatalf("sampled id %s not in store", a.ID)
			}
		}
	}
}

func TestCatalog_Sample_CountLargerThanStore(t *testing.T) {
	store := &testStore{rows: []RawRecord{{ID: "a", Nom: "A"}, {ID: "b", Nom: "B"}}}
	svc := newTestService(store)

	got, err := svc.Sample(context.Background(), DefaultSampleSize)
	if err != nil {
		t.Fatalf("Sample error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 animals, got %d", len(got))
	}
	if got[0].ID == got[1].ID {
		t.Fatalf("duplicate ids %v", ids(got))
	}
}

func TestCatalog_Sample_EmptyStoreAndNonPositiveCount(t *testing.T) {
	svc := newTestService(&testStore{})
	got, err := svc.Sample(context.Background(), 5)
	if err != nil || len(got) != 0 {
		t.Fatalf("expected empty sample, got %v err=%v", got, err)
	}

	svc = newTestService(seededStore())
	got, err = svc.Sample(context.Background(), 0)
	if err != nil || len(got) != 0 {
		t.Fatalf("expected empty sample for count 0, got %v err=%v", got, err)
	}
}

func TestCatalog_Sample_DeterministicWithInjectedRand(t *testing.T) {
	a := NewService(seededStore(), WithRand(rand.New(rand.NewPCG(7, 7))))
	b := NewService(seededStore(), WithRand(rand.New(rand.NewPCG(7, 7))))

	ga, _ := a.Sample(context.Background(), 4)
	gb, _ := b.Sample(context.Background(), 4)
	if fmt.Sprint(ids(ga)) != fmt.Sprint(ids(gb)) {
		t.Fatalf("same seed gave %v and %v", ids(ga), ids(gb))
	}
}

func TestCatalog_Sample_Uniform(t *testing.T) {
	store := &testStore{}
	for i := 0; i < 5; i++ {
		store.rows = append(store.rows, RawRecord{ID: fmt.Sprint(i), Nom: "x"})
	}
	svc := newTestService(store)

	const rounds = 5000
	hits := map[string]int{}
	for i := 0; i < rounds; i++ {
		got, _ := svc.Sample(context.Background(), 2)
		for _, a := range got {
			hits[a.ID]++
		}
	}
	// Esperado: 2/5 de las rondas para cada id.
	for id, n := range hits {
		if n < 1700 || n > 2300 {
			t.Fatalf("id %s drawn %d times, expected ~2000", id, n)
		}
	}
}

func TestCatalog_Get_NotFound(t *testing.T) {
	svc := newTestService(seededStore())

	if _, err := svc.GetByID(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := svc.GetByID(context.Background(), " "); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for blank id, got %v", err)
	}
}

func TestCatalog_Get_StampsDateAdded(t *testing.T) {
	created := time.Date(2024, 3, 9, 18, 30, 0, 0, time.UTC)
	store := seededStore()
	store.rows[0].CreatedAt = created
	svc := newTestService(store)

	a, err := svc.GetByID(context.Background(), "1")
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if a.DateAdded != "2024-03-09" {
		t.Fatalf("expected creation date, got %s", a.DateAdded)
	}

	b, _ := svc.GetByID(context.Background(), "2")
	if b.DateAdded != "2025-12-22" {
		t.Fatalf("expected fallback to now, got %s", b.DateAdded)
	}
}

func TestCatalog_Create_ValidInserts(t *testing.T) {
	store := &testStore{}
	svc := newTestService(store)

	sub := validSubmission()
	sub.PostalCode = "h1h1h1"
	id, v, err := svc.Create(context.Background(), sub)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if !v.OK() || id == "" {
		t.Fatalf("expected insert, got id=%q errors=%#v", id, v.Errors)
	}
	if store.rows[0].CP != "H1H1H1" {
		t.Fatalf("expected upper-cased postal code in store, got %q", store.rows[0].CP)
	}
}

func TestCatalog_Create_InvalidDoesNotInsert(t *testing.T) {
	store := &testStore{}
	svc := newTestService(store)

	sub := validSubmission()
	sub.Name = "Al"
	id, v, err := svc.Create(context.Background(), sub)
	if err != nil {
		t.Fatalf("validation must not be an error, got %v", err)
	}
	if v.OK() || id != "" {
		t.Fatalf("expected rejection, got id=%q", id)
	}
	if len(store.rows) != 0 {
		t.Fatalf("store must stay empty, has %d rows", len(store.rows))
	}
}

func TestService_StoreFailures_WrapErrStore_AndRelease(t *testing.T) {
	store := seededStore()
	store.failRead = true
	store.failWrite = true
	svc := newTestService(store)
	ctx := context.Background()

	if _, err := svc.ListAll(ctx); !errors.Is(err, ErrStore) {
		t.Fatalf("ListAll: expected ErrStore, got %v", err)
	}
	if _, err := svc.Search(ctx, "dog"); !errors.Is(err, ErrStore) {
		t.Fatalf("Search: expected ErrStore, got %v", err)
	}
	if _, err := svc.Sample(ctx, 2); !errors.Is(err, ErrStore) {
		t.Fatalf("Sample: expected ErrStore, got %v", err)
	}
	if _, err := svc.GetByID(ctx, "1"); !errors.Is(err, ErrStore) {
		t.Fatalf("GetByID: expected ErrStore, got %v", err)
	}
	if _, _, err := svc.Create(ctx, validSubmission()); !errors.Is(err, ErrStore) {
		t.Fatalf("Create: expected ErrStore, got %v", err)
	}

	if store.acquired != 5 || store.released != 5 {
		t.Fatalf("expected 5 acquire/release pairs, got %d/%d", store.acquired, store.released)
	}
}

type failingProvider struct{}

func (failingProvider) Acquire(ctx context.Context) (Handle, error) { return nil, errBoom }

func TestService_AcquireFailure(t *testing.T) {
	svc := NewService(failingProvider{})
	if _, err := svc.ListAll(context.Background()); !errors.Is(err, ErrStore) {
		t.Fatalf("expected ErrStore, got %v", err)
	}
}

func TestService_WithCatalog_ReleasesOnPanic(t *testing.T) {
	store := seededStore()
	svc := newTestService(store)

	func() {
		defer func() { _ = recover() }()
		_ = svc.WithCatalog(context.Background(), func(c *Catalog) error {
			panic("handler blew up")
		})
	}()

	if store.released != 1 {
		t.Fatalf("expected handle released after panic, got %d", store.released)
	}
}

func TestMapRecord_EmptyInput(t *testing.T) {
	if _, ok := MapRecord(nil, fixedNow()); ok {
		t.Fatalf("expected false for nil")
	}
	if _, ok := MapRecord(&RawRecord{}, fixedNow()); ok {
		t.Fatalf("expected false for empty record")
	}
}

func TestMapRecord_DateAddedInCallerZone(t *testing.T) {
	quebec := time.FixedZone("EDT", -4*60*60)
	now := time.Date(2026, 10, 19, 21, 30, 0, 0, quebec)

	// 21:00 local = 01:00 UTC del día siguiente
	raw := &RawRecord{ID: "1", Nom: "Rex", CreatedAt: time.Date(2026, 10, 20, 1, 0, 0, 0, time.UTC)}

	a, ok := MapRecord(raw, now)
	if !ok {
		t.Fatalf("expected ok")
	}
	if a.DateAdded != "2026-10-19" {
		t.Fatalf("DateAdded = %s, want 2026-10-19", a.DateAdded)
	}

	raw.CreatedAt = time.Time{}
	a, _ = MapRecord(raw, now)
	if a.DateAdded != "2026-10-19" {
		t.Fatalf("fallback DateAdded = %s, want 2026-10-19", a.DateAdded)
	}
}

func TestService_Get_DateAddedUsesServiceClockZone(t *testing.T) {
	quebec := time.FixedZone("EDT", -4*60*60)
	store := seededStore()
	store.rows[0].CreatedAt = time.Date(2026, 10, 20, 1, 0, 0, 0, time.UTC)

	svc := newTestService(store)
	svc.now = func() time.Time { return time.Date(2026, 10, 20, 9, 0, 0, 0, quebec) }

	a, err := svc.GetByID(context.Background(), "1")
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if a.DateAdded != "2026-10-19" {
		t.Fatalf("DateAdded = %s, want 2026-10-19", a.DateAdded)
	}
}

type recordedQuery struct {
	kind    string
	results int
}

type recorder struct {
	queries []recordedQuery
}

func (r *recorder) ObserveQuery(kind string, results int) {
	r.queries = append(r.queries, recordedQuery{kind, results})
}

func (r *recorder) ObserveSubmission(string) {}

func TestService_ObservesEachQueryKindOnce(t *testing.T) {
	rec := &recorder{}
	svc := NewService(seededStore(), WithRecorder(rec), WithRand(rand.New(rand.NewPCG(1, 2))))
	ctx := context.Background()

	if _, err := svc.ListAll(ctx); err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if _, err := svc.Search(ctx, "dog"); err != nil {
		t.Fatalf("Search: %v", err)
	}
	if _, err := svc.Sample(ctx, 2); err != nil {
		t.Fatalf("Sample: %v", err)
	}

	want := []recordedQuery{{"list", 4}, {"search", 3}, {"sample", 2}}
	if len(rec.queries) != len(want) {
		t.Fatalf("queries = %+v, want %+v", rec.queries, want)
	}
	for i := range want {
		if rec.queries[i] != want[i] {
			t.Fatalf("queries[%d] = %+v, want %+v", i, rec.queries[i], want[i])
		}
	}
}

func TestService_ListAll_FailureNotObserved(t *testing.T) {
	rec := &recorder{}
	store := seededStore()
	store.failRead = true
	svc := NewService(store, WithRecorder(rec))

	if _, err := svc.ListAll(context.Background()); !errors.Is(err, ErrStore) {
		t.Fatalf("expected ErrStore, got %v", err)
	}
	if len(rec.queries) != 0 {
		t.Fatalf("failed list must not be observed: %+v", rec.queries)
	}
}
