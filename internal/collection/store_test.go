package collection

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staffdesk/staffdesk/internal/models"
	"github.com/staffdesk/staffdesk/internal/query"
)

// fakeRemote implements Remote[models.Client] with overridable behavior per
// call. Unset funcs succeed with zero values.
type fakeRemote struct {
	createFn  func(ctx context.Context, fields models.Client) (models.Client, error)
	getByIDFn func(ctx context.Context, id string) (models.Client, error)
	getAllFn  func(ctx context.Context, q query.Query) ([]models.Client, error)
	getPageFn func(ctx context.Context, q query.Query, cursor string, pageSize int) (Page[models.Client], error)
	updateFn  func(ctx context.Context, id string, doc models.Client) (models.Client, error)
	deleteFn  func(ctx context.Context, id string) error

	mu        sync.Mutex
	pageCalls int
}

func (f *fakeRemote) Create(ctx context.Context, fields models.Client) (models.Client, error) {
	if f.createFn != nil {
		return f.createFn(ctx, fields)
	}
	return fields, nil
}

func (f *fakeRemote) GetByID(ctx context.Context, id string) (models.Client, error) {
	if f.getByIDFn != nil {
		return f.getByIDFn(ctx, id)
	}
	return models.Client{}, ErrNotFound
}

func (f *fakeRemote) GetAll(ctx context.Context, q query.Query) ([]models.Client, error) {
	if f.getAllFn != nil {
		return f.getAllFn(ctx, q)
	}
	return nil, nil
}

func (f *fakeRemote) GetPage(ctx context.Context, q query.Query, cursor string, pageSize int) (Page[models.Client], error) {
	f.mu.Lock()
	f.pageCalls++
	f.mu.Unlock()
	if f.getPageFn != nil {
		return f.getPageFn(ctx, q, cursor, pageSize)
	}
	return Page[models.Client]{}, nil
}

func (f *fakeRemote) Update(ctx context.Context, id string, doc models.Client) (models.Client, error) {
	if f.updateFn != nil {
		return f.updateFn(ctx, id, doc)
	}
	return doc, nil
}

func (f *fakeRemote) Delete(ctx context.Context, id string) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return nil
}

func (f *fakeRemote) pageCallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pageCalls
}

func client(id, name string) models.Client {
	return models.Client{
		Meta:   models.Meta{ID: id, CreatedAt: time.Unix(1700000000, 0), UpdatedAt: time.Unix(1700000000, 0)},
		Name:   name,
		Email:  name + "@corp.io",
		Status: models.ClientActive,
	}
}

// seed loads the store with the given items through a refresh.
func seed(t *testing.T, s *Store[models.Client], fake *fakeRemote, items ...models.Client) {
	t.Helper()
	fake.getAllFn = func(context.Context, query.Query) ([]models.Client, error) {
		return items, nil
	}
	require.NoError(t, s.Refresh(context.Background(), query.New()))
	fake.getAllFn = nil
}

func ids(items []models.Client) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func TestCreate_OptimisticVisibility(t *testing.T) {
	ctx := context.Background()
	fake := &fakeRemote{}
	s := New[models.Client](fake, nil)
	seed(t, s, fake, client("a1", "Acme"))

	gate := make(chan struct{})
	fake.createFn = func(_ context.Context, fields models.Client) (models.Client, error) {
		<-gate
		return fields.WithMeta(models.Meta{ID: "srv-1"}), nil
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, err := s.Create(ctx, models.Client{Name: "Bob", Email: "bob@corp.io"})
		assert.NoError(t, err)
	}()

	// before settlement: exactly one more item, temp id, submitted fields
	require.Eventually(t, func() bool {
		return len(s.State().Items) == 2
	}, time.Second, time.Millisecond)

	st := s.State()
	assert.True(t, IsTempID(st.Items[0].ID))
	assert.Equal(t, "Bob", st.Items[0].Name)
	assert.Equal(t, "bob@corp.io", st.Items[0].Email)
	assert.Equal(t, "a1", st.Items[1].ID)
	assert.Equal(t, 1, st.Pending)

	close(gate)
	<-done

	// after settlement: confirmed id in the same position, no temp leftovers
	st = s.State()
	require.Len(t, st.Items, 2)
	assert.Equal(t, []string{"srv-1", "a1"}, ids(st.Items))
	assert.Equal(t, 0, st.Pending)
	assert.NoError(t, st.Err)
}

func TestCreate_RollbackOnFailure(t *testing.T) {
	ctx := context.Background()
	fake := &fakeRemote{}
	s := New[models.Client](fake, nil)
	seed(t, s, fake, client("a1", "Acme"), client("a2", "Globex"))

	before := s.State().Items
	boom := fmt.Errorf("%w: quota exceeded", ErrRemoteWrite)
	fake.createFn = func(context.Context, models.Client) (models.Client, error) {
		return models.Client{}, boom
	}

	_, err := s.Create(ctx, models.Client{Name: "Bob", Email: "bob@corp.io"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRemoteWrite)

	st := s.State()
	assert.Equal(t, before, st.Items)
	assert.ErrorIs(t, st.Err, ErrRemoteWrite)
}

func TestCreate_ConcurrentCreatesMatchedByTempID(t *testing.T) {
	// two simultaneous creates with identical fields must not be conflated
	ctx := context.Background()
	fake := &fakeRemote{}
	s := New[models.Client](fake, nil)

	gate := make(chan struct{})
	var mu sync.Mutex
	n := 0
	fake.createFn = func(_ context.Context, fields models.Client) (models.Client, error) {
		<-gate
		mu.Lock()
		n++
		id := fmt.Sprintf("srv-%d", n)
		mu.Unlock()
		return fields.WithMeta(models.Meta{ID: id}), nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Create(ctx, models.Client{Name: "Twin", Email: "twin@corp.io"})
			assert.NoError(t, err)
		}()
	}

	require.Eventually(t, func() bool {
		return len(s.State().Items) == 2
	}, time.Second, time.Millisecond)

	st := s.State()
	assert.NotEqual(t, st.Items[0].ID, st.Items[1].ID, "each create holds its own temp id")

	close(gate)
	wg.Wait()

	st = s.State()
	require.Len(t, st.Items, 2)
	for _, it := range st.Items {
		assert.False(t, IsTempID(it.ID))
	}
	assert.NotEqual(t, st.Items[0].ID, st.Items[1].ID)
}

func TestUpdate_OptimisticThenConfirmed(t *testing.T) {
	ctx := context.Background()
	fake := &fakeRemote{}
	s := New[models.Client](fake, nil)
	seed(t, s, fake, client("a1", "Acme"))

	gate := make(chan struct{})
	fake.updateFn = func(_ context.Context, id string, doc models.Client) (models.Client, error) {
		<-gate
		doc.UpdatedAt = time.Unix(1800000000, 0) // server canonical timestamp
		return doc, nil
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, err := s.Update(ctx, "a1", func(c models.Client) models.Client {
			c.Name = "Acme Inc"
			return c
		})
		assert.NoError(t, err)
	}()

	require.Eventually(t, func() bool {
		return s.State().Items[0].Name == "Acme Inc"
	}, time.Second, time.Millisecond)
	assert.Equal(t, "a1", s.State().Items[0].ID, "id survives the patch")

	close(gate)
	<-done

	st := s.State()
	assert.Equal(t, "Acme Inc", st.Items[0].Name)
	assert.Equal(t, time.Unix(1800000000, 0), st.Items[0].UpdatedAt)
	assert.NoError(t, st.Err)
}

func TestUpdate_RollbackIsTotal(t *testing.T) {
	// failing an update of one field restores every field
	ctx := context.Background()
	fake := &fakeRemote{}
	s := New[models.Client](fake, nil)

	orig := client("a1", "Acme")
	orig.Company = "Acme Holdings"
	orig.Phone = "+1-555-0100"
	seed(t, s, fake, orig)

	boom := fmt.Errorf("%w: write rejected", ErrRemoteWrite)
	fake.updateFn = func(context.Context, string, models.Client) (models.Client, error) {
		return models.Client{}, boom
	}

	_, err := s.Update(ctx, "a1", func(c models.Client) models.Client {
		c.Name = "Acme Inc"
		c.Company = "mangled"
		return c
	})
	require.ErrorIs(t, err, ErrRemoteWrite)

	st := s.State()
	require.Len(t, st.Items, 1)
	assert.Equal(t, orig, st.Items[0], "every field matches the pre-mutation snapshot")
	assert.ErrorIs(t, st.Err, ErrRemoteWrite)
}

func TestUpdate_ExampleScenario(t *testing.T) {
	// collection: {id a1, name Acme, status active}; update name; remote rejects
	ctx := context.Background()
	fake := &fakeRemote{}
	s := New[models.Client](fake, nil)
	acme := client("a1", "Acme")
	seed(t, s, fake, acme)

	rejection := fmt.Errorf("%w: permission denied", ErrRemoteWrite)
	fake.updateFn = func(context.Context, string, models.Client) (models.Client, error) {
		return models.Client{}, rejection
	}

	_, err := s.Update(ctx, "a1", func(c models.Client) models.Client {
		c.Name = "Acme Inc"
		return c
	})
	require.Error(t, err)

	st := s.State()
	assert.Equal(t, "Acme", st.Items[0].Name)
	assert.Equal(t, models.ClientActive, st.Items[0].Status)
	assert.ErrorIs(t, st.Err, ErrRemoteWrite)
}

func TestUpdate_MissingRecord(t *testing.T) {
	fake := &fakeRemote{}
	s := New[models.Client](fake, nil)

	_, err := s.Update(context.Background(), "nope", func(c models.Client) models.Client { return c })
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDelete_RollbackRestoresPosition(t *testing.T) {
	ctx := context.Background()
	fake := &fakeRemote{}
	s := New[models.Client](fake, nil)
	seed(t, s, fake,
		client("a1", "Acme"),
		client("a2", "Globex"),
		client("a3", "Initech"),
		client("a4", "Umbrella"),
	)

	fake.deleteFn = func(context.Context, string) error {
		return fmt.Errorf("%w: backend down", ErrRemoteWrite)
	}

	err := s.Delete(ctx, "a2") // index 1
	require.ErrorIs(t, err, ErrRemoteWrite)

	st := s.State()
	assert.Equal(t, []string{"a1", "a2", "a3", "a4"}, ids(st.Items), "order identical to before the failed delete")
	assert.ErrorIs(t, st.Err, ErrRemoteWrite)
}

func TestDelete_OptimisticRemoval(t *testing.T) {
	ctx := context.Background()
	fake := &fakeRemote{}
	s := New[models.Client](fake, nil)
	seed(t, s, fake, client("a1", "Acme"), client("a2", "Globex"))

	gate := make(chan struct{})
	fake.deleteFn = func(context.Context, string) error {
		<-gate
		return nil
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		assert.NoError(t, s.Delete(ctx, "a1"))
	}()

	require.Eventually(t, func() bool {
		return len(s.State().Items) == 1
	}, time.Second, time.Millisecond)
	assert.Equal(t, []string{"a2"}, ids(s.State().Items))

	close(gate)
	<-done
	assert.Equal(t, []string{"a2"}, ids(s.State().Items))
}

func TestFailure_DoesNotDisturbOtherRecords(t *testing.T) {
	ctx := context.Background()
	fake := &fakeRemote{}
	s := New[models.Client](fake, nil)

	globex := client("a2", "Globex")
	globex.Company = "Globex Corp"
	seed(t, s, fake, client("a1", "Acme"), globex, client("a3", "Initech"))

	fake.updateFn = func(context.Context, string, models.Client) (models.Client, error) {
		return models.Client{}, fmt.Errorf("%w: nope", ErrRemoteWrite)
	}

	_, err := s.Update(ctx, "a1", func(c models.Client) models.Client {
		c.Name = "changed"
		return c
	})
	require.Error(t, err)

	st := s.State()
	assert.Equal(t, []string{"a1", "a2", "a3"}, ids(st.Items))
	assert.Equal(t, globex, st.Items[1], "unrelated record untouched by the failure")
}

func TestRefresh_FailureLeavesItemsUntouched(t *testing.T) {
	ctx := context.Background()
	fake := &fakeRemote{}
	s := New[models.Client](fake, nil)
	seed(t, s, fake, client("a1", "Acme"))

	fake.getAllFn = func(context.Context, query.Query) ([]models.Client, error) {
		return nil, fmt.Errorf("%w: offline", ErrRemoteWrite)
	}

	err := s.Refresh(ctx, query.New())
	require.Error(t, err)

	st := s.State()
	assert.Equal(t, []string{"a1"}, ids(st.Items))
	assert.ErrorIs(t, st.Err, ErrRemoteWrite)
	assert.False(t, st.Loading)
}

func TestRefresh_ClearsErrorOnSuccess(t *testing.T) {
	ctx := context.Background()
	fake := &fakeRemote{}
	s := New[models.Client](fake, nil)
	seed(t, s, fake, client("a1", "Acme"))

	fake.deleteFn = func(context.Context, string) error {
		return fmt.Errorf("%w: down", ErrRemoteWrite)
	}
	require.Error(t, s.Delete(ctx, "a1"))
	require.Error(t, s.State().Err)

	seed(t, s, fake, client("a1", "Acme"))
	assert.NoError(t, s.State().Err)
}

func TestPagination_AppendOnlyHeadStable(t *testing.T) {
	ctx := context.Background()
	fake := &fakeRemote{}
	s := New[models.Client](fake, nil)

	pages := map[string]Page[models.Client]{
		"": {
			Items:      []models.Client{client("a1", "Acme"), client("a2", "Globex")},
			NextCursor: "cur-1",
			HasMore:    true,
		},
		"cur-1": {
			Items:      []models.Client{client("a3", "Initech")},
			NextCursor: "",
			HasMore:    false,
		},
	}
	fake.getPageFn = func(_ context.Context, _ query.Query, cursor string, _ int) (Page[models.Client], error) {
		return pages[cursor], nil
	}

	require.NoError(t, s.Refresh(ctx, query.New().WithPageSize(2)))
	st := s.State()
	require.Equal(t, []string{"a1", "a2"}, ids(st.Items))
	require.True(t, st.HasMore)

	require.NoError(t, s.LoadMore(ctx))
	st = s.State()
	assert.Equal(t, []string{"a1", "a2", "a3"}, ids(st.Items), "head unchanged, page appended to the tail")
	assert.False(t, st.HasMore)
}

func TestLoadMore_NoopWhenExhausted(t *testing.T) {
	ctx := context.Background()
	fake := &fakeRemote{}
	s := New[models.Client](fake, nil)
	seed(t, s, fake, client("a1", "Acme"))

	before := s.State()
	calls := fake.pageCallCount()

	require.NoError(t, s.LoadMore(ctx))

	after := s.State()
	assert.Equal(t, before.Items, after.Items)
	assert.Equal(t, before.HasMore, after.HasMore)
	assert.Equal(t, calls, fake.pageCallCount(), "no remote call for a no-op loadMore")
}

func TestLoadMore_NoopWhileLoadInFlight(t *testing.T) {
	ctx := context.Background()
	fake := &fakeRemote{}
	s := New[models.Client](fake, nil)

	gate := make(chan struct{})
	fake.getPageFn = func(_ context.Context, _ query.Query, cursor string, _ int) (Page[models.Client], error) {
		if cursor == "" {
			return Page[models.Client]{Items: []models.Client{client("a1", "Acme")}, NextCursor: "cur-1", HasMore: true}, nil
		}
		<-gate
		return Page[models.Client]{Items: []models.Client{client("a2", "Globex")}}, nil
	}
	require.NoError(t, s.Refresh(ctx, query.New().WithPageSize(1)))
	calls := fake.pageCallCount()

	done := make(chan struct{})
	go func() {
		defer close(done)
		assert.NoError(t, s.LoadMore(ctx))
	}()
	require.Eventually(t, func() bool { return s.State().Loading }, time.Second, time.Millisecond)

	// duplicate trigger while the first load runs: returns immediately
	require.NoError(t, s.LoadMore(ctx))
	assert.Equal(t, calls+1, fake.pageCallCount())

	close(gate)
	<-done
	assert.Equal(t, []string{"a1", "a2"}, ids(s.State().Items))
}

func TestValidation_FailsFastWithoutTouchingItems(t *testing.T) {
	ctx := context.Background()
	fake := &fakeRemote{}
	remoteCalled := false
	fake.createFn = func(_ context.Context, fields models.Client) (models.Client, error) {
		remoteCalled = true
		return fields, nil
	}
	s := New[models.Client](fake, nil)
	seed(t, s, fake, client("a1", "Acme"))

	_, err := s.Create(ctx, models.Client{Email: "no-name@corp.io"})
	assert.ErrorIs(t, err, ErrValidation)
	assert.ErrorIs(t, err, models.ErrNameRequired)
	assert.False(t, remoteCalled)

	st := s.State()
	assert.Equal(t, []string{"a1"}, ids(st.Items))
	assert.NoError(t, st.Err, "validation failures do not land in the error slot")
}

func TestMutation_TempIDRejected(t *testing.T) {
	fake := &fakeRemote{}
	s := New[models.Client](fake, nil)

	_, err := s.Update(context.Background(), TempIDPrefix+"x", func(c models.Client) models.Client { return c })
	assert.ErrorIs(t, err, ErrValidation)

	assert.ErrorIs(t, s.Delete(context.Background(), TempIDPrefix+"x"), ErrValidation)
}

func TestClose_SettlementDoesNotMutateTornDownStore(t *testing.T) {
	ctx := context.Background()
	fake := &fakeRemote{}
	s := New[models.Client](fake, nil)
	seed(t, s, fake, client("a1", "Acme"))

	gate := make(chan struct{})
	fake.deleteFn = func(context.Context, string) error {
		<-gate
		return fmt.Errorf("%w: too late", ErrRemoteWrite)
	}

	done := make(chan error, 1)
	go func() { done <- s.Delete(ctx, "a1") }()
	require.Eventually(t, func() bool {
		return len(s.State().Items) == 0
	}, time.Second, time.Millisecond)

	s.Close()
	close(gate)

	err := <-done
	require.Error(t, err, "the caller still observes the settlement")

	// no rollback was written into the closed store
	st := s.State()
	assert.Empty(t, st.Items)
	assert.NoError(t, st.Err)
}

func TestClosedStore_RejectsOperations(t *testing.T) {
	s := New[models.Client](&fakeRemote{}, nil)
	s.Close()

	_, err := s.Create(context.Background(), models.Client{Name: "x", Email: "x@y"})
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, s.Refresh(context.Background(), query.New()), ErrClosed)
	assert.ErrorIs(t, s.LoadMore(context.Background()), ErrClosed)
}

func TestSubscribe_SignalsOnChange(t *testing.T) {
	ctx := context.Background()
	fake := &fakeRemote{}
	s := New[models.Client](fake, nil)

	ch, cancel := s.Subscribe()
	defer cancel()

	_, err := s.Create(ctx, models.Client{Name: "Bob", Email: "bob@corp.io"})
	require.NoError(t, err)

	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("expected a change signal after create")
	}
}

func TestConcurrentUpdates_DifferentIDsNoLostSettlements(t *testing.T) {
	ctx := context.Background()
	fake := &fakeRemote{}
	s := New[models.Client](fake, nil)
	seed(t, s, fake, client("a1", "Acme"), client("a2", "Globex"))

	gate := make(chan struct{})
	fake.updateFn = func(_ context.Context, id string, doc models.Client) (models.Client, error) {
		<-gate
		return doc, nil
	}

	var wg sync.WaitGroup
	for _, id := range []string{"a1", "a2"} {
		id := id
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Update(ctx, id, func(c models.Client) models.Client {
				c.Name = c.Name + " LLC"
				return c
			})
			assert.NoError(t, err)
		}()
	}

	require.Eventually(t, func() bool { return s.State().Pending == 2 }, time.Second, time.Millisecond)
	close(gate)
	wg.Wait()

	st := s.State()
	assert.Equal(t, "Acme LLC", st.Items[0].Name)
	assert.Equal(t, "Globex LLC", st.Items[1].Name)
}

func TestGet_PrefersLocalThenRemote(t *testing.T) {
	ctx := context.Background()
	fake := &fakeRemote{}
	s := New[models.Client](fake, nil)
	seed(t, s, fake, client("a1", "Acme"))

	got, err := s.Get(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, "Acme", got.Name)

	fake.getByIDFn = func(_ context.Context, id string) (models.Client, error) {
		if id == "b9" {
			return client("b9", "Remote Only"), nil
		}
		return models.Client{}, ErrNotFound
	}

	got, err = s.Get(ctx, "b9")
	require.NoError(t, err)
	assert.Equal(t, "Remote Only", got.Name)

	_, err = s.Get(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreate_NeverSettlesKeepsOptimisticRow(t *testing.T) {
	// empty collection; the remote call never settles inside the test window
	ctx := context.Background()
	fake := &fakeRemote{}
	gate := make(chan struct{})
	t.Cleanup(func() { close(gate) })
	fake.createFn = func(_ context.Context, fields models.Client) (models.Client, error) {
		<-gate
		return fields, errors.New("unreached")
	}
	s := New[models.Client](fake, nil)

	go func() { _, _ = s.Create(ctx, models.Client{Name: "Bob", Email: "bob@corp.io"}) }()

	require.Eventually(t, func() bool {
		return len(s.State().Items) == 1
	}, time.Second, time.Millisecond)
	assert.True(t, IsTempID(s.State().Items[0].ID))
}

func TestLoadMore_StalePageDiscardedAfterRefresh(t *testing.T) {
	ctx := context.Background()
	fake := &fakeRemote{}
	s := New[models.Client](fake, nil)

	gate := make(chan struct{})
	fake.getPageFn = func(_ context.Context, _ query.Query, cursor string, _ int) (Page[models.Client], error) {
		if cursor == "" {
			return Page[models.Client]{
				Items:      []models.Client{client("a1", "Acme"), client("a2", "Globex")},
				NextCursor: "cur-1",
				HasMore:    true,
			}, nil
		}
		<-gate
		return Page[models.Client]{Items: []models.Client{client("a3", "Initech")}}, nil
	}
	require.NoError(t, s.Refresh(ctx, query.New().WithPageSize(2)))

	done := make(chan error, 1)
	go func() { done <- s.LoadMore(ctx) }()
	require.Eventually(t, func() bool { return s.State().Loading }, time.Second, time.Millisecond)

	// a full refresh commits while the next page is still in flight
	fake.getAllFn = func(context.Context, query.Query) ([]models.Client, error) {
		return []models.Client{client("a1", "Acme"), client("a2", "Globex"), client("a3", "Initech")}, nil
	}
	require.NoError(t, s.Refresh(ctx, query.New()))

	close(gate)
	require.NoError(t, <-done)

	st := s.State()
	assert.Equal(t, []string{"a1", "a2", "a3"}, ids(st.Items), "refresh result stays authoritative")
	seen := map[string]int{}
	for _, id := range ids(st.Items) {
		seen[id]++
		assert.LessOrEqual(t, seen[id], 1, "at most one record per id")
	}
	assert.False(t, st.HasMore, "the stale page must not resurrect pagination state")

	calls := fake.pageCallCount()
	require.NoError(t, s.LoadMore(ctx))
	assert.Equal(t, calls, fake.pageCallCount(), "exhausted after the refresh, nothing left to fetch")
}

func TestClose_InFlightLoadDoesNotTouchLoadingFlag(t *testing.T) {
	ctx := context.Background()
	fake := &fakeRemote{}
	s := New[models.Client](fake, nil)

	gate := make(chan struct{})
	fake.getAllFn = func(context.Context, query.Query) ([]models.Client, error) {
		<-gate
		return []models.Client{client("a1", "Acme")}, nil
	}

	done := make(chan error, 1)
	go func() { done <- s.Refresh(ctx, query.New()) }()
	require.Eventually(t, func() bool { return s.State().Loading }, time.Second, time.Millisecond)

	s.Close()
	close(gate)
	<-done

	st := s.State()
	assert.True(t, st.Loading, "settlement after teardown leaves every state field alone")
	assert.Empty(t, st.Items)
}

func TestSubscribe_ChannelClosedOnTeardown(t *testing.T) {
	s := New[models.Client](&fakeRemote{}, nil)

	ch, cancel := s.Subscribe()
	s.Close()

	select {
	case _, ok := <-ch:
		assert.False(t, ok, "closing the store ends the subscription")
	case <-time.After(time.Second):
		t.Fatal("subscriber channel still open after Close")
	}

	cancel() // already unregistered, must be a safe no-op
}

func TestSubscribe_CancelClosesChannel(t *testing.T) {
	s := New[models.Client](&fakeRemote{}, nil)
	defer s.Close()

	ch, cancel := s.Subscribe()
	cancel()

	_, ok := <-ch
	assert.False(t, ok)
}
