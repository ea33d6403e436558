package hierarchy

import (
	"context"
	"sort"
	"sync"

	"scaffale/internal/domain"
	"scaffale/internal/ports"
)

type fakeRepo struct {
	mu      sync.Mutex
	rows    map[string]domain.StorageLocation
	fail    error
	deleted [][]string
}

func newFakeRepo(rows ...domain.StorageLocation) *fakeRepo {
	r := &fakeRepo{rows: make(map[string]domain.StorageLocation)}
	for _, row := range rows {
		r.rows[row.ID] = row
	}
	return r
}

func (r *fakeRepo) Insert(_ context.Context, loc domain.StorageLocation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return r.fail
	}
	r.rows[loc.ID] = loc.Clone()
	return nil
}

func (r *fakeRepo) Update(_ context.Context, loc domain.StorageLocation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return r.fail
	}
	if _, ok := r.rows[loc.ID]; !ok {
		return domain.NewLocationError(domain.LocationNotFound, loc.ID, "")
	}
	r.rows[loc.ID] = loc.Clone()
	return nil
}

func (r *fakeRepo) Delete(_ context.Context, ids ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return r.fail
	}
	for _, id := range ids {
		delete(r.rows, id)
	}
	r.deleted = append(r.deleted, ids)
	return nil
}

func (r *fakeRepo) Get(_ context.Context, id string) (*domain.StorageLocation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	loc, ok := r.rows[id]
	if !ok {
		return nil, domain.NewLocationError(domain.LocationNotFound, id, "")
	}
	return &loc, nil
}

func (r *fakeRepo) List(_ context.Context) ([]domain.StorageLocation, ports.ListReport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.StorageLocation, 0, len(r.rows))
	for _, loc := range r.rows {
		out = append(out, loc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, ports.ListReport{Decoded: len(out)}, nil
}

type fakeItems struct {
	active  map[string]int
	cleared []string
}

func (f *fakeItems) CountActiveIn(_ context.Context, ids []string) (int, error) {
	n := 0
	for _, id := range ids {
		n += f.active[id]
	}
	return n, nil
}

func (f *fakeItems) ClearLocation(_ context.Context, ids []string) (int, error) {
	f.cleared = append(f.cleared, ids...)
	return 0, nil
}

type fakeTx struct {
	calls int
}

func (f *fakeTx) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	return fn(ctx)
}

type recorder struct {
	renamed []string
	moved   []string
	removed [][]string
}

func (r *recorder) OnLocationRenamed(id, oldName, newName string) {
	r.renamed = append(r.renamed, id+":"+oldName+"->"+newName)
}

func (r *recorder) OnLocationMoved(id string, oldParent, newParent *string) {
	r.moved = append(r.moved, id+":"+deref(oldParent)+"->"+deref(newParent))
}

func (r *recorder) OnLocationRemoved(ids []string) {
	r.removed = append(r.removed, ids)
}

func deref(s *string) string {
	if s == nil {
		return "<root>"
	}
	return *s
}
