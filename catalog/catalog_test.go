package catalog

import (
	"context"
	"errors"
	"testing"

	"licorera-pos/model"
)

type fakeFetcher struct {
	products []model.Product
	err      error
	calls    int
}

func (f *fakeFetcher) FetchProducts(_ context.Context, _ string) ([]model.Product, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.products, nil
}

type memStore struct {
	saved   []model.Product
	loadErr error
}

func (s *memStore) Save(_ context.Context, products []model.Product) error {
	s.saved = append([]model.Product(nil), products...)
	return nil
}

func (s *memStore) Load(_ context.Context) ([]model.Product, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return s.saved, nil
}

func TestRefreshReplacesWholesale(t *testing.T) {
	f := &fakeFetcher{products: []model.Product{
		{ID: 1, Name: "Poker 330ml", Price: 3000, Stock: 24},
		{ID: 2, Name: "Club Colombia 330ml", Price: 3500, Stock: 12},
	}}
	c := New(f)

	if err := c.Refresh(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Len() != 2 {
		t.Fatalf("expected 2 products, got %d", c.Len())
	}

	// second fetch returns a completely different list; nothing is merged
	f.products = []model.Product{{ID: 9, Name: "Corona 355ml", Price: 6000, Stock: 6}}
	if err := c.Refresh(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Len() != 1 {
		t.Fatalf("refresh must replace, not merge; got %d products", c.Len())
	}
	if _, ok := c.Get(1); ok {
		t.Fatalf("old product survived a refresh")
	}
}

func TestRefreshFailureKeepsStaleCatalog(t *testing.T) {
	f := &fakeFetcher{products: []model.Product{{ID: 1, Name: "Poker 330ml", Price: 3000, Stock: 24}}}
	c := New(f)
	if err := c.Refresh(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f.err = errors.New("backend down")
	if err := c.Refresh(context.Background()); err == nil {
		t.Fatalf("expected refresh error")
	}
	if c.Len() != 1 {
		t.Fatalf("failed refresh must keep the last good catalog")
	}
	if p, ok := c.Get(1); !ok || p.Price != 3000 {
		t.Fatalf("stale product lost: %+v ok=%v", p, ok)
	}
}

func TestGet(t *testing.T) {
	f := &fakeFetcher{products: []model.Product{{ID: 7, Name: "Old Parr 750ml", Price: 145000, Stock: 3}}}
	c := New(f)
	c.Refresh(context.Background())

	if _, ok := c.Get(99); ok {
		t.Fatalf("expected miss for unknown id")
	}
	p, ok := c.Get(7)
	if !ok || p.Name != "Old Parr 750ml" {
		t.Fatalf("unexpected product: %+v ok=%v", p, ok)
	}
}

func TestSearch(t *testing.T) {
	f := &fakeFetcher{products: []model.Product{
		{ID: 1, Name: "Ron Medellín Añejo 750ml"},
		{ID: 2, Name: "Ron Viejo de Caldas 375ml"},
		{ID: 3, Name: "Aguardiente Antioqueño 750ml"},
	}}
	c := New(f)
	c.Refresh(context.Background())

	tests := []struct {
		q    string
		want int
	}{
		{"", 3},
		{"  ", 3},
		{"ron", 2},
		{"RON", 2},
		{"750", 2},
		{"tequila", 0},
	}
	for _, tt := range tests {
		if got := len(c.Search(tt.q)); got != tt.want {
			t.Errorf("Search(%q) = %d results, want %d", tt.q, got, tt.want)
		}
	}
}

func TestProductsReturnsCopy(t *testing.T) {
	f := &fakeFetcher{products: []model.Product{{ID: 1, Name: "Poker 330ml", Stock: 5}}}
	c := New(f)
	c.Refresh(context.Background())

	list := c.Products()
	list[0].Stock = 999

	if p, _ := c.Get(1); p.Stock != 5 {
		t.Fatalf("Products leaked internal state")
	}
}

func TestSnapshotSaveAndRestore(t *testing.T) {
	store := &memStore{}
	f := &fakeFetcher{products: []model.Product{{ID: 1, Name: "Poker 330ml", Price: 3000, Stock: 24}}}

	c := New(f, WithStore(store))
	if err := c.Refresh(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.saved) != 1 {
		t.Fatalf("refresh must snapshot to the store, got %d", len(store.saved))
	}

	// a fresh cache with a dead backend restores from the snapshot
	dead := &fakeFetcher{err: errors.New("backend down")}
	restored := New(dead, WithStore(store))
	if err := restored.RestoreFromStore(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if restored.Len() != 1 {
		t.Fatalf("expected restored catalog, got %d products", restored.Len())
	}
}

func TestRestoreDoesNotOverwriteLiveCatalog(t *testing.T) {
	store := &memStore{saved: []model.Product{{ID: 9, Name: "stale"}}}
	f := &fakeFetcher{products: []model.Product{{ID: 1, Name: "Poker 330ml"}}}

	c := New(f, WithStore(store))
	c.Refresh(context.Background())
	if err := c.RestoreFromStore(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := c.Get(9); ok {
		t.Fatalf("restore overwrote a live catalog")
	}
}
