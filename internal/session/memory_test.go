package session

import "testing"

func TestMemoryStoreRoundTrip(t *testing.T) {
	s := NewMemoryStore[string](4)

	id := NewID()
	s.Put(id, "hello")

	got, err := s.Get(id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "hello" {
		t.Errorf("expected hello, got %q", got)
	}

	s.Remove(id)
	if _, err := s.Get(id); err != ErrNotFound {
		t.Errorf("expected ErrNotFound after remove, got %v", err)
	}
}

func TestMemoryStoreEviction(t *testing.T) {
	s := NewMemoryStore[int](2)

	s.Put("a", 1)
	s.Put("b", 2)
	s.Put("c", 3) // evicts a

	if _, err := s.Get("a"); err != ErrNotFound {
		t.Errorf("expected oldest session evicted, got %v", err)
	}
	if s.Len() != 2 {
		t.Errorf("expected len 2, got %d", s.Len())
	}
}

func TestNewIDUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewID()
		if len(id) != 26 {
			t.Fatalf("unexpected id length %d for %q", len(id), id)
		}
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
	}
}
