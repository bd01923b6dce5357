package cart

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/mmynk/storefront/internal/models"
	"github.com/mmynk/storefront/internal/storage"
	"github.com/mmynk/storefront/internal/storage/memory"
)

func newTestStore(t *testing.T) (*Store, *memory.Store) {
	t.Helper()
	kv := memory.New()
	t.Cleanup(func() { kv.Close() })
	return New(kv, "session-1"), kv
}

func TestAdd(t *testing.T) {
	t.Run("same id twice bumps quantity", func(t *testing.T) {
		s, _ := newTestStore(t)
		s.Add("t1", "Taco al pastor", "25")
		line := s.Add("t1", "Taco al pastor", "25")

		if s.Len() != 1 {
			t.Fatalf("expected 1 line, got %d", s.Len())
		}
		if line.Quantity != 2 {
			t.Errorf("expected quantity 2, got %d", line.Quantity)
		}
	})

	t.Run("later adds keep first name and price", func(t *testing.T) {
		s, _ := newTestStore(t)
		s.Add("t1", "Taco", "25")
		s.Add("t1", "Renamed", "99")

		line, _ := s.Line("t1")
		if line.Name != "Taco" || line.UnitPrice != 25 {
			t.Errorf("line changed on re-add: %+v", line)
		}
	})

	t.Run("malformed price propagates NaN into total", func(t *testing.T) {
		s, _ := newTestStore(t)
		s.Add("t1", "Taco", "25")
		s.Add("x", "Misterio", "veinte")

		if !math.IsNaN(s.Total()) {
			t.Errorf("expected NaN total, got %v", s.Total())
		}
		if s.Count() != 2 {
			t.Errorf("count should be unaffected, got %d", s.Count())
		}
	})
}

func TestDecrementAndRemove(t *testing.T) {
	s, _ := newTestStore(t)
	s.Add("a", "A", "30")

	if !s.Decrement("a") {
		t.Fatal("expected Decrement to find the line")
	}
	if _, ok := s.Line("a"); ok {
		t.Error("quantity-1 line should be removed by Decrement")
	}

	if s.Decrement("missing") {
		t.Error("Decrement on unknown id should report false")
	}
	if s.Increment("missing") {
		t.Error("Increment on unknown id should report false")
	}
	if s.Remove("missing") {
		t.Error("Remove on unknown id should report false")
	}

	s.Add("b", "B", "50")
	s.Add("b", "B", "50")
	s.Remove("b")
	if !s.IsEmpty() {
		t.Error("Remove should delete the line regardless of quantity")
	}
}

func TestApplyIgnoresUnknownAction(t *testing.T) {
	s, _ := newTestStore(t)
	s.Add("a", "A", "30")
	if s.Apply(Action("explode"), "a") {
		t.Error("unknown action should be a no-op")
	}
	if line, _ := s.Line("a"); line.Quantity != 1 {
		t.Errorf("quantity changed: %d", line.Quantity)
	}
}

func TestTotals(t *testing.T) {
	s, _ := newTestStore(t)
	s.Add("A", "A", "30")
	s.Add("A", "A", "30")
	s.Add("B", "B", "50")

	if s.Total() != 110 {
		t.Errorf("Total() = %v, want 110", s.Total())
	}
	if s.Count() != 3 {
		t.Errorf("Count() = %d, want 3", s.Count())
	}

	s.Clear()
	if s.Total() != 0 || s.Count() != 0 || !s.IsEmpty() {
		t.Error("Clear should empty the cart")
	}
}

// TestRandomSequences checks the cart invariants over random operation sequences.
func TestRandomSequences(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	ids := []string{"1", "2", "taco", "agua", "torta"}
	prices := map[string]string{"1": "10", "2": "15", "taco": "25", "agua": "20", "torta": "60"}

	for run := 0; run < 50; run++ {
		s, _ := newTestStore(t)
		for step := 0; step < 200; step++ {
			id := ids[rng.Intn(len(ids))]
			switch rng.Intn(4) {
			case 0:
				s.Add(id, id, prices[id])
			case 1:
				s.Increment(id)
			case 2:
				s.Decrement(id)
			case 3:
				s.Remove(id)
			}

			var total float64
			var count int
			for _, l := range s.Lines() {
				if l.Quantity <= 0 {
					t.Fatalf("run %d step %d: line %s has quantity %d", run, step, l.ID, l.Quantity)
				}
				total += l.Subtotal()
				count += l.Quantity
			}
			if total != s.Total() || count != s.Count() {
				t.Fatalf("run %d step %d: totals drifted", run, step)
			}
		}
	}
}

func TestLinesOrder(t *testing.T) {
	s, _ := newTestStore(t)
	s.Add("torta", "Torta", "60")
	s.Add("10", "Diez", "10")
	s.Add("agua", "Agua", "20")
	s.Add("2", "Dos", "2")
	s.Add("007", "Agente", "7")

	var got []string
	for _, l := range s.Lines() {
		got = append(got, l.ID)
	}
	want := []string{"2", "10", "torta", "agua", "007"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("display order mismatch (-want +got):\n%s", diff)
	}

	s.Remove("torta")
	s.Add("torta", "Torta", "60")
	got = got[:0]
	for _, l := range s.Lines() {
		got = append(got, l.ID)
	}
	want = []string{"2", "10", "agua", "007", "torta"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("re-added id should move to the end (-want +got):\n%s", diff)
	}
}

func TestSaveAndLoad(t *testing.T) {
	ctx := context.Background()

	t.Run("round trip keeps lines and order", func(t *testing.T) {
		s, kv := newTestStore(t)
		s.Add("taco", "Taco al pastor", "25")
		s.Add("taco", "Taco al pastor", "25")
		s.Add("1", "Agua de horchata", "20")
		if err := s.Save(ctx); err != nil {
			t.Fatalf("Save failed: %v", err)
		}

		reloaded := New(kv, "session-1")
		if err := reloaded.Load(ctx); err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if diff := cmp.Diff(s.Lines(), reloaded.Lines()); diff != "" {
			t.Errorf("reloaded cart mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("snapshot uses the documented shape", func(t *testing.T) {
		s, kv := newTestStore(t)
		s.Add("t1", "Taco", "25")
		if err := s.Save(ctx); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
		raw, _, _ := kv.Get(ctx, "session-1", storage.CartKey)
		want := `{"t1":{"id":"t1","name":"Taco","price":25,"qty":1}}`
		if raw != want {
			t.Errorf("snapshot = %s, want %s", raw, want)
		}
	})

	t.Run("NaN price persists as null and reloads as zero", func(t *testing.T) {
		s, kv := newTestStore(t)
		s.Add("x", "Misterio", "abc")
		if err := s.Save(ctx); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
		reloaded := New(kv, "session-1")
		if err := reloaded.Load(ctx); err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if reloaded.Total() != 0 {
			t.Errorf("expected total 0 after reload, got %v", reloaded.Total())
		}
	})

	malformed := map[string]string{
		"garbage":        "not json",
		"array":          `[1,2,3]`,
		"trailing data":  `{} {}`,
		"bad line value": `{"a": 5}`,
	}
	for name, raw := range malformed {
		t.Run("malformed snapshot loads empty: "+name, func(t *testing.T) {
			s, kv := newTestStore(t)
			if err := kv.Set(ctx, "session-1", storage.CartKey, raw); err != nil {
				t.Fatalf("Set failed: %v", err)
			}
			s.Add("stale", "Stale", "1")
			if err := s.Load(ctx); err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if !s.IsEmpty() {
				t.Errorf("expected empty cart, got %+v", s.Lines())
			}
			if _, ok, _ := kv.Get(ctx, "session-1", storage.CartKey); ok {
				t.Error("malformed snapshot should be deleted")
			}
		})
	}

	t.Run("zero, fractional and huge quantities are dropped on load", func(t *testing.T) {
		s, kv := newTestStore(t)
		raw := `{"a":{"id":"a","name":"A","price":10,"qty":0},"b":{"id":"b","name":"B","price":10,"qty":1.5},"c":{"id":"c","name":"C","price":10,"qty":2},"d":{"id":"d","name":"D","price":10,"qty":1e19}}`
		if err := kv.Set(ctx, "session-1", storage.CartKey, raw); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
		if err := s.Load(ctx); err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		want := []models.CartLine{{ID: "c", Name: "C", UnitPrice: 10, Quantity: 2}}
		if diff := cmp.Diff(want, s.Lines()); diff != "" {
			t.Errorf("lines mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("backend error keeps the persisted snapshot", func(t *testing.T) {
		kv := memory.New()
		t.Cleanup(func() { kv.Close() })
		raw := `{"t1":{"id":"t1","name":"Taco","price":25,"qty":2}}`
		if err := kv.Set(ctx, "session-1", storage.CartKey, raw); err != nil {
			t.Fatalf("Set failed: %v", err)
		}

		failing := &failingGets{Store: kv, fail: true}
		s := New(failing, "session-1")
		if err := s.Load(ctx); !errors.Is(err, errBackend) {
			t.Fatalf("expected backend error, got %v", err)
		}
		if got, _, _ := kv.Get(ctx, "session-1", storage.CartKey); got != raw {
			t.Errorf("snapshot after failed load = %s, want %s", got, raw)
		}

		failing.fail = false
		if err := s.Load(ctx); err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if s.Count() != 2 {
			t.Errorf("count after retry = %d, want 2", s.Count())
		}
	})

	t.Run("closed store fails on save", func(t *testing.T) {
		s, kv := newTestStore(t)
		kv.Close()
		if err := s.Load(ctx); err == nil {
			t.Error("expected Load error on closed store")
		}
		if err := s.Save(ctx); err == nil {
			t.Error("expected Save error on closed store")
		}
	})
}

var errBackend = errors.New("backend unavailable")

// failingGets fails every Get while fail is set.
type failingGets struct {
	storage.Store
	fail bool
}

func (f *failingGets) Get(ctx context.Context, sessionID, key string) (string, bool, error) {
	if f.fail {
		return "", false, errBackend
	}
	return f.Store.Get(ctx, sessionID, key)
}
