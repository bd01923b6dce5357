package storefront

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mmynk/storefront/internal/cart"
	"github.com/mmynk/storefront/internal/catalog"
	"github.com/mmynk/storefront/internal/checkout"
	"github.com/mmynk/storefront/internal/render"
	"github.com/mmynk/storefront/internal/storage"
	"github.com/mmynk/storefront/internal/storage/memory"
)

func newTestManager(t *testing.T) (*Manager, *memory.Store, *[]string) {
	t.Helper()
	kv := memory.New()
	t.Cleanup(func() { kv.Close() })

	var (
		mu     sync.Mutex
		opened []string
	)
	m := NewManager(Env{
		Storage:   kv,
		StoreName: "Taquería Los Changos",
		Phone:     "529994552650",
		Opener: checkout.OpenerFunc(func(_ context.Context, url string) {
			mu.Lock()
			opened = append(opened, url)
			mu.Unlock()
		}),
	})
	return m, kv, &opened
}

// do runs fn in the session and fails the test on error.
func do(t *testing.T, m *Manager, id string, fn func(*Session) error) {
	t.Helper()
	if err := m.Do(context.Background(), id, fn); err != nil {
		t.Fatalf("Do failed: %v", err)
	}
}

func TestAddToCart(t *testing.T) {
	m, kv, _ := newTestManager(t)
	ctx := context.Background()

	var st State
	do(t, m, "s1", func(s *Session) error {
		var err error
		if _, err = s.AddToCart(ctx, "taco-pastor"); err != nil {
			return err
		}
		st, err = s.AddToCart(ctx, "taco-pastor")
		return err
	})

	if len(st.Cart.Rows) != 1 || st.Cart.Rows[0].Quantity != 2 {
		t.Fatalf("expected one row with qty 2, got %+v", st.Cart.Rows)
	}
	if st.Cart.Total != "$50" || st.Cart.Count != "2" {
		t.Errorf("totals = %s / %s", st.Cart.Total, st.Cart.Count)
	}
	if st.Announcement.Text != "Taco al pastor agregado al carrito" || st.Announcement.Seq != 2 {
		t.Errorf("announcement = %+v", st.Announcement)
	}

	raw, ok, err := kv.Get(ctx, "s1", storage.CartKey)
	if err != nil || !ok {
		t.Fatalf("cart not persisted: %v", err)
	}
	if !strings.Contains(raw, `"qty":2`) {
		t.Errorf("persisted snapshot %s", raw)
	}

	err = m.Do(ctx, "s1", func(s *Session) error {
		_, err := s.AddToCart(ctx, "no-such-thing")
		return err
	})
	if !errors.Is(err, ErrUnknownProduct) {
		t.Errorf("expected ErrUnknownProduct, got %v", err)
	}
}

func TestCartAction(t *testing.T) {
	m, _, _ := newTestManager(t)
	ctx := context.Background()

	do(t, m, "s1", func(s *Session) error {
		if _, err := s.AddToCart(ctx, "flan"); err != nil {
			return err
		}

		st, err := s.CartAction(ctx, cart.ActionIncrement, "flan")
		if err != nil {
			return err
		}
		if st.Cart.Rows[0].Quantity != 2 {
			t.Errorf("after inc qty = %d", st.Cart.Rows[0].Quantity)
		}

		st, err = s.CartAction(ctx, cart.ActionDecrement, "flan")
		if err != nil {
			return err
		}
		st, err = s.CartAction(ctx, cart.ActionDecrement, "flan")
		if err != nil {
			return err
		}
		if !st.Cart.Empty || st.Cart.Placeholder != render.EmptyCartMessage {
			t.Errorf("decrement to zero should empty the cart, got %+v", st.Cart)
		}

		// Nothing rendered for this id any more.
		st, err = s.CartAction(ctx, cart.ActionIncrement, "flan")
		if err != nil {
			return err
		}
		if !st.Cart.Empty {
			t.Error("stale control must not recreate the line")
		}
		return nil
	})

	err := m.Do(ctx, "s1", func(s *Session) error {
		_, err := s.CartAction(ctx, cart.Action("explode"), "flan")
		return err
	})
	if !errors.Is(err, ErrUnknownAction) {
		t.Errorf("expected ErrUnknownAction, got %v", err)
	}
}

func TestClearCart(t *testing.T) {
	m, kv, _ := newTestManager(t)
	ctx := context.Background()

	do(t, m, "s1", func(s *Session) error {
		res, err := s.ClearCart(ctx, false)
		if err != nil {
			return err
		}
		if res.Prompt != "" || res.Cleared {
			t.Errorf("empty cart should need no confirmation, got %+v", res)
		}

		if _, err := s.AddToCart(ctx, "agua-jamaica"); err != nil {
			return err
		}

		res, err = s.ClearCart(ctx, false)
		if err != nil {
			return err
		}
		if res.Prompt != ClearPrompt || res.Cleared || res.State.Cart.Empty {
			t.Errorf("unconfirmed clear must only prompt, got %+v", res)
		}

		res, err = s.ClearCart(ctx, true)
		if err != nil {
			return err
		}
		if !res.Cleared || !res.State.Cart.Empty || res.State.Cart.Placeholder != render.EmptyCartMessage {
			t.Errorf("confirmed clear should render the placeholder, got %+v", res)
		}
		return nil
	})

	raw, _, err := kv.Get(ctx, "s1", storage.CartKey)
	if err != nil {
		t.Fatal(err)
	}
	if raw != "{}" {
		t.Errorf("persisted cart after clear = %s, want {}", raw)
	}

	m.Evict(time.Now().Add(time.Hour))
	do(t, m, "s1", func(s *Session) error {
		st, err := s.State(ctx)
		if !st.Cart.Empty {
			t.Error("reloaded cart should be empty")
		}
		return err
	})
}

func TestFilterCatalog(t *testing.T) {
	m, _, _ := newTestManager(t)

	do(t, m, "s1", func(s *Session) error {
		fs := s.FilterCatalog("bebidas", "")
		if len(fs.Result.Visible) != 2 {
			t.Errorf("expected 2 drinks, got %d", len(fs.Result.Visible))
		}
		var active []string
		for _, b := range fs.Buttons {
			if b.Active {
				active = append(active, b.Token)
			}
		}
		if len(active) != 1 || active[0] != "bebidas" {
			t.Errorf("active buttons = %v", active)
		}

		// Empty category keeps the active button.
		fs = s.FilterCatalog("", "horchata")
		if len(fs.Result.Visible) != 1 || fs.Result.Visible[0].ID != "agua-horchata" {
			t.Errorf("unexpected result %+v", fs.Result.Visible)
		}

		fs = s.FilterCatalog(catalog.All, "tacos arabe")
		if len(fs.Result.Visible) != 1 || fs.Result.Visible[0].ID != "taco-arabe" {
			t.Errorf("accent-insensitive search failed: %+v", fs.Result.Visible)
		}

		fs = s.FilterCatalog("postres", "pastor")
		if !fs.Result.Empty {
			t.Error("expected empty results")
		}
		return nil
	})
}

func TestCheckout(t *testing.T) {
	ctx := context.Background()

	t.Run("empty cart alerts and opens nothing", func(t *testing.T) {
		m, _, opened := newTestManager(t)
		do(t, m, "s1", func(s *Session) error {
			res, err := s.Checkout(ctx, checkout.Request{Name: "Ana"})
			if res.Outcome != checkout.OutcomeEmptyCart || res.Alert != checkout.EmptyCartAlert {
				t.Errorf("unexpected result %+v", res)
			}
			return err
		})
		if len(*opened) != 0 {
			t.Errorf("opened %v", *opened)
		}
	})

	t.Run("valid order remembers the name", func(t *testing.T) {
		m, _, opened := newTestManager(t)
		do(t, m, "s1", func(s *Session) error {
			if _, err := s.AddToCart(ctx, "taco-pastor"); err != nil {
				return err
			}
			if _, err := s.AddToCart(ctx, "taco-pastor"); err != nil {
				return err
			}
			res, err := s.Checkout(ctx, checkout.Request{Name: "Ana", UserAgent: "Windows"})
			if err != nil {
				return err
			}
			if !strings.Contains(res.Message, "• Taco al pastor × 2 — $50") || !strings.Contains(res.Message, "$50") {
				t.Errorf("unexpected message:\n%s", res.Message)
			}
			if !strings.HasPrefix(res.URL, "https://web.whatsapp.com/send?phone=529994552650&text=") {
				t.Errorf("unexpected URL %s", res.URL)
			}
			return nil
		})
		if len(*opened) != 1 {
			t.Errorf("expected one opened link, got %d", len(*opened))
		}

		m.Evict(time.Now().Add(time.Hour))
		do(t, m, "s1", func(s *Session) error {
			st, err := s.State(ctx)
			if st.CustomerName != "Ana" {
				t.Errorf("rehydrated name = %q, want Ana", st.CustomerName)
			}
			if len(st.Cart.Rows) != 1 {
				t.Errorf("reloaded cart rows = %d", len(st.Cart.Rows))
			}
			return err
		})
	})
}

func TestManagerSerializesSessions(t *testing.T) {
	m, _, _ := newTestManager(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = m.Do(ctx, "shared", func(s *Session) error {
				_, err := s.AddToCart(ctx, "flan")
				return err
			})
		}()
	}
	wg.Wait()

	do(t, m, "shared", func(s *Session) error {
		st, err := s.State(ctx)
		if st.Cart.Count != "20" {
			t.Errorf("count = %s, want 20", st.Cart.Count)
		}
		return err
	})
}

func TestManagerEvict(t *testing.T) {
	m, _, _ := newTestManager(t)
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		do(t, m, fmt.Sprintf("s%d", i), func(*Session) error { return nil })
	}
	now = now.Add(time.Hour)
	do(t, m, "s0", func(*Session) error { return nil })

	if n := m.Evict(now.Add(-30 * time.Minute)); n != 2 {
		t.Errorf("evicted %d, want 2", n)
	}
	if m.Len() != 1 {
		t.Errorf("Len = %d, want 1", m.Len())
	}

	_ = m.Do(ctx, "s0", func(*Session) error {
		if n := m.Evict(now.Add(time.Hour)); n != 0 {
			t.Errorf("in-use session evicted")
		}
		return nil
	})
}

// contextStore fails reads once the request context is done, like the
// network backends do.
type contextStore struct {
	storage.Store
}

func (c contextStore) Get(ctx context.Context, sessionID, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	return c.Store.Get(ctx, sessionID, key)
}

func TestManagerRetriesFailedLoad(t *testing.T) {
	kv := memory.New()
	t.Cleanup(func() { kv.Close() })
	raw := `{"taco-pastor":{"id":"taco-pastor","name":"Taco al pastor","price":25,"qty":2}}`
	if err := kv.Set(context.Background(), "s1", storage.CartKey, raw); err != nil {
		t.Fatal(err)
	}
	m := NewManager(Env{Storage: contextStore{kv}})

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	called := false
	err := m.Do(cancelled, "s1", func(*Session) error {
		called = true
		return nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if called {
		t.Error("fn must not run when the session failed to load")
	}

	do(t, m, "s1", func(s *Session) error {
		st, err := s.State(context.Background())
		if st.Cart.Count != "2" {
			t.Errorf("count after retry = %s, want 2", st.Cart.Count)
		}
		return err
	})
	if got, _, _ := kv.Get(context.Background(), "s1", storage.CartKey); got != raw {
		t.Errorf("persisted cart = %s, want %s", got, raw)
	}
}
