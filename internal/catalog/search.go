package catalog

import (
	"sync"
	"time"

	"github.com/mmynk/storefront/internal/models"
)

// SearchDelay is the quiet interval after the last keystroke before the
// catalog is filtered again.
const SearchDelay = 140 * time.Millisecond

// Search is the catalog view's filter state: the filter bar, the raw text in
// the search box, and the debounce timer that paces recomputation while the
// shopper types. Category clicks recompute immediately; keystrokes recompute
// once per quiet window with the final text.
type Search struct {
	products  func() []models.Product
	bar       *FilterBar
	debouncer *Debouncer
	onResult  func(Result)

	mu    sync.Mutex
	query string
}

// NewSearch wires a Search to a product source. onResult receives every
// recomputed Result; it runs on the debounce timer's goroutine for typed
// input and on the caller's goroutine otherwise.
func NewSearch(products func() []models.Product, bar *FilterBar, delay time.Duration, onResult func(Result)) *Search {
	if onResult == nil {
		onResult = func(Result) {}
	}
	return &Search{
		products:  products,
		bar:       bar,
		debouncer: NewDebouncer(delay),
		onResult:  onResult,
	}
}

// Input records new search-box text and schedules a recompute.
func (s *Search) Input(query string) {
	s.mu.Lock()
	s.query = query
	s.mu.Unlock()

	s.debouncer.Trigger(func() { s.onResult(s.compute()) })
}

// SelectCategory activates a filter button and recomputes right away using
// whatever text is currently in the search box.
func (s *Search) SelectCategory(token string) Result {
	s.mu.Lock()
	s.bar.Activate(token)
	s.mu.Unlock()

	res := s.compute()
	s.onResult(res)
	return res
}

// Refresh recomputes immediately, e.g. after the catalog was reloaded.
func (s *Search) Refresh() Result {
	res := s.compute()
	s.onResult(res)
	return res
}

// Filter returns the current filter.
func (s *Search) Filter() Filter {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Filter{Category: s.bar.Active(), Query: s.query}
}

// Flush runs a pending recompute now. It reports whether one was pending.
func (s *Search) Flush() bool {
	return s.debouncer.Flush()
}

// Close cancels any pending recompute.
func (s *Search) Close() {
	s.debouncer.Stop()
}

func (s *Search) compute() Result {
	return s.Filter().Apply(s.products())
}
