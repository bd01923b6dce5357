package checkout

import (
	"context"
	"log/slog"

	"github.com/mmynk/storefront/internal/models"
	"github.com/mmynk/storefront/internal/money"
	"github.com/mmynk/storefront/internal/order"
)

// Opener hands a deep link to the outside world. It is fire-and-forget:
// nothing is awaited and no result comes back.
type Opener interface {
	Open(ctx context.Context, url string)
}

// OpenerFunc adapts a function to Opener.
type OpenerFunc func(ctx context.Context, url string)

func (f OpenerFunc) Open(ctx context.Context, url string) { f(ctx, url) }

// LogOpener records issued links; the page opens them itself.
var LogOpener = OpenerFunc(func(ctx context.Context, url string) {
	slog.InfoContext(ctx, "Order link issued", "url_length", len(url))
})

// Outcome is how a checkout attempt ended.
type Outcome string

const (
	OutcomeSent         Outcome = "sent"
	OutcomeNameRequired Outcome = "name_required"
	OutcomeEmptyCart    Outcome = "empty_cart"
)

// Request is the checkout form plus the client's User-Agent.
type Request struct {
	SessionID string
	Name      string
	Mode      string
	Notes     string
	UserAgent string
}

// Result describes what the page should show after a checkout attempt.
type Result struct {
	Outcome   Outcome
	NameField FieldState
	// Alert is a blocking message, set for an empty cart.
	Alert   string
	Message string
	URL     string
	Client  order.ClientClass
}

// Err maps an aborted outcome to its sentinel error, nil when sent.
func (r Result) Err() error {
	switch r.Outcome {
	case OutcomeNameRequired:
		return ErrNameRequired
	case OutcomeEmptyCart:
		return ErrEmptyCart
	}
	return nil
}

// Flow runs checkout: name gate, remember name, empty-cart gate, build
// message and link, open the link.
type Flow struct {
	StoreName string
	// Phone is the destination number, digits only.
	Phone     string
	Formatter *money.Formatter
	Policy    order.LinkPolicy
	Names     *NameStore
	Opener    Opener
}

// Run executes the flow for the given cart lines. A returned error means the
// name could not be persisted; gate failures are reported in Result.
func (f *Flow) Run(ctx context.Context, lines []models.CartLine, req Request) (Result, error) {
	name, field := ValidateName(req.Name)
	if field.Invalid {
		return Result{Outcome: OutcomeNameRequired, NameField: field}, nil
	}

	if err := f.Names.Save(ctx, req.SessionID, name); err != nil {
		return Result{}, err
	}

	res := Result{NameField: field}
	if countUnits(lines) == 0 {
		res.Outcome = OutcomeEmptyCart
		res.Alert = EmptyCartAlert
		return res, nil
	}

	draft := order.NewDraft(lines, name, req.Mode, req.Notes)
	res.Message = order.BuildMessage(draft, f.StoreName, f.Formatter)
	res.Client = order.DetectClientClass(req.UserAgent)

	policy := f.Policy
	if policy == nil {
		policy = order.DefaultLinkPolicy
	}
	res.URL = policy.URL(res.Client, f.Phone, res.Message)
	res.Outcome = OutcomeSent

	opener := f.Opener
	if opener == nil {
		opener = LogOpener
	}
	opener.Open(ctx, res.URL)
	return res, nil
}

func countUnits(lines []models.CartLine) int {
	var n int
	for _, l := range lines {
		n += l.Quantity
	}
	return n
}
