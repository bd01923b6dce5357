package catalog

import "strings"

// Button is one category filter button.
type Button struct {
	Token  string `json:"token"`
	Label  string `json:"label"`
	Active bool   `json:"active"`
}

// FilterBar holds the category buttons. Exactly one button is active at a time.
type FilterBar struct {
	buttons []Button
}

// NewFilterBar builds a bar with an "all" button followed by the given
// categories, with "all" active.
func NewFilterBar(categories []Category) *FilterBar {
	fb := &FilterBar{buttons: []Button{{Token: All, Label: "Todo", Active: true}}}
	for _, c := range categories {
		token := strings.ToLower(strings.TrimSpace(c.Token))
		if token == "" || token == All {
			continue
		}
		fb.buttons = append(fb.buttons, Button{Token: token, Label: c.Label})
	}
	return fb
}

// Activate makes the button with the given token the only active one and
// returns the active filter token. Buttons without a token, or tokens the bar
// does not know, activate "all".
func (fb *FilterBar) Activate(token string) string {
	token = strings.ToLower(strings.TrimSpace(token))
	target := 0
	for i, b := range fb.buttons {
		if b.Token == token {
			target = i
			break
		}
	}
	for i := range fb.buttons {
		fb.buttons[i].Active = i == target
	}
	return fb.buttons[target].Token
}

// Active returns the active filter token.
func (fb *FilterBar) Active() string {
	for _, b := range fb.buttons {
		if b.Active {
			return b.Token
		}
	}
	return All
}

// Buttons returns a copy of the buttons in display order.
func (fb *FilterBar) Buttons() []Button {
	out := make([]Button, len(fb.buttons))
	copy(out, fb.buttons)
	return out
}
