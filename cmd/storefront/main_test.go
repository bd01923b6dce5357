package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/mmynk/storefront/internal/catalog"
)

func TestParseItem(t *testing.T) {
	tests := []struct {
		arg     string
		id      string
		qty     int
		wantErr bool
	}{
		{"taco-pastor", "taco-pastor", 1, false},
		{"taco-pastor=3", "taco-pastor", 3, false},
		{"flan=0", "", 0, true},
		{"flan=dos", "", 0, true},
	}
	for _, tt := range tests {
		id, qty, err := parseItem(tt.arg)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseItem(%q) error = %v", tt.arg, err)
			continue
		}
		if id != tt.id || qty != tt.qty {
			t.Errorf("parseItem(%q) = %s, %d", tt.arg, id, qty)
		}
	}
}

func TestBrowse(t *testing.T) {
	var out bytes.Buffer
	in := strings.NewReader("/bebidas\nhor\nhorch\nhorchata\n/postres\n")

	if err := browse(in, &out, catalog.Default()); err != nil {
		t.Fatalf("browse failed: %v", err)
	}

	got := out.String()
	if !strings.Contains(got, "agua-horchata") {
		t.Errorf("expected horchata in output:\n%s", got)
	}
	if !strings.Contains(got, "Sin resultados.") {
		t.Errorf("postres + horchata should be empty:\n%s", got)
	}
	if strings.Count(got, "agua-jamaica") != 2 {
		t.Errorf("jamaica should show in the full list and under bebidas only:\n%s", got)
	}
}
