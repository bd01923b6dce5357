package cart

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/mmynk/storefront/internal/models"
)

// snapshotLine is the persisted shape of a cart line.
// Price is a pointer so non-finite prices encode as null.
type snapshotLine struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Price *float64 `json:"price"`
	Qty   float64  `json:"qty"`
}

// encodeSnapshot writes lines as a JSON object keyed by product id, keeping
// the given order (encoding/json would sort map keys).
func encodeSnapshot(lines []models.CartLine) (string, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, l := range lines {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(l.ID)
		if err != nil {
			return "", err
		}
		entry := snapshotLine{ID: l.ID, Name: l.Name, Qty: float64(l.Quantity)}
		if !math.IsNaN(l.UnitPrice) && !math.IsInf(l.UnitPrice, 0) {
			p := l.UnitPrice
			entry.Price = &p
		}
		value, err := json.Marshal(entry)
		if err != nil {
			return "", fmt.Errorf("failed to encode line %s: %w", l.ID, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.String(), nil
}

// decodeSnapshot parses a snapshot back into lines in document order.
// A repeated key keeps its first position and its last value. Lines with a
// non-positive, fractional or out-of-range quantity are dropped.
func decodeSnapshot(raw string) ([]models.CartLine, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, errors.New("cart snapshot is not an object")
	}

	var lines []models.CartLine
	var qtys []float64
	index := make(map[string]int)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		id, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected token %v", tok)
		}

		var entry snapshotLine
		if err := dec.Decode(&entry); err != nil {
			return nil, fmt.Errorf("line %s: %w", id, err)
		}

		line := models.CartLine{ID: id, Name: entry.Name}
		if validQty(entry.Qty) {
			line.Quantity = int(entry.Qty)
		}
		if entry.Price != nil {
			line.UnitPrice = *entry.Price
		}

		if i, seen := index[id]; seen {
			lines[i] = line
			qtys[i] = entry.Qty
			continue
		}
		index[id] = len(lines)
		lines = append(lines, line)
		qtys = append(qtys, entry.Qty)
	}

	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("trailing data after cart snapshot")
	}

	valid := lines[:0]
	for i, l := range lines {
		if validQty(qtys[i]) {
			valid = append(valid, l)
		}
	}
	return valid, nil
}

func validQty(q float64) bool {
	return q >= 1 && q <= math.MaxInt32 && q == math.Trunc(q)
}
