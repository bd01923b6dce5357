package cart

import (
	"errors"
	"math"
	"math/big"
	"strconv"
	"strings"
)

// ParsePrice coerces a raw catalog price the way a browser's Number() does:
// surrounding whitespace is ignored, the empty string is 0, unsigned 0x, 0o
// and 0b literals are read in their base, decimals too large for a float64
// become ±Inf, and anything else that is not a plain decimal number is NaN.
// No further validation happens, so a NaN price flows into every total that
// includes it.
func ParsePrice(raw string) float64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0
	}
	switch s {
	case "Infinity", "+Infinity":
		return math.Inf(1)
	case "-Infinity":
		return math.Inf(-1)
	}
	if v, ok := parseRadix(s); ok {
		return v
	}
	// strconv accepts spellings Number() rejects.
	if strings.ContainsAny(s, "_xXnNpP") {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return v
		}
		return math.NaN()
	}
	return v
}

// parseRadix handles unsigned integer literals like "0x1A", "0o17" and
// "0b101". Values beyond float64 range become +Inf.
func parseRadix(s string) (float64, bool) {
	if len(s) < 3 || s[0] != '0' {
		return 0, false
	}
	var base int
	switch s[1] {
	case 'x', 'X':
		base = 16
	case 'o', 'O':
		base = 8
	case 'b', 'B':
		base = 2
	default:
		return 0, false
	}
	digits := s[2:]
	if strings.ContainsAny(digits, "+-_") {
		return 0, false
	}
	n, ok := new(big.Int).SetString(digits, base)
	if !ok {
		return 0, false
	}
	v, _ := new(big.Float).SetInt(n).Float64()
	return v, true
}
