// Package formatting converts byte counts to and from human-readable sizes.
package formatting

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// units are base-1024 size suffixes in ascending order.
var units = []string{"B", "KB", "MB", "GB", "TB", "PB", "EB"}

// multipliers maps accepted suffixes, upper-cased, to their power of 1024.
// SI-style (KB) and IEC-style (KiB) suffixes are synonyms.
var multipliers = map[string]int{
	"":  0,
	"B": 0,
	"K": 1, "KB": 1, "KIB": 1,
	"M": 2, "MB": 2, "MIB": 2,
	"G": 3, "GB": 3, "GIB": 3,
	"T": 4, "TB": 4, "TIB": 4,
	"P": 5, "PB": 5, "PIB": 5,
	"E": 6, "EB": 6, "EIB": 6,
}

// FormatBytes renders n using the largest base-1024 unit that keeps the
// value at or above one, with precision decimal places.
func FormatBytes(n int64, precision int) string {
	if n == 0 {
		return "0 B"
	}
	precision = max(precision, 0)

	f := float64(n)
	i := min(int(math.Log(math.Abs(f))/math.Log(1024)), len(units)-1)
	size := f / math.Pow(1024, float64(i))

	return strconv.FormatFloat(size, 'f', precision, 64) + " " + units[i]
}

// ParseBytes parses a size such as "64KB", "1.5 MiB", or "4096" into bytes.
// Suffixes are case-insensitive and a bare number is bytes.
func ParseBytes(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty byte size")
	}

	split := strings.IndexFunc(s, func(r rune) bool {
		return !unicode.IsDigit(r) && r != '.'
	})
	num, suffix := s, ""
	if split >= 0 {
		num, suffix = s[:split], strings.TrimSpace(s[split:])
	}
	if num == "" {
		return 0, fmt.Errorf("invalid byte size %q", s)
	}

	value, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid byte size %q: %w", s, err)
	}

	pow, ok := multipliers[strings.ToUpper(suffix)]
	if !ok {
		return 0, fmt.Errorf("unknown byte size unit %q", suffix)
	}

	return int64(value * math.Pow(1024, float64(pow))), nil
}
