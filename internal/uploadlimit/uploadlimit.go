// Package uploadlimit derives the effective upload size ceiling from
// host-style size strings and renders byte counts for error messages.
package uploadlimit

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

var units = "bkmgtpezy"

// ParseSize converts a size string such as "8M", "512k" or "1.5G" into
// bytes. A bare number is taken as bytes. Unknown trailing characters are
// ignored the way PHP's ini parser ignores them.
func ParseSize(size string) (int64, error) {
	trimmed := strings.TrimSpace(size)
	if trimmed == "" {
		return 0, fmt.Errorf("uploadlimit: empty size")
	}

	var digits strings.Builder
	unit := byte(0)
	for i := 0; i < len(trimmed); i++ {
		c := trimmed[i]
		switch {
		case c >= '0' && c <= '9', c == '.':
			digits.WriteByte(c)
		default:
			lower := c | 0x20
			if unit == 0 && strings.IndexByte(units, lower) >= 0 {
				unit = lower
			}
		}
	}
	if digits.Len() == 0 {
		return 0, fmt.Errorf("uploadlimit: no digits in size %q", size)
	}

	value, err := strconv.ParseFloat(digits.String(), 64)
	if err != nil {
		return 0, fmt.Errorf("uploadlimit: parse size %q: %w", size, err)
	}

	if unit != 0 {
		power := strings.IndexByte(units, unit)
		value *= math.Pow(1024, float64(power))
	}
	return int64(math.Round(value)), nil
}

// Ceiling combines the post body limit and the per-file upload limit into the
// effective ceiling: the post limit applies first, and a smaller non-zero
// upload limit reduces it. Zero means "no limit".
func Ceiling(postMax, uploadMax int64) int64 {
	ceiling := int64(0)
	if postMax > 0 {
		ceiling = postMax
	}
	if uploadMax > 0 && (ceiling == 0 || uploadMax < ceiling) {
		ceiling = uploadMax
	}
	return ceiling
}

// FormatBytes renders a byte count with a binary-magnitude suffix, two
// decimal places at most.
func FormatBytes(size int64) string {
	if size <= 0 {
		return "0"
	}
	suffixes := []string{"", "KB", "MB", "GB", "TB"}
	base := math.Log(float64(size)) / math.Log(1024)
	tier := int(math.Floor(base))
	if tier >= len(suffixes) {
		tier = len(suffixes) - 1
	}
	scaled := float64(size) / math.Pow(1024, float64(tier))
	rounded := math.Round(scaled*100) / 100
	value := strconv.FormatFloat(rounded, 'f', -1, 64)
	if suffixes[tier] == "" {
		return value
	}
	return value + " " + suffixes[tier]
}
