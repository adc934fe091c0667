// Package utils holds the field normalizers shared by every dataset
// transform. All parsers are total: bad input degrades to nil (or the zero
// value), never a panic or an error. Callers treat nil as "leave the field
// unset", not as a default.
package utils

import (
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/gosimple/slug"
)

// ParseRating coerces a CMS star rating (string or number) into a bounded
// decimal. Values outside [1,5] return nil. The result is rounded to one
// decimal place.
func ParseRating(val interface{}) *float64 {
	f, ok := toFloat(val)
	if !ok {
		return nil
	}
	if f < 1 || f > 5 {
		return nil
	}
	r := math.Round(f*10) / 10
	return &r
}

// ParseBool maps the CMS truthy tokens ("Y", "YES", "TRUE", "1", any case)
// to true. Everything else, including empty and missing values, is false.
func ParseBool(val interface{}) bool {
	switch v := val.(type) {
	case bool:
		return v
	case string:
		switch strings.ToUpper(strings.TrimSpace(v)) {
		case "Y", "YES", "TRUE", "1":
			return true
		}
		return false
	case float64:
		return v == 1
	case int:
		return v == 1
	default:
		return false
	}
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"1/2/2006",
	"01/02/2006",
	"20060102",
}

// ParseDate normalizes ISO ("YYYY-MM-DD..."), US slash ("M/D/YYYY"), and
// generically parseable date strings to an ISO calendar date ("YYYY-MM-DD").
// Unparseable input returns nil. Re-normalizing an already normalized date
// is a no-op.
func ParseDate(val interface{}) *string {
	var s string
	switch v := val.(type) {
	case string:
		s = strings.TrimSpace(v)
	case time.Time:
		iso := v.Format("2006-01-02")
		return &iso
	default:
		return nil
	}
	if s == "" {
		return nil
	}
	// ISO strings may carry a time suffix; the date prefix is enough.
	if len(s) >= 10 {
		if t, err := time.Parse("2006-01-02", s[:10]); err == nil {
			iso := t.Format("2006-01-02")
			return &iso
		}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			iso := t.Format("2006-01-02")
			return &iso
		}
	}
	return nil
}

// CleanPhone strips everything but digits. Fewer than 10 remaining digits
// means the value was not a usable phone number and nil is returned.
func CleanPhone(val interface{}) *string {
	s, ok := val.(string)
	if !ok {
		return nil
	}
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) < 10 {
		return nil
	}
	return &digits
}

// NormalizeName collapses whitespace and title-cases each word. Words that
// arrive fully uppercase and are at most four characters long are treated
// as acronyms and preserved as-is ("LLC", "II").
func NormalizeName(name string) string {
	words := strings.Fields(name)
	for i, w := range words {
		if isAcronym(w) {
			continue
		}
		words[i] = titleWord(w)
	}
	return strings.Join(words, " ")
}

func isAcronym(w string) bool {
	if len(w) > 4 {
		return false
	}
	hasLetter := false
	for _, r := range w {
		if unicode.IsLetter(r) {
			hasLetter = true
			if !unicode.IsUpper(r) {
				return false
			}
		}
	}
	return hasLetter
}

func titleWord(w string) string {
	runes := []rune(strings.ToLower(w))
	for i, r := range runes {
		if unicode.IsLetter(r) {
			runes[i] = unicode.ToUpper(r)
			break
		}
	}
	return string(runes)
}

// Slugify derives a URL-safe slug from a community name.
func Slugify(name string) string {
	return slug.Make(name)
}

// ToString renders any raw API value as a trimmed string.
func ToString(val interface{}) string {
	switch v := val.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}

// ParseInt coerces a string or number field to an int, nil when it cannot.
func ParseInt(val interface{}) *int {
	f, ok := toFloat(val)
	if !ok {
		return nil
	}
	i := int(f)
	return &i
}

// ParseFloat coerces a string or number field to a float64, nil when it
// cannot.
func ParseFloat(val interface{}) *float64 {
	f, ok := toFloat(val)
	if !ok {
		return nil
	}
	return &f
}

func toFloat(val interface{}) (float64, bool) {
	switch v := val.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// Chunk splits items into consecutive slices of at most size elements.
func Chunk[T any](items []T, size int) [][]T {
	if size <= 0 || len(items) == 0 {
		return nil
	}
	var out [][]T
	for start := 0; start < len(items); start += size {
		end := start + size
		if end > len(items) {
			end = len(items)
		}
		out = append(out, items[start:end])
	}
	return out
}
