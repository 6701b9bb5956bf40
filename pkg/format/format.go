// Package format renders widget values for display and for HTML value
// attributes. Widgets accept a custom formatter option; these are the
// defaults they fall back to.
package format

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// Number formats a float with the fewest decimal digits that still
// round-trip, without exponent notation, matching what a number input
// shows after typing. NaN formats as the empty string, which is how an
// empty number input reads back.
func Number(f float64) string {
	if math.IsNaN(f) {
		return ""
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Date formats a time as a date input value (YYYY-MM-DD).
func Date(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

// Datetime formats a time as a datetime-local input value, minute
// precision (YYYY-MM-DDTHH:MM).
func Datetime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02T15:04")
}

// Stringify renders an arbitrary value the way widget labels and table
// cells display it.
func Stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return Number(x)
	case float32:
		return Number(float64(x))
	case time.Time:
		return Datetime(x)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprintf("%v", x)
	}
}
