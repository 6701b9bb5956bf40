package view

import (
	"math"
	"reflect"
)

// Equal is the value equality used by the default propagation policy.
// Basic comparable kinds compare directly; everything else falls back
// to reflect.DeepEqual. NaN counts as equal to itself, otherwise a
// NaN-valued bidirectional binding would re-propagate forever.
func Equal[T any](a, b T) bool {
	switch x := any(a).(type) {
	case float64:
		y := any(b).(float64)
		if math.IsNaN(x) && math.IsNaN(y) {
			return true
		}
		return x == y
	case float32:
		y := any(b).(float32)
		if math.IsNaN(float64(x)) && math.IsNaN(float64(y)) {
			return true
		}
		return x == y
	case string, bool,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64, uintptr:
		return any(a) == any(b)
	}
	return reflect.DeepEqual(a, b)
}
