package util

import (
	"fmt"
	"math"
	"reflect"
	"strings"
	"time"

	"github.com/go-sif/sparkling"
	"github.com/go-sif/sparkling/errors"
)

// Comparable may be implemented by element types which define their own ordering
type Comparable interface {
	// CompareTo returns a negative number, zero or a positive number when this value sorts before, with or after o
	CompareTo(o interface{}) int
}

// type ranks, in sort order, for values of unrelated types
const (
	rankNil = iota
	rankBool
	rankNumber
	rankString
	rankTime
	rankPair
	rankSlice
	rankOther
)

func rank(v interface{}) int {
	switch v.(type) {
	case nil:
		return rankNil
	case bool:
		return rankBool
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return rankNumber
	case string:
		return rankString
	case time.Time:
		return rankTime
	case sparkling.Pair:
		return rankPair
	case []interface{}:
		return rankSlice
	default:
		return rankOther
	}
}

// Compare defines a total order over element values, used to sort by key. Numbers compare
// numerically across Go numeric types, Pairs and slices compare lexicographically, and values
// of unrelated types are ordered by kind. Values implementing Comparable order themselves.
func Compare(a, b interface{}) int {
	if ca, ok := a.(Comparable); ok {
		return ca.CompareTo(b)
	}
	if cb, ok := b.(Comparable); ok {
		return -cb.CompareTo(a)
	}
	ra, rb := rank(a), rank(b)
	if ra != rb {
		return ra - rb
	}
	switch ra {
	case rankNil:
		return 0
	case rankBool:
		ba, bb := a.(bool), b.(bool)
		switch {
		case ba == bb:
			return 0
		case !ba:
			return -1
		default:
			return 1
		}
	case rankNumber:
		return compareNumbers(a, b)
	case rankString:
		return strings.Compare(a.(string), b.(string))
	case rankTime:
		ta, tb := a.(time.Time), b.(time.Time)
		switch {
		case ta.Before(tb):
			return -1
		case ta.After(tb):
			return 1
		default:
			return 0
		}
	case rankPair:
		pa, pb := a.(sparkling.Pair), b.(sparkling.Pair)
		if c := Compare(pa.Key, pb.Key); c != 0 {
			return c
		}
		return Compare(pa.Value, pb.Value)
	case rankSlice:
		sa, sb := a.([]interface{}), b.([]interface{})
		for i := 0; i < len(sa) && i < len(sb); i++ {
			if c := Compare(sa[i], sb[i]); c != 0 {
				return c
			}
		}
		return len(sa) - len(sb)
	default:
		ta, tb := reflect.TypeOf(a).String(), reflect.TypeOf(b).String()
		if ta != tb {
			return strings.Compare(ta, tb)
		}
		return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
	}
}

func compareNumbers(a, b interface{}) int {
	ia, aIsInt := asInt64(a)
	ib, bIsInt := asInt64(b)
	if aIsInt && bIsInt {
		switch {
		case ia < ib:
			return -1
		case ia > ib:
			return 1
		default:
			return 0
		}
	}
	fa, _ := ToFloat64(a)
	fb, _ := ToFloat64(b)
	switch {
	case fa < fb:
		return -1
	case fa > fb:
		return 1
	case math.IsNaN(fa) && !math.IsNaN(fb):
		return -1
	case !math.IsNaN(fa) && math.IsNaN(fb):
		return 1
	default:
		return 0
	}
}

func asInt64(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		if uint64(n) > math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		if n > math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	default:
		return 0, false
	}
}

// ToFloat64 coerces a numeric element to a float64, returning a NotNumericError for anything else
func ToFloat64(v interface{}) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int8:
		return float64(n), nil
	case int16:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case uint:
		return float64(n), nil
	case uint8:
		return float64(n), nil
	case uint16:
		return float64(n), nil
	case uint32:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	default:
		return 0, errors.NotNumericError{Value: v}
	}
}

// textKey stands in for values which cannot be Go map keys
type textKey string

// timeKey identifies an instant regardless of its location
type timeKey struct {
	sec  int64
	nsec int
}

// nanKey is the single key shared by every NaN, which Compare treats as equal
type nanKey struct{}

// HashKey turns a value into a Go map key such that two values have the same HashKey exactly
// when Compare finds them equal. Numbers are canonicalized across Go numeric types, Pairs, Joined
// values and slices are keyed element-wise, and values which cannot be map keys are replaced by
// a textual form.
func HashKey(v interface{}) interface{} {
	switch x := v.(type) {
	case nil:
		return nil
	case sparkling.Pair:
		return sparkling.Pair{Key: HashKey(x.Key), Value: HashKey(x.Value)}
	case sparkling.Joined:
		return sparkling.Joined{Left: HashKey(x.Left), Right: HashKey(x.Right)}
	case []interface{}:
		keys := make([]interface{}, len(x))
		for i, e := range x {
			keys[i] = HashKey(e)
		}
		return textKey(fmt.Sprintf("%#v", keys))
	case time.Time:
		return timeKey{sec: x.Unix(), nsec: x.Nanosecond()}
	}
	if rank(v) == rankNumber {
		return numberKey(v)
	}
	return KeyOf(v)
}

// numberKey canonicalizes a number: integral values become an int64 when they fit one,
// and anything else a float64
func numberKey(v interface{}) interface{} {
	if i, ok := asInt64(v); ok {
		return i
	}
	f, _ := ToFloat64(v)
	switch {
	case math.IsNaN(f):
		return nanKey{}
	case f == math.Trunc(f) && f >= math.MinInt64 && f < math.MaxInt64:
		return int64(f)
	}
	return f
}

// KeyOf turns a value into something usable as a Go map key. Values which can be hashed are
// used as-is, while values which cannot (slices, maps, or structs and arrays holding them)
// are replaced by a textual form.
func KeyOf(v interface{}) interface{} {
	if v == nil {
		return nil
	}
	if hashable(reflect.ValueOf(v)) {
		return v
	}
	return textKey(fmt.Sprintf("%T:%#v", v, v))
}

// hashable reports whether hashing a value would succeed, looking through interfaces
// to the dynamic values they hold
func hashable(rv reflect.Value) bool {
	switch rv.Kind() {
	case reflect.Invalid:
		return true
	case reflect.Interface:
		return rv.IsNil() || hashable(rv.Elem())
	case reflect.Struct:
		for i := 0; i < rv.NumField(); i++ {
			if !hashable(rv.Field(i)) {
				return false
			}
		}
		return true
	case reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			if !hashable(rv.Index(i)) {
				return false
			}
		}
		return true
	default:
		return rv.Type().Comparable()
	}
}

// AsPair asserts that an element is a Pair
func AsPair(elem interface{}) (sparkling.Pair, error) {
	switch p := elem.(type) {
	case sparkling.Pair:
		return p, nil
	case *sparkling.Pair:
		if p != nil {
			return *p, nil
		}
	}
	return sparkling.Pair{}, errors.NotAPairError{Value: elem}
}
