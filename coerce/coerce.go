package coerce

import (
	"encoding"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/zero-day-ai/metadata/enum"
)

var (
	durationType        = reflect.TypeFor[time.Duration]()
	textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()
)

// TryConvert converts raw to T. It returns the zero value and false when no
// conversion applies; it never panics.
//
// Example:
//
//	n, ok := coerce.TryConvert[int]("42")           // 42, true
//	d, ok := coerce.TryConvert[time.Weekday]("sun") // 0, false
//	d, ok = coerce.TryConvert[time.Weekday]("Sunday") // time.Sunday, true
func TryConvert[T any](raw any) (T, bool) {
	if v, ok := raw.(T); ok {
		return v, true
	}

	var out T
	rv, ok := convert(raw, reflect.TypeFor[T]())
	if !ok {
		return out, false
	}
	reflect.ValueOf(&out).Elem().Set(rv)
	return out, true
}

// Convert converts raw to a value of type target. It returns nil and false
// when no conversion applies; it never panics.
func Convert(raw any, target reflect.Type) (any, bool) {
	if target == nil {
		return nil, false
	}
	rv, ok := convert(raw, target)
	if !ok {
		return nil, false
	}
	return rv.Interface(), true
}

// convert applies the conversion rules in order. The result, when ok, has
// exactly the type target.
func convert(raw any, target reflect.Type) (rv reflect.Value, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			rv, ok = reflect.Value{}, false
		}
	}()

	if raw == nil {
		if nillable(target.Kind()) {
			return reflect.Zero(target), true
		}
		return reflect.Value{}, false
	}

	src := reflect.ValueOf(raw)
	if src.Type().AssignableTo(target) {
		out := reflect.New(target).Elem()
		out.Set(src)
		return out, true
	}

	if target.Kind() == reflect.String {
		return reflect.ValueOf(FormatString(raw)).Convert(target), true
	}

	if enum.IsRegistered(target) {
		return toEnum(src, target)
	}

	if target == durationType {
		return toDuration(src)
	}

	if text, isText := textOf(src); isText && reflect.PointerTo(target).Implements(textUnmarshalerType) {
		ptr := reflect.New(target)
		if err := ptr.Interface().(encoding.TextUnmarshaler).UnmarshalText(text); err != nil {
			return reflect.Value{}, false
		}
		return ptr.Elem(), true
	}

	switch target.Kind() {
	case reflect.Bool:
		b, ok := toBool(src)
		if !ok {
			return reflect.Value{}, false
		}
		return reflect.ValueOf(b).Convert(target), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return toInteger(src, target)
	case reflect.Float32, reflect.Float64:
		f, ok := toFloat64(src)
		if !ok {
			return reflect.Value{}, false
		}
		out := reflect.New(target).Elem()
		if out.OverflowFloat(f) {
			return reflect.Value{}, false
		}
		out.SetFloat(f)
		return out, true
	case reflect.Slice:
		if src.Kind() == reflect.Slice || src.Kind() == reflect.Array {
			return toSlice(src, target)
		}
	}

	if src.Type().ConvertibleTo(target) {
		return src.Convert(target), true
	}
	return reflect.Value{}, false
}

func nillable(k reflect.Kind) bool {
	switch k {
	case reflect.Interface, reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return true
	default:
		return false
	}
}

// FormatString returns the canonical string form of v: strings as-is, []byte
// as text, TextMarshaler and Stringer output, invariant number formatting,
// and fmt.Sprint for everything else. A nil v yields "".
func FormatString(v any) string {
	if v == nil {
		return ""
	}
	if rv := reflect.ValueOf(v); rv.Kind() == reflect.Pointer && rv.IsNil() {
		return fmt.Sprint(v)
	}

	switch t := v.(type) {
	case string:
		return t
	case []byte:
		return string(t)
	case encoding.TextMarshaler:
		if b, err := t.MarshalText(); err == nil {
			return string(b)
		}
	case fmt.Stringer:
		return t.String()
	case error:
		return t.Error()
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Bool:
		return strconv.FormatBool(rv.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(rv.Uint(), 10)
	case reflect.Float32:
		return strconv.FormatFloat(rv.Float(), 'g', -1, 32)
	case reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'g', -1, 64)
	case reflect.String:
		return rv.String()
	}
	return fmt.Sprint(v)
}

// textOf returns the bytes of string and []byte values.
func textOf(src reflect.Value) ([]byte, bool) {
	switch {
	case src.Kind() == reflect.String:
		return []byte(src.String()), true
	case src.Kind() == reflect.Slice && src.Type().Elem().Kind() == reflect.Uint8:
		return src.Bytes(), true
	default:
		return nil, false
	}
}

func toEnum(src reflect.Value, target reflect.Type) (reflect.Value, bool) {
	if src.Kind() == reflect.String {
		if v, found := enum.Lookup(target, src.String()); found {
			return v, true
		}
	}
	return toInteger(src, target)
}

// toInteger converts numbers, bools and numeric strings to an integer kind
// target, rejecting values outside its range.
func toInteger(src reflect.Value, target reflect.Type) (reflect.Value, bool) {
	out := reflect.New(target).Elem()
	switch out.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i, ok := toInt64(src)
		if !ok || out.OverflowInt(i) {
			return reflect.Value{}, false
		}
		out.SetInt(i)
		return out, true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u, ok := toUint64(src)
		if !ok || out.OverflowUint(u) {
			return reflect.Value{}, false
		}
		out.SetUint(u)
		return out, true
	default:
		return reflect.Value{}, false
	}
}

func toInt64(src reflect.Value) (int64, bool) {
	switch src.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return src.Int(), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := src.Uint()
		if u > math.MaxInt64 {
			return 0, false
		}
		return int64(u), true
	case reflect.Float32, reflect.Float64:
		r, ok := roundFloat(src.Float())
		if !ok || r < math.MinInt64 || r >= math.MaxInt64 {
			return 0, false
		}
		return int64(r), true
	case reflect.Bool:
		if src.Bool() {
			return 1, true
		}
		return 0, true
	case reflect.String:
		i, err := strconv.ParseInt(strings.TrimSpace(src.String()), 10, 64)
		if err != nil {
			return 0, false
		}
		return i, true
	default:
		return 0, false
	}
}

func toUint64(src reflect.Value) (uint64, bool) {
	switch src.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i := src.Int()
		if i < 0 {
			return 0, false
		}
		return uint64(i), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return src.Uint(), true
	case reflect.Float32, reflect.Float64:
		r, ok := roundFloat(src.Float())
		if !ok || r < 0 || r >= math.MaxUint64 {
			return 0, false
		}
		return uint64(r), true
	case reflect.Bool:
		if src.Bool() {
			return 1, true
		}
		return 0, true
	case reflect.String:
		s := strings.TrimPrefix(strings.TrimSpace(src.String()), "+")
		u, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return 0, false
		}
		return u, true
	default:
		return 0, false
	}
}

// roundFloat rounds half to even, rejecting NaN and infinities.
func roundFloat(f float64) (float64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return math.RoundToEven(f), true
}

func toFloat64(src reflect.Value) (float64, bool) {
	switch src.Kind() {
	case reflect.Float32, reflect.Float64:
		return src.Float(), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(src.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(src.Uint()), true
	case reflect.Bool:
		if src.Bool() {
			return 1, true
		}
		return 0, true
	case reflect.String:
		f, err := strconv.ParseFloat(strings.TrimSpace(src.String()), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// toBool accepts bools, "true"/"false" in any case, and numbers (non-zero is
// true).
func toBool(src reflect.Value) (bool, bool) {
	switch src.Kind() {
	case reflect.Bool:
		return src.Bool(), true
	case reflect.String:
		s := strings.TrimSpace(src.String())
		switch {
		case strings.EqualFold(s, "true"):
			return true, true
		case strings.EqualFold(s, "false"):
			return false, true
		default:
			return false, false
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return src.Int() != 0, true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return src.Uint() != 0, true
	case reflect.Float32, reflect.Float64:
		f := src.Float()
		if math.IsNaN(f) {
			return false, false
		}
		return f != 0, true
	default:
		return false, false
	}
}

// toDuration accepts Go duration strings ("5m", "30s"), and integer or
// float numbers of seconds, including numeric strings.
func toDuration(src reflect.Value) (reflect.Value, bool) {
	var d time.Duration
	switch src.Kind() {
	case reflect.String:
		s := strings.TrimSpace(src.String())
		if parsed, err := time.ParseDuration(s); err == nil {
			d = parsed
			break
		}
		seconds, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return reflect.Value{}, false
		}
		if seconds > math.MaxInt64/int64(time.Second) || seconds < math.MinInt64/int64(time.Second) {
			return reflect.Value{}, false
		}
		d = time.Duration(seconds) * time.Second
	default:
		f, ok := toFloat64(src)
		if !ok || math.IsNaN(f) {
			return reflect.Value{}, false
		}
		ns := f * float64(time.Second)
		if ns < math.MinInt64 || ns >= math.MaxInt64 {
			return reflect.Value{}, false
		}
		d = time.Duration(ns)
	}
	return reflect.ValueOf(d), true
}

// toSlice converts element-wise; one failing element fails the whole slice.
func toSlice(src reflect.Value, target reflect.Type) (reflect.Value, bool) {
	n := src.Len()
	out := reflect.MakeSlice(target, n, n)
	for i := 0; i < n; i++ {
		ev, ok := convert(src.Index(i).Interface(), target.Elem())
		if !ok {
			return reflect.Value{}, false
		}
		out.Index(i).Set(ev)
	}
	return out, true
}
