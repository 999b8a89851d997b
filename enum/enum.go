package enum

import (
	"fmt"
	"reflect"
	"slices"
	"strings"
	"sync"
	"time"

	"golang.org/x/exp/constraints"
)

// typeEntry holds the names registered for one enum type.
type typeEntry struct {
	// byName maps lowercase names to values of the registered type
	byName map[string]reflect.Value

	// byValue maps values to their registered (original case) names
	byValue map[any]string
}

// registry is the global enum type registry
var (
	registry = make(map[reflect.Type]*typeEntry)
	mu       sync.RWMutex
)

func init() {
	registerBuiltins()
}

func registerBuiltins() {
	RegisterStringer(
		time.Sunday, time.Monday, time.Tuesday, time.Wednesday,
		time.Thursday, time.Friday, time.Saturday,
	)
	RegisterStringer(
		time.January, time.February, time.March, time.April,
		time.May, time.June, time.July, time.August,
		time.September, time.October, time.November, time.December,
	)
}

// Register registers names for values of the integer type T.
// names: map of name to value (e.g., {"low": PriorityLow})
//
// Registering the same type again adds to the existing names. When two
// names differ only in case, the one registered last wins.
func Register[T constraints.Integer](names map[string]T) {
	t := reflect.TypeFor[T]()

	mu.Lock()
	defer mu.Unlock()

	entry := registry[t]
	if entry == nil {
		entry = &typeEntry{
			byName:  make(map[string]reflect.Value),
			byValue: make(map[any]string),
		}
		registry[t] = entry
	}

	// Store names with lowercase keys for case-insensitive lookup
	for name, value := range names {
		entry.byName[strings.ToLower(name)] = reflect.ValueOf(value)
		if _, exists := entry.byValue[value]; !exists {
			entry.byValue[value] = name
		}
	}
}

// RegisterStringer registers values of T under the names returned by their
// String methods.
//
//	enum.RegisterStringer(ColorRed, ColorGreen, ColorBlue)
func RegisterStringer[T interface {
	constraints.Integer
	fmt.Stringer
}](values ...T) {
	names := make(map[string]T, len(values))
	for _, v := range values {
		names[v.String()] = v
	}
	Register(names)
}

// IsRegistered reports whether t has registered names.
func IsRegistered(t reflect.Type) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, exists := registry[t]
	return exists
}

// Lookup returns the value of type t registered under name. The match is
// case-insensitive and ignores surrounding whitespace.
func Lookup(t reflect.Type, name string) (reflect.Value, bool) {
	mu.RLock()
	defer mu.RUnlock()

	entry, exists := registry[t]
	if !exists {
		return reflect.Value{}, false
	}

	v, found := entry.byName[strings.ToLower(strings.TrimSpace(name))]
	return v, found
}

// Parse returns the value of T registered under name.
func Parse[T constraints.Integer](name string) (T, bool) {
	v, ok := Lookup(reflect.TypeFor[T](), name)
	if !ok {
		var zero T
		return zero, false
	}
	return v.Interface().(T), true
}

// Name returns the name registered for v, in the case it was registered
// with. Names added by later Register calls do not replace it.
func Name[T constraints.Integer](v T) (string, bool) {
	mu.RLock()
	defer mu.RUnlock()

	entry, exists := registry[reflect.TypeFor[T]()]
	if !exists {
		return "", false
	}

	name, found := entry.byValue[v]
	return name, found
}

// Names returns the lowercase names registered for t, sorted.
// Returns nil if t is not registered.
func Names(t reflect.Type) []string {
	mu.RLock()
	defer mu.RUnlock()

	entry, exists := registry[t]
	if !exists {
		return nil
	}

	names := make([]string, 0, len(entry.byName))
	for name := range entry.byName {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Clear resets the registry to the built-in registrations (time.Weekday and
// time.Month). This is primarily useful for testing.
func Clear() {
	mu.Lock()
	registry = make(map[reflect.Type]*typeEntry)
	mu.Unlock()

	registerBuiltins()
}
