// Package enum provides a global registry of names for integer enum types.
//
// Go has no built-in enum names, so types that should be readable from
// their textual form register their names here. Package coerce consults the
// registry when converting strings into enum types, which lets metadata
// values such as "Sunday" or "high" be read back as typed constants.
//
// # Usage
//
// Register names explicitly:
//
//	type Priority int
//
//	const (
//	    PriorityLow Priority = iota
//	    PriorityHigh
//	)
//
//	enum.Register(map[string]Priority{
//	    "low":  PriorityLow,
//	    "high": PriorityHigh,
//	})
//
// Or derive them from a String method:
//
//	enum.RegisterStringer(ColorRed, ColorGreen, ColorBlue)
//
// Look values up:
//
//	p, ok := enum.Parse[Priority]("HIGH") // PriorityHigh, true
//	name, _ := enum.Name(PriorityLow)     // "low"
//
// time.Weekday and time.Month are registered by default.
//
// # Thread Safety
//
// All operations are thread-safe and can be called concurrently from multiple
// goroutines. The registry uses sync.RWMutex for efficient concurrent access.
//
// # Case Insensitivity
//
// Names are matched case-insensitively, so "SUNDAY", "sunday", and "Sunday"
// all resolve to time.Sunday. Name returns the name in the case it was
// registered with.
package enum
