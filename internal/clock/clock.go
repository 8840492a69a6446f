// Package clock provides the time source injected into the registration
// components, so window checks can be driven from tests and the CLI.
package clock

import "time"

type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// System is the wall clock.
var System Clock = systemClock{}

// Func adapts a function to a Clock.
type Func func() time.Time

func (f Func) Now() time.Time { return f() }

// Fixed always reports t.
func Fixed(t time.Time) Clock {
	return Func(func() time.Time { return t })
}
