// Package clock abstracts time for services that window queries by the
// current calendar month.
package clock

import (
	"time"

	"go.uber.org/fx"
)

// Clock returns the current time. Services take it as a dependency so
// tests can pin "now".
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// NewSystemClock returns a Clock backed by the wall clock, in UTC.
func NewSystemClock() Clock { return systemClock{} }

// Module provides the system clock.
var Module = fx.Module("clock",
	fx.Provide(NewSystemClock),
)
