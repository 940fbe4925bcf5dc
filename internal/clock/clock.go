// Package clock provides the time source for notes, events and queue messages.
package clock

import "time"

// NowFunc returns current time
var NowFunc = time.Now

// Now returns current time from NowFunc
func Now() time.Time { return NowFunc() }

// Freeze makes Now return at, advancing by step on every call, and returns a restore func
func Freeze(at time.Time, step time.Duration) (restore func()) {
	previous := NowFunc
	current := at
	NowFunc = func() time.Time {
		ret := current
		current = current.Add(step)
		return ret
	}
	return func() { NowFunc = previous }
}
