package service

import "time"

// SetNow pins the package clock for a test and returns a restore func.
func SetNow(f func() time.Time) (restore func()) {
	prev := timeNow
	timeNow = f
	return func() { timeNow = prev }
}
