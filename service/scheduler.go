package service

import "time"

// Scheduler runs f once after d. Submission display resets go through it so
// tests can fire them deterministically.
type Scheduler interface {
	AfterFunc(d time.Duration, f func())
}

type timeScheduler struct{}

func (timeScheduler) AfterFunc(d time.Duration, f func()) {
	time.AfterFunc(d, f)
}

// TimeScheduler returns a Scheduler backed by time.AfterFunc
func TimeScheduler() Scheduler {
	return timeScheduler{}
}
