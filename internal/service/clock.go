package service

import "time"

// Clock abstracts time.Now so policy decisions and tests can control time
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now()
}

// NewClock returns a clock backed by the system time
func NewClock() Clock {
	return realClock{}
}
