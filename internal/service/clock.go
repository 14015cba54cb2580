package service

import "time"

// Clock supplies the current time. Tests replace it to move time forward.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}
