package application

import "time"

// Clock supaya waktu bisa diganti di test
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always reports the same instant.
type FixedClock time.Time

func (c FixedClock) Now() time.Time { return time.Time(c) }
