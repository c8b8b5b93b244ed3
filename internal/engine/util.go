package engine

import "time"

func secondsToDuration(n int) time.Duration {
	return time.Duration(n) * time.Second
}

func minutesToDuration(n int) time.Duration {
	return time.Duration(n) * time.Minute
}
