package service

import "time"

type LookupSource string

const (
	SourceCache LookupSource = "cache"
	SourceDB    LookupSource = "db"
)

// LookupStats tells the HTTP layer where a read was served from and what
// each layer cost, for Server-Timing headers.
type LookupStats struct {
	Source  LookupSource
	CacheMs float64
	DBMs    float64
}

func msSince(t time.Time) float64 {
	return float64(time.Since(t).Microseconds()) / 1000.0
}
