package observability

import "sync"

// observe is one recorded event; only the fields relevant to its Kind are
// populated.
type observe struct {
	Kind          string
	View          string
	Source        string
	Op            string
	Key           string
	Method, Route string
	Status        int
	CacheMs       float64
	DBMs          float64
	Dur           float64
	OK            bool
}

// Inmem keeps the last max events plus running cache counters. Enough for
// the debug endpoint and tests; a real metrics sink can replace it behind
// the Metrics interface.
type Inmem struct {
	mu     sync.Mutex
	last   []*observe
	max    int
	totals struct {
		cacheHits, cacheMiss int
	}
}

func NewInmem(max int) *Inmem {
	return &Inmem{max: max}
}

func (m *Inmem) push(v *observe) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.last = append(m.last, v)
	if len(m.last) > m.max {
		m.last = m.last[len(m.last)-m.max:]
	}
}

func (m *Inmem) ObserveLookup(view, source string, cacheMs, dbMs float64) {
	m.push(&observe{Kind: "lookup", View: view, Source: source, CacheMs: cacheMs, DBMs: dbMs})
}

func (m *Inmem) ObserveWrite(op string, dbMs float64) {
	m.push(&observe{Kind: "write", Op: op, DBMs: dbMs})
}

func (m *Inmem) ObserveInvalidation(key string, ok bool) {
	m.push(&observe{Kind: "invalidation", Key: key, OK: ok})
}

func (m *Inmem) ObserveHTTP(method, route string, status int, durMs float64) {
	m.push(&observe{Kind: "http", Method: method, Route: route, Status: status, Dur: durMs})
}

func (m *Inmem) IncCacheHit() {
	m.mu.Lock()
	m.totals.cacheHits++
	m.mu.Unlock()
}

func (m *Inmem) IncCacheMiss() {
	m.mu.Lock()
	m.totals.cacheMiss++
	m.mu.Unlock()
}

// CacheTotals returns the hit/miss counters accumulated so far.
func (m *Inmem) CacheTotals() (hits, misses int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.totals.cacheHits, m.totals.cacheMiss
}
