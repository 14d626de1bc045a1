package observability

type Metrics interface {
	// ObserveLookup records one read: which view was asked for, whether it
	// was served from cache or db, and how long each layer took.
	ObserveLookup(view, source string, cacheMs, dbMs float64)
	ObserveWrite(op string, dbMs float64)
	ObserveInvalidation(key string, ok bool)
	ObserveHTTP(method, route string, status int, durMs float64)
	IncCacheHit()
	IncCacheMiss()
}

type Noop struct{}

func NewNoop() Noop { return Noop{} }

func (Noop) ObserveLookup(string, string, float64, float64)   {}
func (Noop) ObserveWrite(string, float64)                     {}
func (Noop) ObserveInvalidation(string, bool)                 {}
func (Noop) ObserveHTTP(string, string, int, float64)         {}
func (Noop) IncCacheHit()                                     {}
func (Noop) IncCacheMiss()                                    {}
