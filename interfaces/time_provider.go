package interfaces

import "time"

// TimeProvider supplies the current time for lease expiry, eviction sweeps, delta retention and
// token-bucket refills. Injected so tests can drive a fake clock instead of time.Now().
type TimeProvider interface {
	// Now returns the current time (UTC in production, a fixed or manually advanced time in tests).
	Now() time.Time
}
