// README: Driver selection policy for dispatch.
package matching

import "ridehail/internal/modules/driver"

const (
	// candidatePoolSize is how many available drivers are read per claim round.
	candidatePoolSize = 20
	// maxClaimRounds bounds re-reads of the pool when every candidate was taken concurrently.
	maxClaimRounds = 3
)

// Policy orders candidates; the first driver that can be claimed wins.
type Policy func(pool []driver.Driver) []driver.Driver

// FirstAvailable keeps store order: the earliest registered available driver is tried first.
func FirstAvailable(pool []driver.Driver) []driver.Driver {
	return pool
}
