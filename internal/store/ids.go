package store

import (
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
)

// IDGenerator hands out record ids.
type IDGenerator interface {
	// Next returns an id not handed out before and not in Seen.
	Next() string
	// Seen tells the generator about ids that already exist.
	Seen(ids ...string)
}

// MillisIDs produces creation-timestamp ids: Unix milliseconds as a decimal
// string, the shape stored by earlier releases. Ids strictly increase even
// when the clock stalls or several records are created within a millisecond.
type MillisIDs struct {
	mu   sync.Mutex
	now  func() time.Time
	last int64
}

// maxSeed is the largest stored id Seen will count past.
const maxSeed = math.MaxInt64 / 2

func NewMillisIDs(now func() time.Time) *MillisIDs {
	if now == nil {
		now = time.Now
	}
	return &MillisIDs{now: now}
}

func (g *MillisIDs) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	ms := g.now().UnixMilli()
	if ms <= g.last {
		ms = g.last + 1
	}
	g.last = ms
	return strconv.FormatInt(ms, 10)
}

func (g *MillisIDs) Seen(ids ...string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, id := range ids {
		// Non-numeric ids cannot collide with ours. Ids past maxSeed are not
		// timestamps and would leave no room to count upward.
		if n, err := strconv.ParseInt(id, 10, 64); err == nil && n > g.last && n <= maxSeed {
			g.last = n
		}
	}
}

// UUIDs produces time-ordered UUIDv7 ids.
type UUIDs struct{}

func (UUIDs) Next() string       { return uuid.Must(uuid.NewV7()).String() }
func (UUIDs) Seen(ids ...string) {}
