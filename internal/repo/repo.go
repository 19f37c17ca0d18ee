package repo

import (
	"errors"
	"time"

	"github.com/sethvargo/go-retry"
)

// ErrUnpersisted is returned by write operations that need an identity the
// habit does not have yet.
var ErrUnpersisted = errors.New("habit has not been persisted yet")

// Backoff shapes the delay between continuous-sync restarts.
type Backoff struct {
	Base time.Duration
	Cap  time.Duration
}

// DefaultBackoff waits one second after the first stream failure and doubles
// up to one minute.
func DefaultBackoff() Backoff {
	return Backoff{Base: time.Second, Cap: time.Minute}
}

func (b Backoff) orDefault() Backoff {
	if b.Base <= 0 || b.Cap <= 0 {
		return DefaultBackoff()
	}
	return b
}

// fresh returns a new backoff sequence starting from Base again.
func (b Backoff) fresh() retry.Backoff {
	return retry.WithCappedDuration(b.Cap, retry.NewExponential(b.Base))
}
