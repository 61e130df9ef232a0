package input

import (
	"time"

	"github.com/plus3/blockfall/engine"
)

// Repeat configures auto-repeat for held keys: after Delay, a held command
// fires again every Rate.
type Repeat struct {
	Delay time.Duration
	Rate  time.Duration
}

// DefaultRepeat is a 170ms delay followed by a 50ms repeat rate.
func DefaultRepeat() Repeat {
	return Repeat{Delay: 170 * time.Millisecond, Rate: 50 * time.Millisecond}
}

// Repeater turns per-frame key state into command events. Frontends call
// Update once per frame for each repeatable command.
type Repeater struct {
	cfg  Repeat
	held map[engine.Command]time.Duration
}

// NewRepeater returns a repeater with no keys held.
func NewRepeater(cfg Repeat) *Repeater {
	return &Repeater{cfg: cfg, held: make(map[engine.Command]time.Duration)}
}

// Update records that cmd's key was down (or not) for dt and returns how many
// times cmd should fire this frame. A fresh press fires once immediately.
func (r *Repeater) Update(cmd engine.Command, down bool, dt time.Duration) int {
	if !down {
		delete(r.held, cmd)
		return 0
	}

	elapsed, wasHeld := r.held[cmd]
	if !wasHeld {
		r.held[cmd] = 0
		return 1
	}

	elapsed += dt
	fires := 0
	if elapsed > r.cfg.Delay && r.cfg.Rate > 0 {
		for elapsed > r.cfg.Delay {
			elapsed -= r.cfg.Rate
			fires++
		}
	}
	r.held[cmd] = elapsed
	return fires
}

// Release forgets every held key.
func (r *Repeater) Release() {
	clear(r.held)
}
