package loop

// System is a unit of per-frame driver behavior. Systems read the frame's
// snapshot and queue commands; they never mutate the game directly.
type System interface {
	Execute(frame *Frame)
}
