package refresh

// Message types for the container

// GeometryMsg delivers a fresh scroll geometry snapshot to the container.
type GeometryMsg struct {
	Geometry Geometry
}

// SettleMsg is one frame of the release spring animation.
type SettleMsg struct {
	ID int
}

// refreshDoneMsg reports the resolution of one refresh action.
type refreshDoneMsg struct {
	Edge Edge
	Gen  uint64
	Err  error
}

// revertMsg returns a terminal state to normal after its display delay.
type revertMsg struct {
	Edge Edge
	Gen  uint64
}
