package sceneview

// Phase is the lifecycle stage of a Session.
type Phase int

const (
	// Uninitialized sessions have not been attached to a container.
	Uninitialized Phase = iota
	// Configuring sessions have a camera, surface and light rig.
	Configuring
	// AwaitingAsset sessions wait for their first successful load.
	AwaitingAsset
	// Animating sessions render every frame.
	Animating
	// Disposed sessions hold no resources and ignore everything.
	Disposed
)

func (p Phase) String() string {
	switch p {
	case Uninitialized:
		return "uninitialized"
	case Configuring:
		return "configuring"
	case AwaitingAsset:
		return "awaiting-asset"
	case Animating:
		return "animating"
	case Disposed:
		return "disposed"
	}
	return "unknown"
}
