package gfx

// SwapchainStatus is the outcome of acquiring or presenting a swapchain image.
type SwapchainStatus int

const (
	// Ready means the operation succeeded and the frame may proceed.
	Ready SwapchainStatus = iota
	// OutOfDate means the surface no longer matches the swapchain. It is
	// recovered from by rebuilding the swapchain.
	OutOfDate
	// Faulty means an unexpected driver failure. The current run cannot continue.
	Faulty
)

func (s SwapchainStatus) String() string {
	switch s {
	case Ready:
		return "ready"
	case OutOfDate:
		return "out of date"
	case Faulty:
		return "faulty"
	default:
		return "unknown"
	}
}
