package gfx

// SyncDevice creates and destroys synchronization primitives.
type SyncDevice interface {
	CreateFence(signaled bool) (Handle, error)
	CreateSemaphore() (Handle, error)
	DestroyFence(fence Handle)
	DestroySemaphore(semaphore Handle)
}

// Device is the set of device capabilities the frame loop consumes.
// All waits are unbounded.
type Device interface {
	SyncDevice

	// WaitAndReset blocks until fence is signaled and then resets it.
	WaitAndReset(fence Handle) error
	// WaitIdle blocks until the device has finished all submitted work.
	WaitIdle() error

	AllocateCommandBuffers(pool Handle, count int) ([]Handle, error)
	BeginCommandBuffer(cmd Handle) error
	EndCommandBuffer(cmd Handle) error
}

// Queue is a queue capable of both graphics submission and presentation.
type Queue interface {
	// Submit queues cmds for execution. The submission waits on wait at the
	// given stage, signals every semaphore in signal and then fence.
	Submit(cmds, wait, signal []Handle, fence Handle, stage PipelineStage) error
	// Present queues image index of swapchain for presentation once every
	// semaphore in wait is signaled.
	Present(swapchain Handle, wait []Handle, index uint32) SwapchainStatus
}
