package gfx

// Image is a device image together with its default view and backing memory.
type Image struct {
	Handle Handle
	View   Handle
	Memory Handle
	Format Format
	Extent Extent2D
}

// Buffer is a device buffer and its backing memory.
type Buffer struct {
	Handle Handle
	Memory Handle
	Size   uint64
}

// DeviceResources bundles the per-device objects shared by every frame.
type DeviceResources struct {
	Queue          Queue
	CommandPool    Handle
	DescriptorPool Handle
}
