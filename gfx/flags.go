package gfx

// Bit values match their Vulkan counterparts so the vulkan backend can cast
// them directly.

// Format is a backend pixel format identifier.
type Format int32

// ColorSpace is a backend color space identifier.
type ColorSpace int32

// ImageUsage is a set of image usage bits.
type ImageUsage uint32

const (
	UsageTransferSrc     ImageUsage = 0x00000001
	UsageTransferDst     ImageUsage = 0x00000002
	UsageSampled         ImageUsage = 0x00000004
	UsageStorage         ImageUsage = 0x00000008
	UsageColorAttachment ImageUsage = 0x00000010
	UsageDepthAttachment ImageUsage = 0x00000020
)

func (u ImageUsage) Has(bits ImageUsage) bool {
	return u&bits == bits
}

// PipelineStage is a set of pipeline stage bits used as a semaphore wait mask.
type PipelineStage uint32

const (
	StageTopOfPipe             PipelineStage = 0x00000001
	StageColorAttachmentOutput PipelineStage = 0x00000400
	StageTransfer              PipelineStage = 0x00001000
	StageBottomOfPipe          PipelineStage = 0x00002000
)

// PresentMode selects how presented images are queued.
type PresentMode int32

const (
	PresentImmediate PresentMode = 0
	PresentMailbox   PresentMode = 1
	PresentFIFO      PresentMode = 2
)

// Extent2D is a size in pixels.
type Extent2D struct {
	Width  uint32
	Height uint32
}
