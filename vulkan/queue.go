package vulkan

import (
	vk "github.com/vulkan-go/vulkan"

	"frameloop/gfx"
)

// Queue submits work and presents swapchain images. It implements gfx.Queue.
type Queue struct {
	Handle vk.Queue
	Family uint32
	Index  uint32
}

func (q *Queue) Submit(cmds, wait, signal []gfx.Handle, f gfx.Handle, stage gfx.PipelineStage) error {
	stages := make([]vk.PipelineStageFlags, len(wait))
	for i := range stages {
		stages[i] = vk.PipelineStageFlags(stage)
	}

	submitInfo := vk.SubmitInfo{
		SType:                vk.StructureTypeSubmitInfo,
		WaitSemaphoreCount:   uint32(len(wait)),
		PWaitSemaphores:      semaphores(wait),
		PWaitDstStageMask:    stages,
		CommandBufferCount:   uint32(len(cmds)),
		PCommandBuffers:      commandBuffers(cmds),
		SignalSemaphoreCount: uint32(len(signal)),
		PSignalSemaphores:    semaphores(signal),
	}

	return check(vk.QueueSubmit(q.Handle, 1, []vk.SubmitInfo{submitInfo}, fence(f)), "submit command buffers")
}

// SubmitAndWait submits cmds without synchronization primitives and blocks
// until the queue is idle. Meant for one-shot setup work.
func (q *Queue) SubmitAndWait(cmds []gfx.Handle) error {
	if err := q.Submit(cmds, nil, nil, gfx.Null, gfx.StageTopOfPipe); err != nil {
		return err
	}
	return check(vk.QueueWaitIdle(q.Handle), "wait for queue idle")
}

func (q *Queue) Present(sc gfx.Handle, wait []gfx.Handle, index uint32) gfx.SwapchainStatus {
	presentInfo := vk.PresentInfo{
		SType:              vk.StructureTypePresentInfo,
		WaitSemaphoreCount: uint32(len(wait)),
		PWaitSemaphores:    semaphores(wait),
		SwapchainCount:     1,
		PSwapchains:        []vk.Swapchain{swapchainHandle(sc)},
		PImageIndices:      []uint32{index},
	}

	res := vk.QueuePresent(q.Handle, &presentInfo)

	status := presentStatus(res)
	if status == gfx.Faulty {
		logger.Errorf("failed to present swapchain image: %v", vk.Error(res))
	}
	return status
}

// acquireStatus maps an acquire result. A suboptimal image is still
// rendered to; the following present reports the swapchain as stale.
func acquireStatus(res vk.Result) gfx.SwapchainStatus {
	switch res {
	case vk.Success, vk.Suboptimal:
		return gfx.Ready
	case vk.ErrorOutOfDate:
		return gfx.OutOfDate
	default:
		return gfx.Faulty
	}
}

func presentStatus(res vk.Result) gfx.SwapchainStatus {
	switch res {
	case vk.Success:
		return gfx.Ready
	case vk.Suboptimal, vk.ErrorOutOfDate:
		return gfx.OutOfDate
	default:
		return gfx.Faulty
	}
}
