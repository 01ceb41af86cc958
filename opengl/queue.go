package opengl

import (
	gl "github.com/go-gl/gl/v4.1-core/gl"

	"frameloop/core"
	"frameloop/gfx"
)

// Queue flushes the context on submit and swaps buffers on present.
type Queue struct {
	dev *Device
}

func (q *Queue) Submit(cmds, wait, signal []gfx.Handle, fence gfx.Handle, stage gfx.PipelineStage) error {
	gl.Flush()

	if fence.IsNull() {
		return nil
	}
	if sync := q.dev.syncs[fence]; sync != 0 {
		gl.DeleteSync(sync)
	}
	q.dev.syncs[fence] = gl.FenceSync(gl.SYNC_GPU_COMMANDS_COMPLETE, 0)

	return nil
}

func (q *Queue) Present(sc gfx.Handle, wait []gfx.Handle, index uint32) gfx.SwapchainStatus {
	c, ok := q.dev.chains[sc]
	if !ok {
		logger.Errorf("presenting unknown swapchain %v", sc)
		return gfx.Faulty
	}

	q.dev.surface.SwapBuffers()

	if q.dev.framebufferExtent() != c.extent {
		return gfx.OutOfDate
	}
	return gfx.Ready
}

// Clear clears the default framebuffer, viewport set to size.
func Clear(color core.Color, size gfx.Extent2D) {
	gl.Viewport(0, 0, int32(size.Width), int32(size.Height))
	gl.ClearColor(color.R, color.G, color.B, color.A)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}
