package vulkan

import (
	"fmt"
	"unsafe"

	vk "github.com/vulkan-go/vulkan"

	"frameloop/gfx"
)

func renderPass(h gfx.Handle) vk.RenderPass {
	return vk.RenderPass(toPointer(h))
}

func framebuffer(h gfx.Handle) vk.Framebuffer {
	return vk.Framebuffer(toPointer(h))
}

// CreateRenderPass creates a single subpass render pass that clears a
// color attachment of format and leaves it ready for presentation. A
// depth attachment is added when depth is not zero.
func (d *Device) CreateRenderPass(format, depth gfx.Format) (gfx.Handle, error) {
	attachments := []vk.AttachmentDescription{{
		Format:         vk.Format(format),
		Samples:        vk.SampleCount1Bit,
		LoadOp:         vk.AttachmentLoadOpClear,
		StoreOp:        vk.AttachmentStoreOpStore,
		StencilLoadOp:  vk.AttachmentLoadOpDontCare,
		StencilStoreOp: vk.AttachmentStoreOpDontCare,
		InitialLayout:  vk.ImageLayoutUndefined,
		FinalLayout:    vk.ImageLayoutPresentSrc,
	}}

	subpass := vk.SubpassDescription{
		PipelineBindPoint:    vk.PipelineBindPointGraphics,
		ColorAttachmentCount: 1,
		PColorAttachments: []vk.AttachmentReference{{
			Attachment: 0,
			Layout:     vk.ImageLayoutColorAttachmentOptimal,
		}},
	}

	stages := vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit)
	access := vk.AccessFlags(vk.AccessColorAttachmentWriteBit)

	if depth != 0 {
		attachments = append(attachments, vk.AttachmentDescription{
			Format:         vk.Format(depth),
			Samples:        vk.SampleCount1Bit,
			LoadOp:         vk.AttachmentLoadOpClear,
			StoreOp:        vk.AttachmentStoreOpDontCare,
			StencilLoadOp:  vk.AttachmentLoadOpDontCare,
			StencilStoreOp: vk.AttachmentStoreOpDontCare,
			InitialLayout:  vk.ImageLayoutUndefined,
			FinalLayout:    vk.ImageLayoutDepthStencilAttachmentOptimal,
		})
		subpass.PDepthStencilAttachment = &vk.AttachmentReference{
			Attachment: 1,
			Layout:     vk.ImageLayoutDepthStencilAttachmentOptimal,
		}
		stages |= vk.PipelineStageFlags(vk.PipelineStageEarlyFragmentTestsBit)
		access |= vk.AccessFlags(vk.AccessDepthStencilAttachmentWriteBit)
	}

	dependency := vk.SubpassDependency{
		SrcSubpass:    vk.SubpassExternal,
		DstSubpass:    0,
		SrcStageMask:  stages,
		SrcAccessMask: 0,
		DstStageMask:  stages,
		DstAccessMask: access,
	}

	renderPassInfo := vk.RenderPassCreateInfo{
		SType:           vk.StructureTypeRenderPassCreateInfo,
		AttachmentCount: uint32(len(attachments)),
		PAttachments:    attachments,
		SubpassCount:    1,
		PSubpasses:      []vk.SubpassDescription{subpass},
		DependencyCount: 1,
		PDependencies:   []vk.SubpassDependency{dependency},
	}

	var rp vk.RenderPass
	if err := check(vk.CreateRenderPass(d.Handle, &renderPassInfo, nil, &rp), "create render pass"); err != nil {
		return gfx.Null, err
	}

	return toHandle(unsafe.Pointer(rp)), nil
}

func (d *Device) DestroyRenderPass(h gfx.Handle) {
	vk.DestroyRenderPass(d.Handle, renderPass(h), nil)
}

// CreateFramebuffers creates one framebuffer per color view. depth is
// attached to every framebuffer unless it is gfx.Null. Framebuffers created
// before a failure are destroyed.
func (d *Device) CreateFramebuffers(rp gfx.Handle, views []gfx.Handle, depth gfx.Handle, size gfx.Extent2D) ([]gfx.Handle, error) {
	framebuffers := make([]gfx.Handle, 0, len(views))

	for i, view := range views {
		attachments := []vk.ImageView{imageView(view)}
		if !depth.IsNull() {
			attachments = append(attachments, imageView(depth))
		}

		framebufferInfo := vk.FramebufferCreateInfo{
			SType:           vk.StructureTypeFramebufferCreateInfo,
			RenderPass:      renderPass(rp),
			AttachmentCount: uint32(len(attachments)),
			PAttachments:    attachments,
			Width:           size.Width,
			Height:          size.Height,
			Layers:          1,
		}

		var fb vk.Framebuffer
		if err := check(vk.CreateFramebuffer(d.Handle, &framebufferInfo, nil, &fb), fmt.Sprintf("create framebuffer %d", i)); err != nil {
			for _, created := range framebuffers {
				d.DestroyFramebuffer(created)
			}
			return nil, err
		}

		framebuffers = append(framebuffers, toHandle(unsafe.Pointer(fb)))
	}

	return framebuffers, nil
}

func (d *Device) DestroyFramebuffer(h gfx.Handle) {
	vk.DestroyFramebuffer(d.Handle, framebuffer(h), nil)
}

// CmdBeginRenderPass records the start of rp on fb covering size, clearing
// color attachments to clear and depth attachments to 1.
func CmdBeginRenderPass(cmd, rp, fb gfx.Handle, size gfx.Extent2D, clear []float32, depth bool) {
	clearValues := []vk.ClearValue{vk.NewClearValue(clear)}
	if depth {
		clearValues = append(clearValues, vk.NewClearDepthStencil(1, 0))
	}

	renderPassInfo := vk.RenderPassBeginInfo{
		SType:       vk.StructureTypeRenderPassBeginInfo,
		RenderPass:  renderPass(rp),
		Framebuffer: framebuffer(fb),
		RenderArea: vk.Rect2D{
			Offset: vk.Offset2D{X: 0, Y: 0},
			Extent: vk.Extent2D{Width: size.Width, Height: size.Height},
		},
		ClearValueCount: uint32(len(clearValues)),
		PClearValues:    clearValues,
	}

	vk.CmdBeginRenderPass(commandBuffer(cmd), &renderPassInfo, vk.SubpassContentsInline)
}

func CmdEndRenderPass(cmd gfx.Handle) {
	vk.CmdEndRenderPass(commandBuffer(cmd))
}
