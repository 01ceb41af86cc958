package main

import (
	"time"

	"github.com/pkg/errors"

	"frameloop/core"
	"frameloop/dealloc"
	"frameloop/frame"
	"frameloop/gfx"
	"frameloop/stats"
	"frameloop/swapchain"
	"frameloop/vulkan"
)

// target is the render pass and the per-image framebuffers drawn into.
type target struct {
	renderPass   gfx.Handle
	depth        gfx.Image
	framebuffers []gfx.Handle
}

func (t *target) build(dev *vulkan.Device, sc *swapchain.Swapchain) error {
	depth, err := dev.CreateDepthImage(sc.Extent())
	if err != nil {
		return err
	}
	t.depth = depth

	t.framebuffers, err = dev.CreateFramebuffers(t.renderPass, sc.Views, depth.View, sc.Extent())
	return err
}

func (t *target) collect(collector *dealloc.Collector) {
	for _, fb := range t.framebuffers {
		collector.Collect(gfx.KindFramebuffer, fb, "target.framebuffer")
	}
	collector.CollectImage(t.depth, "target.depth")
	t.framebuffers = nil
	t.depth = gfx.Image{}
}

func runVulkan(window *core.Window, validation bool, recorder *stats.Recorder) error {
	config := vulkan.DefaultInstanceConfig()
	config.EnableValidation = validation
	config.RequiredExtensions = window.RequiredInstanceExtensions()

	instance, err := vulkan.NewInstance(config)
	if err != nil {
		return err
	}
	defer instance.Destroy()

	surface, err := instance.CreateSurface(window)
	if err != nil {
		return err
	}
	defer instance.DestroySurface(surface)

	dev, err := vulkan.NewDevice(instance, surface)
	if err != nil {
		return err
	}
	defer dev.Destroy()

	resources, err := vulkan.NewDeviceResources(dev)
	if err != nil {
		return err
	}

	collector := dealloc.New(dev)
	defer collector.Drain()
	collector.CollectResources(resources, "device")

	sc, err := swapchain.New(dev, window, surface, swapchain.DefaultConfig())
	if err != nil {
		return err
	}
	// Rebuilds retire into the collector, so only the final swapchain is
	// queued here.
	defer collector.CollectSwapchain(sc, "swapchain")

	var t target
	t.renderPass, err = dev.CreateRenderPass(sc.Format, vulkan.DepthFormat)
	if err != nil {
		return err
	}
	collector.Collect(gfx.KindRenderPass, t.renderPass, "target.render pass")
	defer t.collect(collector)

	if err := t.build(dev, sc); err != nil {
		return err
	}

	start := time.Now()
	var buildErr error

	loop, err := frame.New(frame.Config{
		Device:    dev,
		Resources: resources,
		Collector: collector,
		Swapchain: sc,
		Platform:  window,
		Render: func(cmd gfx.Handle, index uint32) {
			handleKeys(window)
			sky := skyColor(time.Since(start)).Slice()
			vulkan.CmdBeginRenderPass(cmd, t.renderPass, t.framebuffers[index], sc.Extent(), sky, true)
			vulkan.CmdEndRenderPass(cmd)
		},
		Resize: func() {
			recorder.Resized()
			t.collect(collector)
			if err := t.build(dev, sc); err != nil {
				buildErr = err
				window.SetShouldClose(true)
			}
		},
		AfterPresent: afterPresent(window, recorder),
	})
	if err != nil {
		return err
	}

	if err := loop.Run(); err != nil {
		return err
	}
	return errors.Wrap(buildErr, "rebuilding framebuffers")
}
