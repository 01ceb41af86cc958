package main

import (
	"time"

	"frameloop/core"
	"frameloop/dealloc"
	"frameloop/frame"
	"frameloop/gfx"
	"frameloop/opengl"
	"frameloop/stats"
	"frameloop/swapchain"
)

func runOpenGL(window *core.Window, recorder *stats.Recorder) error {
	dev, err := opengl.NewDevice(window)
	if err != nil {
		return err
	}
	defer dev.Destroy()

	resources := opengl.NewDeviceResources(dev)

	collector := dealloc.New(dev)
	defer collector.Drain()
	collector.CollectResources(resources, "device")

	// The default framebuffer cannot be used as a storage image.
	config := swapchain.DefaultConfig()
	config.Usage = opengl.SupportedUsage

	sc, err := swapchain.New(dev, window, gfx.Null, config)
	if err != nil {
		return err
	}
	defer collector.CollectSwapchain(sc, "swapchain")

	start := time.Now()

	loop, err := frame.New(frame.Config{
		Device:    dev,
		Resources: resources,
		Collector: collector,
		Swapchain: sc,
		Platform:  window,
		Render: func(cmd gfx.Handle, index uint32) {
			handleKeys(window)
			opengl.Clear(skyColor(time.Since(start)), sc.Extent())
		},
		Resize:       recorder.Resized,
		AfterPresent: afterPresent(window, recorder),
	})
	if err != nil {
		return err
	}

	return loop.Run()
}
