// Package swapchain manages the lifecycle of a presentation swapchain: the
// initial build, rebuilds after the surface went stale and the acquire and
// present steps with their three-way status.
package swapchain

import (
	"github.com/pkg/errors"

	"frameloop/gfx"
	"frameloop/log"
)

var logger = log.New("swapchain")

// ErrNoSurfaceFormat is returned when none of the surface formats supports
// the configured image usage.
var ErrNoSurfaceFormat = errors.New("swapchain: no surface format supports the requested usage")

type Config struct {
	// Usage is required of the swapchain images and of the chosen format.
	Usage       gfx.ImageUsage
	PresentMode gfx.PresentMode
	// ImageCount overrides the requested minimum image count. Zero uses the
	// surface minimum.
	ImageCount uint32
}

func DefaultConfig() Config {
	return Config{
		Usage: gfx.UsageColorAttachment |
			gfx.UsageTransferSrc |
			gfx.UsageTransferDst |
			gfx.UsageStorage,
		PresentMode: gfx.PresentFIFO,
	}
}

// Swapchain is a surface together with its current swapchain, images and views.
// len(Images) == len(Views) at all times.
type Swapchain struct {
	Surface gfx.Handle
	Handle  gfx.Handle

	Images []gfx.Handle
	Views  []gfx.Handle

	Format     gfx.Format
	ColorSpace gfx.ColorSpace
	Width      int
	Height     int

	config Config
}

// New builds the first swapchain for surface.
func New(dev Device, platform Platform, surface gfx.Handle, config Config) (*Swapchain, error) {
	sc := &Swapchain{
		Surface: surface,
		config:  config,
	}

	if _, err := sc.Resize(dev, platform); err != nil {
		return nil, err
	}

	return sc, nil
}

// Resize waits for a stable, nonzero framebuffer size and rebuilds the
// swapchain and its views in place, passing the current swapchain as a reuse
// hint. It returns the retired swapchain (nil on the first build) which the
// caller must destroy once no in-flight work references it.
// On failure the current swapchain is left as it was.
func (sc *Swapchain) Resize(dev Device, platform Platform) (*Swapchain, error) {
	width, height := WaitStableSize(platform)

	logger.Infof("(re)sizing swapchain to %dx%d", width, height)

	caps, err := dev.SurfaceCapabilities(sc.Surface)
	if err != nil {
		return nil, errors.Wrap(err, "querying surface capabilities")
	}

	formats, err := dev.SurfaceFormats(sc.Surface)
	if err != nil {
		return nil, errors.Wrap(err, "querying surface formats")
	}

	chosen, err := chooseFormat(dev, formats, sc.config.Usage)
	if err != nil {
		return nil, err
	}

	logger.Infof("chosen surface format %d (color space %d)", chosen.Format, chosen.ColorSpace)

	extent := chooseExtent(caps, width, height)

	info := CreateInfo{
		Surface:       sc.Surface,
		Old:           sc.Handle,
		MinImageCount: chooseImageCount(caps, sc.config.ImageCount),
		Format:        chosen.Format,
		ColorSpace:    chosen.ColorSpace,
		Extent:        extent,
		Usage:         sc.config.Usage,
		PresentMode:   sc.config.PresentMode,
	}

	handle, err := dev.CreateSwapchain(info)
	if err != nil {
		return nil, errors.Wrap(err, "creating swapchain")
	}

	images, err := dev.SwapchainImages(handle)
	if err != nil {
		dev.DestroySwapchain(handle)
		return nil, errors.Wrap(err, "fetching swapchain images")
	}

	views := make([]gfx.Handle, 0, len(images))
	for i, image := range images {
		view, err := dev.CreateImageView(image, chosen.Format)
		if err != nil {
			for _, created := range views {
				dev.DestroyImageView(created)
			}
			dev.DestroySwapchain(handle)
			return nil, errors.Wrapf(err, "creating view for swapchain image %d", i)
		}
		views = append(views, view)
	}

	var retired *Swapchain
	if !sc.Handle.IsNull() {
		retired = sc.snapshot()
	}

	sc.Handle = handle
	sc.Images = images
	sc.Views = views
	sc.Format = chosen.Format
	sc.ColorSpace = chosen.ColorSpace
	sc.Width = int(extent.Width)
	sc.Height = int(extent.Height)

	logger.Infof("(re)established swapchain with %d images", len(images))

	return retired, nil
}

// Acquire requests the next presentable image, signaling semaphore when it
// is ready to be rendered to.
func (sc *Swapchain) Acquire(dev Device, semaphore gfx.Handle) (gfx.SwapchainStatus, uint32) {
	return dev.AcquireNextImage(sc.Handle, semaphore)
}

// Present queues image index for presentation after every semaphore in wait.
func (sc *Swapchain) Present(queue gfx.Queue, wait []gfx.Handle, index uint32) gfx.SwapchainStatus {
	return queue.Present(sc.Handle, wait, index)
}

func (sc *Swapchain) ImageCount() int {
	return len(sc.Images)
}

func (sc *Swapchain) Extent() gfx.Extent2D {
	return gfx.Extent2D{Width: uint32(sc.Width), Height: uint32(sc.Height)}
}

func (sc *Swapchain) Pixels() int {
	return sc.Width * sc.Height
}

func (sc *Swapchain) Aspect() float32 {
	return float32(sc.Width) / float32(sc.Height)
}

func (sc *Swapchain) snapshot() *Swapchain {
	old := *sc
	old.Images = append([]gfx.Handle(nil), sc.Images...)
	old.Views = append([]gfx.Handle(nil), sc.Views...)
	return &old
}
