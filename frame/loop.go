// Package frame drives the per-frame render loop: wait for the slot's fence,
// acquire a swapchain image, record through the caller's callback, submit,
// present and advance to the next slot. Out-of-date swapchains are rebuilt in
// place; any other acquire or present failure ends the run.
package frame

import (
	"fmt"

	"github.com/pkg/errors"

	"frameloop/dealloc"
	"frameloop/gfx"
	"frameloop/log"
	"frameloop/swapchain"
)

var logger = log.New("frame")

// ErrFaulty is returned by Run when acquisition or presentation failed with
// an unrecoverable driver error.
var ErrFaulty = errors.New("frame: swapchain operation failed")

// RenderFunc records the commands of one frame into cmd for swapchain image
// index. It must not block or submit work itself.
type RenderFunc func(cmd gfx.Handle, index uint32)

// Device is everything the loop needs from a backend device.
type Device interface {
	gfx.Device
	swapchain.Device
}

// Platform is the window the loop runs in.
type Platform interface {
	swapchain.Platform
	ShouldClose() bool
	// PollEvents processes pending events without blocking.
	PollEvents()
}

// Config wires a Loop to a device, its swapchain and the caller's callbacks.
type Config struct {
	Device    Device
	Resources gfx.DeviceResources
	// Collector receives the loop's command buffers, synchronization
	// primitives and retired swapchains. The caller drains it after Run.
	Collector *dealloc.Collector
	Swapchain *swapchain.Swapchain
	Platform  Platform

	Render RenderFunc
	// Resize is called after the swapchain was rebuilt, to rebuild anything
	// that depends on its images. Optional.
	Resize func()
	// AfterPresent is called once per presented frame. Optional.
	AfterPresent func()
}

// Loop is an N-buffered render loop, N being the swapchain image count.
type Loop struct {
	config Config

	commands []gfx.Handle
	sync     *gfx.Synchronization

	frame     int
	skipReset bool
}

// New validates config and returns a loop ready to Run.
func New(config Config) (*Loop, error) {
	switch {
	case config.Device == nil:
		return nil, errors.New("frame: missing device")
	case config.Resources.Queue == nil:
		return nil, errors.New("frame: missing queue")
	case config.Collector == nil:
		return nil, errors.New("frame: missing collector")
	case config.Swapchain == nil:
		return nil, errors.New("frame: missing swapchain")
	case config.Platform == nil:
		return nil, errors.New("frame: missing platform")
	case config.Render == nil:
		return nil, errors.New("frame: missing render callback")
	}

	return &Loop{config: config}, nil
}

// Frame returns the current slot index.
func (l *Loop) Frame() int {
	return l.frame
}

// Slots returns the number of frame slots, zero before Run.
func (l *Loop) Slots() int {
	return len(l.commands)
}

// Run renders frames until the platform requests to close or a swapchain
// operation fails with gfx.Faulty, in which case the returned error wraps
// ErrFaulty. The device is idle whenever Run returns.
func (l *Loop) Run() (err error) {
	dev := l.config.Device

	defer func() {
		if idleErr := dev.WaitIdle(); idleErr != nil && err == nil {
			err = errors.Wrap(idleErr, "idling device")
		}
	}()

	if err := l.allocate(l.config.Swapchain.ImageCount()); err != nil {
		return err
	}

	for !l.config.Platform.ShouldClose() {
		l.config.Platform.PollEvents()

		// No work was submitted from this slot if the previous acquire failed
		if l.skipReset {
			l.skipReset = false
		} else if err := dev.WaitAndReset(l.sync.Processing[l.frame]); err != nil {
			return errors.Wrapf(err, "waiting for frame slot %d", l.frame)
		}

		status, index := l.config.Swapchain.Acquire(dev, l.sync.Available[l.frame])
		switch status {
		case gfx.OutOfDate:
			logger.Warning("need to resize swapchain (failed acquire)")
			before := l.sync
			if err := l.recover(); err != nil {
				return err
			}
			// Rebuilt slots start with signaled fences that must be reset
			l.skipReset = l.sync == before
			continue
		case gfx.Faulty:
			logger.Error("failed to acquire swapchain image")
			return errors.Wrap(ErrFaulty, "acquire")
		}

		cmd := l.commands[l.frame]
		if err := l.record(cmd, index); err != nil {
			return err
		}

		err := l.config.Resources.Queue.Submit(
			[]gfx.Handle{cmd},
			[]gfx.Handle{l.sync.Available[l.frame]},
			[]gfx.Handle{l.sync.Finished[l.frame]},
			l.sync.Processing[l.frame],
			gfx.StageColorAttachmentOutput,
		)
		if err != nil {
			return errors.Wrapf(err, "submitting frame slot %d", l.frame)
		}

		rebuilt := false
		status = l.config.Swapchain.Present(l.config.Resources.Queue, []gfx.Handle{l.sync.Finished[l.frame]}, index)
		switch status {
		case gfx.OutOfDate:
			logger.Warning("need to resize swapchain (failed present)")
			before := l.sync
			if err := l.recover(); err != nil {
				return err
			}
			rebuilt = l.sync != before
		case gfx.Faulty:
			logger.Error("failed to present swapchain image")
			return errors.Wrap(ErrFaulty, "present")
		}

		if l.config.AfterPresent != nil {
			l.config.AfterPresent()
		}

		if !rebuilt {
			l.frame = (l.frame + 1) % len(l.commands)
		}
	}

	return nil
}

func (l *Loop) record(cmd gfx.Handle, index uint32) error {
	dev := l.config.Device

	if err := dev.BeginCommandBuffer(cmd); err != nil {
		return errors.Wrapf(err, "beginning command buffer of slot %d", l.frame)
	}

	l.config.Render(cmd, index)

	if err := dev.EndCommandBuffer(cmd); err != nil {
		return errors.Wrapf(err, "ending command buffer of slot %d", l.frame)
	}

	return nil
}

// recover idles the device and rebuilds the swapchain. The frame slots are
// rebuilt as well when the image count changed.
func (l *Loop) recover() error {
	dev := l.config.Device

	if err := dev.WaitIdle(); err != nil {
		return errors.Wrap(err, "idling device for resize")
	}

	retired, err := l.config.Swapchain.Resize(dev, l.config.Platform)
	if err != nil {
		return errors.Wrap(err, "resizing swapchain")
	}
	if retired != nil {
		l.config.Collector.CollectSwapchain(retired, "swapchain.retired")
	}

	if n := l.config.Swapchain.ImageCount(); n != len(l.commands) {
		logger.Infof("swapchain image count changed from %d to %d, rebuilding frame slots", len(l.commands), n)
		if err := l.allocate(n); err != nil {
			return err
		}
		l.frame = 0
	}

	if l.config.Resize != nil {
		l.config.Resize()
	}

	return nil
}

// allocate creates n command buffers and a synchronization set, handing
// them to the collector right away. Previous slots were collected when they
// were created and are simply dropped.
func (l *Loop) allocate(n int) error {
	dev := l.config.Device
	pool := l.config.Resources.CommandPool

	commands, err := dev.AllocateCommandBuffers(pool, n)
	if err != nil {
		return errors.Wrap(err, "allocating frame command buffers")
	}
	for i, cmd := range commands {
		l.config.Collector.CollectCommandBuffer(cmd, pool, fmt.Sprintf("frame.command[%d]", i))
	}

	sync, err := gfx.NewSynchronization(dev, n)
	if err != nil {
		return errors.Wrap(err, "creating frame synchronization")
	}
	l.config.Collector.CollectSynchronization(sync, "frame.sync")

	l.commands = commands
	l.sync = sync
	return nil
}
