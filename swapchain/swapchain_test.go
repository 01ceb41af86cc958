package swapchain_test

import (
	"testing"

	"github.com/pkg/errors"

	"frameloop/gfx"
	"frameloop/internal/gfxtest"
	"frameloop/swapchain"
)

func TestNewBuildsImagesAndViews(t *testing.T) {
	dev := gfxtest.NewDevice()
	dev.SwapchainImageCount = 3
	platform := gfxtest.NewPlatform(800, 600)

	sc, err := swapchain.New(dev, platform, 7, swapchain.DefaultConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if sc.ImageCount() != 3 || len(sc.Views) != 3 {
		t.Errorf("expected 3 images and views, got %d and %d", len(sc.Images), len(sc.Views))
	}
	if sc.Width != 800 || sc.Height != 600 {
		t.Errorf("expected 800x600, got %dx%d", sc.Width, sc.Height)
	}
	if sc.Pixels() != 800*600 {
		t.Errorf("unexpected pixel count %d", sc.Pixels())
	}
	if len(dev.Created) != 1 || dev.Created[0].Old != gfx.Null || dev.Created[0].Surface != 7 {
		t.Errorf("unexpected create info %+v", dev.Created)
	}
}

func TestResizeWaitsWhileMinimized(t *testing.T) {
	dev := gfxtest.NewDevice()
	platform := &gfxtest.Platform{Sizes: [][2]int{{0, 0}, {0, 600}, {640, 0}, {640, 480}}}

	sc, err := swapchain.New(dev, platform, 1, swapchain.DefaultConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if platform.WaitCalls != 3 {
		t.Errorf("expected 3 event waits while the framebuffer had no area, got %d", platform.WaitCalls)
	}
	if sc.Width != 640 || sc.Height != 480 {
		t.Errorf("expected 640x480, got %dx%d", sc.Width, sc.Height)
	}
}

func TestResizeWaitsForStableSize(t *testing.T) {
	platform := &gfxtest.Platform{Sizes: [][2]int{{100, 100}, {120, 110}, {130, 115}, {130, 115}}}

	w, h := swapchain.WaitStableSize(platform)
	if w != 130 || h != 115 {
		t.Errorf("expected the settled size 130x115, got %dx%d", w, h)
	}
	if platform.SizeCalls != 4 {
		t.Errorf("expected 4 size reads, got %d", platform.SizeCalls)
	}
}

func TestResizePicksFirstSupportedFormat(t *testing.T) {
	dev := gfxtest.NewDevice()
	dev.Formats = []swapchain.SurfaceFormat{
		{Format: 50, ColorSpace: 0},
		{Format: 44, ColorSpace: 0},
		{Format: 37, ColorSpace: 0},
	}
	dev.Supported = map[gfx.Format]bool{44: true, 37: true}

	sc, err := swapchain.New(dev, gfxtest.NewPlatform(64, 64), 1, swapchain.DefaultConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sc.Format != 44 {
		t.Errorf("expected format 44, got %d", sc.Format)
	}
}

func TestResizeWithoutUsableFormat(t *testing.T) {
	dev := gfxtest.NewDevice()
	dev.Supported = map[gfx.Format]bool{}

	_, err := swapchain.New(dev, gfxtest.NewPlatform(64, 64), 1, swapchain.DefaultConfig())
	if err != swapchain.ErrNoSurfaceFormat {
		t.Errorf("expected ErrNoSurfaceFormat, got %v", err)
	}
}

func TestResizeIsIdempotent(t *testing.T) {
	dev := gfxtest.NewDevice()
	dev.SwapchainImageCount = 3
	platform := gfxtest.NewPlatform(1024, 768)

	sc, err := swapchain.New(dev, platform, 1, swapchain.DefaultConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	first := sc.Handle
	format, count := sc.Format, sc.ImageCount()

	retired, err := sc.Resize(dev, platform)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if sc.Format != format || sc.ImageCount() != count {
		t.Errorf("resize changed format/count: %d/%d -> %d/%d", format, count, sc.Format, sc.ImageCount())
	}
	if retired == nil || retired.Handle != first || len(retired.Views) != count {
		t.Fatalf("expected the first swapchain to be retired, got %+v", retired)
	}
	if dev.Created[1].Old != first {
		t.Errorf("expected the old swapchain to be passed as hint, got %v", dev.Created[1].Old)
	}
	if sc.Handle == first {
		t.Error("expected a new swapchain handle")
	}
	if len(dev.Destroyed) != 0 {
		t.Errorf("resize must not destroy anything, destroyed %v", dev.Destroyed)
	}
}

func TestFailedResizeReleasesPartialSwapchain(t *testing.T) {
	dev := gfxtest.NewDevice()
	dev.SwapchainImageCount = 3
	platform := gfxtest.NewPlatform(640, 480)

	sc, err := swapchain.New(dev, platform, 1, swapchain.DefaultConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	current, views := sc.Handle, append([]gfx.Handle(nil), sc.Views...)

	// The third view of the rebuild fails
	dev.FailImageViewAt = dev.ImageViewCalls + 3
	if _, err := sc.Resize(dev, platform); err == nil {
		t.Fatal("expected the failing image view to be reported")
	}

	var destroyedViews, destroyedSwapchains int
	for _, d := range dev.Destroyed {
		switch d.Kind {
		case gfx.KindImageView:
			destroyedViews++
		case gfx.KindSwapchain:
			destroyedSwapchains++
			if d.Handle == current {
				t.Error("the current swapchain must stay alive")
			}
		}
	}
	if destroyedViews != 2 || destroyedSwapchains != 1 {
		t.Errorf("expected 2 views and the new swapchain destroyed, got %v", dev.Destroyed)
	}
	if sc.Handle != current || len(sc.Views) != len(views) || sc.Views[0] != views[0] {
		t.Errorf("failed resize modified the swapchain: %+v", sc)
	}

	dev.Destroyed = nil
	dev.FailImages = errors.New("lost surface")
	if _, err := sc.Resize(dev, platform); err == nil {
		t.Fatal("expected the image query failure to be reported")
	}
	if len(dev.Destroyed) != 1 || dev.Destroyed[0].Kind != gfx.KindSwapchain || dev.Destroyed[0].Handle == current {
		t.Errorf("expected only the new swapchain destroyed, got %v", dev.Destroyed)
	}
}

func TestResizeClampsExtentAndImageCount(t *testing.T) {
	dev := gfxtest.NewDevice()
	dev.Caps.MinImageCount = 2
	dev.Caps.MaxImageCount = 3
	dev.Caps.MaxExtent = gfx.Extent2D{Width: 500, Height: 400}

	config := swapchain.DefaultConfig()
	config.ImageCount = 5

	sc, err := swapchain.New(dev, gfxtest.NewPlatform(800, 600), 1, config)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if sc.Width != 500 || sc.Height != 400 {
		t.Errorf("expected extent clamped to 500x400, got %dx%d", sc.Width, sc.Height)
	}
	if dev.Created[0].MinImageCount != 3 {
		t.Errorf("expected image count clamped to 3, got %d", dev.Created[0].MinImageCount)
	}
}

func TestAcquireAndPresentForwardStatus(t *testing.T) {
	dev := gfxtest.NewDevice()
	dev.Acquires = []gfxtest.Acquire{{Status: gfx.OutOfDate}}
	dev.Presents = []gfx.SwapchainStatus{gfx.Faulty}

	sc, err := swapchain.New(dev, gfxtest.NewPlatform(64, 64), 1, swapchain.DefaultConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if status, _ := sc.Acquire(dev, 99); status != gfx.OutOfDate {
		t.Errorf("expected out of date, got %v", status)
	}
	if status := sc.Present(dev, []gfx.Handle{99}, 0); status != gfx.Faulty {
		t.Errorf("expected faulty, got %v", status)
	}
}
