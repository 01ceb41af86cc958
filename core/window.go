package core

import (
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/pkg/errors"

	"frameloop/log"
)

var logger = log.New("window")

func init() {
	runtime.LockOSThread()
}

// Window is a GLFW window. It serves framebuffer sizes and events to the
// swapchain and the frame loop.
type Window struct {
	Handle *glfw.Window
	Title  string
	API    API
}

type WindowConfig struct {
	Width      int
	Height     int
	Title      string
	API        API
	Resizable  bool
	Fullscreen bool
}

func DefaultWindowConfig() WindowConfig {
	return WindowConfig{
		Width:     1280,
		Height:    720,
		Title:     "frameloop",
		API:       Vulkan,
		Resizable: true,
	}
}

func NewWindow(config WindowConfig) (*Window, error) {
	if err := glfw.Init(); err != nil {
		return nil, errors.Wrap(err, "failed to initialize GLFW")
	}

	switch config.API {
	case Vulkan:
		if !glfw.VulkanSupported() {
			glfw.Terminate()
			return nil, errors.New("GLFW reports no Vulkan loader")
		}
		glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	case OpenGL:
		glfw.WindowHint(glfw.ContextVersionMajor, 4)
		glfw.WindowHint(glfw.ContextVersionMinor, 1)
		glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
		glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	}
	glfw.WindowHint(glfw.Resizable, boolToInt(config.Resizable))

	monitor := (*glfw.Monitor)(nil)
	if config.Fullscreen {
		monitor = glfw.GetPrimaryMonitor()
	}

	handle, err := glfw.CreateWindow(config.Width, config.Height, config.Title, monitor, nil)
	if err != nil {
		glfw.Terminate()
		return nil, errors.Wrap(err, "failed to create window")
	}

	if config.API == OpenGL {
		handle.MakeContextCurrent()
		// Presentation pacing comes from the FIFO-like buffer swap
		glfw.SwapInterval(1)
	}

	width, height := handle.GetFramebufferSize()
	logger.Infof("window instantiated with size (%d, %d) for %s", width, height, config.API)

	return &Window{
		Handle: handle,
		Title:  config.Title,
		API:    config.API,
	}, nil
}

func (w *Window) ShouldClose() bool {
	return w.Handle.ShouldClose()
}

func (w *Window) SetShouldClose(close bool) {
	w.Handle.SetShouldClose(close)
}

func (w *Window) PollEvents() {
	glfw.PollEvents()
}

// WaitEvents blocks until at least one event arrived, e.g. while the
// window is minimized.
func (w *Window) WaitEvents() {
	glfw.WaitEvents()
}

func (w *Window) FramebufferSize() (int, int) {
	return w.Handle.GetFramebufferSize()
}

// SwapBuffers presents the back buffer of an OpenGL window.
func (w *Window) SwapBuffers() {
	w.Handle.SwapBuffers()
}

func (w *Window) RequiredInstanceExtensions() []string {
	return w.Handle.GetRequiredInstanceExtensions()
}

// CreateWindowSurface creates a Vulkan surface for instance, which must be
// a VkInstance handle.
func (w *Window) CreateWindowSurface(instance interface{}) (uintptr, error) {
	surface, err := w.Handle.CreateWindowSurface(instance, nil)
	if err != nil {
		return 0, errors.Wrap(err, "failed to create window surface")
	}
	return surface, nil
}

func (w *Window) Destroy() {
	w.Handle.Destroy()
	glfw.Terminate()
}

func (w *Window) IsKeyPressed(key int) bool {
	return w.Handle.GetKey(glfw.Key(key)) == glfw.Press
}

func (w *Window) SetTitle(title string) {
	w.Handle.SetTitle(title)
	w.Title = title
}

func boolToInt(b bool) int {
	if b {
		return glfw.True
	}
	return glfw.False
}

const (
	KeyQ      = int(glfw.KeyQ)
	KeyEscape = int(glfw.KeyEscape)
)
