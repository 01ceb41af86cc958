// Command demo runs the frame loop on a window, clearing it to a slowly
// cycling sky color until the window is closed or Q/Escape is pressed.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli"
	"github.com/xlab/closer"

	"frameloop/core"
	"frameloop/log"
	"frameloop/stats"
)

var logger = log.New("demo")

func main() {
	defer closer.Close()

	app := cli.NewApp()
	app.Name = "demo"
	app.Usage = "present frames through an N-buffered render loop"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
		cli.StringFlag{
			Name:  "api",
			Value: "vulkan",
			Usage: "graphics backend (vulkan or opengl)",
		},
		cli.IntFlag{
			Name:  "width",
			Value: 1280,
			Usage: "initial window width",
		},
		cli.IntFlag{
			Name:  "height",
			Value: 720,
			Usage: "initial window height",
		},
		cli.BoolFlag{
			Name:  "validation",
			Usage: "enable the Khronos validation layer (vulkan only)",
		},
		cli.BoolFlag{
			Name:  "fullscreen",
			Usage: "open a fullscreen window on the primary monitor",
		},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		closer.Fatalln(err)
	}
}

func setupLogging(ctx *cli.Context) {
	if ctx.GlobalBool("v") {
		log.SetLevel(log.Info)
	}

	if ctx.GlobalBool("vv") {
		log.SetLevel(log.Debug)
	}
}

func run(ctx *cli.Context) error {
	setupLogging(ctx)

	api, err := core.ParseAPI(ctx.String("api"))
	if err != nil {
		return err
	}

	config := core.DefaultWindowConfig()
	config.Width = ctx.Int("width")
	config.Height = ctx.Int("height")
	config.Fullscreen = ctx.Bool("fullscreen")
	config.API = api
	config.Title = "frameloop (" + api.String() + ")"

	window, err := core.NewWindow(config)
	if err != nil {
		return err
	}

	// All device work stays on this thread. On a signal the close request
	// ends the loop and the handler waits for the teardown below.
	finished := make(chan struct{})
	closer.Bind(func() {
		window.SetShouldClose(true)
		<-finished
	})
	defer close(finished)
	defer window.Destroy()

	var recorder stats.Recorder
	switch api {
	case core.Vulkan:
		err = runVulkan(window, ctx.Bool("validation"), &recorder)
	case core.OpenGL:
		err = runOpenGL(window, &recorder)
	}
	if err != nil {
		return err
	}

	stats.Write(os.Stdout, recorder.Snapshot())
	return nil
}

// handleKeys closes the window on Q or Escape.
func handleKeys(window *core.Window) {
	if window.IsKeyPressed(core.KeyQ) || window.IsKeyPressed(core.KeyEscape) {
		logger.Notice("exit requested")
		window.SetShouldClose(true)
	}
}

// afterPresent ticks the recorder and shows the mean frame rate in the
// window title about once a second.
func afterPresent(window *core.Window, recorder *stats.Recorder) func() {
	title := window.Title
	var shown time.Time

	return func() {
		recorder.Tick()
		if now := time.Now(); now.Sub(shown) >= time.Second {
			shown = now
			window.SetTitle(fmt.Sprintf("%s %.0f fps", title, recorder.Snapshot().FPS()))
		}
	}
}
