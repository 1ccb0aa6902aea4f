package main

import (
	"os"

	"github.com/urfave/cli"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		logger.Error(err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	// -v is taken by the verbosity flag
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "pathtracer"
	app.Usage = "render sphere scenes with a progressive path tracer"
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
			Name:  "scenes-dir",
			Value: "scenes",
			Usage: "directory searched for JSON scene files",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "render",
			Usage: "render a scene to a PNG file",
			Description: `
Render a fixed number of passes (one sample per pixel each) and write the
averaged image to a PNG file. Interrupting the render keeps the passes that
already completed.`,
			Flags: append(sceneFlags(1),
				cli.IntFlag{
					Name:  "samples, s",
					Value: 10,
					Usage: "number of passes (samples per pixel)",
				},
				cli.StringFlag{
					Name:  "out, o",
					Usage: "output file (default output/<scene>/render_<timestamp>.png)",
				},
				cli.BoolFlag{
					Name:  "overlay",
					Usage: "paint the sample count onto the image",
				},
				cli.IntFlag{
					Name:  "scale",
					Value: 1,
					Usage: "integer upscale factor for the saved image",
				},
			),
			Action: renderScene,
		},
		{
			Name:  "serve",
			Usage: "render progressively and serve the preview over HTTP",
			Flags: append(sceneFlags(0),
				cli.IntFlag{
					Name:  "port, p",
					Value: 8080,
					Usage: "HTTP port",
				},
				cli.IntFlag{
					Name:  "samples, s",
					Usage: "stop after this many passes (0 = until interrupted)",
				},
			),
			Action: serveScene,
		},
		{
			Name:   "scenes",
			Usage:  "list available scenes",
			Action: listScenes,
		},
	}

	return app
}

// sceneFlags are shared by the commands that build a renderer
func sceneFlags(defaultWorkers int) []cli.Flag {
	return []cli.Flag{
		cli.StringFlag{
			Name:  "scene",
			Value: "default",
			Usage: "built-in scene name or path to a .json scene file",
		},
		cli.IntFlag{
			Name:  "width",
			Usage: "image width (default from scene)",
		},
		cli.IntFlag{
			Name:  "height",
			Usage: "image height (default from scene)",
		},
		cli.IntFlag{
			Name:  "depth",
			Usage: "maximum bounce depth (default from scene)",
		},
		cli.Int64Flag{
			Name:  "seed",
			Value: 42,
			Usage: "base random seed",
		},
		cli.IntFlag{
			Name:  "workers, w",
			Value: defaultWorkers,
			Usage: "parallel tile workers (0 = one per CPU)",
		},
		cli.IntFlag{
			Name:  "tile",
			Value: 64,
			Usage: "tile size in pixels",
		},
	}
}
