package main

import (
	"os"

	"github.com/urfave/cli"

	"github.com/joeylitalien/mitsuba/cmd"
)

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "mitsuba"
	app.Usage = "distributed rendering over a master/worker pool"
	app.Version = "0.0.1"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "render",
			Usage: "render a frame across local and remote workers",
			Description: `
Distribute the scene and integrator tree to the attached worker pool,
run the one-time preprocessing phase and dispatch image blocks until the
frame is complete. The composited frame is written as a PNG file.`,
			Flags: []cli.Flag{
				cli.IntFlag{
					Name:  "width",
					Value: 512,
					Usage: "frame width",
				},
				cli.IntFlag{
					Name:  "height",
					Value: 512,
					Usage: "frame height",
				},
				cli.IntFlag{
					Name:  "block-size",
					Value: 32,
					Usage: "nominal block edge length in pixels",
				},
				cli.IntFlag{
					Name:  "max-retries",
					Value: 3,
					Usage: "block reassignment bound before the job fails",
				},
				cli.StringFlag{
					Name:  "components",
					Value: "all",
					Usage: "requested radiance components (comma separated)",
				},
				cli.IntFlag{
					Name:  "workers",
					Value: 1,
					Usage: "number of in-process workers",
				},
				cli.IntFlag{
					Name:  "remote-workers",
					Usage: "number of remote workers to wait for",
				},
				cli.StringFlag{
					Name:  "listen",
					Value: ":7151",
					Usage: "address to accept remote workers on",
				},
				cli.StringFlag{
					Name:  "out",
					Value: "frame.png",
					Usage: "output image file",
				},
			},
			Action: cmd.RenderFrame,
		},
		{
			Name:  "worker",
			Usage: "serve blocks for a remote master",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "master",
					Value: "127.0.0.1:7151",
					Usage: "master address to connect to",
				},
			},
			Action: cmd.RunWorker,
		},
	}

	app.Run(os.Args)
}
