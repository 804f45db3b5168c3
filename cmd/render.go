package cmd

import (
	"bytes"
	"fmt"
	"net"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"

	"github.com/joeylitalien/mitsuba/render"
	"github.com/joeylitalien/mitsuba/stream"
)

// Render a still frame across local and remote workers.
func RenderFrame(ctx *cli.Context) error {
	setupLogging(ctx)

	components, err := parseComponents(ctx.String("components"))
	if err != nil {
		return err
	}

	opts := render.Options{
		FrameW:          uint32(ctx.Int("width")),
		FrameH:          uint32(ctx.Int("height")),
		BlockSize:       uint32(ctx.Int("block-size")),
		MaxBlockRetries: ctx.Int("max-retries"),
		Components:      components,
	}

	workers, err := assembleWorkers(ctx)
	if err != nil {
		return err
	}

	coordinator, err := render.NewCoordinator(workers...)
	if err != nil {
		return err
	}
	defer coordinator.Close()

	job, err := render.NewJob(demoScene(), demoIntegrator(), opts)
	if err != nil {
		return err
	}

	sink := render.NewImageSink(opts.FrameW, opts.FrameH)
	stats, err := coordinator.Render(job, sink)
	if err != nil {
		return err
	}

	out := ctx.String("out")
	if err = sink.WritePNG(out); err != nil {
		return err
	}
	logger.Noticef("wrote frame to %s", out)

	displayJobStats(stats)
	return nil
}

// Spin up the requested local workers and wait for any remote workers to
// connect before rendering starts.
func assembleWorkers(ctx *cli.Context) ([]render.Worker, error) {
	var workers []render.Worker

	numLocal := ctx.Int("workers")
	for i := 0; i < numLocal; i++ {
		worker, err := render.NewLocalWorker(fmt.Sprintf("local-%d", i))
		if err != nil {
			return nil, err
		}
		workers = append(workers, worker)
	}

	numRemote := ctx.Int("remote-workers")
	if numRemote > 0 {
		listener, err := net.Listen("tcp", ctx.String("listen"))
		if err != nil {
			return nil, err
		}
		defer listener.Close()

		logger.Noticef("waiting for %d remote workers on %s", numRemote, listener.Addr())
		for i := 0; i < numRemote; i++ {
			conn, err := listener.Accept()
			if err != nil {
				return nil, err
			}
			worker, err := render.NewRemoteWorker(stream.NewConnStream(conn))
			if err != nil {
				return nil, err
			}
			logger.Noticef("remote worker %s connected (speed %d)", worker.Id(), worker.Speed())
			workers = append(workers, worker)
		}
	}

	if len(workers) == 0 {
		return nil, render.ErrNoWorkers
	}
	return workers, nil
}

func displayJobStats(stats render.JobStats) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Worker", "Blocks", "Retries", "Render time"})
	for _, stat := range stats.Workers {
		table.Append([]string{
			stat.Id,
			fmt.Sprintf("%d", stat.Blocks),
			fmt.Sprintf("%d", stat.Retries),
			fmt.Sprintf("%s", stat.RenderTime),
		})
	}
	table.SetFooter([]string{"", fmt.Sprintf("%d", stats.Blocks), "TOTAL", fmt.Sprintf("%s", stats.RenderTime)})

	table.Render()
	logger.Noticef("job statistics\n%s", buf.String())
}
