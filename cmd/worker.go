package cmd

import (
	"fmt"
	"net"
	"os"

	"github.com/google/uuid"
	"github.com/urfave/cli"

	"github.com/joeylitalien/mitsuba/render"
	"github.com/joeylitalien/mitsuba/stream"
)

// Connect to a master node and serve block requests until the master
// closes the session.
func RunWorker(ctx *cli.Context) error {
	setupLogging(ctx)

	addr := ctx.String("master")
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return fmt.Errorf("could not reach master at %s: %v", addr, err)
	}

	host, _ := os.Hostname()
	id := fmt.Sprintf("%s-%s", host, uuid.NewString()[:8])

	logger.Noticef("serving master %s as worker %s", addr, id)
	return render.ServeWorker(id, stream.NewConnStream(conn), logger)
}
