package main

import (
	"context"
	"fmt"
	"net"
	"strconv"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/maka/internal/server"
	"github.com/desertthunder/maka/internal/shared"
)

// Serve runs the web page until the process is interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	engine, err := r.browseEngine()
	if err != nil {
		return err
	}
	tracker, err := r.watchTracker(ctx)
	if err != nil {
		return err
	}

	router, err := server.NewRouter(engine, tracker, r.logger)
	if err != nil {
		return err
	}
	for _, route := range router.Routes() {
		r.logger.Debug("route registered", "pattern", route)
	}

	ln, err := server.Listen(r.serveAddr(cmd))
	if err != nil {
		return err
	}

	if cmd.Bool("open") {
		url := fmt.Sprintf("http://%s/", ln.Addr().String())
		if err := shared.OpenBrowser(url); err != nil {
			r.logger.Warn("failed to open browser", "url", url, "error", err)
		}
	}

	return server.NewServer(router, r.logger).Serve(ctx, ln)
}

// serveAddr prefers --host/--port over the [server] config section.
func (r *Runner) serveAddr(cmd *cli.Command) string {
	host, port := r.config.Server.Host, r.config.Server.Port
	if cmd.IsSet("host") {
		host = cmd.String("host")
	}
	if cmd.IsSet("port") {
		port = int(cmd.Int("port"))
	}
	return net.JoinHostPort(host, strconv.Itoa(port))
}
