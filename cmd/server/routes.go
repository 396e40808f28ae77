package main

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/urfave/cli/v3"
)

func newRoutesCommand() *cli.Command {
	return &cli.Command{
		Name:   "routes",
		Usage:  "List the registered HTTP routes",
		Action: routesAction,
	}
}

func routesAction(_ context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	a, err := newApp(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		return err
	}
	defer a.client.Close()

	routes, err := a.server.Routes()
	if err != nil {
		return err
	}

	out := cmd.Root().Writer
	if out == nil {
		out = os.Stdout
	}

	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"METHOD", "PATTERN"})
	for _, r := range routes {
		t.AppendRow(table.Row{r.Method, r.Pattern})
	}
	t.Render()
	return nil
}
