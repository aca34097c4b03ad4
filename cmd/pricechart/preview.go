package main

import (
	"context"
	"flag"

	"github.com/danp/pricechart/price"
	"github.com/peterbourgon/ff/v3/ffcli"
	"gonum.org/v1/plot/vg"
)

func newPreviewCmd(rootConfig *rootConfig) *ffcli.Command {
	var (
		fs  = flag.NewFlagSet("pricechart preview", flag.ExitOnError)
		out = fs.String("out", "preview.png", "output file")
		dpi = fs.Int("dpi", 150, "resolution of raster output")
	)

	return &ffcli.Command{
		Name:       "preview",
		ShortUsage: "pricechart preview [flags]",
		ShortHelp:  "render the demo data with headline cards",
		FlagSet:    fs,
		Exec: func(context.Context, []string) error {
			opts := reportOptions{
				width:  20 * vg.Inch,
				height: 16 * vg.Inch,
				dpi:    *dpi,
				labels: true,
				cards:  true,
			}
			return renderExec(price.Demo(), *out, opts, rootConfig.font)
		},
	}
}
