// Command pricechart renders daily electricity price trend reports with
// Chinese text, using a bundled CJK font when it is available.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/danp/pricechart/cjkfont"
	"github.com/peterbourgon/ff/v3"
	"github.com/peterbourgon/ff/v3/ffcli"
)

type rootConfig struct {
	font cjkfont.State
}

func main() {
	var (
		rootFlagSet = flag.NewFlagSet("pricechart", flag.ExitOnError)
		fontPath    = rootFlagSet.String("font", cjkfont.DefaultPath, "CJK font file, relative paths are also tried next to the executable")
		fontFamily  = rootFlagSet.String("font-family", cjkfont.DefaultFamily, "font family to activate from the font file")
		systemFonts = rootFlagSet.Bool("system-fonts", true, "search installed fonts for a CJK family when the font file is unusable")
		_           = rootFlagSet.String("config", "", "config file (optional)")
	)

	var rc rootConfig

	root := &ffcli.Command{
		ShortUsage: "pricechart [flags] <subcommand>",
		FlagSet:    rootFlagSet,
		Options: []ff.Option{
			ff.WithEnvVarPrefix("PRICECHART"),
			ff.WithConfigFileFlag("config"),
			ff.WithConfigFileParser(ff.PlainParser),
			ff.WithAllowMissingConfigFile(true),
		},
		Subcommands: []*ffcli.Command{
			newRenderCmd(&rc),
			newPreviewCmd(&rc),
			newFontCmd(&rc),
			newServeCmd(&rc),
		},
		Exec: func(context.Context, []string) error {
			return flag.ErrHelp
		},
	}

	if err := root.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		log.Fatal(err)
	}

	rc.font = setupFont(cjkfont.Asset{Path: *fontPath, Family: *fontFamily, Sample: cjkfont.DefaultSample}, *systemFonts)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := root.Run(ctx); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		log.Fatal(err)
	}
}

// setupFont registers the CJK font once for the whole process.
func setupFont(asset cjkfont.Asset, systemFonts bool) cjkfont.State {
	var dirs []string
	if exe, err := os.Executable(); err == nil {
		dirs = append(dirs, filepath.Dir(exe))
	}
	if p, ok := cjkfont.Locate(asset.Path, dirs...); ok {
		asset.Path = p
	}

	var opts []cjkfont.Option
	if systemFonts {
		opts = append(opts, cjkfont.WithSystemFonts())
	}

	st := cjkfont.Setup(asset, opts...)
	if st.Fallback() {
		log.Printf("at=font-fallback family=%q source=%s path=%q reason=%q", st.Family, st.Source, st.Path, st.Reason)
	} else {
		log.Printf("at=font family=%q path=%q", st.Family, st.Path)
	}
	return st
}
