package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/danp/pricechart/cjkfont"
	"github.com/danp/pricechart/price"
	"github.com/graxinc/errutil"
	"github.com/peterbourgon/ff/v3/ffcli"
)

func newFontCmd(rootConfig *rootConfig) *ffcli.Command {
	fs := flag.NewFlagSet("pricechart font", flag.ExitOnError)

	return &ffcli.Command{
		Name:       "font",
		ShortUsage: "pricechart font",
		ShortHelp:  "report which font is active and which report glyphs it lacks",
		FlagSet:    fs,
		Exec: func(context.Context, []string) error {
			return fontExec(os.Stdout, rootConfig.font)
		},
	}
}

func fontExec(w io.Writer, st cjkfont.State) error {
	r, err := newReport(price.Demo(), reportOptions{labels: true, cards: true})
	if err != nil {
		return errutil.With(err)
	}
	missing := cjkfont.Missing(st.Face(), cjkfont.DefaultSample+strings.Join(r.texts(), ""))

	var b strings.Builder
	fmt.Fprintf(&b, "family:\t%s\n", st.Family)
	fmt.Fprintf(&b, "source:\t%s\n", st.Source)
	if st.Path != "" {
		fmt.Fprintf(&b, "path:\t%s\n", st.Path)

		coll, err := cjkfont.Load(st.Path)
		if err != nil {
			return errutil.With(err)
		}
		var faces []string
		for _, f := range coll {
			faces = append(faces, string(f.Font.Typeface))
		}
		fmt.Fprintf(&b, "faces:\t%s\n", strings.Join(faces, ", "))
	}
	if st.Reason != "" {
		fmt.Fprintf(&b, "reason:\t%s\n", st.Reason)
	}
	if len(missing) == 0 {
		fmt.Fprintf(&b, "missing:\tnone\n")
	} else {
		fmt.Fprintf(&b, "missing:\t%d %s\n", len(missing), string(missing))
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return errutil.With(err)
	}
	return nil
}
