package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/scott-cotton/cli"
	diffpatch "github.com/sergi/go-diff/diffmatchpatch"

	"github.com/signadot/haystack-go/kind"
	"github.com/signadot/haystack-go/zinc"
)

func diff(cfg *DiffConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Diff.Parse(cc, args)
	if err != nil {
		cfg.Diff.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: diff requires 2 args, got %v", cli.ErrUsage, args)
	}
	g1, err := readGridFile(cfg.MainConfig, cc, args[0])
	if err != nil {
		return err
	}
	g2, err := readGridFile(cfg.MainConfig, cc, args[1])
	if err != nil {
		return err
	}
	if kind.Equal(g1, g2) {
		return nil
	}

	// canonical form: uncolored zinc, so the text diff is stable
	z1, err := zinc.EncodeGrid(g1)
	if err != nil {
		return err
	}
	z2, err := zinc.EncodeGrid(g2)
	if err != nil {
		return err
	}
	diffCfg := diffpatch.New()
	diffs := diffCfg.DiffMain(z1, z2, true)
	diffs = diffCfg.DiffCleanupSemantic(diffs)
	if err := writeDiffs(cfg, cc.Out, diffCfg, diffs); err != nil {
		return err
	}
	return cli.ExitCodeErr(1)
}

func writeDiffs(cfg *DiffConfig, w io.Writer, diffCfg *diffpatch.DiffMatchPatch, diffs []diffpatch.Diff) error {
	if cfg.Color || isTTY(w) {
		_, err := io.WriteString(w, diffCfg.DiffPrettyText(diffs))
		return err
	}
	for _, d := range diffs {
		var prefix string
		switch d.Type {
		case diffpatch.DiffInsert:
			prefix = "+"
		case diffpatch.DiffDelete:
			prefix = "-"
		case diffpatch.DiffEqual:
			continue
		}
		if _, err := fmt.Fprintf(w, "%s%s\n", prefix, d.Text); err != nil {
			return err
		}
	}
	return nil
}

func isTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}
