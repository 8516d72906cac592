package main

import (
	"io"

	"github.com/scott-cotton/cli"

	"github.com/signadot/haystack-go/kind"
	"github.com/signadot/haystack-go/zinc"
)

// view always renders zinc, regardless of the output format flags.
func view(cfg *ViewConfig, cc *cli.Context, args []string) error {
	args, err := cfg.View.Parse(cc, args)
	if err != nil {
		return err
	}
	return eachGridFile(cfg.MainConfig, cc, args, func(g *kind.Grid) error {
		s, err := zinc.EncodeGrid(g, cfg.zincOpts(cc.Out)...)
		if err != nil {
			return err
		}
		_, err = io.WriteString(cc.Out, s)
		return err
	})
}
