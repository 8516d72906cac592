package main

import (
	"github.com/scott-cotton/cli"

	"github.com/signadot/haystack-go/kind"
)

func convert(cfg *ConvertConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Convert.Parse(cc, args)
	if err != nil {
		return err
	}
	return eachGridFile(cfg.MainConfig, cc, args, func(g *kind.Grid) error {
		return cfg.encodeGrid(cc.Out, g)
	})
}
