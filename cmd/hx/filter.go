package main

import (
	"fmt"

	"github.com/scott-cotton/cli"

	"github.com/signadot/haystack-go/gridq"
	"github.com/signadot/haystack-go/kind"
)

func filter(cfg *FilterConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Filter.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: filter requires an expression", cli.ErrUsage)
	}
	q, err := gridq.Compile(args[0])
	if err != nil {
		return err
	}
	return eachGridFile(cfg.MainConfig, cc, args[1:], func(g *kind.Grid) error {
		filtered, err := q.Filter(g)
		if err != nil {
			return err
		}
		return cfg.encodeGrid(cc.Out, filtered)
	})
}
