package main

import (
	"fmt"
	"io"
	"os"

	"github.com/scott-cotton/cli"

	"github.com/signadot/haystack-go/kind"
)

func readGridFile(cfg *MainConfig, cc *cli.Context, path string) (*kind.Grid, error) {
	var r io.Reader
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("could not open %q: %w", path, err)
		}
		defer f.Close()
		r = f
	} else {
		r = cc.In
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("error reading %q: %w", path, err)
	}
	g, err := cfg.decodeGrid(data)
	if err != nil {
		return nil, fmt.Errorf("error decoding %s: %w", path, err)
	}
	return g, nil
}

// eachGridFile decodes every named grid file, or stdin when none are
// given, and applies fn.
func eachGridFile(cfg *MainConfig, cc *cli.Context, args []string, fn func(*kind.Grid) error) error {
	if len(args) == 0 {
		args = []string{"-"}
	}
	for _, path := range args {
		g, err := readGridFile(cfg, cc, path)
		if err != nil {
			return err
		}
		if err := fn(g); err != nil {
			return err
		}
	}
	return nil
}
