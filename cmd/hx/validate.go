package main

import (
	"bytes"
	"fmt"
	"os/exec"

	"github.com/scott-cotton/cli"

	"github.com/signadot/haystack-go/hayson"
	"github.com/signadot/haystack-go/kind"
)

// validate pipes each grid through an external validator process as
// json and decodes the diagnostics grid the validator writes back. A
// diagnostics grid with rows, or with the err marker, fails the run.
func validate(cfg *ValidateConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Validate.Parse(cc, args)
	if err != nil {
		return err
	}
	if cfg.Cmd == "" {
		return fmt.Errorf("%w: validate requires -cmd", cli.ErrUsage)
	}
	failed := false
	err = eachGridFile(cfg.MainConfig, cc, args, func(g *kind.Grid) error {
		diags, err := runValidator(cfg.Cmd, g)
		if err != nil {
			return err
		}
		if diags.IsErr() || len(diags.Rows()) > 0 {
			failed = true
			return cfg.encodeGrid(cc.Out, diags)
		}
		return nil
	})
	if err != nil {
		return err
	}
	if failed {
		return cli.ExitCodeErr(1)
	}
	return nil
}

func runValidator(command string, g *kind.Grid) (*kind.Grid, error) {
	in, err := hayson.EncodeGrid(g)
	if err != nil {
		return nil, err
	}
	cmd := exec.Command("sh", "-c", command)
	cmd.Stdin = bytes.NewReader(in)
	out := bytes.NewBuffer(nil)
	cmd.Stdout = out
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("validator %q: %w", command, err)
	}
	diags, err := hayson.DecodeGrid(out.Bytes())
	if err != nil {
		return nil, fmt.Errorf("error decoding validator output: %w", err)
	}
	return diags, nil
}
