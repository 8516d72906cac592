package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/scott-cotton/cli"

	"github.com/signadot/haystack-go/hayson"
	"github.com/signadot/haystack-go/kind"
	"github.com/signadot/haystack-go/zinc"
)

type gridFormat int

const (
	formatSniff gridFormat = iota
	formatZinc
	formatJSON
)

func parseFormat(v string) (gridFormat, error) {
	switch v {
	case "zinc", "z":
		return formatZinc, nil
	case "json", "j", "hayson":
		return formatJSON, nil
	}
	return formatSniff, fmt.Errorf("unknown format %q", v)
}

type MainConfig struct {
	Z     bool `cli:"name=z aliases=zinc desc='do i/o in zinc'"`
	J     bool `cli:"name=j aliases=json desc='do i/o in json'"`
	Color bool `cli:"name=color desc='encode with color'"`

	InFormat, OutFormat *gridFormat

	Out      string
	CloseOut func() error

	Main *cli.Command
}

func (cfg *MainConfig) fmtFunc(fps ...**gridFormat) cli.FuncOpt {
	return cli.FuncOpt(func(_ *cli.Context, v string) (any, error) {
		f, err := parseFormat(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", cli.ErrUsage, err)
		}
		for _, fp := range fps {
			*fp = &f
		}
		return f, nil
	})
}

func (cfg *MainConfig) outOpt(cc *cli.Context, a string) (any, error) {
	cfg.Out = a
	if a == "-" {
		return nil, nil
	}
	f, err := os.OpenFile(cfg.Out, os.O_CREATE|os.O_TRUNC|os.O_RDWR, 0644)
	if err != nil {
		return nil, err
	}
	cc.Out = f
	cfg.CloseOut = f.Close
	return nil, nil
}

func (cfg *MainConfig) inFormat() gridFormat {
	var f gridFormat
	switch {
	case cfg.Z:
		f = formatZinc
	case cfg.J:
		f = formatJSON
	}
	if cfg.InFormat != nil {
		f = *cfg.InFormat
	}
	return f
}

func (cfg *MainConfig) outFormat() gridFormat {
	var f gridFormat
	switch {
	case cfg.Z:
		f = formatZinc
	case cfg.J:
		f = formatJSON
	}
	if cfg.OutFormat != nil {
		f = *cfg.OutFormat
	}
	return f
}

// sniffFormat guesses zinc or json from the first non-space byte.
func sniffFormat(data []byte) gridFormat {
	for _, b := range data {
		switch b {
		case ' ', '\t', '\n', '\r':
			continue
		case '{', '[':
			return formatJSON
		}
		break
	}
	return formatZinc
}

func (cfg *MainConfig) decodeGrid(data []byte) (*kind.Grid, error) {
	f := cfg.inFormat()
	if f == formatSniff {
		f = sniffFormat(data)
	}
	if f == formatJSON {
		return hayson.DecodeGrid(data)
	}
	return zinc.DecodeGrid(string(data))
}

func (cfg *MainConfig) encodeGrid(w io.Writer, g *kind.Grid) error {
	if cfg.outFormat() == formatJSON {
		data, err := hayson.EncodeGrid(g)
		if err != nil {
			return err
		}
		var buf bytes.Buffer
		if err := json.Indent(&buf, data, "", "  "); err != nil {
			return err
		}
		buf.WriteByte('\n')
		_, err = w.Write(buf.Bytes())
		return err
	}
	s, err := zinc.EncodeGrid(g, cfg.zincOpts(w)...)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, s)
	return err
}

func (cfg *MainConfig) zincOpts(w io.Writer) []zinc.EncodeOption {
	if cfg.Color {
		return []zinc.EncodeOption{zinc.WithColors(zinc.DefaultColors())}
	}
	f, ok := w.(*os.File)
	if !ok {
		return nil
	}
	if isatty.IsTerminal(f.Fd()) {
		return []zinc.EncodeOption{zinc.WithColors(zinc.DefaultColors())}
	}
	return nil
}

type ConvertConfig struct {
	*MainConfig

	Convert *cli.Command
}

type ViewConfig struct {
	*MainConfig

	View *cli.Command
}

type DiffConfig struct {
	*MainConfig

	Diff *cli.Command
}

type FilterConfig struct {
	*MainConfig

	Filter *cli.Command
}

type ValidateConfig struct {
	*MainConfig
	Cmd string `cli:"name=cmd desc='validator command, run with sh -c'"`

	Validate *cli.Command
}
