package main

import (
	"log/slog"

	"bitpaint/convert"
	"bitpaint/inspect"
	"bitpaint/parallel"

	"github.com/alecthomas/kong"
)

type cli struct {
	Workers int            `help:"Number of parallel workers, 0 for one per CPU" default:"0"`
	Convert convert.CLICmd `cmd:"" help:"Dither every image in a folder into 1-bit bitmaps"`
	Inspect inspect.CLICmd `cmd:"" help:"Decode packed or C array bitmaps and report their contents"`
}

func main() {
	var c cli
	kctx := kong.Parse(&c,
		kong.Name("bitpaint"),
		kong.Description("Monochrome bitmap converter for embedded displays."),
		kong.UsageOnError(),
	)

	pool := parallel.Start(c.Workers)
	slog.Info("running", "command", kctx.Command(), "workers", pool.Workers())

	err := kctx.Run(pool.Do, pool.Wait)
	pool.Cancel()
	kctx.FatalIfErrorf(err)
}
