package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"github.com/cardaba/tdesktop/internal/assets"
	"github.com/cardaba/tdesktop/internal/codegen/cpp"
	"github.com/cardaba/tdesktop/internal/diagnostics"
	"github.com/cardaba/tdesktop/internal/loader"
	"github.com/cardaba/tdesktop/internal/palette"
	"github.com/cardaba/tdesktop/internal/resolver"
)

func main() {
	args, err := cli()
	if err != nil {
		log.Fatal(err)
	}

	switch args.Command {
	case COMMAND_HELP:
		fmt.Print(HELP_COMMAND)
	case COMMAND_BUILD:
		build(args)
	}
}

func build(args CliResult) {
	if args.Verbose {
		log.SetLevel(log.DebugLevel)
	}

	collector := diagnostics.New()

	unit, err := loader.New(collector, args.SearchDirs...).Load(args.RootPath)
	exitOn(err)
	log.Debug("loaded modules", "count", len(unit.Modules))

	var colors palette.Source
	if args.PalettePath != "" {
		pal, err := palette.LoadFile(args.PalettePath)
		exitOn(err)
		colors = pal
		log.Debug("loaded palette", "colors", pal.Len())
	}

	icons := assets.NewResolver(args.AssetsDir)
	exitOn(resolver.New(unit.Registry, colors, icons, collector).ResolveAll())
	log.Debug("resolved values", "count", len(unit.Registry.Values()))

	written, err := cpp.New(unit.Registry, args.OutDir).Generate()
	exitOn(err)
	for _, path := range written {
		log.Debug("wrote", "file", path)
	}
}

func exitOn(err error) {
	if err == nil {
		return
	}
	if err == diagnostics.COMPILER_ERROR_FOUND {
		// The collector already rendered the diagnostics.
		os.Exit(1)
	}
	log.Fatal(err)
}
