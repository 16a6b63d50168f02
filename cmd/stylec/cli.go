package main

import (
	"fmt"
	"os"
	"strings"
)

type Command int

const (
	COMMAND_BUILD Command = iota
	COMMAND_HELP
)

type CliResult struct {
	Command Command

	RootPath    string   // root .style module
	OutDir      string   // where generated files land
	AssetsDir   string   // base directory for icon probing
	PalettePath string   // central color palette file
	SearchDirs  []string // -I module search path
	Verbose     bool
}

var HELP_COMMAND string = `stylec - compiles declarative style modules into C++ declarations.

Usage:
  stylec <command> [arguments]

Available Commands:
  build <root.style> [flags]   Compile the root module and its using closure
      -I <dir>        Add a directory to the module search path (repeatable)
      -o <dir>        Output directory for generated files (default ".")
      -assets <dir>   Base directory for icon asset probing (default ".")
      -palette <file> Central color palette file
      -v              Verbose pass logging

  help                         Show this help message

Examples:
  stylec build ui/basic.style -I ui -palette ui/colors.palette -o gen
  stylec build dialogs.style -assets art -v
`

func cli() (CliResult, error) {
	result := CliResult{OutDir: ".", AssetsDir: "."}

	args := os.Args[1:]
	if len(args) == 0 {
		result.Command = COMMAND_HELP
		return result, nil
	}

	switch args[0] {
	case "help":
		result.Command = COMMAND_HELP
	case "build":
		result.Command = COMMAND_BUILD

		rest := args[1:]
		for i := 0; i < len(rest); i++ {
			arg := rest[i]
			switch arg {
			case "-I":
				value, err := flagValue(rest, i, arg)
				if err != nil {
					return result, err
				}
				result.SearchDirs = append(result.SearchDirs, value)
				i++
			case "-o":
				value, err := flagValue(rest, i, arg)
				if err != nil {
					return result, err
				}
				result.OutDir = value
				i++
			case "-assets":
				value, err := flagValue(rest, i, arg)
				if err != nil {
					return result, err
				}
				result.AssetsDir = value
				i++
			case "-palette":
				value, err := flagValue(rest, i, arg)
				if err != nil {
					return result, err
				}
				result.PalettePath = value
				i++
			case "-v":
				result.Verbose = true
			default:
				if strings.HasPrefix(arg, "-") {
					return result, fmt.Errorf("unknown flag %q, run 'stylec help'", arg)
				}
				if result.RootPath != "" {
					return result, fmt.Errorf("unexpected argument %q", arg)
				}
				result.RootPath = arg
			}
		}

		if result.RootPath == "" {
			return result, fmt.Errorf("build needs a root style file, run 'stylec help'")
		}
		if _, err := os.Stat(result.RootPath); err != nil {
			return result, fmt.Errorf("no such file or directory: %s", result.RootPath)
		}
	default:
		return result, fmt.Errorf("unknown command %q, run 'stylec help'", args[0])
	}

	return result, nil
}

func flagValue(args []string, i int, flag string) (string, error) {
	if i+1 >= len(args) {
		return "", fmt.Errorf("flag %s needs a value", flag)
	}
	return args[i+1], nil
}
