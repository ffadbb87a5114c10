package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/glacierapp/glacier/internal/config"
)

func runConfig(args []string) int {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, "  glacier config validate [--path PATH]")
		fmt.Fprintln(os.Stderr, "  glacier config print [--path PATH] [--defaults]")
		return 2
	}

	switch args[0] {
	case "validate":
		fs := flag.NewFlagSet("validate", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: $GLACIER_CONFIG or ~/.config/glacier/window.yaml)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}

		opts, err := loadOptions(*path, loadSettings(), nil)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		for _, w := range config.Resolve(opts).Validate() {
			fmt.Printf("warning: %s\n", w)
		}
		fmt.Println("config: ok")
		return 0

	case "print":
		fs := flag.NewFlagSet("print", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: $GLACIER_CONFIG or ~/.config/glacier/window.yaml)")
		printDefaults := fs.Bool("defaults", false, "Print built-in defaults (no files)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}

		opts := config.Defaults()
		if !*printDefaults {
			loaded, err := loadOptions(*path, loadSettings(), nil)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				return 1
			}
			opts = config.Resolve(loaded)
		}
		data, err := config.Marshal(opts)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Print(string(data))
		return 0

	default:
		fmt.Fprintf(os.Stderr, "Unknown config subcommand: %s\n", args[0])
		return 2
	}
}
