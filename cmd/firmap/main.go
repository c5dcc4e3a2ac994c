package main

import (
	"fmt"
	"os"

	"github.com/rendis/firmap/internal/engine/projection"
	"github.com/rendis/firmap/internal/tui"
)

var version = "dev"

func main() {
	if len(os.Args) > 1 && os.Args[0] != "" {
		switch os.Args[1] {
		case "render":
			if err := runRender(os.Args[2:]); err != nil {
				fmt.Fprintf(os.Stderr, "error: %v\n", err)
				os.Exit(1)
			}
			return
		case "export":
			if err := runExport(os.Args[2:]); err != nil {
				fmt.Fprintf(os.Stderr, "error: %v\n", err)
				os.Exit(1)
			}
			return
		case "locate":
			if err := runLocate(os.Args[2:]); err != nil {
				fmt.Fprintf(os.Stderr, "error: %v\n", err)
				os.Exit(1)
			}
			return
		case "projections":
			for _, n := range projection.Names() {
				fmt.Println(n)
			}
			return
		case "version":
			fmt.Println("firmap " + version)
			return
		case "help", "--help", "-h":
			printUsage()
			return
		}
	}

	// No subcommand → launch TUI
	if err := runTUI(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func runTUI(args []string) error {
	fs := newFlagSet("firmap", "")
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg, closeLog, err := fs.setup()
	if err != nil {
		return err
	}
	defer closeLog()

	return tui.Run(tui.Options{
		Title:       cfg.Title,
		Projection:  cfg.Projection,
		FlightLevel: cfg.FlightLevel,
		Loader:      newLoader(cfg),
	})
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `firmap - Flight Information Regions on selectable world projections

Usage:
  firmap [flags]               Launch interactive TUI
  firmap render [flags]        Render the map to SVG
  firmap export [flags]        Export the FIRs at a flight level
  firmap locate [flags]        Find the FIRs at a point or by designator
  firmap projections           List available projections
  firmap version               Show version

Run 'firmap render --help' or 'firmap export --help' for flags.
`)
}
