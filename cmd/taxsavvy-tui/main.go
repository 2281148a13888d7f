package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rgehrsitz/taxsavvy/internal/calculation"
	"github.com/rgehrsitz/taxsavvy/internal/compare"
	"github.com/rgehrsitz/taxsavvy/internal/config"
	"github.com/rgehrsitz/taxsavvy/internal/tui"
)

func main() {
	slabsPath := flag.String("slabs", "", "Path to a slab document (default: built-in tables)")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: taxsavvy-tui [--slabs tax_slabs.yaml] <profile-file>")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}
	profilePath := flag.Arg(0)

	if _, err := os.Stat(profilePath); os.IsNotExist(err) {
		fmt.Printf("Error: Profile not found: %s\n", profilePath)
		os.Exit(1)
	}

	slabs, err := config.NewSlabRepository(*slabsPath, nil)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	engine := compare.NewCompareEngine(calculation.NewCalculationEngine(), slabs)

	p := tea.NewProgram(
		tui.NewModel(profilePath, engine),
		tea.WithAltScreen(),
	)

	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running TUI: %v\n", err)
		os.Exit(1)
	}
}
