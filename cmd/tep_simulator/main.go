package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/user/tep_simulator_go/internal/config"
	"github.com/user/tep_simulator_go/internal/parser"
	"github.com/user/tep_simulator_go/internal/tep"
)

// parseChannels turns "1,6,IDV(13)" into IDV numbers.
func parseChannels(s string) ([]int, error) {
	var out []int
	for _, f := range strings.Split(s, ",") {
		if strings.TrimSpace(f) == "" {
			continue
		}
		n, err := parser.ParseChannel(f)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

// applyFlags parses args and overrides the loaded config with any flag set.
func applyFlags(args []string, stderr io.Writer) (*config.Config, error) {
	fs := flag.NewFlagSet("tep_simulator", flag.ContinueOnError)
	fs.SetOutput(stderr)

	cfgPath := fs.String("config", "", "YAML run file")
	input := fs.String("input", "", "disturbance CSV (samples x 20)")
	zeros := fs.Int("zeros", 0, "generate this many samples instead of reading a CSV")
	idv := fs.String("idv", "", "comma-separated IDV channels to switch on, e.g. 1,6")
	onset := fs.Int("onset", 0, "first sample with the disturbances active")
	engine := fs.String("engine", "", "simulator binary")
	timeout := fs.Duration("timeout", 0, "engine timeout (0 = none)")
	verbose := fs.Bool("verbose", false, "ask the engine for verbose output")
	csvOut := fs.String("csv", "", "write process data CSV")
	pdfOut := fs.String("pdf", "", "write PDF report")
	catalogOut := fs.String("catalog", "", "write variable/disturbance catalog CSV")
	plots := fs.String("plots", "", "comma-separated channels for the line plot")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "tep_simulator: Tennessee Eastman process simulation\n\nUsage:\n  tep_simulator [flags]\n\nFlags:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		return nil, err
	}

	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if set["input"] {
		cfg.Input.CSV = *input
	}
	if set["zeros"] {
		cfg.Input.CSV = ""
		cfg.Input.Zeros = *zeros
	}
	if set["idv"] {
		chs, err := parseChannels(*idv)
		if err != nil {
			return nil, err
		}
		cfg.Input.Disturbances = chs
	}
	if set["onset"] {
		cfg.Input.Onset = *onset
	}
	if set["engine"] {
		cfg.Engine.Command = *engine
	}
	if set["timeout"] {
		cfg.Engine.Timeout = *timeout
	}
	if set["verbose"] {
		cfg.Engine.Verbose = *verbose
	}
	if set["csv"] {
		cfg.Output.CSV = *csvOut
	}
	if set["pdf"] {
		cfg.Output.PDF = *pdfOut
	}
	if set["catalog"] {
		cfg.Output.Catalog = *catalogOut
	}
	if set["plots"] {
		cfg.Output.Plots = nil
		for _, p := range strings.Split(*plots, ",") {
			if p = strings.TrimSpace(p); p != "" {
				cfg.Output.Plots = append(cfg.Output.Plots, p)
			}
		}
	}
	return cfg, cfg.Validate()
}

func main() {
	cfg, err := applyFlags(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		log.Fatal("Error: ", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	app := NewApp(os.Stderr)
	if err := app.Run(ctx, cfg); err != nil {
		var shapeErr *tep.InvalidShapeError
		if errors.As(err, &shapeErr) {
			log.Printf("Input must have %d columns (IDV(1)..IDV(%d)).", tep.NumDisturbances, tep.NumDisturbances)
		}
		stop()
		log.Fatal("Error: ", err)
	}
	log.Printf("Done in %s.", time.Since(start).Round(time.Millisecond))
}
