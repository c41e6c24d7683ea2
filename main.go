package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"

	"github.com/telluric/tilecat/agg"
	"github.com/telluric/tilecat/codec"
	"github.com/telluric/tilecat/dataset"
	"github.com/telluric/tilecat/output"
)

// config carries environment-supplied defaults for the flags below.
type config struct {
	Format string  `env:"TILECAT_FORMAT" envDefault:"csv"`
	Sample float64 `env:"TILECAT_SAMPLE" envDefault:"1"`
	Seed   int64   `env:"TILECAT_SEED" envDefault:"0"`
}

func main() {
	var cfg config
	if err := env.Parse(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error reading environment: %v\n", err)
		os.Exit(1)
	}

	var (
		modeFlag   = flag.String("mode", "info", "What to print: info, stats, histogram, explode")
		formatFlag = flag.String("f", cfg.Format, "Output format for explode: csv, json")
		sampleFlag = flag.Float64("sample", cfg.Sample, "Per-cell sample fraction in (0, 1] for explode")
		seedFlag   = flag.Int64("seed", cfg.Seed, "Sampling seed for explode")
	)
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] <tiles.parquet>\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "A tool to inspect tiled raster datasets stored as parquet.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s tiles.parquet\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -mode stats tiles.parquet\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -mode explode -sample 0.01 -f json tiles.parquet\n", os.Args[0])
	}
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Error: missing parquet file argument\n\n")
		flag.Usage()
		os.Exit(1)
	}
	filename := flag.Arg(0)

	d, tileCol, err := codec.ReadFile(filename)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "Error: file '%s' not found\n", filename)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}

	switch *modeFlag {
	case "info":
		md, err := d.TileContext(tileCol)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("tiles: %d\n", d.NumRows())
		fmt.Printf("tile column: %s\n", tileCol)
		fmt.Printf("cell type: %s\n", md.CellType)
		fmt.Printf("layout: %dx%d tiles of %dx%d cells\n",
			md.Layout.LayoutCols, md.Layout.LayoutRows, md.Layout.TileCols, md.Layout.TileRows)
		fmt.Printf("extent: %s\n", md.Extent)
		fmt.Printf("crs: %s\n", md.CRS)
		if md.Bounds != nil {
			fmt.Printf("bounds: %s to %s\n", md.Bounds.Min, md.Bounds.Max)
		}
	case "stats":
		s, err := agg.AggStats(d, tileCol)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error computing stats: %v\n", err)
			os.Exit(1)
		}
		output.RenderStats(os.Stdout, s)
	case "histogram":
		h, err := agg.AggHistogram(d, tileCol)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error computing histogram: %v\n", err)
			os.Exit(1)
		}
		output.RenderHistogram(os.Stdout, h)
	case "explode":
		exploded, err := dataset.ExplodeTiles(d, []string{tileCol}, *sampleFlag, *seedFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error exploding tiles: %v\n", err)
			os.Exit(1)
		}
		var formatter output.Formatter
		switch *formatFlag {
		case "json", "jsonl":
			formatter = output.NewJSONFormatter(os.Stdout)
		case "csv":
			formatter = output.NewCSVFormatter(os.Stdout)
		default:
			fmt.Fprintf(os.Stderr, "Error: unsupported format '%s'\n", *formatFlag)
			fmt.Fprintf(os.Stderr, "Supported formats: json, csv\n")
			os.Exit(1)
		}
		if err := formatter.Format(exploded.Rows()); err != nil {
			fmt.Fprintf(os.Stderr, "Error formatting output: %v\n", err)
			os.Exit(1)
		}
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown mode '%s'\n", *modeFlag)
		fmt.Fprintf(os.Stderr, "Supported modes: info, stats, histogram, explode\n")
		os.Exit(1)
	}
}
