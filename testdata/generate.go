// Generates sample.parquet: a 32x32 synthetic elevation raster split
// into 8x8 tiles, for exercising the CLI by hand.
//
//	go run testdata/generate.go
package main

import (
	"log"
	"math"

	"github.com/telluric/tilecat/cell"
	"github.com/telluric/tilecat/codec"
	"github.com/telluric/tilecat/layer"
	"github.com/telluric/tilecat/raster"
)

func main() {
	const cols, rows = 32, 32
	values := make([]float64, cols*rows)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			// A smooth ridge with a no-data hole in one corner.
			if c < 4 && r < 4 {
				values[r*cols+c] = math.NaN()
				continue
			}
			values[r*cols+c] = 100 + 50*math.Sin(float64(c)/6)*math.Cos(float64(r)/6)
		}
	}
	tile, err := cell.NewTile(cell.Float64, cols, rows, values)
	if err != nil {
		log.Fatal(err)
	}

	src := raster.Raster{
		Tile:   tile,
		Extent: layer.Extent{XMin: 500000, YMin: 6094000, XMax: 503200, YMax: 6097200},
		CRS:    "EPSG:32633",
	}
	d, err := raster.Retile(src, "elevation", 8, 8)
	if err != nil {
		log.Fatal(err)
	}
	d, err = d.SortBySpatialKey("elevation")
	if err != nil {
		log.Fatal(err)
	}

	if err := codec.WriteFile("sample.parquet", d, "elevation"); err != nil {
		log.Fatal(err)
	}
	log.Printf("Generated sample.parquet with %d tiles", d.NumRows())
}
