// Package output provides debug formatters for inspecting tile datasets
// and aggregation results.
//
// This package defines the Formatter interface and provides
// implementations for JSON Lines and CSV over rows represented as
// []map[string]interface{} (exploded cell rows, per-row scalar columns),
// plus table renderers for statistics and histograms.
//
// Tile-valued columns are rendered through their columnar encoding for
// JSON and as a compact summary for CSV; this surface is for inspection
// only, not a persistence format.
//
// Basic usage:
//
//	formatter := output.NewJSONFormatter(os.Stdout)
//	if err := formatter.Format(rows); err != nil {
//	    log.Fatal(err)
//	}
package output
