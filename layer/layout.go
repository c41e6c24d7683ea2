package layer

import "fmt"

// TileLayout describes the shape of a tiling grid: how many tiles across
// and down, and the cell dimensions shared by every tile in the grid.
type TileLayout struct {
	LayoutCols int `json:"layout_cols"`
	LayoutRows int `json:"layout_rows"`
	TileCols   int `json:"tile_cols"`
	TileRows   int `json:"tile_rows"`
}

// Validate checks that every grid dimension is positive.
func (l TileLayout) Validate() error {
	if l.LayoutCols <= 0 || l.LayoutRows <= 0 {
		return fmt.Errorf("invalid layout grid %dx%d", l.LayoutCols, l.LayoutRows)
	}
	if l.TileCols <= 0 || l.TileRows <= 0 {
		return fmt.Errorf("invalid tile dimensions %dx%d", l.TileCols, l.TileRows)
	}
	return nil
}

// TotalCols returns the pixel width of the full grid.
func (l TileLayout) TotalCols() int { return l.LayoutCols * l.TileCols }

// TotalRows returns the pixel height of the full grid.
func (l TileLayout) TotalRows() int { return l.LayoutRows * l.TileRows }
