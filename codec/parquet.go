package codec

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/parquet-go/parquet-go"

	"github.com/telluric/tilecat/cell"
	"github.com/telluric/tilecat/dataset"
	"github.com/telluric/tilecat/layer"
)

// Parquet file key/value metadata keys. The layer metadata rides on the
// file, not on rows, mirroring the in-memory column metadata side channel.
const (
	MetaKeyTileContext = "tilecat:tile_context"
	MetaKeyTileColumn  = "tilecat:tile_column"
	MetaKeyLayer       = "tilecat:layer"
)

// tileRow is the columnar layout of one spatially-keyed tile.
type tileRow struct {
	KeyCol   int32     `parquet:"key_col"`
	KeyRow   int32     `parquet:"key_row"`
	CellType string    `parquet:"cell_type"`
	Cols     int32     `parquet:"cols"`
	Rows     int32     `parquet:"rows"`
	Cells    []float64 `parquet:"cells,list"`
}

// WriteFile persists a spatially-keyed tile dataset as a parquet file.
// The named tile column must carry tile context; the layer metadata is
// written as file key/value metadata so the spatial side channel survives
// the round trip.
func WriteFile(path string, d *dataset.Dataset, tileCol string) error {
	md, err := d.TileContext(tileCol)
	if err != nil {
		return err
	}
	layerJSON, err := json.Marshal(md)
	if err != nil {
		return fmt.Errorf("encoding layer metadata: %w", err)
	}

	rows := make([]tileRow, d.NumRows())
	for i := range d.Rows() {
		k, err := d.KeyAt(i)
		if err != nil {
			return err
		}
		t, err := d.TileAt(i, tileCol)
		if err != nil {
			return err
		}
		rows[i] = tileRow{
			KeyCol:   int32(k.Col),
			KeyRow:   int32(k.Row),
			CellType: t.Type().String(),
			Cols:     int32(t.Cols()),
			Rows:     int32(t.Rows()),
			Cells:    t.Cells(),
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	writer := parquet.NewGenericWriter[tileRow](f,
		parquet.KeyValueMetadata(MetaKeyTileContext, "true"),
		parquet.KeyValueMetadata(MetaKeyTileColumn, tileCol),
		parquet.KeyValueMetadata(MetaKeyLayer, string(layerJSON)),
	)
	if _, err := writer.Write(rows); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write rows: %w", err)
	}
	if err := writer.Close(); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to close parquet writer: %w", err)
	}
	return f.Close()
}

// ReadFile loads a tile dataset written by WriteFile, reattaching the
// layer metadata to the tile column. A file without the tile-context
// marker is a dataset.ErrMissingSpatialContext error; a row whose cell
// payload disagrees with its declared shape is an ErrMalformedRow error.
func ReadFile(path string) (*dataset.Dataset, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	stat, err := f.Stat()
	if err != nil {
		return nil, "", fmt.Errorf("failed to stat file: %w", err)
	}
	pqFile, err := parquet.OpenFile(f, stat.Size())
	if err != nil {
		return nil, "", fmt.Errorf("failed to open parquet file: %w", err)
	}

	if marker, ok := pqFile.Lookup(MetaKeyTileContext); !ok || marker != "true" {
		return nil, "", fmt.Errorf("%w: file %q carries no tile-context marker", dataset.ErrMissingSpatialContext, path)
	}
	tileCol, ok := pqFile.Lookup(MetaKeyTileColumn)
	if !ok || tileCol == "" {
		return nil, "", fmt.Errorf("%w: file %q does not name its tile column", dataset.ErrMissingSpatialContext, path)
	}
	layerJSON, ok := pqFile.Lookup(MetaKeyLayer)
	if !ok {
		return nil, "", fmt.Errorf("%w: file %q carries no layer metadata", dataset.ErrMissingSpatialContext, path)
	}
	var md layer.Metadata
	if err := json.Unmarshal([]byte(layerJSON), &md); err != nil {
		return nil, "", fmt.Errorf("decoding layer metadata from %q: %w", path, err)
	}

	reader := parquet.NewGenericReader[tileRow](pqFile)
	defer func() { _ = reader.Close() }()

	var raw []tileRow
	buf := make([]tileRow, 64)
	for {
		n, err := reader.Read(buf)
		raw = append(raw, buf[:n]...)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, "", fmt.Errorf("failed to read rows: %w", err)
		}
	}

	rows := make([]map[string]interface{}, len(raw))
	for i, r := range raw {
		typ, err := cell.ParseType(r.CellType)
		if err != nil {
			return nil, "", fmt.Errorf("%w: row %d: %v", ErrMalformedRow, i, err)
		}
		if len(r.Cells) != int(r.Cols)*int(r.Rows) {
			return nil, "", fmt.Errorf("%w: row %d has %d cells for declared dimensions %dx%d",
				ErrMalformedRow, i, len(r.Cells), r.Cols, r.Rows)
		}
		t, err := cell.NewTile(typ, int(r.Cols), int(r.Rows), r.Cells)
		if err != nil {
			return nil, "", fmt.Errorf("%w: row %d: %v", ErrMalformedRow, i, err)
		}
		rows[i] = map[string]interface{}{
			dataset.KeyColumn: layer.SpatialKey{Col: int(r.KeyCol), Row: int(r.KeyRow)},
			tileCol:           t,
		}
	}

	d, err := dataset.New(rows).WithTileContext(tileCol, md)
	if err != nil {
		return nil, "", err
	}
	return d, tileCol, nil
}
