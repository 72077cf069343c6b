// Package datastore supplies cleaned tabular data and provenance metadata
// for registered datasets. Source files are CSV or XLSX; column names are
// standardized on load and the cleaned result is cached on disk.
package datastore

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"

	"github.com/samarth-project/samarth/internal/model"
	"github.com/samarth-project/samarth/internal/table"
)

// Store loads datasets from a local data directory.
type Store struct {
	dataDir  string
	cacheDir string
	registry *Registry
}

// New creates a Store over the given directories and registry.
func New(dataDir, cacheDir string, registry *Registry) *Store {
	return &Store{dataDir: dataDir, cacheDir: cacheDir, registry: registry}
}

// Registry exposes the dataset catalog.
func (s *Store) Registry() *Registry {
	return s.registry
}

// Metadata returns the registry record for a dataset.
func (s *Store) Metadata(category, name string) (model.DatasetMetadata, bool) {
	return s.registry.Get(category, name)
}

// FetchTable returns the cleaned table for a dataset, or (nil, nil) when
// the dataset is unregistered or its backing file is missing. A cleaned
// copy is cached under the cache directory; a corrupt cache falls through
// to the source file.
func (s *Store) FetchTable(ctx context.Context, category, name string) (*table.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, eris.Wrap(err, "datastore: fetch cancelled")
	}

	meta, ok := s.registry.Get(category, name)
	if !ok {
		zap.L().Warn("datastore: unknown dataset",
			zap.String("category", category),
			zap.String("name", name),
		)
		return nil, nil
	}

	cachePath := filepath.Join(s.cacheDir, category+"_"+name+".csv")
	if t, err := s.readCSV(cachePath, category+"_"+name); err == nil {
		return coerceCached(t), nil
	}

	srcPath := filepath.Join(s.dataDir, meta.LocalFile)
	if _, err := os.Stat(srcPath); err != nil {
		zap.L().Warn("datastore: source file missing",
			zap.String("dataset", category+"."+name),
			zap.String("path", srcPath),
		)
		return nil, nil
	}

	var raw *table.Table
	var err error
	switch meta.Format {
	case "xlsx":
		raw, err = s.readXLSX(srcPath, category+"_"+name)
	default:
		raw, err = s.readCSV(srcPath, category+"_"+name)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "datastore: load %s.%s", category, name)
	}

	cleaned := cleanForCategory(category, standardize(raw))

	if err := s.writeCSV(cachePath, cleaned); err != nil {
		zap.L().Warn("datastore: failed to cache cleaned data",
			zap.String("dataset", category+"."+name),
			zap.Error(err),
		)
	}

	return cleaned, nil
}

func (s *Store) readCSV(path, name string) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "datastore: open %s", path)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, eris.Wrapf(err, "datastore: read csv %s", path)
	}
	if len(records) == 0 {
		return table.New(name), nil
	}

	t := table.New(name, records[0]...)
	for _, rec := range records[1:] {
		row := table.Row{}
		for i, c := range t.Columns {
			if i < len(rec) {
				row[c] = rec[i]
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

func (s *Store) readXLSX(path, name string) (*table.Table, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "datastore: open xlsx %s", path)
	}
	if len(f.Sheets) == 0 {
		return table.New(name), nil
	}

	sheet := f.Sheets[0]
	if len(sheet.Rows) == 0 {
		return table.New(name), nil
	}

	headers := make([]string, len(sheet.Rows[0].Cells))
	for i, cell := range sheet.Rows[0].Cells {
		headers[i] = cell.String()
	}

	t := table.New(name, headers...)
	for _, xr := range sheet.Rows[1:] {
		row := table.Row{}
		for i, c := range t.Columns {
			if i < len(xr.Cells) {
				row[c] = xr.Cells[i].String()
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

func (s *Store) writeCSV(path string, t *table.Table) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return eris.Wrap(err, "datastore: mkdir cache")
	}

	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "datastore: create %s", path)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(t.Columns); err != nil {
		return eris.Wrap(err, "datastore: write header")
	}
	for _, r := range t.Rows {
		rec := make([]string, len(t.Columns))
		for i, c := range t.Columns {
			rec[i] = cellString(r[c])
		}
		if err := w.Write(rec); err != nil {
			return eris.Wrap(err, "datastore: write row")
		}
	}
	w.Flush()
	return eris.Wrap(w.Error(), "datastore: flush csv")
}

func cellString(v any) string {
	if f, ok := table.Number(v); ok {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return table.Text(v)
}

// coerceCached restores numeric types on a cleaned CSV read back from the
// cache, where every cell is a string.
func coerceCached(t *table.Table) *table.Table {
	for _, r := range t.Rows {
		for _, c := range numericColumns {
			if v, ok := r[c]; ok {
				r[c] = coerceNumber(v)
			}
		}
	}
	return t
}
