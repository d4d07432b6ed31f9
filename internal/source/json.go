package source

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/JonMunkholm/admindash/internal/core"
)

// JSONFile loads <Dir>/<dataset>.json, an array of row objects.
type JSONFile struct {
	Dir string
	Def core.TableDefinition
}

// Path returns the file the table is read from.
func (j JSONFile) Path() string {
	return filepath.Join(j.Dir, j.Def.DatasetName()+".json")
}

// LoadRecords reads and decodes the file.
func (j JSONFile) LoadRecords(ctx context.Context) ([]core.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(j.Path())
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}
	return DecodeJSON(j.Def, bytes.NewReader(data))
}

// DecodeJSON decodes a JSON array of row objects. Numbers keep their
// original text so large ids survive. UTF-16 and BOM-prefixed input is
// accepted.
func DecodeJSON(def core.TableDefinition, r io.Reader) ([]core.Record, error) {
	dec := json.NewDecoder(textReader(r))
	dec.UseNumber()

	var rows []map[string]any
	if err := dec.Decode(&rows); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", core.ErrInvalidRecord, def.DatasetName(), err)
	}
	return decodeRows(def, rows)
}
