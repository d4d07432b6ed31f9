package source

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/JonMunkholm/admindash/internal/core"
	"github.com/JonMunkholm/admindash/internal/core/tables"
)

// Generator produces demo rows from the table's GenerateFunc.
// A zero Seed draws a fresh seed per load, so every mount looks different.
type Generator struct {
	Seed uint64
	Def  core.TableDefinition
}

// LoadRecords runs the generator.
func (g Generator) LoadRecords(ctx context.Context) ([]core.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if g.Def.Generate == nil {
		return nil, fmt.Errorf("%w: %s has no generator", core.ErrSourceUnavailable, g.Def.Info.Key)
	}

	seed := g.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	return g.Def.Generate(tables.NewRand(seed)), nil
}
