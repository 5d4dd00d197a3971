package catalog

import (
	_ "embed"
	"encoding/json"

	"github.com/barkbase/barkbase/pkg/foods"
)

// The curated catalog shipped with the app, used until an admin pushes a
// remote feed.
//
//go:embed foods_seed.json
var seedData []byte

func seedProducts() ([]foods.Product, error) {
	raw := make([]foods.RawProduct, 0)
	if err := json.Unmarshal(seedData, &raw); err != nil {
		return nil, err
	}
	products := make([]foods.Product, 0, len(raw))
	for i := range raw {
		products = append(products, raw[i].Normalize())
	}
	return products, nil
}
