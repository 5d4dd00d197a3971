package catalog

import "github.com/barkbase/barkbase/pkg/foods"

type FacetValue struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// FacetResult lists the distinct values per facet dimension with product
// counts, feeding the filter chips in the app.
type FacetResult struct {
	Types      []FacetValue `json:"types"`
	Sizes      []FacetValue `json:"sizes"`
	LifeStages []FacetValue `json:"lifeStages"`
	Diets      []FacetValue `json:"diets"`
	Prices     []FacetValue `json:"prices"`
}

var sizeOrder = []foods.BreedSize{foods.SizeSmall, foods.SizeMedium, foods.SizeLarge}
var stageOrder = []foods.LifeStage{foods.StagePuppy, foods.StageAdult, foods.StageSenior}
var typeOrder = []foods.FoodType{foods.TypeDry, foods.TypeWet, foods.TypeRaw, foods.TypeFreezeDry}
var bucketOrder = []string{"under-30", "30-50", "50-100", "100-plus"}

func orderedCounts[V ~string](order []V, counts map[string]int) []FacetValue {
	ret := make([]FacetValue, 0, len(order))
	for _, v := range order {
		if n, ok := counts[string(v)]; ok && n > 0 {
			ret = append(ret, FacetValue{Value: string(v), Count: n})
		}
	}
	return ret
}

// Facets counts products per facet value over the full catalog.
func (c *Catalog) Facets() FacetResult {
	c.mu.RLock()
	defer c.mu.RUnlock()

	types := make(map[string]int)
	sizes := make(map[string]int)
	stages := make(map[string]int)
	diets := make(map[string]int)
	prices := make(map[string]int)
	dietOrder := make([]string, 0)

	for i := range c.items {
		p := &c.items[i]
		types[string(p.Type)]++
		stages[string(p.LifeStage)]++
		for _, size := range sizeOrder {
			if p.FitsSize(size) {
				sizes[string(size)]++
			}
		}
		for _, d := range p.Diets {
			if _, seen := diets[d]; !seen {
				dietOrder = append(dietOrder, d)
			}
			diets[d]++
		}
		for _, bucket := range bucketOrder {
			sel := foods.Selection{Type: foods.All, Size: foods.All, LifeStage: foods.All, Price: bucket, Diet: foods.All}
			if sel.Matches(p) {
				prices[bucket]++
			}
		}
	}

	dietValues := make([]FacetValue, 0, len(dietOrder))
	for _, d := range dietOrder {
		dietValues = append(dietValues, FacetValue{Value: d, Count: diets[d]})
	}

	return FacetResult{
		Types:      orderedCounts(typeOrder, types),
		Sizes:      orderedCounts(sizeOrder, sizes),
		LifeStages: orderedCounts(stageOrder, stages),
		Diets:      dietValues,
		Prices:     orderedCounts(bucketOrder, prices),
	}
}
