package foods

// All is the unconstrained value for every facet.
const All = "all"

// Selection holds the five single-choice facets owned by the caller. A
// zero value is not valid, use DefaultSelection.
type Selection struct {
	Type      string `json:"type" schema:"type,default:all"`
	Size      string `json:"size" schema:"size,default:all"`
	LifeStage string `json:"lifeStage" schema:"stage,default:all"`
	Price     string `json:"price" schema:"price,default:all"`
	Diet      string `json:"diet" schema:"diet,default:all"`
}

func DefaultSelection() Selection {
	return Selection{
		Type:      All,
		Size:      All,
		LifeStage: All,
		Price:     All,
		Diet:      All,
	}
}

// HasActiveFilters reports whether any facet constrains the catalog, used
// by callers to decide whether to offer a "clear filters" action.
func (s Selection) HasActiveFilters() bool {
	return s.Type != All ||
		s.Size != All ||
		s.LifeStage != All ||
		s.Price != All ||
		s.Diet != All
}

type priceBucket struct {
	min float64
	max float64 // exclusive, <=0 means unbounded
}

// Bucket bounds are half-open: inclusive below, exclusive above.
var priceBuckets = map[string]priceBucket{
	"under-30": {min: 0, max: 30},
	"30-50":    {min: 30, max: 50},
	"50-100":   {min: 50, max: 100},
	"100-plus": {min: 100, max: 0},
}

func matchesPriceBucket(bucket string, price *float64) bool {
	// Products without a listed price never match a concrete bucket.
	if price == nil {
		return false
	}
	b, ok := priceBuckets[bucket]
	if !ok {
		return false
	}
	if *price < b.min {
		return false
	}
	if b.max > 0 && *price >= b.max {
		return false
	}
	return true
}

// Matches applies all five facet predicates. Unknown facet values compare
// against nothing and so fail closed.
func (s Selection) Matches(p *Product) bool {
	if s.Type != All && p.Type != FoodType(s.Type) {
		return false
	}
	if s.Size != All && !p.FitsSize(BreedSize(s.Size)) {
		return false
	}
	if s.LifeStage != All && p.LifeStage != LifeStage(s.LifeStage) {
		return false
	}
	if s.Price != All && !matchesPriceBucket(s.Price, p.Price) {
		return false
	}
	if s.Diet != All && !p.HasDiet(NormalizeToken(s.Diet)) {
		return false
	}
	return true
}
