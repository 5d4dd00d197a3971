package foods

import "strings"

type FoodType string

const (
	TypeDry       FoodType = "dry"
	TypeWet       FoodType = "wet"
	TypeRaw       FoodType = "raw"
	TypeFreezeDry FoodType = "freeze-dried"
)

type BreedSize string

const (
	SizeSmall  BreedSize = "small"
	SizeMedium BreedSize = "medium"
	SizeLarge  BreedSize = "large"
)

type LifeStage string

const (
	StagePuppy  LifeStage = "puppy"
	StageAdult  LifeStage = "adult"
	StageSenior LifeStage = "senior"
)

type Product struct {
	Id           string      `json:"id"`
	Name         string      `json:"name"`
	Brand        string      `json:"brand"`
	Type         FoodType    `json:"type"`
	BreedSizes   []BreedSize `json:"breedSizes"`
	LifeStage    LifeStage   `json:"lifeStage"`
	Diets        []string    `json:"diets"`
	Rating       float64     `json:"rating"`
	Price        *float64    `json:"price,omitempty"`
	Description  string      `json:"description,omitempty"`
	ImageUrl     string      `json:"imageUrl,omitempty"`
	AffiliateUrl string      `json:"affiliateUrl,omitempty"`
}

// FitsSize reports whether the product is suitable for the given breed
// size. A product without size data fits every size.
func (p *Product) FitsSize(size BreedSize) bool {
	if len(p.BreedSizes) == 0 {
		return true
	}
	for _, s := range p.BreedSizes {
		if s == size {
			return true
		}
	}
	return false
}

func (p *Product) HasDiet(diet string) bool {
	for _, d := range p.Diets {
		if d == diet {
			return true
		}
	}
	return false
}

// NormalizeToken lowercases a facet value and joins inner whitespace with
// hyphens, so "Grain Free" and "grain-free" compare equal.
func NormalizeToken(value string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(value))), "-")
}

// RawProduct is the loose shape catalog feeds arrive in. Size and diet
// fields show up as a single string, a delimited string, a string array or
// null depending on the source, and price may be missing entirely.
type RawProduct struct {
	Id           string  `json:"id"`
	Name         string  `json:"name"`
	Brand        string  `json:"brand"`
	Type         string  `json:"type"`
	BreedSizes   any     `json:"breedSizes"`
	LifeStage    string  `json:"lifeStage"`
	Diets        any     `json:"diets"`
	Rating       float64 `json:"rating"`
	Price        any     `json:"price"`
	Description  string  `json:"description"`
	ImageUrl     string  `json:"imageUrl"`
	AffiliateUrl string  `json:"affiliateUrl"`
}

func tokensFromValue(data any) []string {
	switch typed := data.(type) {
	case nil:
		return nil
	case []string:
		ret := make([]string, 0, len(typed))
		for _, v := range typed {
			if t := NormalizeToken(v); t != "" {
				ret = append(ret, t)
			}
		}
		return ret
	case []any:
		ret := make([]string, 0, len(typed))
		for _, v := range typed {
			if str, ok := v.(string); ok {
				if t := NormalizeToken(str); t != "" {
					ret = append(ret, t)
				}
			}
		}
		return ret
	case string:
		parts := strings.FieldsFunc(typed, func(r rune) bool {
			return r == ';' || r == ','
		})
		ret := make([]string, 0, len(parts))
		for _, v := range parts {
			if t := NormalizeToken(v); t != "" {
				ret = append(ret, t)
			}
		}
		return ret
	}
	return nil
}

func priceFromValue(data any) *float64 {
	switch typed := data.(type) {
	case float64:
		return &typed
	case int:
		f := float64(typed)
		return &f
	}
	return nil
}

// Normalize converts a loose catalog record into the strongly typed
// Product the engine operates on. All string/array/null ambiguity is
// resolved here, once, at the load boundary.
func (r *RawProduct) Normalize() Product {
	sizeTokens := tokensFromValue(r.BreedSizes)
	sizes := make([]BreedSize, 0, len(sizeTokens))
	for _, t := range sizeTokens {
		sizes = append(sizes, BreedSize(t))
	}
	return Product{
		Id:           r.Id,
		Name:         r.Name,
		Brand:        r.Brand,
		Type:         FoodType(NormalizeToken(r.Type)),
		BreedSizes:   sizes,
		LifeStage:    LifeStage(NormalizeToken(r.LifeStage)),
		Diets:        tokensFromValue(r.Diets),
		Rating:       r.Rating,
		Price:        priceFromValue(r.Price),
		Description:  r.Description,
		ImageUrl:     r.ImageUrl,
		AffiliateUrl: r.AffiliateUrl,
	}
}
