package catalog

import (
	"log"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/barkbase/barkbase/pkg/foods"
	"github.com/barkbase/barkbase/pkg/storage"
)

var (
	totalFoods = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "barkbase_foods_total",
		Help: "The total number of products in the food catalog",
	})
)

const snapshotFile = "foods.jz"

// ChangeHandler receives catalog mutations for fan-out to replicas.
type ChangeHandler interface {
	FoodsUpserted(products []foods.Product)
	FoodDeleted(id string)
}

// Catalog holds the normalized product list in memory. Insertion order is
// preserved because the engine's tie-breaking depends on it.
type Catalog struct {
	mu            sync.RWMutex
	items         []foods.Product
	byId          map[string]int
	ChangeHandler ChangeHandler
}

func NewCatalog() *Catalog {
	return &Catalog{
		items: make([]foods.Product, 0),
		byId:  make(map[string]int),
	}
}

// Load restores the catalog snapshot from disk, falling back to the
// embedded curated catalog when no snapshot exists yet.
func (c *Catalog) Load(db storage.Provider) error {
	tmp := make([]foods.Product, 0)
	err := db.LoadGzippedJson(&tmp, snapshotFile)
	if err != nil {
		log.Printf("No catalog snapshot (%v), seeding embedded catalog", err)
		seed, seedErr := seedProducts()
		if seedErr != nil {
			return seedErr
		}
		tmp = seed
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = tmp
	c.byId = make(map[string]int, len(tmp))
	for i := range tmp {
		c.byId[tmp[i].Id] = i
	}
	totalFoods.Set(float64(len(c.items)))
	return nil
}

func (c *Catalog) Save(db storage.Provider) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return db.SaveGzippedJson(c.items, snapshotFile)
}

func (c *Catalog) upsertUnsafe(p foods.Product) {
	if i, ok := c.byId[p.Id]; ok {
		c.items[i] = p
		return
	}
	c.byId[p.Id] = len(c.items)
	c.items = append(c.items, p)
}

// Upsert normalizes and stores raw products, notifying the change handler
// once for the whole batch.
func (c *Catalog) Upsert(raw []foods.RawProduct) []foods.Product {
	normalized := make([]foods.Product, 0, len(raw))
	c.mu.Lock()
	for i := range raw {
		if raw[i].Id == "" {
			continue
		}
		p := raw[i].Normalize()
		c.upsertUnsafe(p)
		normalized = append(normalized, p)
	}
	totalFoods.Set(float64(len(c.items)))
	c.mu.Unlock()

	if c.ChangeHandler != nil && len(normalized) > 0 {
		c.ChangeHandler.FoodsUpserted(normalized)
	}
	return normalized
}

// Apply stores already normalized products without notifying, used by
// replica nodes consuming the change feed.
func (c *Catalog) Apply(products []foods.Product) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range products {
		c.upsertUnsafe(products[i])
	}
	totalFoods.Set(float64(len(c.items)))
}

func (c *Catalog) Delete(id string) bool {
	c.mu.Lock()
	i, ok := c.byId[id]
	if ok {
		c.items = append(c.items[:i], c.items[i+1:]...)
		delete(c.byId, id)
		for j := i; j < len(c.items); j++ {
			c.byId[c.items[j].Id] = j
		}
		totalFoods.Set(float64(len(c.items)))
	}
	c.mu.Unlock()

	if ok && c.ChangeHandler != nil {
		c.ChangeHandler.FoodDeleted(id)
	}
	return ok
}

// Remove applies a delete from the change feed without re-notifying.
func (c *Catalog) Remove(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i, ok := c.byId[id]; ok {
		c.items = append(c.items[:i], c.items[i+1:]...)
		delete(c.byId, id)
		for j := i; j < len(c.items); j++ {
			c.byId[c.items[j].Id] = j
		}
		totalFoods.Set(float64(len(c.items)))
	}
}

func (c *Catalog) Get(id string) (foods.Product, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if i, ok := c.byId[id]; ok {
		return c.items[i], true
	}
	return foods.Product{}, false
}

func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Search runs the filter/sort engine over the current catalog.
func (c *Catalog) Search(selection foods.Selection, sort foods.SortKey) []foods.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return foods.ComputeVisible(c.items, selection, sort)
}
