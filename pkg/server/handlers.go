package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/barkbase/barkbase/pkg/common"
	"github.com/barkbase/barkbase/pkg/foods"
)

var (
	searchRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "barkbase_food_search_requests_total",
		Help: "Food catalog searches, partitioned by whether a filter was active",
	}, []string{"filtered"})
	searchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "barkbase_food_search_duration_seconds",
		Help:    "Time spent filtering and sorting the food catalog",
		Buckets: prometheus.DefBuckets,
	})
)

const defaultSearchCacheKey = "foods:default"

type SearchResponse struct {
	Items     []foods.Product `json:"items"`
	TotalHits int             `json:"totalHits"`
	Page      int             `json:"page"`
	PageSize  int             `json:"pageSize"`
	Sort      string          `json:"sort"`
	Filtered  bool            `json:"filtered"`
}

func (ws *WebServer) HandleFoodSearch(w http.ResponseWriter, r *http.Request, _ int, enc *json.Encoder) error {
	sr := DefaultSearchRequest()
	if err := GetQueryFromRequest(r, &sr); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return err
	}

	filtered := sr.Selection.HasActiveFilters()
	if filtered {
		searchRequests.WithLabelValues("true").Inc()
	} else {
		searchRequests.WithLabelValues("false").Inc()
	}

	// The unfiltered default view is by far the most common request and
	// the only one worth caching.
	cacheable := !filtered && sr.SortKey() == foods.SortRatingDesc && sr.Page == 0
	if cacheable && ws.Cache != nil {
		var cached SearchResponse
		if err := ws.Cache.Get(defaultSearchCacheKey, &cached); err == nil {
			common.DefaultHeaders(w, r, "60")
			return enc.Encode(cached)
		}
	}

	start := time.Now()
	visible := ws.Catalog.Search(sr.Selection, sr.SortKey())
	searchDuration.Observe(time.Since(start).Seconds())

	response := SearchResponse{
		Items:     page(visible, sr.Page, sr.PageSize),
		TotalHits: len(visible),
		Page:      sr.Page,
		PageSize:  sr.PageSize,
		Sort:      string(sr.SortKey()),
		Filtered:  filtered,
	}

	if cacheable && ws.Cache != nil {
		// Cache failures never fail the request.
		_ = ws.Cache.Set(defaultSearchCacheKey, response, time.Minute*5)
	}

	common.DefaultHeaders(w, r, "60")
	return enc.Encode(response)
}

func (ws *WebServer) HandleFoodFacets(w http.ResponseWriter, r *http.Request, _ int, enc *json.Encoder) error {
	common.DefaultHeaders(w, r, "120")
	return enc.Encode(ws.Catalog.Facets())
}

func (ws *WebServer) HandleFoodById(w http.ResponseWriter, r *http.Request, _ int, enc *json.Encoder) error {
	product, ok := ws.Catalog.Get(r.PathValue("id"))
	if !ok {
		http.Error(w, "product not found", http.StatusNotFound)
		return nil
	}
	common.DefaultHeaders(w, r, "120")
	return enc.Encode(product)
}
