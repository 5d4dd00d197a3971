package server

import (
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/gorilla/schema"

	"github.com/barkbase/barkbase/pkg/foods"
)

type SearchRequest struct {
	foods.Selection
	Sort     string `json:"sort" schema:"sort,default:rating-desc"`
	Page     int    `json:"page" schema:"page"`
	PageSize int    `json:"pageSize" schema:"pageSize,default:40"`
}

func DefaultSearchRequest() SearchRequest {
	return SearchRequest{
		Selection: foods.DefaultSelection(),
		Sort:      string(foods.SortRatingDesc),
		PageSize:  40,
	}
}

func (s *SearchRequest) SortKey() foods.SortKey {
	return foods.ParseSortKey(s.Sort)
}

// GetQueryFromRequest decodes a search either from the query string (GET)
// or a JSON body (POST).
func GetQueryFromRequest(r *http.Request, searchRequest *SearchRequest) error {
	if r.Method == http.MethodGet {
		return queryFromRequestQuery(r.URL.Query(), searchRequest)
	}
	return json.NewDecoder(r.Body).Decode(searchRequest)
}

func queryFromRequestQuery(query url.Values, result *SearchRequest) error {
	decoder := schema.NewDecoder()
	decoder.IgnoreUnknownKeys(true)
	return decoder.Decode(result, query)
}

// page slices the result list, clamping out-of-range pages to empty.
func page[V any](items []V, pageNum, pageSize int) []V {
	if pageSize <= 0 {
		pageSize = 40
	}
	start := pageNum * pageSize
	if start >= len(items) || start < 0 {
		return []V{}
	}
	end := min(start+pageSize, len(items))
	return items[start:end]
}
