package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/barkbase/barkbase/pkg/catalog"
	"github.com/barkbase/barkbase/pkg/foods"
	"github.com/barkbase/barkbase/pkg/registry"
	"github.com/barkbase/barkbase/pkg/storage"
)

func newTestServer(t *testing.T, role string) *WebServer {
	t.Helper()
	db := &storage.DiskStorage{RootFolder: t.TempDir()}
	c := catalog.NewCatalog()
	if err := c.Load(db); err != nil {
		t.Fatalf("loading catalog: %v", err)
	}
	return &WebServer{
		Catalog:  c,
		Registry: registry.NewRegistry(),
		Db:       db,
		Auth:     &MockAuth{Owner: "owner-1", Role: role},
	}
}

func doJson(t *testing.T, handler http.Handler, method, target string, body any, out any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshalling body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, reader)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if out != nil && rec.Code < 300 {
		if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
			t.Fatalf("decoding %s %s response: %v\n%s", method, target, err, rec.Body.String())
		}
	}
	return rec
}

func TestFoodSearchDefaults(t *testing.T) {
	ws := newTestServer(t, "owner")
	mux := ws.ClientHandler()

	var resp SearchResponse
	rec := doJson(t, mux, http.MethodGet, "/foods", nil, &resp)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if resp.Filtered {
		t.Fatalf("default search should not be filtered")
	}
	if resp.Sort != string(foods.SortRatingDesc) {
		t.Fatalf("expected default sort rating-desc, got %s", resp.Sort)
	}
	if resp.TotalHits != ws.Catalog.Len() {
		t.Fatalf("expected all %d products, got %d", ws.Catalog.Len(), resp.TotalHits)
	}
	for i := 1; i < len(resp.Items); i++ {
		if resp.Items[i].Rating > resp.Items[i-1].Rating {
			t.Fatalf("items not sorted by rating desc at %d", i)
		}
	}
}

func TestFoodSearchFiltered(t *testing.T) {
	ws := newTestServer(t, "owner")
	mux := ws.ClientHandler()

	var resp SearchResponse
	doJson(t, mux, http.MethodGet, "/foods?type=dry&sort=price-asc", nil, &resp)
	if !resp.Filtered {
		t.Fatalf("type filter should mark the response filtered")
	}
	for _, item := range resp.Items {
		if item.Type != foods.TypeDry {
			t.Fatalf("expected only dry food, got %s (%s)", item.Type, item.Id)
		}
	}
	var lastPrice float64 = -1
	for _, item := range resp.Items {
		if item.Price == nil {
			t.Fatalf("unpriced product should sort last, but more priced items may not follow")
		}
		if *item.Price < lastPrice {
			t.Fatalf("items not sorted by price asc")
		}
		lastPrice = *item.Price
	}
}

func TestFoodSearchPostBody(t *testing.T) {
	ws := newTestServer(t, "owner")
	mux := ws.ClientHandler()

	var resp SearchResponse
	body := map[string]any{"type": "wet", "sort": "name-asc"}
	doJson(t, mux, http.MethodPost, "/foods", body, &resp)
	if !resp.Filtered {
		t.Fatalf("posted filter should mark the response filtered")
	}
	for _, item := range resp.Items {
		if item.Type != foods.TypeWet {
			t.Fatalf("expected only wet food, got %s", item.Type)
		}
	}
}

func TestFoodSearchUnknownFacetValue(t *testing.T) {
	ws := newTestServer(t, "owner")
	mux := ws.ClientHandler()

	var resp SearchResponse
	doJson(t, mux, http.MethodGet, "/foods?type=kibble-3000", nil, &resp)
	if resp.TotalHits != 0 {
		t.Fatalf("unknown facet value should match nothing, got %d hits", resp.TotalHits)
	}
}

func TestFoodSearchPaging(t *testing.T) {
	ws := newTestServer(t, "owner")
	mux := ws.ClientHandler()

	var first SearchResponse
	doJson(t, mux, http.MethodGet, "/foods?pageSize=2", nil, &first)
	if len(first.Items) != 2 {
		t.Fatalf("expected page of 2, got %d", len(first.Items))
	}
	var second SearchResponse
	doJson(t, mux, http.MethodGet, "/foods?pageSize=2&page=1", nil, &second)
	if len(second.Items) != 2 {
		t.Fatalf("expected second page of 2, got %d", len(second.Items))
	}
	if first.Items[0].Id == second.Items[0].Id {
		t.Fatalf("pages should not overlap")
	}
	var far SearchResponse
	doJson(t, mux, http.MethodGet, "/foods?pageSize=2&page=999", nil, &far)
	if len(far.Items) != 0 {
		t.Fatalf("out of range page should be empty")
	}
}

func TestFoodById(t *testing.T) {
	ws := newTestServer(t, "owner")
	mux := ws.ClientHandler()

	var product foods.Product
	rec := doJson(t, mux, http.MethodGet, "/foods/ziwi-peak-air-dried", nil, &product)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if product.Id != "ziwi-peak-air-dried" {
		t.Fatalf("got wrong product %s", product.Id)
	}

	rec = doJson(t, mux, http.MethodGet, "/foods/nope", nil, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for missing product, got %d", rec.Code)
	}
}

func TestFoodFacets(t *testing.T) {
	ws := newTestServer(t, "owner")
	mux := ws.ClientHandler()

	var facets catalog.FacetResult
	doJson(t, mux, http.MethodGet, "/foods/facets", nil, &facets)
	if len(facets.Types) == 0 || len(facets.Prices) == 0 {
		t.Fatalf("expected populated facets, got %+v", facets)
	}
}

func TestDogLifecycleOverHttp(t *testing.T) {
	ws := newTestServer(t, "owner")
	mux := ws.ClientHandler()

	var dog registry.Dog
	rec := doJson(t, mux, http.MethodPost, "/dogs", registry.Dog{Name: "Rex", Breed: "Beagle", BirthDate: "2023-05-01"}, &dog)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if dog.Id == "" || dog.OwnerId != "owner-1" {
		t.Fatalf("dog not stored for authenticated owner: %+v", dog)
	}
	if dog.AgeLabel == "" {
		t.Fatalf("expected derived age label on created dog")
	}

	var listed []registry.Dog
	doJson(t, mux, http.MethodGet, "/dogs", nil, &listed)
	if len(listed) != 1 || listed[0].Id != dog.Id {
		t.Fatalf("expected the created dog in the listing, got %+v", listed)
	}

	var updated registry.Dog
	doJson(t, mux, http.MethodPut, "/dogs/"+dog.Id, registry.Dog{Name: "Rexo", Breed: "Beagle"}, &updated)
	if updated.Name != "Rexo" {
		t.Fatalf("expected updated name, got %s", updated.Name)
	}

	rec = doJson(t, mux, http.MethodDelete, "/dogs/"+dog.Id, nil, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 on delete, got %d", rec.Code)
	}
	rec = doJson(t, mux, http.MethodGet, "/dogs/"+dog.Id, nil, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", rec.Code)
	}
}

func TestDogRecordsOverHttp(t *testing.T) {
	ws := newTestServer(t, "owner")
	mux := ws.ClientHandler()

	var dog registry.Dog
	doJson(t, mux, http.MethodPost, "/dogs", registry.Dog{Name: "Luna"}, &dog)

	var vac registry.Vaccination
	rec := doJson(t, mux, http.MethodPost, "/dogs/"+dog.Id+"/vaccinations",
		registry.Vaccination{Name: "Rabies", Date: "2026-08-01", NextDue: "2027-08-01"}, &vac)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if vac.Id == "" {
		t.Fatalf("expected generated record id")
	}

	var weights []registry.WeightEntry
	doJson(t, mux, http.MethodPost, "/dogs/"+dog.Id+"/weights", registry.WeightEntry{Kg: 12.5, Date: "2026-08-20"}, nil)
	doJson(t, mux, http.MethodGet, "/dogs/"+dog.Id+"/weights", nil, &weights)
	if len(weights) != 1 {
		t.Fatalf("expected 1 weight entry, got %d", len(weights))
	}

	rec = doJson(t, mux, http.MethodDelete, fmt.Sprintf("/dogs/%s/records/%s", dog.Id, vac.Id), nil, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 deleting record, got %d", rec.Code)
	}
	var after registry.Dog
	doJson(t, mux, http.MethodGet, "/dogs/"+dog.Id, nil, &after)
	if len(after.Vaccinations) != 0 {
		t.Fatalf("vaccination should be gone, got %+v", after.Vaccinations)
	}
}

func TestVetsOverHttp(t *testing.T) {
	ws := newTestServer(t, "owner")
	mux := ws.ClientHandler()

	var vet registry.VetContact
	rec := doJson(t, mux, http.MethodPost, "/vets", registry.VetContact{Name: "Dr. Chen", Phone: "555-0101"}, &vet)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	var listed []registry.VetContact
	doJson(t, mux, http.MethodGet, "/vets", nil, &listed)
	if len(listed) != 1 {
		t.Fatalf("expected 1 vet, got %d", len(listed))
	}
	rec = doJson(t, mux, http.MethodDelete, "/vets/"+vet.Id, nil, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
}

func TestAdminRequiresRole(t *testing.T) {
	ws := newTestServer(t, "owner")
	mux := ws.AdminHandler()

	rec := doJson(t, mux, http.MethodPost, "/save", nil, nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("owner role should not reach admin routes, got %d", rec.Code)
	}
}

func TestAdminUpsertAndDelete(t *testing.T) {
	ws := newTestServer(t, "admin")
	mux := ws.AdminHandler()
	before := ws.Catalog.Len()

	raw := []foods.RawProduct{{
		Id:     "test-kibble",
		Name:   "Test Kibble",
		Type:   "dry",
		Rating: 4.2,
	}}
	var resp map[string]int
	rec := doJson(t, mux, http.MethodPost, "/foods", raw, &resp)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if resp["stored"] != 1 {
		t.Fatalf("expected 1 stored, got %d", resp["stored"])
	}
	if ws.Catalog.Len() != before+1 {
		t.Fatalf("catalog length did not grow")
	}

	rec = doJson(t, mux, http.MethodDelete, "/foods/test-kibble", nil, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	rec = doJson(t, mux, http.MethodDelete, "/foods/test-kibble", nil, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 deleting twice, got %d", rec.Code)
	}
}

func TestAdminSaveAndStats(t *testing.T) {
	ws := newTestServer(t, "admin")
	mux := ws.AdminHandler()

	rec := doJson(t, mux, http.MethodPost, "/save", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 saving, got %d: %s", rec.Code, rec.Body.String())
	}

	var stats map[string]int
	doJson(t, mux, http.MethodGet, "/stats", nil, &stats)
	if stats["foods"] != ws.Catalog.Len() {
		t.Fatalf("expected %d foods in stats, got %d", ws.Catalog.Len(), stats["foods"])
	}
}

func TestOwnersCannotSeeEachOthersDogs(t *testing.T) {
	ws := newTestServer(t, "owner")
	mux := ws.ClientHandler()

	var dog registry.Dog
	doJson(t, mux, http.MethodPost, "/dogs", registry.Dog{Name: "Milo"}, &dog)

	ws.Auth = &MockAuth{Owner: "owner-2", Role: "owner"}
	other := ws.ClientHandler()
	rec := doJson(t, other, http.MethodGet, "/dogs/"+dog.Id, nil, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("foreign owner should get 404, got %d", rec.Code)
	}
	var listed []registry.Dog
	doJson(t, other, http.MethodGet, "/dogs", nil, &listed)
	if len(listed) != 0 {
		t.Fatalf("foreign owner should see no dogs, got %d", len(listed))
	}
}

func TestSearchRequestDecode(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/foods?type=dry&diet=grain-free&sort=price-desc&ignored=x", nil)
	sr := DefaultSearchRequest()
	if err := GetQueryFromRequest(req, &sr); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if sr.Type != "dry" || sr.Diet != "grain-free" {
		t.Fatalf("unexpected selection: %+v", sr.Selection)
	}
	if sr.SortKey() != foods.SortPriceDesc {
		t.Fatalf("expected price-desc, got %s", sr.SortKey())
	}
	if sr.Size != foods.All || sr.LifeStage != foods.All || sr.Price != foods.All {
		t.Fatalf("untouched facets should default to all: %+v", sr.Selection)
	}
}

func TestSearchRequestBadSortFallsBack(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/foods", strings.NewReader(`{"sort":"by-vibes"}`))
	sr := DefaultSearchRequest()
	if err := GetQueryFromRequest(req, &sr); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if sr.SortKey() != foods.SortRatingDesc {
		t.Fatalf("unknown sort should fall back to rating-desc, got %s", sr.SortKey())
	}
}
