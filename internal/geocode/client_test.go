package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/land-resolver/app/services"
	"github.com/land-resolver/internal/normalizer"
	"github.com/land-resolver/internal/parser"
)

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	norm := normalizer.NewNormalizer()
	p := parser.NewParser(norm)
	cache, err := services.NewMemoryCacheService(128)
	if err != nil {
		t.Fatal(err)
	}
	return NewClient(baseURL, 2*time.Second, cache, norm, p, zap.NewNop())
}

func TestGeocodeExact(t *testing.T) {
	var gotQueries []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQueries = append(gotQueries, r.URL.Query().Get("q"))
		w.Write([]byte(`[{"lat":"25.0571","lon":"121.5639"}]`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	got, err := c.Geocode(context.Background(), "台北市松山區三民路29巷5號3樓", "")
	if err != nil {
		t.Fatal(err)
	}
	if got.Precision != PrecisionExact {
		t.Errorf("precision = %q, want exact", got.Precision)
	}
	if got.Lat != 25.0571 || got.Lng != 121.5639 {
		t.Errorf("coordinates = %v,%v", got.Lat, got.Lng)
	}
	if len(gotQueries) != 1 || gotQueries[0] != "台北市松山區三民路29巷5號" {
		t.Errorf("upstream queries = %v, want floor-stripped door key", gotQueries)
	}
}

func TestGeocodeCacheHitSkipsUpstream(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`[{"lat":"25.0571","lon":"121.5639"}]`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	ctx := context.Background()
	if _, err := c.Geocode(ctx, "台北市松山區三民路29巷5號3樓", ""); err != nil {
		t.Fatal(err)
	}
	// Same door, different floor: the cached door key must answer.
	if _, err := c.Geocode(ctx, "台北市松山區三民路29巷5號7樓", ""); err != nil {
		t.Fatal(err)
	}
	if calls != 1 {
		t.Errorf("upstream called %d times, want 1", calls)
	}
}

func TestGeocodeRoadFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("q")
		if q == "台北市松山區三民路" {
			w.Write([]byte(`[{"lat":"25.0580","lon":"121.5600"}]`))
			return
		}
		w.Write([]byte(`[]`)) // door-level miss
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	got, err := c.Geocode(context.Background(), "台北市松山區三民路999號", "")
	if err != nil {
		t.Fatal(err)
	}
	if got.Precision != PrecisionRoad {
		t.Errorf("precision = %q, want road", got.Precision)
	}
}

func TestGeocodeDistrictCentroidFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	got, err := c.Geocode(context.Background(), "台北市松山區三民路999號", "")
	if err != nil {
		t.Fatal(err)
	}
	if got.Precision != PrecisionDistrict {
		t.Errorf("precision = %q, want district", got.Precision)
	}
	if got.Lat == 0 || got.Lng == 0 {
		t.Errorf("centroid coordinates missing: %+v", got)
	}
}

func TestGeocodeNoMatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	// District absent from the centroid table, city unknown.
	_, err := c.Geocode(context.Background(), "龍岩路1號", "")
	if err == nil {
		t.Fatal("want ErrNoMatch")
	}
}

func TestGeocodeRejectsCadastralLot(t *testing.T) {
	c := newTestClient(t, "")
	if _, err := c.Geocode(context.Background(), "台南市新化區90-1地號", ""); err == nil {
		t.Fatal("cadastral lot should not geocode")
	}
}

func TestGeocodeUpstreamDownFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	got, err := c.Geocode(context.Background(), "台北市信義區市府路45號", "")
	if err != nil {
		t.Fatal(err)
	}
	if got.Precision != PrecisionDistrict {
		t.Errorf("precision = %q, want district fallback", got.Precision)
	}
}
