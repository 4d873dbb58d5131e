package router_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"pet-adoption-catalog/internal/platform/metrics"
	"pet-adoption-catalog/internal/router"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestHTTP_EndToEnd_AdoptionFlow(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{PageSize: 2}))
	defer ts.Close()

	// 1) Catálogo vacío
	{
		st, body := doReq(t, ts, "GET", "/api/animals", nil)
		if st != http.StatusOK || strings.TrimSpace(string(body)) != "[]" {
			t.Fatalf("expected empty listing, got %d body=%s", st, string(body))
		}
	}

	// 2) Alta de tres animales
	ids := []string{
		createAnimal(t, ts, "Milo", "Chien", "Montréal"),
		createAnimal(t, ts, "Luna", "Chat", "Laval"),
		createAnimal(t, ts, "Kiwi", "Perruche", "Montréal"),
	}

	// 3) Detalle
	{
		st, body := doReq(t, ts, "GET", "/api/animals/"+ids[1], nil)
		if st != http.StatusOK || !strings.Contains(string(body), `"name":"Luna"`) {
			t.Fatalf("expected Luna, got %d body=%s", st, string(body))
		}
	}

	// 4) Búsqueda por ciudad, orden de alta
	{
		st, body := doReq(t, ts, "GET", "/api/search?q=montr%C3%A9al", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 search, got %d", st)
		}
		var resp struct {
			Results []struct {
				ID string `json:"id"`
			} `json:"results"`
			Count int `json:"count"`
		}
		_ = json.Unmarshal(body, &resp)
		if resp.Count != 2 || resp.Results[0].ID != ids[0] || resp.Results[1].ID != ids[2] {
			t.Fatalf("unexpected search result: %s", string(body))
		}
	}

	// 5) Paginación con page size 2
	{
		st, body := doReq(t, ts, "GET", "/api/animals/pages?page=2", nil)
		if st != http.StatusOK || !strings.Contains(string(body), `"total_pages":2`) || !strings.Contains(string(body), ids[2]) {
			t.Fatalf("unexpected page 2: %d body=%s", st, string(body))
		}
	}

	// 6) Muestra mayor al total devuelve todo
	{
		st, body := doReq(t, ts, "GET", "/api/random-animals?count=10", nil)
		var items []map[string]any
		_ = json.Unmarshal(body, &items)
		if st != http.StatusOK || len(items) != 3 {
			t.Fatalf("expected 3 random animals, got %d (%d)", len(items), st)
		}
	}

	// 7) Submission inválida no se guarda
	{
		st, _ := doReq(t, ts, "POST", "/api/animals", map[string]any{"name": "A,l,bert"})
		if st != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", st)
		}
		_, body := doReq(t, ts, "GET", "/api/animals", nil)
		var items []map[string]any
		_ = json.Unmarshal(body, &items)
		if len(items) != 3 {
			t.Fatalf("expected 3 animals after rejected submission, got %d", len(items))
		}
	}
}

func TestHTTP_HealthAndDocs(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{}))
	defer ts.Close()

	st, body := doReq(t, ts, "GET", "/health", nil)
	if st != http.StatusOK || string(body) != "ok" {
		t.Fatalf("health: %d %s", st, string(body))
	}

	st, body = doReq(t, ts, "GET", "/swagger/doc.json", nil)
	if st != http.StatusOK || !strings.Contains(string(body), "/api/random-animals") {
		t.Fatalf("swagger doc: %d %s", st, string(body))
	}
}

func TestHTTP_MetricsAndRequestID(t *testing.T) {
	m := metrics.New()
	ts := httptest.NewServer(router.NewRouter(router.Options{Metrics: m}))
	defer ts.Close()

	req, _ := http.NewRequest("GET", ts.URL+"/api/search?q=chat", nil)
	res, err := ts.Client().Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	_, _ = io.Copy(io.Discard, res.Body)
	res.Body.Close()

	if res.Header.Get("X-Request-Id") == "" {
		t.Fatalf("expected X-Request-Id header")
	}

	_, _ = doReq(t, ts, "GET", "/api/animals", nil)
	_, _ = doReq(t, ts, "GET", "/api/animals/pages?page=1", nil)

	st, body := doReq(t, ts, "GET", "/metrics", nil)
	if st != http.StatusOK {
		t.Fatalf("metrics: %d", st)
	}
	for _, want := range []string{
		`catalog_queries_total{kind="search"} 1`,
		`catalog_queries_total{kind="list"} 2`,
		`http_requests_total{method="GET",status="200"}`,
	} {
		if !strings.Contains(string(body), want) {
			t.Fatalf("metrics output missing %q", want)
		}
	}
}

func TestHTTP_UnknownAnimal(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{}))
	defer ts.Close()

	st, body := doReq(t, ts, "GET", "/api/animals/42", nil)
	if st != http.StatusNotFound || !strings.Contains(string(body), "Animal non trouvé") {
		t.Fatalf("expected 404, got %d body=%s", st, string(body))
	}
}

func createAnimal(t *testing.T, ts *httptest.Server, name, species, city string) string {
	t.Helper()

	st, body := doReq(t, ts, "POST", "/api/animals", map[string]any{
		"name":        name,
		"species":     species,
		"breed":       "Inconnue",
		"age":         "2",
		"description": "Adorable et sociable",
		"owner_email": "refuge@exemple.ca",
		"address":     "500 rue Sherbrooke",
		"city":        city,
		"postal_code": "H2X 1Y4",
	})
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create animal, got %d body=%s", st, string(body))
	}

	var resp struct {
		AnimalID string `json:"animal_id"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.AnimalID == "" {
		t.Fatalf("create animal: missing id body=%s", string(body))
	}
	return resp.AnimalID
}

func doReq(t *testing.T, ts *httptest.Server, method, path string, body any) (int, []byte) {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("json marshal: %v", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, ts.URL+path, rdr)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := ts.Client().Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()

	respBody, _ := io.ReadAll(res.Body)
	return res.StatusCode, respBody
}
