package nearby

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const DefaultOverpassURL = "https://overpass-api.de/api/interpreter"

// overpassFilters are the tag selectors queried for each category.
var overpassFilters = map[Category][]string{
	CategoryHospital:   {`["amenity"~"^(hospital|clinic)$"]`},
	CategorySchool:     {`["amenity"~"^(school|college|university)$"]`},
	CategoryRestaurant: {`["amenity"~"^(restaurant|cafe|fast_food)$"]`},
	CategoryBank:       {`["amenity"~"^(bank|atm)$"]`},
	CategoryPark:       {`["leisure"="park"]`},
	CategoryTransport:  {`["public_transport"="station"]`, `["railway"="station"]`},
	CategoryShopping:   {`["shop"~"^(mall|supermarket|department_store)$"]`},
}

// OverpassClient queries the OpenStreetMap Overpass API.
type OverpassClient struct {
	BaseURL string
	Client  *http.Client
}

func (c *OverpassClient) baseURL() string {
	if c.BaseURL != "" {
		return c.BaseURL
	}
	return DefaultOverpassURL
}

func (c *OverpassClient) httpClient() *http.Client {
	if c.Client != nil {
		return c.Client
	}
	return &http.Client{Timeout: 10 * time.Second}
}

type overpassResponse struct {
	Elements []struct {
		Lat    float64 `json:"lat"`
		Lon    float64 `json:"lon"`
		Center *struct {
			Lat float64 `json:"lat"`
			Lon float64 `json:"lon"`
		} `json:"center"`
		Tags map[string]string `json:"tags"`
	} `json:"elements"`
}

// buildQuery returns the Overpass QL for one category around a point.
func buildQuery(cat Category, lat, lon float64, radiusMeters, limit int) string {
	var b strings.Builder
	b.WriteString("[out:json][timeout:10];(")
	for _, f := range overpassFilters[cat] {
		for _, kind := range []string{"node", "way"} {
			fmt.Fprintf(&b, "%s%s(around:%d,%.6f,%.6f);", kind, f, radiusMeters, lat, lon)
		}
	}
	fmt.Fprintf(&b, ");out center %d;", limit)
	return b.String()
}

// Fetch returns the named places of one category. Distances are filled in by the caller.
func (c *OverpassClient) Fetch(ctx context.Context, cat Category, lat, lon float64, radiusMeters, limit int) ([]Place, error) {
	form := url.Values{"data": {buildQuery(cat, lat, lon, radiusMeters, limit)}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL(), strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, fmt.Errorf("overpass %s: %w", cat, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("overpass %s: status %d: %s", cat, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var decoded overpassResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("overpass %s: decode: %w", cat, err)
	}
	places := make([]Place, 0, len(decoded.Elements))
	for _, el := range decoded.Elements {
		name := strings.TrimSpace(el.Tags["name"])
		if name == "" {
			continue
		}
		p := Place{Name: name, Category: cat, Latitude: el.Lat, Longitude: el.Lon}
		if el.Center != nil {
			p.Latitude, p.Longitude = el.Center.Lat, el.Center.Lon
		}
		places = append(places, p)
	}
	return places, nil
}

// Ping reports whether the Overpass endpoint answers.
func (c *OverpassClient) Ping(ctx context.Context) error {
	u := strings.TrimSuffix(c.baseURL(), "/interpreter") + "/status"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient().Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}
