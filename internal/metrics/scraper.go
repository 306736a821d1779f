package metrics

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
)

// Metric names exposed by the cache node's nginx exporter.
const (
	metricHitBytes    = "lancache_cache_hit_bytes_total"
	metricMissBytes   = "lancache_cache_miss_bytes_total"
	metricConnections = "nginx_connections_active"
)

const scrapeTimeout = 10 * time.Second

// Stats is the normalized output of one scrape. Byte counters are raw totals;
// consumers derive rates from deltas if they need them.
type Stats struct {
	HitBytesTotal     float64
	MissBytesTotal    float64
	ActiveConnections float64
	ScrapedAt         time.Time
}

// Scraper fetches and parses the cache node's Prometheus text exposition.
// Metrics enrich the dashboard with transport-level counters the REST API
// does not carry; scrape failures are non-fatal.
type Scraper struct {
	url    string
	client *http.Client
}

// New builds a Scraper for the given /metrics URL.
func New(url string) *Scraper {
	return &Scraper{
		url:    url,
		client: &http.Client{Timeout: scrapeTimeout},
	}
}

// Scrape performs one fetch-and-parse cycle.
func (s *Scraper) Scrape(ctx context.Context) (Stats, error) {
	mfs, err := s.fetch(ctx)
	if err != nil {
		return Stats{}, err
	}
	return Stats{
		HitBytesTotal:     sumFamily(mfs[metricHitBytes]),
		MissBytesTotal:    sumFamily(mfs[metricMissBytes]),
		ActiveConnections: sumFamily(mfs[metricConnections]),
		ScrapedAt:         time.Now().UTC(),
	}, nil
}

func (s *Scraper) fetch(ctx context.Context) (map[string]*dto.MetricFamily, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", string(expfmt.NewFormat(expfmt.TypeTextPlain)))

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http get: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return parseFamilies(resp.Body)
}

// parseFamilies decodes a Prometheus text exposition. A partial result with a
// non-fatal parse warning is still returned successfully.
func parseFamilies(r io.Reader) (map[string]*dto.MetricFamily, error) {
	var parser expfmt.TextParser
	mfs, err := parser.TextToMetricFamilies(r)
	if err != nil && len(mfs) == 0 {
		return nil, fmt.Errorf("parse prometheus text: %w", err)
	}
	return mfs, nil
}

// sumFamily adds up all counter, gauge, or untyped values in a MetricFamily.
// Returns 0 if mf is nil (metric not present in the scrape).
func sumFamily(mf *dto.MetricFamily) float64 {
	if mf == nil {
		return 0
	}
	var total float64
	for _, m := range mf.GetMetric() {
		switch {
		case m.Counter != nil:
			total += m.Counter.GetValue()
		case m.Gauge != nil:
			total += m.Gauge.GetValue()
		case m.Untyped != nil:
			total += m.Untyped.GetValue()
		}
	}
	return total
}
