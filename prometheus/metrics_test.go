package prometheus_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/rfcli"
	"github.com/fwojciec/rfcli/mock"
	rfprom "github.com/fwojciec/rfcli/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gather returns the metric families of m keyed by name.
func gather(t *testing.T, m *rfprom.Metrics) map[string]*dto.MetricFamily {
	t.Helper()

	families, err := m.Registry().Gather()
	require.NoError(t, err)
	out := make(map[string]*dto.MetricFamily, len(families))
	for _, f := range families {
		out[f.GetName()] = f
	}
	return out
}

// counter returns the value of the counter in family with the given labels.
func counter(f *dto.MetricFamily, labels map[string]string) float64 {
	if f == nil {
		return 0
	}
next:
	for _, m := range f.GetMetric() {
		for _, lp := range m.GetLabel() {
			if want, ok := labels[lp.GetName()]; ok && want != lp.GetValue() {
				continue next
			}
		}
		return m.GetCounter().GetValue()
	}
	return 0
}

func TestContentCache_Get(t *testing.T) {
	t.Parallel()

	m := rfprom.NewMetrics()
	hit := true
	inner := &mock.ContentCache{
		GetFn: func(ctx context.Context, number int, kind rfcli.CacheKind) (*rfcli.CacheEntry, bool, error) {
			if hit {
				return &rfcli.CacheEntry{Number: number, Kind: kind}, true, nil
			}
			return nil, false, nil
		},
	}
	c := rfprom.NewContentCache(inner, m)

	_, _, _ = c.Get(context.Background(), 1, rfcli.KindRaw)
	_, _, _ = c.Get(context.Background(), 1, rfcli.KindRaw)
	hit = false
	_, _, _ = c.Get(context.Background(), 1, rfcli.KindTLDR)

	f := gather(t, m)["rfcli_cache_requests_total"]
	assert.Equal(t, 2.0, counter(f, map[string]string{"kind": "raw", "result": "hit"}))
	assert.Equal(t, 1.0, counter(f, map[string]string{"kind": "tldr", "result": "miss"}))
}

func TestFetcher_FetchRaw(t *testing.T) {
	t.Parallel()

	m := rfprom.NewMetrics()
	inner := &mock.Fetcher{
		FetchRawFn: func(ctx context.Context, number int) ([]byte, error) {
			if number == 404 {
				return nil, rfcli.Errorf(rfcli.ENOTFOUND, "missing")
			}
			return []byte("body"), nil
		},
	}
	f := rfprom.NewFetcher(inner, m)

	_, err := f.FetchRaw(context.Background(), 1)
	require.NoError(t, err)
	_, err = f.FetchRaw(context.Background(), 404)
	require.Error(t, err)

	families := gather(t, m)
	assert.Equal(t, uint64(2), families["rfcli_fetch_duration_seconds"].GetMetric()[0].GetHistogram().GetSampleCount())
	assert.Equal(t, 1.0, counter(families["rfcli_fetch_errors_total"], map[string]string{"code": rfcli.ENOTFOUND}))
}

func TestSearcher_Search(t *testing.T) {
	t.Parallel()

	m := rfprom.NewMetrics()
	inner := &mock.Searcher{
		SearchFn: func(ctx context.Context, query string, limit int) ([]rfcli.QueryResult, error) {
			return make([]rfcli.QueryResult, 3), nil
		},
	}
	s := rfprom.NewSearcher(inner, m)

	_, err := s.Search(context.Background(), "tls", 10)
	require.NoError(t, err)

	h := gather(t, m)["rfcli_search_results"].GetMetric()[0].GetHistogram()
	assert.Equal(t, uint64(1), h.GetSampleCount())
	assert.Equal(t, 3.0, h.GetSampleSum())
}

func TestTLDRService_TLDR(t *testing.T) {
	t.Parallel()

	m := rfprom.NewMetrics()
	inner := &mock.TLDRService{
		TLDRFn: func(ctx context.Context, number int) (string, error) {
			if number == 1 {
				return "", rfcli.Errorf(rfcli.EDERIVE, "empty")
			}
			return "pitch", nil
		},
	}
	s := rfprom.NewTLDRService(inner, m)

	_, _ = s.TLDR(context.Background(), 1)
	_, _ = s.TLDR(context.Background(), 2)
	_, _ = s.TLDR(context.Background(), 3)

	f := gather(t, m)["rfcli_tldr_total"]
	assert.Equal(t, 2.0, counter(f, map[string]string{"outcome": "ok"}))
	assert.Equal(t, 1.0, counter(f, map[string]string{"outcome": rfcli.EDERIVE}))
}

func TestMetrics_WriteTextfile(t *testing.T) {
	t.Parallel()

	m := rfprom.NewMetrics()
	s := rfprom.NewTLDRService(&mock.TLDRService{
		TLDRFn: func(ctx context.Context, number int) (string, error) { return "x", nil },
	}, m)
	_, _ = s.TLDR(context.Background(), 1)

	path := filepath.Join(t.TempDir(), "rfcli.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `rfcli_tldr_total{outcome="ok"} 1`)
}
