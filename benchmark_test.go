package viewer_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/charmbracelet/log"

	viewer "github.com/s-celles/package-url-viewer"
	"github.com/s-celles/package-url-viewer/fetch"
	"github.com/s-celles/package-url-viewer/purldb"
)

// Mock PurlDB responses for benchmarks
var packageResponse = map[string]any{
	"count": 1,
	"results": []map[string]any{
		{
			"purl":                            "pkg:npm/lodash@4.17.21",
			"type":                            "npm",
			"name":                            "lodash",
			"version":                         "4.17.21",
			"declared_license_expression_spdx": "MIT",
			"release_date":                    "2021-02-20T00:00:00Z",
			"dependencies":                    []any{},
		},
	},
}

var versionsResponse = map[string]any{
	"count": 3,
	"results": []map[string]any{
		{"purl": "pkg:npm/lodash@4.17.19", "type": "npm", "name": "lodash", "version": "4.17.19", "release_date": "2020-07-08T00:00:00Z"},
		{"purl": "pkg:npm/lodash@4.17.21", "type": "npm", "name": "lodash", "version": "4.17.21", "release_date": "2021-02-20T00:00:00Z"},
		{"purl": "pkg:npm/lodash@4.17.20", "type": "npm", "name": "lodash", "version": "4.17.20"},
	},
}

var inputs = []string{
	"pkg:npm/lodash@4.17.21",
	"pkg:npm/%40types/node@18.0.0",
	"pkg:maven/org.apache.commons/commons-lang3@3.12.0",
	"pkg:deb/debian/curl@7.88.1?distro=bookworm",
	"pkg:golang/github.com/gorilla/mux@v1.8.0",
}

func BenchmarkInspect(b *testing.B) {
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		in := inputs[i%len(inputs)]
		p, err := viewer.Parse(in)
		if err != nil {
			b.Fatal(err)
		}
		_ = viewer.Resolve(p)
		_ = viewer.Links(in)
		_ = viewer.Badges(in)
	}
}

func BenchmarkStripVersion(b *testing.B) {
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = viewer.StripVersion(inputs[i%len(inputs)])
	}
}

func newBenchServer(b *testing.B) *httptest.Server {
	b.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("purl") != "" {
			_ = json.NewEncoder(w).Encode(packageResponse)
			return
		}
		_ = json.NewEncoder(w).Encode(versionsResponse)
	}))
	b.Cleanup(server.Close)
	return server
}

func newBenchClient(serverURL string) *purldb.Client {
	return purldb.NewClient(
		purldb.WithBaseURL(serverURL+"/api/packages/"),
		purldb.WithFetcher(fetch.NewFetcher(fetch.WithMaxRetries(0))),
		purldb.WithLogger(log.New(io.Discard)),
	)
}

func BenchmarkPurlDBFetchPackage(b *testing.B) {
	server := newBenchServer(b)
	c := newBenchClient(server.URL)
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.ClearCache()
		_, err := c.FetchPackage(ctx, "pkg:npm/lodash@4.17.21")
		if err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkPurlDBFetchPackageCached(b *testing.B) {
	server := newBenchServer(b)
	c := newBenchClient(server.URL)
	ctx := context.Background()
	if _, err := c.FetchPackage(ctx, "pkg:npm/lodash@4.17.21"); err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = c.FetchPackage(ctx, "pkg:npm/lodash@4.17.21")
	}
}

func BenchmarkVersionList(b *testing.B) {
	server := newBenchServer(b)
	c := newBenchClient(server.URL)
	ctx := context.Background()
	versions, err := c.FetchVersions(ctx, "npm", "", "lodash")
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = purldb.BuildVersionList(versions, "pkg:npm/lodash@4.17.21", purldb.MaxVersionsDisplay)
	}
}
