package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/okian/medbench/internal/adapters/http/api"
	service "github.com/okian/medbench/internal/app"
	"github.com/okian/medbench/internal/domain/benchmark"
	"github.com/okian/medbench/internal/domain/diagnostics"
	"github.com/okian/medbench/internal/domain/model"
	"github.com/okian/medbench/internal/domain/presentation"
	. "github.com/smartystreets/goconvey/convey"
)

// Mock dependencies that implements the Dependencies interface
type mockDependencies struct {
	series     []presentation.Series
	report     *diagnostics.Report
	refreshErr error
	refreshes  int
}

func (m *mockDependencies) Series() ([]presentation.Series, bool) {
	return m.series, m.series != nil
}

func (m *mockDependencies) Diagnostics() (*diagnostics.Report, bool) {
	return m.report, m.report != nil
}

func (m *mockDependencies) Refresh(context.Context) error {
	m.refreshes++
	return m.refreshErr
}

type mockStatsProvider struct {
	stats service.Stats
}

func (m *mockStatsProvider) Stats() service.Stats {
	return m.stats
}

func fixtureSeries() []presentation.Series {
	table := benchmark.DefaultTable()
	medqa, _ := table.Get(benchmark.MedQA)
	mast, _ := table.Get(benchmark.MAST)
	return []presentation.Series{
		presentation.Build(nil, mast),
		presentation.Build([]model.FrontierPoint{
			{Benchmark: benchmark.MedQA, Model: "gpt-4o", ReleaseDate: civil.Date{Year: 2024, Month: 5, Day: 13}, Score: 88.7},
			{Benchmark: benchmark.MedQA, Model: "o1", ReleaseDate: civil.Date{Year: 2024, Month: 12, Day: 5}, Score: 96.5},
		}, medqa),
	}
}

func fixtureReport() *diagnostics.Report {
	r := &diagnostics.Report{}
	r.Add(
		diagnostics.EmptyBenchmark(string(benchmark.MAST)),
		diagnostics.Malformed(diagnostics.Origin{Benchmark: string(benchmark.MedQA), Source: "medqa_scores.csv", Line: 3}, errors.New("missing score")),
	)
	return r
}

func newMux(deps *mockDependencies, stats *mockStatsProvider) *http.ServeMux {
	server := api.NewServer(deps, stats, nil, nil)
	mux := http.NewServeMux()
	server.Register(context.Background(), mux)
	return mux
}

func do(mux *http.ServeMux, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func TestServer_Register(t *testing.T) {
	Convey("Given a server over a computed result", t, func() {
		deps := &mockDependencies{series: fixtureSeries(), report: fixtureReport()}
		mux := newMux(deps, &mockStatsProvider{stats: service.Stats{Runs: 1}})

		Convey("Then health and stats are served", func() {
			So(do(mux, http.MethodGet, "/healthz").Code, ShouldEqual, http.StatusOK)
			So(do(mux, http.MethodGet, "/stats").Code, ShouldEqual, http.StatusOK)
		})

		Convey("Then unknown paths fall through to 404", func() {
			So(do(mux, http.MethodGet, "/unknown").Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestFrontierHandler(t *testing.T) {
	Convey("Given a server over a computed result", t, func() {
		deps := &mockDependencies{series: fixtureSeries(), report: fixtureReport()}
		mux := newMux(deps, &mockStatsProvider{})

		Convey("When listing every frontier", func() {
			w := do(mux, http.MethodGet, "/frontier")

			Convey("Then all series are returned in order", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldStartWith, "application/json")

				var body struct {
					Series []struct {
						Benchmark string `json:"benchmark_id"`
						Points    []struct {
							Date          string  `json:"date"`
							Score         float64 `json:"score_percent"`
							Label         string  `json:"label"`
							IsCurrentSOTA bool    `json:"is_current_sota"`
						} `json:"points"`
					} `json:"series"`
				}
				So(json.NewDecoder(w.Body).Decode(&body), ShouldBeNil)
				So(len(body.Series), ShouldEqual, 2)
				So(body.Series[0].Benchmark, ShouldEqual, "MAST")
				So(body.Series[0].Points, ShouldBeEmpty)
				last := body.Series[1].Points[1]
				So(last.Date, ShouldEqual, "2024-12-05")
				So(last.Score, ShouldEqual, 96.5)
				So(last.IsCurrentSOTA, ShouldBeTrue)
				So(last.Label, ShouldEqual, "o1 "+presentation.SOTAMarker)
			})
		})

		Convey("When fetching one benchmark case-insensitively", func() {
			w := do(mux, http.MethodGet, "/frontier/medqa")

			Convey("Then only that series is returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var s map[string]interface{}
				So(json.NewDecoder(w.Body).Decode(&s), ShouldBeNil)
				So(s["benchmark_id"], ShouldEqual, "MedQA")
			})
		})

		Convey("When fetching an unknown benchmark", func() {
			w := do(mux, http.MethodGet, "/frontier/PubMedQA")

			Convey("Then it should answer 404", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
				var e map[string]string
				So(json.NewDecoder(w.Body).Decode(&e), ShouldBeNil)
				So(e["code"], ShouldEqual, "not_found")
			})
		})

		Convey("When fetching a known benchmark absent from the result", func() {
			So(do(mux, http.MethodGet, "/frontier/HealthBench").Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("When using the wrong method", func() {
			So(do(mux, http.MethodPost, "/frontier").Code, ShouldEqual, http.StatusNotFound)
		})
	})

	Convey("Given a server before any run", t, func() {
		mux := newMux(&mockDependencies{}, &mockStatsProvider{})

		Convey("Then frontier reads answer 503", func() {
			So(do(mux, http.MethodGet, "/frontier").Code, ShouldEqual, http.StatusServiceUnavailable)
			So(do(mux, http.MethodGet, "/frontier/MedQA").Code, ShouldEqual, http.StatusServiceUnavailable)
			So(do(mux, http.MethodGet, "/diagnostics").Code, ShouldEqual, http.StatusServiceUnavailable)
			So(do(mux, http.MethodGet, "/chart").Code, ShouldEqual, http.StatusServiceUnavailable)
		})
	})
}

func TestDiagnosticsHandler(t *testing.T) {
	Convey("Given a server with a diagnostics report", t, func() {
		mux := newMux(&mockDependencies{series: fixtureSeries(), report: fixtureReport()}, &mockStatsProvider{})

		Convey("When reading the full report", func() {
			w := do(mux, http.MethodGet, "/diagnostics")

			Convey("Then totals and counts are included", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var body struct {
					Total  int            `json:"total"`
					Counts map[string]int `json:"counts"`
					Items  []struct {
						Kind string `json:"kind"`
						Line int    `json:"line"`
					} `json:"items"`
				}
				So(json.NewDecoder(w.Body).Decode(&body), ShouldBeNil)
				So(body.Total, ShouldEqual, 2)
				So(body.Counts["empty_benchmark"], ShouldEqual, 1)
				So(body.Counts["malformed_record"], ShouldEqual, 1)
				So(body.Items[1].Line, ShouldEqual, 3)
			})
		})

		Convey("When filtering by benchmark", func() {
			w := do(mux, http.MethodGet, "/diagnostics?benchmark=medqa")
			var items []map[string]interface{}
			So(json.NewDecoder(w.Body).Decode(&items), ShouldBeNil)
			So(len(items), ShouldEqual, 1)
			So(items[0]["kind"], ShouldEqual, "malformed_record")
		})

		Convey("When filtering by a benchmark without diagnostics", func() {
			w := do(mux, http.MethodGet, "/diagnostics?benchmark=MedHELM")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(bytes.TrimSpace(w.Body.Bytes()), ShouldResemble, []byte("[]"))
		})
	})
}

func TestChartHandler(t *testing.T) {
	Convey("Given a server over a computed result", t, func() {
		mux := newMux(&mockDependencies{series: fixtureSeries(), report: fixtureReport()}, &mockStatsProvider{})

		Convey("When requesting the HTML chart in the dark theme", func() {
			w := do(mux, http.MethodGet, "/chart?theme=dark")

			Convey("Then a page with the SOTA label is returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldStartWith, "text/html")
				So(w.Body.String(), ShouldContainSubstring, "MedQA")
				So(w.Body.String(), ShouldContainSubstring, "#1b142f")
			})
		})

		Convey("When requesting the PNG chart", func() {
			w := do(mux, http.MethodGet, "/chart.png")

			Convey("Then a PNG image is returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldEqual, "image/png")
				So(bytes.HasPrefix(w.Body.Bytes(), []byte("\x89PNG\r\n\x1a\n")), ShouldBeTrue)
			})
		})

		Convey("When requesting an unknown theme", func() {
			w := do(mux, http.MethodGet, "/chart.png?theme=sepia")
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestRefreshHandler(t *testing.T) {
	Convey("Given a refreshable server", t, func() {
		deps := &mockDependencies{report: fixtureReport()}
		mux := newMux(deps, &mockStatsProvider{})

		Convey("When posting a refresh", func() {
			w := do(mux, http.MethodPost, "/refresh")

			Convey("Then the pipeline reruns and diagnostics are returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.refreshes, ShouldEqual, 1)
				var body map[string]interface{}
				So(json.NewDecoder(w.Body).Decode(&body), ShouldBeNil)
				So(body["status"], ShouldEqual, "ok")
				So(body["diagnostics"], ShouldNotBeNil)
			})
		})

		Convey("When the rerun fails", func() {
			deps.refreshErr = errors.New("nothing to render")
			w := do(mux, http.MethodPost, "/refresh")

			Convey("Then it should answer 500 with the cause", func() {
				So(w.Code, ShouldEqual, http.StatusInternalServerError)
				var e map[string]string
				So(json.NewDecoder(w.Body).Decode(&e), ShouldBeNil)
				So(e["code"], ShouldEqual, "refresh_failed")
				So(e["message"], ShouldContainSubstring, "nothing to render")
			})
		})

		Convey("When using GET", func() {
			w := do(mux, http.MethodGet, "/refresh")
			So(w.Code, ShouldEqual, http.StatusMethodNotAllowed)
			So(w.Header().Get("Allow"), ShouldEqual, http.MethodPost)
			So(deps.refreshes, ShouldEqual, 0)
		})
	})
}

func TestHealthHandler_HandleHealth(t *testing.T) {
	Convey("Given a health handler", t, func() {
		handler := api.NewHealthHandler()

		Convey("When handling health check request", func() {
			req := httptest.NewRequest("GET", "/healthz", nil)
			w := httptest.NewRecorder()

			Convey("Then it should return OK status", func() {
				handler.HandleHealth(w, req)
				So(w.Code, ShouldEqual, http.StatusOK)
			})
		})
	})
}

func TestStatsHandler_HandleStats(t *testing.T) {
	Convey("Given a stats handler", t, func() {
		at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
		mockStats := &mockStatsProvider{
			stats: service.Stats{
				Runs:           3,
				Benchmarks:     4,
				HasResult:      true,
				LastRunID:      "run-1",
				LastRunAt:      &at,
				FrontierPoints: map[benchmark.ID]int{benchmark.MedQA: 2},
				CurrentSOTA: map[benchmark.ID]service.SOTA{
					benchmark.MedQA: {Model: "o1", Provider: "OpenAI", Date: civil.Date{Year: 2024, Month: 12, Day: 5}, ScorePercent: 96.5},
				},
			},
		}
		handler := api.NewStatsHandler(mockStats)

		Convey("When handling stats request", func() {
			req := httptest.NewRequest("GET", "/stats", nil)
			w := httptest.NewRecorder()

			Convey("Then it should return typed stats", func() {
				handler.HandleStats(w, req)
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldStartWith, "application/json")

				var response service.Stats
				err := json.NewDecoder(w.Body).Decode(&response)
				So(err, ShouldBeNil)
				So(response.Runs, ShouldEqual, 3)
				So(response.Benchmarks, ShouldEqual, 4)
				So(response.LastRunID, ShouldEqual, "run-1")
				So(response.LastRunAt.Equal(at), ShouldBeTrue)
				So(response.FrontierPoints[benchmark.MedQA], ShouldEqual, 2)
				So(response.CurrentSOTA[benchmark.MedQA].Model, ShouldEqual, "o1")
				So(response.CurrentSOTA[benchmark.MedQA].Date, ShouldResemble, civil.Date{Year: 2024, Month: 12, Day: 5})
			})

			Convey("Then the wire names are snake case", func() {
				handler.HandleStats(w, req)
				body := w.Body.String()
				So(body, ShouldContainSubstring, `"last_run_id":"run-1"`)
				So(body, ShouldContainSubstring, `"current_sota":{"MedQA":{"model_name":"o1"`)
				So(body, ShouldContainSubstring, `"date":"2024-12-05"`)
			})
		})

		Convey("When the method is not GET", func() {
			w := httptest.NewRecorder()
			handler.HandleStats(w, httptest.NewRequest(http.MethodPost, "/stats", nil))

			Convey("Then it is rejected", func() {
				So(w.Code, ShouldEqual, http.StatusMethodNotAllowed)
				So(w.Header().Get("Allow"), ShouldEqual, http.MethodGet)
			})
		})
	})
}

func TestMetricsMiddleware(t *testing.T) {
	Convey("Given a handler wrapped in the metrics middleware", t, func() {
		h := api.MetricsMiddleware(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		}, "test")

		Convey("Then the wrapped status is preserved", func() {
			w := httptest.NewRecorder()
			h(w, httptest.NewRequest(http.MethodGet, "/", nil))
			So(w.Code, ShouldEqual, http.StatusTeapot)
		})
	})
}
