package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestManagerCreation(t *testing.T) {
	Convey("Given a fresh registry", t, func() {
		registry := prometheus.NewRegistry()

		Convey("When creating a manager with custom options", func() {
			m := NewManager(
				WithNamespace("test"),
				WithSubsystem("unit"),
				WithHistogramBuckets([]float64{1, 2, 3}),
				WithPrometheusRegistry(registry),
			)
			m.recordsLoaded.WithLabelValues("MedQA").Add(3)

			Convey("Then collectors should be registered under the namespace", func() {
				So(m.namespace, ShouldEqual, "test")
				So(m.subsystem, ShouldEqual, "unit")
				So(m.histogramBuckets, ShouldResemble, []float64{1, 2, 3})

				families, err := registry.Gather()
				So(err, ShouldBeNil)
				names := make([]string, 0, len(families))
				for _, f := range families {
					names = append(names, f.GetName())
				}
				So(names, ShouldContain, "test_unit_records_loaded_total")
			})
		})

		Convey("When options receive empty values", func() {
			m := NewManager(
				WithNamespace(""),
				WithSubsystem(""),
				WithHistogramBuckets(nil),
				WithPrometheusRegistry(registry),
			)

			Convey("Then defaults should be kept", func() {
				So(m.namespace, ShouldEqual, "medbench")
				So(m.subsystem, ShouldEqual, "frontier")
				So(len(m.histogramBuckets), ShouldBeGreaterThan, 0)
			})
		})
	})
}

func TestGlobalRecorders(t *testing.T) {
	Convey("Given the global manager", t, func() {
		Convey("When recording pipeline events", func() {
			before := testutil.ToFloat64(globalManager.diagnostics.WithLabelValues("MAST", "malformed_record"))
			RecordDiagnostic("MAST", "malformed_record")
			RecordRecordsLoaded("MAST", 4)
			UpdateFrontier("MAST", 3, 61.5)
			RecordFetch("live")
			RecordFetchLatency(12)
			RecordRender("png", 40)
			RecordArtifactWritten()
			RecordRun("ok", 120)
			RecordHTTPRequest("frontier", "GET", "200")
			RecordHTTPRequestDuration("frontier", "GET", "200", 1)
			RecordErrorByEndpoint("frontier", "GET", "not_found")

			Convey("Then the values should be observable", func() {
				So(testutil.ToFloat64(globalManager.diagnostics.WithLabelValues("MAST", "malformed_record")), ShouldEqual, before+1)
				So(testutil.ToFloat64(globalManager.frontierPoints.WithLabelValues("MAST")), ShouldEqual, 3.0)
				So(testutil.ToFloat64(globalManager.sotaScore.WithLabelValues("MAST")), ShouldEqual, 61.5)
				So(GetRegistry(), ShouldNotBeNil)
			})
		})
	})
}
