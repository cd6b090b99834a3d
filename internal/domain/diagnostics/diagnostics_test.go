package diagnostics_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/okian/medbench/internal/domain/diagnostics"
	. "github.com/smartystreets/goconvey/convey"
)

func TestDiagnostic(t *testing.T) {
	Convey("Given a malformed record diagnostic", t, func() {
		d := diagnostics.Malformed(diagnostics.Origin{
			Benchmark: "MedQA",
			Source:    "medqa_scores.csv",
			Line:      7,
			Model:     "gpt-4o",
		}, errors.New(`invalid score "n/a"`))

		Convey("Then it should describe its origin", func() {
			So(d.Kind, ShouldEqual, diagnostics.KindMalformedRecord)
			So(d.Error(), ShouldEqual, `malformed_record [MedQA] medqa_scores.csv:7: invalid score "n/a"`)
		})

		Convey("Then it should match its sentinel", func() {
			So(errors.Is(d, diagnostics.ErrMalformedRecord), ShouldBeTrue)
			So(errors.Is(d, diagnostics.ErrEmptyBenchmark), ShouldBeFalse)
		})
	})

	Convey("Given diagnostics without a cause", t, func() {
		d := diagnostics.SourceUnavailable("MAST", "https://example.test/metrics.csv", nil)

		Convey("Then the sentinel text is the message", func() {
			So(d.Message, ShouldEqual, "source unavailable")
			So(errors.Is(d, diagnostics.ErrSourceUnavailable), ShouldBeTrue)
		})
	})

	Convey("Given an empty benchmark diagnostic", t, func() {
		d := diagnostics.EmptyBenchmark("MedHELM")
		So(d.Error(), ShouldEqual, "empty_benchmark [MedHELM]: no valid records for MedHELM")
		So(errors.Is(d, diagnostics.ErrEmptyBenchmark), ShouldBeTrue)
	})
}

func TestReport(t *testing.T) {
	Convey("Given an empty report", t, func() {
		var r diagnostics.Report

		Convey("Then it has no error and marshals to an empty list", func() {
			So(r.Err(), ShouldBeNil)
			So(r.Len(), ShouldEqual, 0)
			raw, err := json.Marshal(&r)
			So(err, ShouldBeNil)
			So(string(raw), ShouldEqual, `{"total":0,"counts":{},"items":[]}`)
		})
	})

	Convey("Given a report with mixed diagnostics", t, func() {
		var r diagnostics.Report
		r.Add(
			diagnostics.Malformed(diagnostics.Origin{Benchmark: "MedQA", Line: 2}, errors.New("bad date")),
			diagnostics.Malformed(diagnostics.Origin{Benchmark: "MedQA", Line: 3}, errors.New("bad score")),
			diagnostics.UnknownBenchmark(diagnostics.Origin{Benchmark: "PubMedQA", Line: 4}, nil),
		)
		var other diagnostics.Report
		other.Add(diagnostics.EmptyBenchmark("MedHELM"))
		r.Merge(&other)
		r.Merge(nil)

		Convey("Then counts are tracked per kind", func() {
			So(r.Len(), ShouldEqual, 4)
			So(r.Count(diagnostics.KindMalformedRecord), ShouldEqual, 2)
			So(r.Count(diagnostics.KindSourceUnavailable), ShouldEqual, 0)
			So(r.Counts()[diagnostics.KindEmptyBenchmark], ShouldEqual, 1)
			So(len(r.ForBenchmark("MedQA")), ShouldEqual, 2)
		})

		Convey("Then the combined error lists every diagnostic", func() {
			err := r.Err()
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldStartWith, "4 diagnostic(s):")
			So(err.Error(), ShouldContainSubstring, "bad score")
			So(errors.Is(err, diagnostics.ErrUnknownBenchmark), ShouldBeTrue)
			So(errors.Is(err, diagnostics.ErrEmptyBenchmark), ShouldBeTrue)
		})

		Convey("Then Items returns a copy", func() {
			items := r.Items()
			items[0].Message = "changed"
			So(r.Items()[0].Message, ShouldEqual, "bad date")
		})
	})
}
