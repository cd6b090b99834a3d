package config_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/okian/medbench/internal/config"
	"github.com/okian/medbench/internal/domain/benchmark"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New(context.Background())

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.LogFormat, convey.ShouldEqual, "text")
			convey.So(cfg.MASTMetricsURL, convey.ShouldEqual, config.DefaultMASTMetricsURL)
			convey.So(config.DefaultMASTMetricsURL, convey.ShouldEqual,
				"https://raw.githubusercontent.com/HealthRex/mast/main/leaderboards/harmdash/data/metrics.csv")
			convey.So(cfg.FetchMaxBytes, convey.ShouldEqual, int64(16<<20))
			convey.So(cfg.MASTTeam, convey.ShouldEqual, "Solo Models")
			convey.So(cfg.MASTCondition, convey.ShouldEqual, "Advisor")
			convey.So(cfg.MASTMetric, convey.ShouldEqual, "OverallScore")
			convey.So(cfg.PNGWidth, convey.ShouldEqual, 1200)
			convey.So(cfg.PNGHeight, convey.ShouldEqual, 700)
			convey.So(cfg.Themes, convey.ShouldResemble, []string{"white", "dark"})
			convey.So(cfg.FetchTimeout(), convey.ShouldEqual, 30*time.Second)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})

		convey.Convey("Then relative paths resolve against the data directory", func() {
			convey.So(cfg.Path("metrics.csv"), convey.ShouldEqual, filepath.Join("data", "metrics.csv"))
			convey.So(cfg.Path("/tmp/metrics.csv"), convey.ShouldEqual, "/tmp/metrics.csv")
			convey.So(cfg.Path(""), convey.ShouldEqual, "")
		})

		convey.Convey("Then the table carries color overrides", func() {
			cfg.Colors = map[string]string{"medqa": "#000000"}
			table, err := cfg.Table()
			convey.So(err, convey.ShouldBeNil)
			def, _ := table.Get(benchmark.MedQA)
			convey.So(def.Color, convey.ShouldEqual, "#000000")
		})

		convey.Convey("Then the table carries scale overrides", func() {
			cfg.Scales = map[string]string{"MedQA": "percent"}
			table, err := cfg.Table()
			convey.So(err, convey.ShouldBeNil)
			def, _ := table.Get(benchmark.MedQA)
			convey.So(def.Scale, convey.ShouldEqual, benchmark.ScalePercent)
		})
	})
}
