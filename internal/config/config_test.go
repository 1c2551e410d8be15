package config_test

import (
	"context"
	"errors"
	"runtime"
	"testing"
	"time"

	"github.com/Waldoz-X/PrjEvaluacion360/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New(context.Background())

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.Provider, convey.ShouldEqual, config.ProviderCSV)
			convey.So(cfg.TabMode, convey.ShouldEqual, config.TabModeUnion)
			convey.So(cfg.WeightSelf, convey.ShouldEqual, 5)
			convey.So(cfg.WeightManager, convey.ShouldEqual, 18)
			convey.So(cfg.WeightPeers, convey.ShouldEqual, 30)
			convey.So(cfg.WeightSubordinates, convey.ShouldEqual, 47)
			convey.So(cfg.ReportWorkers, convey.ShouldEqual, runtime.NumCPU())
			convey.So(cfg.RefreshInterval(), convey.ShouldEqual, time.Duration(0))
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given a default config", t, func() {
		cfg := config.New(context.Background())

		convey.Convey("When every default weight is zero", func() {
			cfg.WeightSelf, cfg.WeightManager, cfg.WeightPeers, cfg.WeightSubordinates = 0, 0, 0, 0

			convey.Convey("Then validation fails", func() {
				err := cfg.Validate()
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "all be zero")
			})
		})

		convey.Convey("When a weight is negative", func() {
			cfg.WeightPeers = -1
			convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
		})

		convey.Convey("When the provider is unknown", func() {
			cfg.Provider = "excel"
			convey.So(cfg.Validate(), convey.ShouldNotBeNil)
		})

		convey.Convey("When the sheets provider has no sheet id", func() {
			cfg.Provider = config.ProviderSheets
			convey.So(cfg.Validate(), convey.ShouldNotBeNil)
		})

		convey.Convey("When the postgres provider has no database url", func() {
			cfg.Provider = config.ProviderPostgres
			convey.So(cfg.Validate(), convey.ShouldNotBeNil)
		})

		convey.Convey("When the s3 sink has no bucket", func() {
			cfg.ReportSink = config.SinkS3
			convey.So(cfg.Validate(), convey.ShouldNotBeNil)

			cfg.S3Bucket = "reports"
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})

		convey.Convey("When the tab mode is unknown", func() {
			cfg.TabMode = "merge"
			convey.So(cfg.Validate(), convey.ShouldNotBeNil)
		})

		convey.Convey("When a refresh interval is set", func() {
			cfg.RefreshIntervalS = 30
			convey.So(cfg.RefreshInterval(), convey.ShouldEqual, 30*time.Second)
		})
	})
}
