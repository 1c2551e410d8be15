package config_test

import (
	"context"
	"os"
	"testing"

	"github.com/Waldoz-X/PrjEvaluacion360/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.TextTab, convey.ShouldEqual, "Respuestas de formulario 1")
				convey.So(cfg.NumericTab, convey.ShouldEqual, "Base de Datos Limpia")
				convey.So(cfg.WeightSubordinates, convey.ShouldEqual, 47)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("EVAL360_ADDR", ":8080")
			_ = os.Setenv("EVAL360_REPORT_WORKERS", "3")
			_ = os.Setenv("EVAL360_WEIGHT_MANAGER", "50")
			_ = os.Setenv("EVAL360_TAB_MODE", "prefer")
			_ = os.Setenv("EVAL360_DEDUPE_RESPONSES", "true")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.ReportWorkers, convey.ShouldEqual, 3)
				convey.So(cfg.WeightManager, convey.ShouldEqual, 50)
				convey.So(cfg.TabMode, convey.ShouldEqual, config.TabModePrefer)
				convey.So(cfg.DedupeResponses, convey.ShouldBeTrue)
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			yamlContent := `
# survey source
addr: ":9090"
provider: sheets
sheet_id: "1AbC"
report_queue_size: 32
exclude_columns:
  - "*comentario*"
  - "correo*"
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("EVAL360_CONFIG", tmpFile)
			_ = os.Setenv("EVAL360_ADDR", ":8081")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8081")
				convey.So(cfg.Provider, convey.ShouldEqual, config.ProviderSheets)
				convey.So(cfg.SheetID, convey.ShouldEqual, "1AbC")
				convey.So(cfg.ReportQueueSize, convey.ShouldEqual, 32)
				convey.So(cfg.ExcludeColumns, convey.ShouldResemble, []string{"*comentario*", "correo*"})
				convey.So(cfg.WeightPeers, convey.ShouldEqual, 30)
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(`invalid: yaml: content: [`)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("EVAL360_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("EVAL360_CONFIG", "/non/existent/eval360.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with empty addr", func() {
			_ = os.Setenv("EVAL360_ADDR", "")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("EVAL360_REPORT_WORKERS", "many")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When every weight is zeroed through the environment", func() {
			_ = os.Setenv("EVAL360_WEIGHT_SELF", "0")
			_ = os.Setenv("EVAL360_WEIGHT_MANAGER", "0")
			_ = os.Setenv("EVAL360_WEIGHT_PEERS", "0")
			_ = os.Setenv("EVAL360_WEIGHT_SUBORDINATES", "0")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then validation rejects it", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"EVAL360_CONFIG",
		"EVAL360_ADDR",
		"EVAL360_REPORT_WORKERS",
		"EVAL360_WEIGHT_SELF",
		"EVAL360_WEIGHT_MANAGER",
		"EVAL360_WEIGHT_PEERS",
		"EVAL360_WEIGHT_SUBORDINATES",
		"EVAL360_TAB_MODE",
		"EVAL360_DEDUPE_RESPONSES",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "eval360-config-*.yaml")
	if err != nil {
		panic(err)
	}

	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}

	if err := tmpFile.Close(); err != nil {
		panic(err)
	}

	return tmpFile.Name()
}
