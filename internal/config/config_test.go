package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/merlinhq/merlin/internal/config"
	. "github.com/smartystreets/goconvey/convey"
)

func TestDefaults(t *testing.T) {
	Convey("Given the default configuration", t, func() {
		cfg := config.New(context.Background())

		Convey("Then sensible values are set", func() {
			So(cfg.LogLevel, ShouldEqual, "info")
			So(cfg.GeneratorBaseURL, ShouldEqual, "http://localhost:11434")
			So(cfg.GeneratorModel, ShouldEqual, "llama3.1")
			So(cfg.MaxConcurrentDays, ShouldEqual, 7)
			So(cfg.DayTimeoutSeconds, ShouldEqual, 45)
			So(cfg.MetricsAddr, ShouldBeEmpty)
		})
	})
}

func TestLoad(t *testing.T) {
	ctx := context.Background()

	Convey("Given no file and no env overrides", t, func() {
		t.Setenv("MERLIN_CONFIG", "")

		Convey("Then Load returns the defaults", func() {
			cfg, err := config.Load(ctx)
			So(err, ShouldBeNil)
			So(cfg.MaxConcurrentDays, ShouldEqual, 7)
		})
	})

	Convey("Given env overrides", t, func() {
		t.Setenv("MERLIN_CONFIG", "")
		t.Setenv("MERLIN_GENERATOR_MODEL", "llama3.2")
		t.Setenv("MERLIN_MAX_CONCURRENT_DAYS", "3")
		t.Setenv("MERLIN_LOG_LEVEL", "debug")

		Convey("Then env values win over defaults", func() {
			cfg, err := config.Load(ctx)
			So(err, ShouldBeNil)
			So(cfg.GeneratorModel, ShouldEqual, "llama3.2")
			So(cfg.MaxConcurrentDays, ShouldEqual, 3)
			So(cfg.LogLevel, ShouldEqual, "debug")
			// Untouched keys keep their defaults.
			So(cfg.DayTimeoutSeconds, ShouldEqual, 45)
		})
	})

	Convey("Given a YAML file plus an env override", t, func() {
		dir := t.TempDir()
		path := filepath.Join(dir, "merlin.yaml")
		yaml := "generator_base_url: http://gpu-box:11434\nday_timeout_seconds: 90\n"
		So(os.WriteFile(path, []byte(yaml), 0o600), ShouldBeNil)

		t.Setenv("MERLIN_CONFIG", path)
		t.Setenv("MERLIN_DAY_TIMEOUT_SECONDS", "120")

		Convey("Then env beats file beats defaults", func() {
			cfg, err := config.Load(ctx)
			So(err, ShouldBeNil)
			So(cfg.GeneratorBaseURL, ShouldEqual, "http://gpu-box:11434")
			So(cfg.DayTimeoutSeconds, ShouldEqual, 120)
		})
	})

	Convey("Given a missing config file", t, func() {
		t.Setenv("MERLIN_CONFIG", filepath.Join(t.TempDir(), "absent.yaml"))

		Convey("Then Load fails with the load sentinel", func() {
			_, err := config.Load(ctx)
			So(errors.Is(err, config.ErrLoadConfig), ShouldBeTrue)
		})
	})

	Convey("Given invalid values", t, func() {
		t.Setenv("MERLIN_CONFIG", "")
		t.Setenv("MERLIN_MAX_CONCURRENT_DAYS", "0")

		Convey("Then validation rejects them", func() {
			_, err := config.Load(ctx)
			So(errors.Is(err, config.ErrInvalidConfig), ShouldBeTrue)
		})
	})
}
