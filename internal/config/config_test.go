package config_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kubev2v/async-worker/internal/config"
	"github.com/kubev2v/async-worker/pkg/asyncworker"
	srvErrors "github.com/kubev2v/async-worker/pkg/errors"
)

var _ = Describe("Configuration", func() {
	It("should apply the defaults", func() {
		cfg := config.NewConfigurationWithOptionsAndDefaults()

		Expect(cfg.Server.ServerMode).To(Equal("dev"))
		Expect(cfg.Server.HTTPPort).To(Equal(8000))
		Expect(cfg.Engine.JobCount).To(Equal(4))
		Expect(cfg.Engine.WaitingListSize).To(Equal(16))
		Expect(cfg.Engine.RetryMaxElapsed).To(Equal(30 * time.Second))
		Expect(cfg.Journal.Retention).To(Equal(168 * time.Hour))
		Expect(cfg.LogFormat).To(Equal("console"))
		Expect(cfg.Validate()).To(Succeed())
	})

	It("should derive the engine configs", func() {
		cfg := config.NewConfigurationWithOptionsAndDefaults(
			config.WithEngine(*config.NewEngineWithOptionsAndDefaults(config.WithJobCount(2))),
		)

		Expect(cfg.EngineConfig()).To(Equal(asyncworker.Config{JobCount: 2, WaitingListSize: 16}))
		Expect(cfg.JournalConfig()).To(Equal(asyncworker.Config{JobCount: 64}))
	})

	DescribeTable("should reject invalid settings",
		func(field string, opt config.ConfigurationOption) {
			cfg := config.NewConfigurationWithOptionsAndDefaults(opt)

			err := cfg.Validate()
			Expect(srvErrors.IsInvalidConfigurationError(err)).To(BeTrue())
			Expect(err.Error()).To(ContainSubstring(field))
		},
		Entry("no job", "Engine.JobCount", config.ConfigurationOption(func(c *config.Configuration) { c.Engine.JobCount = 0 })),
		Entry("negative waiting list", "Engine.WaitingListSize", config.ConfigurationOption(func(c *config.Configuration) { c.Engine.WaitingListSize = -1 })),
		Entry("server mode", "Server.ServerMode", config.ConfigurationOption(func(c *config.Configuration) { c.Server.ServerMode = "staging" })),
		Entry("port", "Server.HTTPPort", config.ConfigurationOption(func(c *config.Configuration) { c.Server.HTTPPort = 70000 })),
		Entry("half tls", "Server.TLSCertFile", config.ConfigurationOption(func(c *config.Configuration) { c.Server.TLSCertFile = "/tmp/cert.pem" })),
		Entry("auth without secret", "Authentication.SecretFilePath", config.ConfigurationOption(func(c *config.Configuration) { c.Authentication.Enabled = true })),
		Entry("log format", "LogFormat", config.ConfigurationOption(func(c *config.Configuration) { c.LogFormat = "xml" })),
	)

	It("should expose a debug map", func() {
		cfg := config.NewConfigurationWithOptionsAndDefaults(config.WithLogLevel("info"))

		m := cfg.DebugMap()
		Expect(m).To(HaveKey("Server"))
		Expect(m).To(HaveKey("Engine"))
		Expect(m).To(HaveKey("LogLevel"))
		Expect(cfg.LogLevel).To(Equal("info"))
	})
})
