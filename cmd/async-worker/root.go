package main

import (
	"fmt"

	"github.com/jzelinskie/cobrautil/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "ASYNC_WORKER"

func newRootCommand() *cobra.Command {
	var configFile string

	root := &cobra.Command{
		Use:   "async-worker",
		Short: "Offload blocking filesystem operations to a bounded job worker",
		Long: `async-worker serves a filesystem through a single worker goroutine fed by a
fixed pool of jobs. Callers that find the pool exhausted wait in a bounded
FIFO list and are resumed when a job is freed.

Every flag can also be set with an ASYNC_WORKER_ prefixed environment
variable (e.g. ASYNC_WORKER_HTTP_PORT) or in a configuration file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: cobrautil.CommandStack(
			cobrautil.SyncViperPreRunE(envPrefix),
			func(cmd *cobra.Command, _ []string) error {
				return loadConfigFile(cmd.Flags(), configFile)
			},
		),
	}
	root.PersistentFlags().StringVar(&configFile, "config", "", "configuration file (yaml, json or toml)")

	root.AddCommand(newRunCommand())
	root.AddCommand(newFsCommand())
	return root
}

// loadConfigFile sets every flag not given on the command line or in the
// environment from the configuration file.
func loadConfigFile(flags *pflag.FlagSet, path string) error {
	if path == "" {
		return nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read configuration file: %w", err)
	}

	var err error
	flags.VisitAll(func(f *pflag.Flag) {
		if err != nil || f.Changed || !v.IsSet(f.Name) {
			return
		}
		if serr := flags.Set(f.Name, v.GetString(f.Name)); serr != nil {
			err = fmt.Errorf("invalid value for %s in %s: %w", f.Name, path, serr)
		}
	})
	return err
}
