package main

import (
	"errors"
	"io"
	"os"

	meshpipe "github.com/flywave/go-meshpipe"
	"github.com/flywave/go-meshpipe/config"
	"github.com/flywave/go-meshpipe/internal/logger"
	"github.com/flywave/go-meshpipe/pipeerr"
	"github.com/flywave/go-meshpipe/report"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	flagCfg    = config.Default()
	configPath string
)

func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "YAML configuration file")
	bindFlags(rootCmd.Flags(), flagCfg)
}

// resolveConfig layers defaults, the optional YAML file and the flags that
// were set explicitly, in that order.
func resolveConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := flagCfg
	if configPath != "" {
		fileCfg, err := config.LoadFile(configPath)
		if err != nil {
			return nil, pipeerr.Wrap(pipeerr.KindConfig, err, "invalid configuration")
		}
		replay := pflag.NewFlagSet("replay", pflag.ContinueOnError)
		bindFlags(replay, fileCfg)
		var serr error
		cmd.Flags().Visit(func(f *pflag.Flag) {
			if replay.Lookup(f.Name) == nil || serr != nil {
				return
			}
			serr = replay.Set(f.Name, f.Value.String())
		})
		if serr != nil {
			return nil, pipeerr.Wrap(pipeerr.KindConfig, serr, "invalid configuration")
		}
		cfg = fileCfg
	}
	if len(args) > 0 {
		cfg.Input = args[0]
	}
	return cfg, nil
}

func initLogger(cfg *config.Config) error {
	level := cfg.Logging.Level
	if cfg.Verbose && level != "debug" {
		level = "debug"
	}
	return logger.Init(level, cfg.Logging.File)
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return printStatus(os.Stdout, report.Status(err))
	}
	if err := initLogger(cfg); err != nil {
		return printStatus(os.Stdout, report.Status(pipeerr.Wrap(pipeerr.KindConfig, err, "invalid logging configuration")))
	}
	defer logger.Sync()

	return printStatus(os.Stdout, meshpipe.Run(cfg, os.Stdout))
}

// errRunFailed marks a run whose error is already in the status document.
var errRunFailed = errors.New("run failed")

// printStatus writes the status document and turns an error status into
// errRunFailed, so main exits non-zero after deferred cleanup ran.
func printStatus(w io.Writer, st report.StatusDoc) error {
	if err := report.Write(w, st); err != nil {
		return err
	}
	if st.Status != "ok" {
		return errRunFailed
	}
	return nil
}
