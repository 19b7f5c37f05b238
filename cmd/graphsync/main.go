package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/golang/glog"
	"github.com/spf13/cobra"

	"graphsync/internal/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		glog.Flush()
		os.Exit(1)
	}
	glog.Flush()
}

// options shared by every subcommand
type options struct {
	configPath string
	verbose    int
}

// load reads the config named by --config, or searches the usual places
func (o *options) load() (*config.Config, string, error) {
	if o.configPath != "" {
		return config.LoadFromPath(o.configPath)
	}
	return config.Load()
}

// setVerbosity raises glog's -v level. Poking at the flag by name is how
// glog is configured at runtime.
func setVerbosity(level int) {
	if level <= 0 {
		return
	}
	if f := flag.Lookup("v"); f != nil {
		_ = f.Value.Set(strconv.Itoa(level))
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:           "graphsync",
		Short:         "Mirror live attributed graphs across goroutines",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if f := flag.Lookup("logtostderr"); f != nil && !cmd.Flags().Changed("log_dir") {
				_ = f.Value.Set("true")
			}
			setVerbosity(opts.verbose)
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "",
		"Config file (default: $"+config.EnvConfigPath+", ./"+config.ConfigFileName+", XDG paths)")
	cmd.PersistentFlags().IntVar(&opts.verbose, "verbose", 0,
		"Enable verbose logging (e.g., 3 traces every pipe record); overrides logging.verbosity")
	cmd.PersistentFlags().AddGoFlagSet(flag.CommandLine)

	cmd.AddCommand(newMirrorCmd(opts))
	cmd.AddCommand(newConfigCmd(opts))

	return cmd
}
