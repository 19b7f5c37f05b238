package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"graphsync/internal/config"
)

func newConfigCmd(opts *options) *cobra.Command {
	var (
		write string
		raw   bool
		paths bool
	)

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Long: "Config loads the configuration file the way mirror does, applies defaults,\n" +
			"validates it and prints a summary, or the full document with --yaml.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if paths {
				printCandidates(cmd.OutOrStdout())
				return nil
			}

			cfg, path, err := opts.load()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if path == "" {
				fmt.Fprintln(out, "# no config file found, using defaults")
			} else {
				fmt.Fprintf(out, "# loaded from %s\n", path)
			}

			if write != "" {
				if err := cfg.Save(write); err != nil {
					return err
				}
				fmt.Fprintf(out, "# written to %s\n", write)
			}

			if raw {
				return printYAML(out, cfg)
			}
			fmt.Fprintln(out, cfg.Summary())
			return nil
		},
	}

	cmd.Flags().BoolVar(&raw, "yaml", false, "Print the full document instead of a summary")
	cmd.Flags().BoolVar(&paths, "paths", false, "List the searched config locations instead")
	cmd.Flags().StringVar(&write, "write", "", "Also save the effective config to this file")

	return cmd
}

// printCandidates lists the searched locations, marking the one in use
func printCandidates(out io.Writer) {
	used := config.FindConfigPath()
	for _, c := range config.Candidates() {
		state := "missing"
		switch {
		case c.Path == used:
			state = "in use"
		case c.Exists():
			state = "shadowed"
		}
		fmt.Fprintf(out, "%-6s %-8s %s\n", c.Origin, state, c.Path)
	}
}

func printYAML(out io.Writer, v any) error {
	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
