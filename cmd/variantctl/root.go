package main

import (
	"io"
	"log/slog"
	"strconv"

	"github.com/spf13/cobra"

	variation "github.com/goliatone/go-variation"
)

type rootOptions struct {
	envFiles []string
	verbose  bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "variantctl",
		Short:         "Inspect and serve seeded UI variation",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringSliceVar(&opts.envFiles, "env-file", nil, "dotenv files to read before the environment")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log debug events to stderr")

	cmd.AddCommand(
		newVariantCmd(opts),
		newOrderCmd(opts),
		newLayoutCmd(opts),
		newStatsCmd(opts),
		newServeCmd(opts),
	)
	return cmd
}

func (o *rootOptions) logger(w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if o.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func (o *rootOptions) engine(cmd *cobra.Command) (*variation.Engine, error) {
	cfg, err := variation.LoadConfig(o.envFiles...)
	if err != nil {
		return nil, err
	}
	return variation.New(
		variation.WithConfig(cfg),
		variation.WithLogger(variation.NewSlogLogger(o.logger(cmd.ErrOrStderr()))),
	)
}

func parseSeedArg(raw string) (int, error) {
	seed, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	return seed, nil
}
