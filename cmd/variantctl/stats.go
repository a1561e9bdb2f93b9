package main

import (
	"fmt"
	"io"
	"sort"

	"github.com/montanaflynn/stats"
	"github.com/spf13/cobra"

	variation "github.com/goliatone/go-variation"
)

type statsOptions struct {
	key     string
	count   int
	from    int
	to      int
	layouts bool
}

func newStatsCmd(root *rootOptions) *cobra.Command {
	opts := &statsOptions{}
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarise how choices spread across a seed range",
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := root.engine(cmd)
			if err != nil {
				return err
			}
			histogram, err := opts.histogram(engine)
			if err != nil {
				return err
			}
			return writeHistogram(cmd.OutOrStdout(), histogram)
		},
	}
	cmd.Flags().StringVar(&opts.key, "key", "cta", "component key to sample")
	cmd.Flags().IntVar(&opts.count, "count", 3, "number of variants for the key")
	cmd.Flags().IntVar(&opts.from, "from", 2, "first seed of the range")
	cmd.Flags().IntVar(&opts.to, "to", variation.DefaultMaxSeed, "last seed of the range")
	cmd.Flags().BoolVar(&opts.layouts, "layouts", false, "sample layout IDs instead of variant indexes")
	return cmd
}

func (o *statsOptions) histogram(engine *variation.Engine) (map[int]int, error) {
	if o.from > o.to {
		return nil, fmt.Errorf("invalid range %d..%d", o.from, o.to)
	}
	if !o.layouts && o.count < 1 {
		return nil, fmt.Errorf("count must be positive, got %d", o.count)
	}
	histogram := map[int]int{}
	for seed := o.from; seed <= o.to; seed++ {
		if o.layouts {
			histogram[engine.Layout(seed).ID]++
			continue
		}
		histogram[engine.VariantIndex(seed, o.key, o.count)]++
	}
	if !o.layouts {
		for i := 0; i < o.count; i++ {
			histogram[i] += 0
		}
	}
	return histogram, nil
}

type summary struct {
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
	Median float64
}

func summarize(histogram map[int]int) (summary, error) {
	data := make(stats.Float64Data, 0, len(histogram))
	for _, n := range histogram {
		data = append(data, float64(n))
	}
	var out summary
	var err error
	if out.Mean, err = stats.Mean(data); err != nil {
		return out, err
	}
	if out.StdDev, err = stats.StandardDeviation(data); err != nil {
		return out, err
	}
	if out.Min, err = stats.Min(data); err != nil {
		return out, err
	}
	if out.Max, err = stats.Max(data); err != nil {
		return out, err
	}
	if out.Median, err = stats.Median(data); err != nil {
		return out, err
	}
	return out, nil
}

func writeHistogram(w io.Writer, histogram map[int]int) error {
	keys := make([]int, 0, len(histogram))
	for key := range histogram {
		keys = append(keys, key)
	}
	sort.Ints(keys)
	for _, key := range keys {
		fmt.Fprintf(w, "%4d %6d\n", key, histogram[key])
	}
	s, err := summarize(histogram)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "mean=%.2f stddev=%.2f min=%.0f max=%.0f median=%.1f\n", s.Mean, s.StdDev, s.Min, s.Max, s.Median)
	return nil
}
