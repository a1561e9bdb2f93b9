package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	variation "github.com/goliatone/go-variation"
)

func newVariantCmd(root *rootOptions) *cobra.Command {
	var explain bool
	var fallback string
	cmd := &cobra.Command{
		Use:   "variant <seed> <key> [candidate...]",
		Short: "Resolve the variant of a key for a seed",
		Long: "Resolve the variant of a key for a seed. Candidates given on the command line\n" +
			"act as the local dictionary; otherwise the configured dictionaries are used.",
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := root.engine(cmd)
			if err != nil {
				return err
			}
			seed, err := parseSeedArg(args[0])
			if err != nil {
				return fmt.Errorf("invalid seed %q: %w", args[0], err)
			}
			key := args[1]
			var local variation.Dictionary
			if len(args) > 2 {
				local = variation.Dictionary{key: args[2:]}
			}
			var fallbacks []string
			if fallback != "" {
				fallbacks = append(fallbacks, fallback)
			}
			res := engine.Catalog().Resolve(seed, key, local, fallbacks...)
			if !explain {
				fmt.Fprintln(cmd.OutOrStdout(), res.Value)
				return nil
			}
			payload, err := res.ToJSON()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(payload))
			return nil
		},
	}
	cmd.Flags().BoolVar(&explain, "explain", false, "print the resolution as JSON")
	cmd.Flags().StringVar(&fallback, "fallback", "", "value used when no dictionary has the key")
	return cmd
}

func newOrderCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "order <seed> <key> <count|item,item,...>",
		Short: "Print the permutation applied to an ordered list",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := root.engine(cmd)
			if err != nil {
				return err
			}
			seed, err := parseSeedArg(args[0])
			if err != nil {
				return fmt.Errorf("invalid seed %q: %w", args[0], err)
			}
			if count, err := strconv.Atoi(args[2]); err == nil {
				fmt.Fprintln(cmd.OutOrStdout(), joinInts(engine.Order(seed, args[1], count)))
				return nil
			}
			items := strings.Split(args[2], ",")
			perm := engine.Order(seed, args[1], len(items))
			fmt.Fprintln(cmd.OutOrStdout(), strings.Join(variation.Reorder(items, perm), ","))
			return nil
		},
	}
}

func newLayoutCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "layout <seed>",
		Short: "Print the layout variant selected for a seed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := root.engine(cmd)
			if err != nil {
				return err
			}
			layout, match := engine.Layouts().ResolveWithMatch(variation.ParseSeed(args[0], engine.Policy().MaxSeed))
			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			return encoder.Encode(struct {
				Match  variation.LayoutMatch   `json:"match"`
				Layout variation.LayoutVariant `json:"layout"`
			}{match, layout})
		},
	}
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, value := range values {
		parts[i] = strconv.Itoa(value)
	}
	return strings.Join(parts, ",")
}
