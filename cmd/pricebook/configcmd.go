package main

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kiwari-pos/pricebook/internal/pricing"
)

func newConfigCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and edit the saved pricing configuration",
	}
	cmd.AddCommand(
		newConfigShowCmd(v),
		newConfigExportCmd(v),
		newConfigImportCmd(v),
		newConfigResetCmd(v),
		newConfigSetRuleCmd(v),
		newConfigSetBucketCmd(v),
	)
	return cmd
}

func newConfigShowCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print buckets and discount rules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			configs, closeStore, err := openConfigs(cmd.Context(), v)
			if err != nil {
				return err
			}
			defer closeStore()

			cfg := configs.Load(cmd.Context())
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Theme: %s\n\n", configs.Theme(cmd.Context()))

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "BUCKET\tLOW\tHIGH\tPCT\tFLAT")
			for _, b := range cfg.Buckets {
				high := "∞"
				if !b.Unbounded {
					high = b.High.String()
				}
				rule := cfg.Defaults[b.Label]
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", b.Label, b.Low.String(), high, showValue(rule.Pct), showValue(rule.Flat))
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			names := make([]string, 0, len(cfg.PerSheet))
			for name := range cfg.PerSheet {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				fmt.Fprintf(out, "\n%s\n", name)
				tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "BUCKET\tPCT\tFLAT")
				for _, label := range cfg.Labels() {
					rule, ok := cfg.PerSheet[name][label]
					if !ok {
						continue
					}
					fmt.Fprintf(tw, "%s\t%s\t%s\n", label, showValue(rule.Pct), showValue(rule.Flat))
				}
				if err := tw.Flush(); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func newConfigExportCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "export [file]",
		Short: "Write the configuration document (stdout when no file is given)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			configs, closeStore, err := openConfigs(cmd.Context(), v)
			if err != nil {
				return err
			}
			defer closeStore()

			doc, err := configs.Document(cmd.Context())
			if err != nil {
				return err
			}
			if len(args) == 0 {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), string(doc))
				return err
			}
			if err := os.WriteFile(args[0], append(doc, '\n'), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Configuration written to %s\n", args[0])
			return nil
		},
	}
}

func newConfigImportCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Merge a configuration document into the saved configuration",
		Long: `Import reads a configuration document and saves it over the current
configuration. Fields missing from the document, or malformed in it, keep
their saved values. A uiTheme field also sets the theme.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}
			patch, err := pricing.DecodePatch(data)
			if err != nil {
				return err
			}

			configs, closeStore, err := openConfigs(cmd.Context(), v)
			if err != nil {
				return err
			}
			defer closeStore()

			ctx := cmd.Context()
			if err := configs.Save(ctx, patch.Apply(configs.Load(ctx))); err != nil {
				return err
			}
			if patch.Theme != "" {
				if _, err := configs.SaveTheme(ctx, patch.Theme); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %s\n", args[0])
			return nil
		},
	}
}

func newConfigResetCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Discard the saved configuration and use the built-in defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			configs, closeStore, err := openConfigs(cmd.Context(), v)
			if err != nil {
				return err
			}
			defer closeStore()

			if _, err := configs.Reset(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Configuration reset to defaults")
			return nil
		},
	}
}

func newConfigSetRuleCmd(v *viper.Viper) *cobra.Command {
	var collection, pct, flat string

	cmd := &cobra.Command{
		Use:   "set-rule <bucket>",
		Short: "Set the discount rule for a bucket label",
		Long: `Set-rule stores a percent and/or flat discount for a bucket label, either
as the default or, with --collection, for one collection only. A value left
empty is unset; a rule with both values unset falls back to the defaults.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rule := pricing.Rule{}
			var err error
			if rule.Pct, err = parseRuleValue("pct", pct); err != nil {
				return err
			}
			if rule.Flat, err = parseRuleValue("flat", flat); err != nil {
				return err
			}

			configs, closeStore, err := openConfigs(cmd.Context(), v)
			if err != nil {
				return err
			}
			defer closeStore()

			ctx := cmd.Context()
			cfg := configs.Load(ctx).WithRule(collection, args[0], rule)
			if err := configs.Save(ctx, cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Rule for %s saved\n", args[0])
			return nil
		},
	}

	cmd.Flags().StringVarP(&collection, "collection", "c", "", "apply to this collection only")
	cmd.Flags().StringVar(&pct, "pct", "", "percent off, e.g. 12.5")
	cmd.Flags().StringVar(&flat, "flat", "", "amount off, e.g. 25")
	return cmd
}

func newConfigSetBucketCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "set-bucket <label> <low> [high]",
		Short: "Add or replace a price bucket",
		Long: `Set-bucket replaces the bucket with the given label, or appends a new one.
Without a high bound the bucket is open-ended. Buckets are checked in listed
order and the first that contains a price wins.`,
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			bucket, err := parseBucketArgs(args)
			if err != nil {
				return err
			}

			configs, closeStore, err := openConfigs(cmd.Context(), v)
			if err != nil {
				return err
			}
			defer closeStore()

			ctx := cmd.Context()
			cfg := configs.Load(ctx)
			cfg.Buckets = upsertBucket(cfg.Buckets, bucket)
			if err := configs.Save(ctx, cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Bucket %s saved\n", bucket.Label)
			return nil
		},
	}
}

// --- Helpers ---

func showValue(v decimal.NullDecimal) string {
	if !v.Valid {
		return "-"
	}
	return v.Decimal.String()
}

func parseRuleValue(name, s string) (decimal.NullDecimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}, fmt.Errorf("invalid %s %q", name, s)
	}
	return decimal.NewNullDecimal(d), nil
}

func parseBucketArgs(args []string) (pricing.Bucket, error) {
	if strings.TrimSpace(args[0]) == "" {
		return pricing.Bucket{}, fmt.Errorf("bucket label is required")
	}
	raw := []any{args[0]}
	for _, bound := range args[1:] {
		if _, err := decimal.NewFromString(bound); err != nil && !isInfinity(bound) {
			return pricing.Bucket{}, fmt.Errorf("invalid bound %q", bound)
		}
		raw = append(raw, bound)
	}
	b, _ := pricing.ParseBucket(raw)
	if !b.Unbounded && b.High.LessThan(b.Low) {
		return pricing.Bucket{}, fmt.Errorf("high bound %s is below low bound %s", b.High, b.Low)
	}
	return b, nil
}

func isInfinity(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "inf", "infinity", "+infinity":
		return true
	}
	return false
}

func upsertBucket(buckets []pricing.Bucket, b pricing.Bucket) []pricing.Bucket {
	out := append([]pricing.Bucket(nil), buckets...)
	for i := range out {
		if out[i].Label == b.Label {
			out[i] = b
			return out
		}
	}
	return append(out, b)
}
