package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kiwari-pos/pricebook/internal/theme"
)

func newThemeCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "theme [name]",
		Short: "Show or set the browser theme",
		Long: `Without a name, theme lists the available themes and marks the current
one. With a name it saves that theme; unknown names select the default.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			configs, closeStore, err := openConfigs(cmd.Context(), v)
			if err != nil {
				return err
			}
			defer closeStore()

			out := cmd.OutOrStdout()
			if len(args) == 0 {
				current := configs.Theme(cmd.Context())
				for _, name := range theme.Names() {
					marker := " "
					if name == current {
						marker = "*"
					}
					fmt.Fprintf(out, "%s %s\n", marker, name)
				}
				return nil
			}

			applied, err := configs.SaveTheme(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if applied != args[0] {
				fmt.Fprintf(out, "Unknown theme %q, using %s\n", args[0], applied)
				return nil
			}
			fmt.Fprintf(out, "Theme set to %s\n", applied)
			return nil
		},
	}
}
