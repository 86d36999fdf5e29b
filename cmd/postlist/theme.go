package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nikbrunner/postlist/internal/theme"
)

var themeCmd = &cobra.Command{
	Use:       "theme [show|toggle|light|dark]",
	Short:     "Show or change the stored color theme",
	Long:      `Without an argument, or with show, prints the theme the TUI will start with.`,
	Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"show", "toggle", "light", "dark"},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger := newLogger(cfg, cmd.ErrOrStderr())

		pref, closePref := openPreference(cfg, logger)
		defer closePref()

		action := "show"
		if len(args) == 1 {
			action = args[0]
		}

		var current theme.Theme
		switch action {
		case "show":
			current = pref.Current()
		case "toggle":
			current = pref.Toggle()
		default:
			t, _ := theme.Parse(action)
			current = pref.Set(t)
		}

		fmt.Fprintln(cmd.OutOrStdout(), current)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(themeCmd)
}
