package cli

import (
	"github.com/spf13/cobra"
)

func newPrefsCommand(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Show or change the default category",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get",
		Short: "Print the default category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			category, err := rt.app.Feed.DefaultCategory(cmd.Context())
			if err != nil {
				return err
			}
			rt.printer.Print("%s", category)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <category>",
		Short: "Save the default category and show its headlines",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := rt.app.Config.RequireNewsAPIKey(); err != nil {
				return err
			}
			if err := rt.app.Feed.SetDefaultCategory(cmd.Context(), args[0]); err != nil {
				return err
			}
			rt.printer.Success("default category set to %s", args[0])
			return showArticles(cmd.Context(), rt, args[0], rt.app.Feed.Articles(), false)
		},
	})

	return cmd
}
