package cli

import (
	"strconv"

	"github.com/spf13/cobra"
)

func newBookmarkCommand(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "bookmark",
		Aliases: []string{"bm"},
		Short:   "Manage saved articles",
	}

	cmd.AddCommand(
		newBookmarkAddCommand(rt),
		newBookmarkToggleCommand(rt),
		newBookmarkRemoveCommand(rt),
		newBookmarkListCommand(rt),
		newBookmarkWatchCommand(rt),
	)
	return cmd
}

func newBookmarkAddCommand(rt *runtime) *cobra.Command {
	var flags listFlags
	var summary string

	cmd := &cobra.Command{
		Use:   "add <index|url>",
		Short: "Bookmark an article from the current list",
		Long: `Bookmark an article from the current list.

The article is picked by its index or URL in the list selected by --category
or --query (default: saved category). Saving an article again replaces the
stored copy.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if _, err := flags.load(ctx, rt.app); err != nil {
				return err
			}
			article, err := resolveArticle(rt.app, args[0])
			if err != nil {
				return err
			}

			exists, err := rt.app.Bookmarks.IsBookmarked(ctx, article.URL)
			if err != nil {
				return err
			}
			if exists {
				rt.printer.Info("replacing the saved copy of %s", article.URL)
			}

			bookmark, err := rt.app.Bookmarks.Bookmark(ctx, article, summary)
			if err != nil {
				return err
			}
			rt.printer.Success("bookmarked %s", bookmark.Title)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&summary, "summary", "", "summary to store instead of generating one")
	return cmd
}

func newBookmarkToggleCommand(rt *runtime) *cobra.Command {
	var flags listFlags

	cmd := &cobra.Command{
		Use:   "toggle <index|url>",
		Short: "Bookmark an article, or remove it if it is already saved",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if _, err := flags.load(ctx, rt.app); err != nil {
				return err
			}
			article, err := resolveArticle(rt.app, args[0])
			if err != nil {
				return err
			}

			bookmarked, err := rt.app.Bookmarks.Toggle(ctx, article)
			if err != nil {
				return err
			}
			if bookmarked {
				rt.printer.Success("bookmarked %s", article.Title)
			} else {
				rt.printer.Success("removed %s", article.URL)
			}
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

func newBookmarkRemoveCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <url>",
		Aliases: []string{"remove"},
		Short:   "Remove a bookmark",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := rt.app.Bookmarks.Remove(cmd.Context(), args[0]); err != nil {
				return err
			}
			rt.printer.Success("removed %s", args[0])
			return nil
		},
	}
}

func newBookmarkListCommand(rt *runtime) *cobra.Command {
	var showSummary bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List bookmarks",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			bookmarks, err := rt.app.Bookmarks.List(cmd.Context())
			if err != nil {
				return err
			}
			if err := rt.printer.Bookmarks(bookmarks); err != nil {
				return err
			}
			if showSummary {
				for _, b := range bookmarks {
					rt.printer.Header(b.Title)
					rt.printer.Print("%s", b.Summary)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showSummary, "summaries", false, "print the stored summary of each bookmark")
	return cmd
}

// newBookmarkWatchCommand は別のシェルから行われた追加・削除も含め、変更のたびに一覧を表示します
func newBookmarkWatchCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Print the bookmark list every time it changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			updates, err := rt.app.Bookmarks.Observe(cmd.Context())
			if err != nil {
				return err
			}
			rt.printer.Info("watching bookmarks, press Ctrl+C to stop")
			for bookmarks := range updates {
				rt.printer.Header("Bookmarks (" + strconv.Itoa(len(bookmarks)) + ")")
				if err := rt.printer.Bookmarks(bookmarks); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
