package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"orangenews/internal/domain/entity"
)

// listFlags はコマンドが対象とする記事一覧(カテゴリまたは検索語)を表します
type listFlags struct {
	category string
	query    string
}

func (f *listFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.category, "category", "c", "", "headline category (default: saved preference)")
	cmd.Flags().StringVarP(&f.query, "query", "q", "", "search text instead of a category")
}

// load はフラグが示す記事一覧を取得し、表示用のラベルを返します。
// カテゴリ未指定の場合は保存済みのデフォルトカテゴリを解決してf.categoryに設定します。
func (f *listFlags) load(ctx context.Context, app *App) (string, error) {
	if err := app.Config.RequireNewsAPIKey(); err != nil {
		return "", err
	}

	switch {
	case f.query != "":
		return "Search: " + f.query, app.Feed.FetchByQuery(ctx, f.query)
	case f.category != "":
		return f.category, app.Feed.FetchByCategory(ctx, f.category)
	default:
		category, err := app.Feed.LoadDefaultCategory(ctx)
		f.category = category
		return category, err
	}
}

// reloadAsync はloadで解決済みの一覧をバックグラウンドで取得し直します
func (f *listFlags) reloadAsync(ctx context.Context, app *App) {
	if f.query != "" {
		app.Feed.FetchByQueryAsync(ctx, f.query)
		return
	}
	app.Feed.FetchByCategoryAsync(ctx, f.category)
}

// resolveArticle は一覧の番号またはURLから記事を特定します
func resolveArticle(app *App, ref string) (*entity.Article, error) {
	if index, err := strconv.Atoi(ref); err == nil {
		return app.Feed.Article(index)
	}
	article, ok := app.Feed.FindByURL(ref)
	if !ok {
		return nil, fmt.Errorf("article %s is not in the current list", ref)
	}
	return article, nil
}

type showOptions struct {
	summarize bool
	refresh   time.Duration
}

func (o *showOptions) register(cmd *cobra.Command) {
	cmd.Flags().BoolVarP(&o.summarize, "summarize", "s", false, "summarize every article")
	cmd.Flags().DurationVar(&o.refresh, "refresh", 0, "fetch the list again at this interval until interrupted (e.g. 5m)")
}

func newHeadlinesCommand(rt *runtime) *cobra.Command {
	var category string
	var opts showOptions

	cmd := &cobra.Command{
		Use:   "headlines",
		Short: "Show top headlines for a category",
		Long: fmt.Sprintf(`Show top headlines for a category.

Categories: %s
Without --category the saved default category is used.`, strings.Join(entity.Categories, ", ")),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := listFlags{category: category}
			return showList(cmd.Context(), rt, &flags, opts)
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", "", "headline category (default: saved preference)")
	opts.register(cmd)
	return cmd
}

func newSearchCommand(rt *runtime) *cobra.Command {
	var opts showOptions

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search UK news",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := listFlags{query: strings.Join(args, " ")}
			return showList(cmd.Context(), rt, &flags, opts)
		},
	}

	opts.register(cmd)
	return cmd
}

func showList(ctx context.Context, rt *runtime, flags *listFlags, opts showOptions) error {
	label, err := flags.load(ctx, rt.app)
	if err != nil {
		return err
	}
	if err := showArticles(ctx, rt, label, rt.app.Feed.Articles(), opts.summarize); err != nil {
		return err
	}
	if opts.refresh <= 0 {
		return nil
	}
	return followArticles(ctx, rt, flags, label, opts)
}

// followArticles は一定間隔で一覧を取得し直し、一覧が置き換わるたびに表示します。
// 取得に失敗した回は一覧が変わらないため何も表示しない。
func followArticles(ctx context.Context, rt *runtime, flags *listFlags, label string, opts showOptions) error {
	updates := rt.app.Feed.Subscribe(ctx)
	// 最初に届くのは表示済みの現在の一覧
	<-updates

	rt.printer.Info("refreshing every %s, press Ctrl+C to stop", opts.refresh)
	ticker := time.NewTicker(opts.refresh)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			flags.reloadAsync(ctx, rt.app)
		case articles, ok := <-updates:
			if !ok {
				return nil
			}
			if err := showArticles(ctx, rt, label, articles, opts.summarize); err != nil {
				return err
			}
		}
	}
}

func showArticles(ctx context.Context, rt *runtime, label string, articles []*entity.Article, summarize bool) error {
	var summaries map[string]string
	if summarize {
		for _, a := range articles {
			rt.app.Feed.SummarizeAsync(ctx, a)
		}
		rt.app.Summaries.Wait()
		summaries = rt.app.Summaries.Summaries()
	}

	rt.printer.Header(label)
	return rt.printer.Articles(articles, summaries)
}

func newSummarizeCommand(rt *runtime) *cobra.Command {
	var flags listFlags

	cmd := &cobra.Command{
		Use:   "summarize <index|url>",
		Short: "Summarize one article",
		Long: `Summarize one article.

An index refers to the list selected by --category or --query (default: saved
category). A URL is fetched directly and its page text is summarized.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if index, err := strconv.Atoi(args[0]); err == nil {
				if _, err := flags.load(ctx, rt.app); err != nil {
					return err
				}
				article, err := rt.app.Feed.Article(index)
				if err != nil {
					return err
				}
				rt.printer.Header(article.Title)
				rt.printer.Print("%s", rt.app.Feed.Summarize(ctx, article))
				return nil
			}

			url := args[0]
			text, err := rt.app.Fetcher.FetchContent(ctx, url)
			if err != nil {
				return fmt.Errorf("failed to fetch article: %w", err)
			}
			rt.printer.Header(url)
			rt.printer.Print("%s", rt.app.Summaries.GetOrGenerate(ctx, url, text))
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}
