// Package cli はorangenewsのコマンドラインインターフェースです
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"orangenews/internal/interfaces/config"
)

var version = "dev"

// runtime はPersistentPreRunEで用意した実行時の状態をサブコマンドに渡します
type runtime struct {
	app     *App
	printer *printer
}

func (rt *runtime) close() error {
	if rt.app == nil {
		return nil
	}
	err := rt.app.Close()
	rt.app = nil
	return err
}

func newRootCommand() (*cobra.Command, *runtime) {
	rt := &runtime{}

	rootCmd := &cobra.Command{
		Use:   "orangenews",
		Short: "UK headlines with AI summaries and local bookmarks",
		Long: `orangenews fetches UK headlines from GNews or Google News, summarizes
articles with an LLM provider and keeps bookmarks in a local SQLite database.

Example usage:
  orangenews headlines --category business
  orangenews search "energy prices"
  orangenews summarize 0
  orangenews bookmark add 2
  orangenews bookmark watch`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
				Level: cfg.GetLogLevel(),
			}))
			slog.SetDefault(logger)

			app, err := NewApp(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			rt.app = app
			rt.printer = newPrinter(cmd.OutOrStdout(), cmd.ErrOrStderr())
			return nil
		},
	}

	rootCmd.AddCommand(
		newHeadlinesCommand(rt),
		newSearchCommand(rt),
		newSummarizeCommand(rt),
		newBookmarkCommand(rt),
		newPrefsCommand(rt),
	)

	return rootCmd, rt
}

// Execute はコマンドが終了するか割り込みを受けるまでCLIを実行します
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return run(ctx, nil, nil, nil)
}

// run はコマンドを1回実行します。失敗した場合もAppを解放する
func run(ctx context.Context, argv []string, out, errOut io.Writer) error {
	cmd, rt := newRootCommand()
	if argv != nil {
		cmd.SetArgs(argv)
	}
	if out != nil {
		cmd.SetOut(out)
	}
	if errOut != nil {
		cmd.SetErr(errOut)
	}

	err := cmd.ExecuteContext(ctx)
	if closeErr := rt.close(); err == nil {
		err = closeErr
	}
	return err
}

func SetVersion(v string) {
	version = v
}
