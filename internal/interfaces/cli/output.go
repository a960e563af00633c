package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"orangenews/internal/domain/entity"
)

const maxCellWidth = 72

// printer は利用者向けの出力を書き込みます。NO_COLORが設定されているか、
// 出力先が端末でない場合は色を付けない
type printer struct {
	out       io.Writer
	err       io.Writer
	useColors bool
}

func newPrinter(out, errOut io.Writer) *printer {
	_, noColor := os.LookupEnv("NO_COLOR")
	return &printer{
		out:       out,
		err:       errOut,
		useColors: !noColor && !color.NoColor && out == io.Writer(os.Stdout),
	}
}

func (p *printer) Info(format string, args ...interface{}) {
	if p.useColors {
		color.New(color.FgCyan).Fprintf(p.out, format+"\n", args...)
	} else {
		fmt.Fprintf(p.out, format+"\n", args...)
	}
}

func (p *printer) Success(format string, args ...interface{}) {
	if p.useColors {
		color.New(color.FgGreen).Fprintf(p.out, "✓ "+format+"\n", args...)
	} else {
		fmt.Fprintf(p.out, "[OK] "+format+"\n", args...)
	}
}

func (p *printer) Warning(format string, args ...interface{}) {
	if p.useColors {
		color.New(color.FgYellow).Fprintf(p.err, "⚠ "+format+"\n", args...)
	} else {
		fmt.Fprintf(p.err, "[WARN] "+format+"\n", args...)
	}
}

func (p *printer) Print(format string, args ...interface{}) {
	fmt.Fprintf(p.out, format+"\n", args...)
}

func (p *printer) Header(title string) {
	if p.useColors {
		color.New(color.FgWhite, color.Bold).Fprintf(p.out, "\n%s\n", title)
	} else {
		fmt.Fprintf(p.out, "\n%s\n%s\n", title, strings.Repeat("-", len(title)))
	}
}

func (p *printer) newTable(headers []string) *tablewriter.Table {
	table := tablewriter.NewTable(p.out,
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Formatting: tw.CellFormatting{
					AutoWrap: tw.WrapNone,
				},
				Alignment: tw.CellAlignment{
					Global: tw.AlignLeft,
				},
			},
			Header: tw.CellConfig{
				Formatting: tw.CellFormatting{
					AutoFormat: tw.On,
				},
				Alignment: tw.CellAlignment{
					Global: tw.AlignLeft,
				},
			},
		}),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.BorderNone,
			Settings: tw.Settings{
				Separators: tw.Separators{
					ShowHeader: tw.Off,
				},
			},
		}),
	)
	table.Header(headers)
	return table
}

func (p *printer) Articles(articles []*entity.Article, summaries map[string]string) error {
	if len(articles) == 0 {
		p.Warning("no articles")
		return nil
	}

	headers := []string{"#", "Title", "Source", "Published"}
	if summaries != nil {
		headers = append(headers, "Summary")
	}

	rows := make([][]string, 0, len(articles))
	for i, a := range articles {
		row := []string{strconv.Itoa(i), truncate(a.Title), a.Source.Name, a.PublishedAt}
		if summaries != nil {
			row = append(row, truncate(summaries[a.URL]))
		}
		rows = append(rows, row)
	}

	table := p.newTable(headers)
	if err := table.Bulk(rows); err != nil {
		return fmt.Errorf("failed to render articles: %w", err)
	}
	return table.Render()
}

func (p *printer) Bookmarks(bookmarks []*entity.BookmarkedArticle) error {
	if len(bookmarks) == 0 {
		p.Warning("no bookmarks")
		return nil
	}

	rows := make([][]string, 0, len(bookmarks))
	for _, b := range bookmarks {
		rows = append(rows, []string{truncate(b.Title), b.SourceName, b.PublishedAt, b.URL})
	}

	table := p.newTable([]string{"Title", "Source", "Published", "URL"})
	if err := table.Bulk(rows); err != nil {
		return fmt.Errorf("failed to render bookmarks: %w", err)
	}
	return table.Render()
}

func truncate(s string) string {
	runes := []rune(s)
	if len(runes) <= maxCellWidth {
		return s
	}
	return string(runes[:maxCellWidth-1]) + "…"
}
