package notifier

import (
	"fmt"
	"html"
	"strings"

	"CompanyInsights/internal/model"
)

// MaxMessageLen is Telegram's limit for one message.
const MaxMessageLen = 4096

const truncatedSuffix = "\n…(truncated)"

// FormatReport renders an analysis report as a Telegram HTML message.
func FormatReport(r *model.AnalysisReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "📊 <b>%s (%s)</b> | %s\n", esc(r.Company), esc(r.Ticker), r.CreatedAt.Format(model.DateLayout))
	fmt.Fprintf(&b, "<i>%s</i>\n\n", esc(r.Event))

	b.WriteString("🔎 <b>Analogous events:</b>\n")
	if len(r.Analogs) == 0 {
		b.WriteString("  none found\n")
	}
	for _, a := range r.Analogs {
		date := "unknown"
		if a.EventDate != nil {
			date = *a.EventDate
		}
		line := fmt.Sprintf("  • %s (%s)", esc(a.Competitor), date)
		if a.StockData.HasData() {
			for symbol, ins := range a.StockData.Insights {
				line += fmt.Sprintf(" %s %+.2f%%", esc(symbol), ins.OverallPriceChange)
			}
		} else if a.StockData != nil {
			line += " " + string(a.StockData.Status)
		}
		b.WriteString(line + "\n")
	}

	b.WriteString("\n📝 <b>Analysis:</b>\n")
	b.WriteString(esc(strings.TrimSpace(r.Narrative)))
	return Truncate(b.String())
}

// FormatSummary renders one company summary.
func FormatSummary(company, date, summary string) string {
	msg := fmt.Sprintf("📰 <b>%s</b> | %s\n\n%s", esc(company), date, esc(strings.TrimSpace(summary)))
	return Truncate(msg)
}

// GatherLine is one company's gather outcome.
type GatherLine struct {
	Company  string
	Articles int
	Searches int
	FeedHits int
}

// FormatGather renders the outcome of a gather run.
func FormatGather(date string, lines []GatherLine) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📥 <b>News gathered</b> | %s\n\n", date)
	if len(lines) == 0 {
		b.WriteString("No companies processed.")
	}
	for _, l := range lines {
		fmt.Fprintf(&b, "• %s: %d articles, %d feed items, %d search results\n",
			esc(l.Company), l.Articles, l.FeedHits, l.Searches)
	}
	return Truncate(b.String())
}

// FormatHelp lists the supported commands.
func FormatHelp() string {
	return "Available commands:\n" +
		"• /gather [company, ...]\n" +
		"• /summarize [YYYY-MM-DD]\n" +
		"• /analyze company|ticker|event description"
}

// FormatError renders a failure notice.
func FormatError(action string, err error) string {
	return Truncate(fmt.Sprintf("❌ %s failed: %s", esc(action), esc(err.Error())))
}

// Truncate shortens text to the Telegram message limit, counted in runes.
func Truncate(text string) string {
	r := []rune(text)
	if len(r) <= MaxMessageLen {
		return text
	}
	keep := MaxMessageLen - len([]rune(truncatedSuffix))
	return string(r[:keep]) + truncatedSuffix
}

func esc(s string) string {
	return html.EscapeString(s)
}
