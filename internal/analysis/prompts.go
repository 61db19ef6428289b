package analysis

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tidwall/pretty"

	"CompanyInsights/internal/model"
)

const discoverTemplate = `You are a market analyst. The company event is:
"%s"

Identify up to %d competitor companies in the same industry that had a similar event.
Provide reasoning for each competitor.

STRICT RULES:
- RETURN ONLY VALID JSON (no extra text).
- NO INTRODUCTION OR EXPLANATION.
- Use this exact JSON structure:
[{"competitor": "<company name>", "reasoning": "<detailed description of the similar event and what happened to the company's stock as a result of it, including the specific year, month and day the event happened>"}]`

const resolveTemplate = "Historical details about %s having a similar event to: %s. Focus on date and financial impact."

const tickerTemplate = `What is the primary stock ticker symbol of the company "%s"?
Answer with the ticker symbol only, for example SBUX.
If the company is not publicly traded, answer NONE.`

const synthesisTemplate = `You are a financial analyst. A major event has occurred for %s:
"%s"

We identified some competitor events and historical data:
%s
Please provide a structured financial analysis:
1. Analyze the financial data above and outline your summary of the stock progress for each company.
2. Summarize what happened to the analogous companies' stock as a result of the similar events.
3. Analyze what might happen with %s's stock or finances given these historical parallels.
4. Mention key uncertainties or caveats.

Provide your answer in a concise, professional tone.`

func discoverPrompt(event string, maxCompetitors int) string {
	return fmt.Sprintf(discoverTemplate, event, maxCompetitors)
}

func resolveQuery(c model.Candidate) string {
	return fmt.Sprintf(resolveTemplate, c.Competitor, c.Reasoning)
}

func tickerPrompt(competitor string) string {
	return fmt.Sprintf(tickerTemplate, competitor)
}

func synthesisPrompt(company, event string, analogs []model.AnalogEvent) string {
	var b strings.Builder
	for _, a := range analogs {
		date := "unknown"
		if a.EventDate != nil {
			date = *a.EventDate
		}
		fmt.Fprintf(&b, "\nCompetitor: %s\nEvent Date: %s\nReasoning: %s\nStock Data:\n%s\n",
			a.Competitor, date, a.Reasoning, renderStockData(a.StockData))
	}
	return fmt.Sprintf(synthesisTemplate, company, event, b.String(), company)
}

func renderStockData(sd *model.StockData) string {
	if sd == nil {
		sd = &model.StockData{Status: model.DataMissing}
	}
	raw, err := json.Marshal(sd)
	if err != nil {
		return fmt.Sprintf(`{"status": %q}`, sd.Status)
	}
	return strings.TrimRight(string(pretty.Pretty(raw)), "\n")
}
