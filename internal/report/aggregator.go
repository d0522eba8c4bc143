// Package report aggregates sentiment and topics over a user's messages and
// produces a natural-language summary with a practical recommendation.
package report

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/rayanearaujoc/mefirstapp/internal/gemini"
	"github.com/rayanearaujoc/mefirstapp/internal/language"
)

// Source names which message set a report was generated from. The caller
// chooses explicitly; the aggregator never looks state up on its own.
type Source int

const (
	// SourceHistory analyzes the full persisted history (profile route).
	SourceHistory Source = iota
	// SourceSessionLog analyzes only the current unflushed user-authored
	// session entries.
	SourceSessionLog
)

// Category is a sentiment bucket.
type Category string

const (
	CategoryPositive Category = "Positivo"
	CategoryNeutral  Category = "Neutro"
	CategoryNegative Category = "Negativo"
)

// Categories lists the buckets in display order. All three are always
// present in a report, even at zero.
var Categories = []Category{CategoryPositive, CategoryNeutral, CategoryNegative}

// Sentiment score thresholds for bucket classification.
const (
	positiveThreshold = 0.25
	negativeThreshold = -0.25
)

// topicEntityCategory selects which entities count as free-form topics.
const topicEntityCategory = "OTHER"

// maxTopics caps the topic frequency list.
const maxTopics = 6

// TopicCount is one topic with its occurrence count.
type TopicCount struct {
	Topic string
	Count int
}

// Report is the aggregation result handed to the presentation layer:
// sentiment bucket counts for a pie-style chart, top topics for a bar-style
// chart, and the generated summary/recommendation text.
type Report struct {
	Source    Source
	Sentiment map[Category]int
	Topics    []TopicCount
	Summary   string
}

// Empty reports whether no messages were analyzed.
func (r *Report) Empty() bool {
	total := 0
	for _, n := range r.Sentiment {
		total += n
	}
	return total == 0
}

// Bucket classifies a sentiment score. It is total: every score lands in
// exactly one bucket.
func Bucket(score float32) Category {
	switch {
	case score > positiveThreshold:
		return CategoryPositive
	case score < negativeThreshold:
		return CategoryNegative
	default:
		return CategoryNeutral
	}
}

// Aggregator builds reports by running each message through the analytics
// gateway and issuing a single summary generation call.
type Aggregator struct {
	analyzer language.Analyzer
	gen      gemini.Client
	log      *slog.Logger
}

// NewAggregator creates an aggregator over the given gateways.
func NewAggregator(analyzer language.Analyzer, gen gemini.Client, log *slog.Logger) *Aggregator {
	if log == nil {
		log = slog.Default()
	}
	return &Aggregator{
		analyzer: analyzer,
		gen:      gen,
		log:      log.With("component", "report_aggregator"),
	}
}

// Generate analyzes every message and produces the report. An empty input
// yields an empty report without any gateway call.
func (a *Aggregator) Generate(ctx context.Context, source Source, messages []string) (*Report, error) {
	report := &Report{
		Source:    source,
		Sentiment: map[Category]int{CategoryPositive: 0, CategoryNeutral: 0, CategoryNegative: 0},
	}

	if len(messages) == 0 {
		a.log.InfoContext(ctx, "No messages to analyze, returning empty report", "source", source)
		return report, nil
	}

	counts := make(map[string]int)
	var firstSeen []string

	for _, content := range messages {
		analysis, err := a.analyzer.Analyze(ctx, content)
		if err != nil {
			return nil, fmt.Errorf("failed to analyze message: %w", err)
		}

		report.Sentiment[Bucket(analysis.Sentiment.Score)]++

		for _, e := range analysis.Entities {
			if e.Category != topicEntityCategory {
				continue
			}
			if _, seen := counts[e.Name]; !seen {
				firstSeen = append(firstSeen, e.Name)
			}
			counts[e.Name]++
		}
	}

	report.Topics = topTopics(counts, firstSeen)

	summary, err := a.gen.Generate(ctx, buildSummaryPrompt(messages))
	if err != nil {
		return nil, fmt.Errorf("failed to generate summary: %w", err)
	}
	report.Summary = summary

	a.log.InfoContext(ctx, "Report generated",
		"source", source,
		"messages", len(messages),
		"topics", len(report.Topics))
	return report, nil
}

// topTopics selects up to maxTopics topics by descending count, breaking
// ties by first-seen order.
func topTopics(counts map[string]int, firstSeen []string) []TopicCount {
	topics := make([]TopicCount, 0, len(firstSeen))
	for _, name := range firstSeen {
		topics = append(topics, TopicCount{Topic: name, Count: counts[name]})
	}

	sort.SliceStable(topics, func(i, j int) bool {
		return topics[i].Count > topics[j].Count
	})

	if len(topics) > maxTopics {
		topics = topics[:maxTopics]
	}
	return topics
}

// buildSummaryPrompt assembles the single summarization prompt over the raw
// message contents.
func buildSummaryPrompt(messages []string) string {
	var sb strings.Builder
	sb.WriteString("Você é um chatbot que simula um psicólogo. " +
		"Seu objetivo é fazer um resumo das mensagens enviadas pelo usuário e fornecer uma recomendação personalizada baseada no que foi dito. " +
		"O resumo deve ser claro e conciso, destacando os pontos principais mencionados pelo usuário. " +
		"A recomendação deve ser prática e útil, ajudando o usuário a lidar com os problemas ou emoções que ele compartilhou. " +
		"Mantenha um tom acolhedor e formal.\n\n")
	sb.WriteString("Mensagens do usuário:\n")
	sb.WriteString(strings.Join(messages, "\n"))
	sb.WriteString("\n\nResumo:\nRecomendação:\n")
	return sb.String()
}
