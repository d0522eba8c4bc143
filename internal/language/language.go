// Package language implements the text analytics gateway backed by the
// Google Cloud Natural Language API. Each call analyzes one plain-text
// document for document-level sentiment and named entities.
package language

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	language "cloud.google.com/go/language/apiv2"
	"cloud.google.com/go/language/apiv2/languagepb"

	"github.com/rayanearaujoc/mefirstapp/internal/config"
)

// Sentiment is the document-level sentiment of one analyzed text.
// Score is in [-1, 1]; Magnitude is the overall emotional strength, >= 0.
type Sentiment struct {
	Score     float32
	Magnitude float32
}

// Entity is one named entity extracted from a text, with its category name
// as reported by the service (e.g. "PERSON", "OTHER").
type Entity struct {
	Name     string
	Category string
}

// Analysis holds everything extracted from one document.
type Analysis struct {
	Sentiment Sentiment
	Entities  []Entity
}

// Analyzer defines the text analytics capability used by the report
// aggregator. A failure propagates to the caller with no retry.
type Analyzer interface {
	Analyze(ctx context.Context, text string) (*Analysis, error)
	Close() error
}

type apiAnalyzer struct {
	client  *language.Client
	log     *slog.Logger
	timeout time.Duration
}

// NewAnalyzer creates a new Cloud Natural Language analyzer. The credential
// is picked up by the client from GOOGLE_APPLICATION_CREDENTIALS.
func NewAnalyzer(ctx context.Context, cfg config.LanguageConfig, log *slog.Logger) (Analyzer, error) {
	client, err := language.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create language client: %w", err)
	}

	logger := log.With("component", "language_analyzer")
	logger.Info("Language analyzer initialized successfully")
	return &apiAnalyzer{
		client:  client,
		log:     logger,
		timeout: cfg.Timeout,
	}, nil
}

// Analyze runs one sentiment call and one entity call for the given text.
func (a *apiAnalyzer) Analyze(ctx context.Context, text string) (*Analysis, error) {
	if text == "" {
		return nil, fmt.Errorf("text is empty")
	}

	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	doc := &languagepb.Document{
		Type:   languagepb.Document_PLAIN_TEXT,
		Source: &languagepb.Document_Content{Content: text},
	}

	sentResp, err := a.client.AnalyzeSentiment(ctx, &languagepb.AnalyzeSentimentRequest{
		Document: doc,
	})
	if err != nil {
		a.log.ErrorContext(ctx, "Sentiment analysis failed", "error", err)
		return nil, fmt.Errorf("failed to analyze sentiment: %w", err)
	}

	entResp, err := a.client.AnalyzeEntities(ctx, &languagepb.AnalyzeEntitiesRequest{
		Document: doc,
	})
	if err != nil {
		a.log.ErrorContext(ctx, "Entity analysis failed", "error", err)
		return nil, fmt.Errorf("failed to analyze entities: %w", err)
	}

	analysis := &Analysis{}
	if s := sentResp.GetDocumentSentiment(); s != nil {
		analysis.Sentiment = Sentiment{Score: s.GetScore(), Magnitude: s.GetMagnitude()}
	}
	for _, e := range entResp.GetEntities() {
		analysis.Entities = append(analysis.Entities, Entity{
			Name:     e.GetName(),
			Category: e.GetType().String(),
		})
	}

	a.log.DebugContext(ctx, "Text analyzed",
		"score", analysis.Sentiment.Score,
		"magnitude", analysis.Sentiment.Magnitude,
		"entities", len(analysis.Entities))
	return analysis, nil
}

// Close releases the underlying API connection.
func (a *apiAnalyzer) Close() error {
	if a == nil || a.client == nil {
		return nil
	}
	return a.client.Close()
}
