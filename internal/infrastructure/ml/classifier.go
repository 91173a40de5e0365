package ml

import (
	"context"
	"fmt"
	"strings"

	"techwatch/internal/domain"
	"techwatch/internal/ports"
)

// Classifier assigns fine-grained categories through the model
// service: embed, predict, decode.
type Classifier struct {
	model ports.ModelClient
}

var _ ports.Classifier = (*Classifier)(nil)

// NewClassifier wires a model-backed classifier.
func NewClassifier(model ports.ModelClient) *Classifier {
	return &Classifier{model: model}
}

// Classify categorizes the article text. Model failures surface as
// errors so callers can fall back.
func (c *Classifier) Classify(ctx context.Context, title, summary string) (string, error) {
	text := strings.TrimSpace(title + " " + summary)

	emb, err := c.model.Embed(ctx, text)
	if err != nil {
		return "", fmt.Errorf("embed: %w", err)
	}
	label, err := c.model.Predict(ctx, emb)
	if err != nil {
		return "", fmt.Errorf("predict: %w", err)
	}
	category, err := c.model.DecodeLabel(ctx, label)
	if err != nil {
		return "", fmt.Errorf("decode label: %w", err)
	}
	if category == "" {
		return "", fmt.Errorf("model returned empty category for label %d", label)
	}
	return category, nil
}

// FallbackClassifier is used when the model service is unavailable:
// every article lands in the default category.
type FallbackClassifier struct{}

var _ ports.Classifier = FallbackClassifier{}

// Classify always returns the default category.
func (FallbackClassifier) Classify(context.Context, string, string) (string, error) {
	return domain.DefaultCategory, nil
}
