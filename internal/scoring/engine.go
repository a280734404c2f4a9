package scoring

import (
	"errors"
	"fmt"
	"math"

	"financial-health/backend/internal/model"
)

// Sentinel errors matched at the request-handler boundary.
var (
	// ErrModelUnavailable means the artifact handle is degraded and
	// predictions are refused.
	ErrModelUnavailable = errors.New("model not loaded")
	// ErrInvalidInput covers malformed or out-of-range feature values.
	ErrInvalidInput = errors.New("invalid input")
	// ErrMappingMismatch means the classifier emits a label the score
	// mapping does not cover.
	ErrMappingMismatch = errors.New("score mapping mismatch")
)

// ScoreMapping converts the probability distribution into a continuous
// financial-health score via expectation over these anchors.
var ScoreMapping = map[string]float64{
	"Risky":    20,
	"Moderate": 55,
	"Good":     85,
}

// Result is the scoring output for one feature vector. Probabilities
// are reported as 0-100 percentages rounded to two decimals.
type Result struct {
	Category      string             `json:"risk_category"`
	Score         float64            `json:"financial_score"`
	Probabilities map[string]float64 `json:"probabilities"`
}

// Engine scores feature vectors against the immutable artifact handle.
// It keeps no state of its own and is safe for concurrent use.
type Engine struct {
	arts *model.Artifacts
}

// NewEngine wraps the artifact handle. A loaded classifier whose label
// set escapes ScoreMapping is rejected here, at startup, rather than
// surfacing per request.
func NewEngine(arts *model.Artifacts) (*Engine, error) {
	if arts.Ready() {
		for _, class := range arts.Forest.Classes {
			if _, ok := ScoreMapping[class]; !ok {
				return nil, fmt.Errorf("%w: classifier label %q", ErrMappingMismatch, class)
			}
		}
	}
	return &Engine{arts: arts}, nil
}

// Ready reports whether the engine can serve predictions.
func (e *Engine) Ready() bool {
	return e != nil && e.arts.Ready()
}

// Score normalizes the features, classifies them, and derives the
// probability-weighted financial-health score.
func (e *Engine) Score(features model.FeatureVector) (Result, error) {
	if !e.Ready() {
		return Result{}, ErrModelUnavailable
	}
	if err := ValidateFeatures(features); err != nil {
		return Result{}, err
	}

	scaled := e.arts.Scaler.Transform(features)
	category, dist := e.arts.Forest.Predict(scaled)

	score := 0.0
	probabilities := make(map[string]float64, len(dist))
	for class, p := range dist {
		anchor, ok := ScoreMapping[class]
		if !ok {
			return Result{}, fmt.Errorf("%w: classifier label %q", ErrMappingMismatch, class)
		}
		score += p * anchor
		probabilities[class] = round2(p * 100)
	}

	return Result{
		Category:      category,
		Score:         round2(score),
		Probabilities: probabilities,
	}, nil
}

// ValidateFeatures enforces the input contract: every value finite,
// income strictly positive, the remaining features non-negative.
func ValidateFeatures(features model.FeatureVector) error {
	for i, value := range features {
		if math.IsNaN(value) || math.IsInf(value, 0) {
			return fmt.Errorf("%w: %s is not a finite number", ErrInvalidInput, model.FeatureNames[i])
		}
	}
	if features[model.FeatureMonthlyIncome] <= 0 {
		return fmt.Errorf("%w: monthly_income must be greater than zero", ErrInvalidInput)
	}
	for i, value := range features {
		if i == model.FeatureMonthlyIncome {
			continue
		}
		if value < 0 {
			return fmt.Errorf("%w: %s must not be negative", ErrInvalidInput, model.FeatureNames[i])
		}
	}
	return nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
