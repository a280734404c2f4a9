package model

import (
	"errors"
	"fmt"
)

// Scaler is the serialized per-feature standardization learned offline.
// Each feature is centered on Mean and divided by Scale.
type Scaler struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

// Validate checks that the scaler covers the full feature schema.
func (s *Scaler) Validate() error {
	if s == nil {
		return errors.New("scaler is nil")
	}
	if len(s.Mean) != FeatureCount || len(s.Scale) != FeatureCount {
		return fmt.Errorf("scaler covers %d/%d features, expected %d", len(s.Mean), len(s.Scale), FeatureCount)
	}
	for i, scale := range s.Scale {
		if scale < 0 {
			return fmt.Errorf("scaler feature %d has negative scale", i)
		}
	}
	return nil
}

// Transform standardizes each feature independently. A stored scale of
// zero (a constant training column) leaves the centered value as is.
func (s *Scaler) Transform(v FeatureVector) FeatureVector {
	var out FeatureVector
	for i := 0; i < FeatureCount; i++ {
		scale := s.Scale[i]
		if scale == 0 {
			scale = 1
		}
		out[i] = (v[i] - s.Mean[i]) / scale
	}
	return out
}
