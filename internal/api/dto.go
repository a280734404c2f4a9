package api

import (
	"errors"
	"fmt"
	"time"

	"financial-health/backend/internal/model"
	"financial-health/backend/internal/store"
)

// PredictRequest is the inbound prediction payload. Fields bind as
// pointers so that absent and zero values stay distinguishable.
type PredictRequest struct {
	MonthlyIncome   *float64 `json:"monthly_income"`
	MonthlyExpenses *float64 `json:"monthly_expenses"`
	LoanEMI         *float64 `json:"loan_emi"`
	Savings         *float64 `json:"savings"`
	Investments     *float64 `json:"investments"`
}

// Features assembles the fixed-order vector, rejecting missing fields.
func (r PredictRequest) Features() (model.FeatureVector, error) {
	fields := [model.FeatureCount]*float64{
		r.MonthlyIncome,
		r.MonthlyExpenses,
		r.LoanEMI,
		r.Savings,
		r.Investments,
	}
	var features model.FeatureVector
	for i, field := range fields {
		if field == nil {
			return features, fmt.Errorf("missing field %q", model.FeatureNames[i])
		}
		features[i] = *field
	}
	return features, nil
}

// PredictResponse is the successful prediction payload.
type PredictResponse struct {
	FinancialScore float64            `json:"financial_score"`
	RiskCategory   string             `json:"risk_category"`
	Probabilities  map[string]float64 `json:"probabilities"`
}

// HistoryRow is the flat API representation of a persisted record.
type HistoryRow struct {
	ID              uint    `json:"id"`
	MonthlyIncome   float64 `json:"monthly_income"`
	MonthlyExpenses float64 `json:"monthly_expenses"`
	LoanEMI         float64 `json:"loan_emi"`
	Savings         float64 `json:"savings"`
	Investments     float64 `json:"investments"`
	FinancialScore  float64 `json:"financial_score"`
	RiskCategory    string  `json:"risk_category"`
	CreatedAt       string  `json:"created_at"`
}

// HistoryFromModel converts a store.FinancialRecord into a row DTO.
func HistoryFromModel(record store.FinancialRecord) HistoryRow {
	return HistoryRow{
		ID:              record.ID,
		MonthlyIncome:   record.MonthlyIncome,
		MonthlyExpenses: record.MonthlyExpenses,
		LoanEMI:         record.LoanEMI,
		Savings:         record.Savings,
		Investments:     record.Investments,
		FinancialScore:  record.FinancialScore,
		RiskCategory:    record.RiskCategory,
		CreatedAt:       record.CreatedAt.Format(time.RFC3339),
	}
}

var errEmptyBody = errors.New("request body is required")
