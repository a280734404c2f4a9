package store

import "time"

// FinancialRecord is one persisted scoring request: the five raw
// inputs plus the derived score and category. Rows are append-only;
// nothing in the system updates or deletes them.
type FinancialRecord struct {
	ID              uint      `gorm:"primaryKey"`
	MonthlyIncome   float64   `gorm:"column:monthly_income"`
	MonthlyExpenses float64   `gorm:"column:monthly_expenses"`
	LoanEMI         float64   `gorm:"column:loan_emi"`
	Savings         float64   `gorm:"column:savings"`
	Investments     float64   `gorm:"column:investments"`
	FinancialScore  float64   `gorm:"column:financial_score"`
	RiskCategory    string    `gorm:"size:32;index"`
	CreatedAt       time.Time `gorm:"autoCreateTime"`
}

// TableName pins the historical table name.
func (FinancialRecord) TableName() string {
	return "financial_records"
}
