package model

// FeatureCount is the fixed width of the input schema.
const FeatureCount = 5

// FeatureVector holds the raw inputs in fixed order: monthly income,
// monthly expenses, loan EMI, savings, investments.
type FeatureVector [FeatureCount]float64

// Feature positions within a FeatureVector.
const (
	FeatureMonthlyIncome = iota
	FeatureMonthlyExpenses
	FeatureLoanEMI
	FeatureSavings
	FeatureInvestments
)

// FeatureNames lists the schema field names in vector order.
var FeatureNames = [FeatureCount]string{
	"monthly_income",
	"monthly_expenses",
	"loan_emi",
	"savings",
	"investments",
}
