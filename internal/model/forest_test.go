package model

import (
	"math"
	"testing"
)

// testForest splits on normalized expenses (tree 1) and loan EMI
// (tree 2); low ratios land in Good-heavy leaves.
func testForest() *Forest {
	return &Forest{
		Classes: []string{"Good", "Moderate", "Risky"},
		Trees: []Tree{
			{Nodes: []TreeNode{
				{Feature: FeatureMonthlyExpenses, Threshold: 0, Left: 1, Right: 2},
				{Feature: -1, Counts: []float64{8, 2, 0}},
				{Feature: -1, Counts: []float64{0, 3, 7}},
			}},
			{Nodes: []TreeNode{
				{Feature: FeatureLoanEMI, Threshold: 0, Left: 1, Right: 2},
				{Feature: -1, Counts: []float64{7, 3, 0}},
				{Feature: -1, Counts: []float64{1, 4, 5}},
			}},
		},
	}
}

func testScaler() *Scaler {
	return &Scaler{
		Mean:  []float64{50000, 30000, 10000, 10000, 5000},
		Scale: []float64{20000, 10000, 5000, 5000, 2500},
	}
}

func TestForestPredictDistribution(t *testing.T) {
	forest := testForest()
	scaler := testScaler()

	inputs := []FeatureVector{
		{50000, 30000, 8000, 7000, 5000},
		{20000, 40000, 20000, 0, 0},
		{150000, 10000, 0, 50000, 30000},
	}

	for _, input := range inputs {
		label, dist := forest.Predict(scaler.Transform(input))

		if len(dist) != len(forest.Classes) {
			t.Fatalf("distribution has %d entries, expected %d", len(dist), len(forest.Classes))
		}
		sum := 0.0
		for class, p := range dist {
			if p < 0 {
				t.Fatalf("negative probability %f for %s", p, class)
			}
			sum += p
		}
		if math.Abs(sum-1) > 1e-6 {
			t.Fatalf("distribution sums to %f", sum)
		}
		best, ok := dist[label]
		if !ok {
			t.Fatalf("predicted label %q not in distribution", label)
		}
		for _, p := range dist {
			if p > best {
				t.Fatalf("label %q is not the argmax", label)
			}
		}
	}
}

func TestForestPredictHealthyProfile(t *testing.T) {
	forest := testForest()
	scaler := testScaler()

	label, dist := forest.Predict(scaler.Transform(FeatureVector{50000, 30000, 8000, 7000, 5000}))
	if label != "Good" {
		t.Fatalf("expected Good got %s", label)
	}
	if math.Abs(dist["Good"]-0.75) > 1e-9 {
		t.Fatalf("expected Good probability 0.75 got %f", dist["Good"])
	}
}

func TestForestPredictDeterministic(t *testing.T) {
	forest := testForest()
	input := FeatureVector{-0.3, 1.2, 0.7, -1.1, 0.4}

	label1, dist1 := forest.Predict(input)
	label2, dist2 := forest.Predict(input)
	if label1 != label2 {
		t.Fatalf("labels differ: %s vs %s", label1, label2)
	}
	for class, p := range dist1 {
		if dist2[class] != p {
			t.Fatalf("probability for %s differs: %f vs %f", class, p, dist2[class])
		}
	}
}

func TestForestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Forest)
	}{
		{"no classes", func(f *Forest) { f.Classes = nil }},
		{"no trees", func(f *Forest) { f.Trees = nil }},
		{"empty tree", func(f *Forest) { f.Trees[0].Nodes = nil }},
		{"count width mismatch", func(f *Forest) { f.Trees[0].Nodes[1].Counts = []float64{1, 2} }},
		{"negative count", func(f *Forest) { f.Trees[0].Nodes[1].Counts = []float64{-1, 2, 3} }},
		{"empty leaf", func(f *Forest) { f.Trees[0].Nodes[1].Counts = []float64{0, 0, 0} }},
		{"feature out of range", func(f *Forest) { f.Trees[0].Nodes[0].Feature = FeatureCount }},
		{"child out of range", func(f *Forest) { f.Trees[0].Nodes[0].Right = 9 }},
		{"backward child link", func(f *Forest) { f.Trees[0].Nodes[0].Left = 0 }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			forest := testForest()
			tc.mutate(forest)
			if err := forest.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}

	if err := testForest().Validate(); err != nil {
		t.Fatalf("valid forest rejected: %v", err)
	}
}

func TestScalerTransform(t *testing.T) {
	scaler := testScaler()
	out := scaler.Transform(FeatureVector{50000, 40000, 5000, 10000, 0})

	expected := FeatureVector{0, 1, -1, 0, -2}
	for i := range expected {
		if math.Abs(out[i]-expected[i]) > 1e-9 {
			t.Fatalf("feature %d: expected %f got %f", i, expected[i], out[i])
		}
	}
}

func TestScalerZeroScalePassthrough(t *testing.T) {
	scaler := testScaler()
	scaler.Scale[FeatureSavings] = 0

	out := scaler.Transform(FeatureVector{50000, 30000, 10000, 10500, 5000})
	if out[FeatureSavings] != 500 {
		t.Fatalf("expected centered value 500 got %f", out[FeatureSavings])
	}
}

func TestScalerValidate(t *testing.T) {
	tests := []struct {
		name   string
		scaler Scaler
		valid  bool
	}{
		{"complete", *testScaler(), true},
		{"short mean", Scaler{Mean: []float64{1, 2}, Scale: []float64{1, 1, 1, 1, 1}}, false},
		{"short scale", Scaler{Mean: []float64{0, 0, 0, 0, 0}, Scale: []float64{1}}, false},
		{"negative scale", Scaler{Mean: []float64{0, 0, 0, 0, 0}, Scale: []float64{1, 1, -1, 1, 1}}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.scaler.Validate()
			if tc.valid && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tc.valid && err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}
