package pipeline

import "testing"

func TestSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want float64
	}{
		{"identical", "Budget approved", "Budget approved", 1.0},
		{"case and punctuation ignored", "Budget, approved!", "budget approved", 1.0},
		{"both empty", "", "", 1.0},
		{"one empty", "Budget approved", "", 0.0},
		{"disjoint", "alpha beta", "gamma delta", 0.0},
		{"paraphrase at threshold", "Budget approved for Q3", "The budget was approved for Q3", 0.8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Similarity(tt.a, tt.b)
			if got != tt.want {
				t.Fatalf("Similarity(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestSimilaritySymmetric(t *testing.T) {
	a := "Hire two engineers for the platform team"
	b := "We will hire two engineers"
	if Similarity(a, b) != Similarity(b, a) {
		t.Fatalf("similarity is not symmetric")
	}
}
