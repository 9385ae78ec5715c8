package metrics

import "gonum.org/v1/gonum/mat"

// ScoreFunc computes a scalar score from true and predicted labels.
type ScoreFunc func(yTrue, yPred *mat.VecDense) (float64, error)

// Scorer pairs a metric function with the name used as its column label
// in comparison results. Naming is explicit so that collisions are a
// construction-time concern rather than a silent overwrite.
type Scorer struct {
	Name  string
	Score ScoreFunc
}

// DefaultScorers returns the five standard binary classification scorers.
// A fresh slice is built on every call so callers never share state.
func DefaultScorers() []Scorer {
	return []Scorer{
		{Name: "f1_score", Score: F1Score},
		{Name: "recall_score", Score: Recall},
		{Name: "precision_score", Score: Precision},
		{Name: "roc_auc_score", Score: ROCAUC},
		{Name: "accuracy_score", Score: Accuracy},
	}
}
