// Package metrics provides evaluation metrics for binary classification.
//
// All metric functions share the signature
// func(yTrue, yPred *mat.VecDense) (float64, error) and expect labels
// encoded as 0 (negative) and 1 (positive).
package metrics

import (
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/clfbench/clfbench/pkg/errors"
)

// validateBinaryInput checks that both vectors are non-empty, have the same
// length and contain only 0/1 values.
func validateBinaryInput(op string, yTrue, yPred *mat.VecDense) error {
	if yTrue == nil || yPred == nil || yTrue.Len() == 0 {
		return errors.NewValueError(op, "empty vector")
	}
	if yPred.Len() != yTrue.Len() {
		return errors.NewDimensionError(op, yTrue.Len(), yPred.Len(), 0)
	}
	for i := 0; i < yTrue.Len(); i++ {
		if v := yTrue.AtVec(i); v != 0 && v != 1 {
			return errors.NewValueError(op, "labels must be 0 or 1")
		}
		if v := yPred.AtVec(i); v != 0 && v != 1 {
			return errors.NewValueError(op, "predictions must be 0 or 1")
		}
	}
	return nil
}

// confusionCounts tallies the binary confusion matrix.
func confusionCounts(yTrue, yPred *mat.VecDense) (tp, fp, tn, fn float64) {
	for i := 0; i < yTrue.Len(); i++ {
		truth := yTrue.AtVec(i)
		pred := yPred.AtVec(i)
		switch {
		case truth == 1 && pred == 1:
			tp++
		case truth == 0 && pred == 1:
			fp++
		case truth == 0 && pred == 0:
			tn++
		default:
			fn++
		}
	}
	return tp, fp, tn, fn
}

// Accuracy computes the fraction of correctly classified samples.
func Accuracy(yTrue, yPred *mat.VecDense) (float64, error) {
	if yTrue == nil || yPred == nil || yTrue.Len() == 0 {
		return 0, errors.NewValueError("Accuracy", "empty vector")
	}
	if yPred.Len() != yTrue.Len() {
		return 0, errors.NewDimensionError("Accuracy", yTrue.Len(), yPred.Len(), 0)
	}

	correct := 0
	for i := 0; i < yTrue.Len(); i++ {
		if yTrue.AtVec(i) == yPred.AtVec(i) {
			correct++
		}
	}
	return float64(correct) / float64(yTrue.Len()), nil
}

// Precision computes tp / (tp + fp) with 1 as the positive class.
// When no positive predictions exist the metric is undefined; a warning is
// raised and 0 is returned.
func Precision(yTrue, yPred *mat.VecDense) (float64, error) {
	if err := validateBinaryInput("Precision", yTrue, yPred); err != nil {
		return 0, err
	}

	tp, fp, _, _ := confusionCounts(yTrue, yPred)
	if tp+fp == 0 {
		errors.Warn(errors.NewUndefinedMetricWarning("precision", "no predicted positives", 0))
		return 0, nil
	}
	return tp / (tp + fp), nil
}

// Recall computes tp / (tp + fn) with 1 as the positive class.
// When no true positives exist the metric is undefined; a warning is raised
// and 0 is returned.
func Recall(yTrue, yPred *mat.VecDense) (float64, error) {
	if err := validateBinaryInput("Recall", yTrue, yPred); err != nil {
		return 0, err
	}

	tp, _, _, fn := confusionCounts(yTrue, yPred)
	if tp+fn == 0 {
		errors.Warn(errors.NewUndefinedMetricWarning("recall", "no true positives", 0))
		return 0, nil
	}
	return tp / (tp + fn), nil
}

// F1Score computes the harmonic mean of precision and recall.
func F1Score(yTrue, yPred *mat.VecDense) (float64, error) {
	if err := validateBinaryInput("F1Score", yTrue, yPred); err != nil {
		return 0, err
	}

	tp, fp, _, fn := confusionCounts(yTrue, yPred)
	denom := 2*tp + fp + fn
	if denom == 0 {
		errors.Warn(errors.NewUndefinedMetricWarning("f1_score", "no positive labels or predictions", 0))
		return 0, nil
	}
	return 2 * tp / denom, nil
}

// ROCAUC computes the area under the ROC curve via the rank-sum
// formulation, averaging ranks across ties. yPred may contain scores or
// hard labels; yTrue must be 0/1. When only one class is present the
// metric is undefined; a warning is raised and 0.5 is returned.
func ROCAUC(yTrue, yPred *mat.VecDense) (float64, error) {
	if yTrue == nil || yPred == nil || yTrue.Len() == 0 {
		return 0, errors.NewValueError("ROCAUC", "empty vector")
	}
	n := yTrue.Len()
	if yPred.Len() != n {
		return 0, errors.NewDimensionError("ROCAUC", n, yPred.Len(), 0)
	}

	nPos := 0.0
	for i := 0; i < n; i++ {
		switch yTrue.AtVec(i) {
		case 1:
			nPos++
		case 0:
		default:
			return 0, errors.NewValueError("ROCAUC", "labels must be 0 or 1")
		}
	}
	nNeg := float64(n) - nPos
	if nPos == 0 || nNeg == 0 {
		errors.Warn(errors.NewUndefinedMetricWarning("roc_auc_score", "only one class present", 0.5))
		return 0.5, nil
	}

	// Rank the scores ascending, assigning the mean rank within ties.
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		return yPred.AtVec(order[a]) < yPred.AtVec(order[b])
	})

	ranks := make([]float64, n)
	for i := 0; i < n; {
		j := i
		for j+1 < n && yPred.AtVec(order[j+1]) == yPred.AtVec(order[i]) {
			j++
		}
		meanRank := float64(i+j)/2 + 1
		for k := i; k <= j; k++ {
			ranks[order[k]] = meanRank
		}
		i = j + 1
	}

	rankSum := 0.0
	for i := 0; i < n; i++ {
		if yTrue.AtVec(i) == 1 {
			rankSum += ranks[i]
		}
	}

	return (rankSum - nPos*(nPos+1)/2) / (nPos * nNeg), nil
}
