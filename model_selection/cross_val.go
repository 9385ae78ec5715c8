package model_selection

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/clfbench/clfbench/core/model"
	"github.com/clfbench/clfbench/pkg/errors"
)

// CrossValPredict produces one out-of-fold prediction per input row.
//
// For every fold the classifier is cloned, fitted on the training portion
// and used to predict the held-out portion, so each sample is predicted by
// a model that never saw it. Predictions are returned in the original row
// order as an n x 1 vector.
//
// A failure from the underlying classifier aborts the whole call.
func CrossValPredict(clf model.Classifier, X, y mat.Matrix, splitter Splitter) (*mat.VecDense, error) {
	if clf == nil {
		return nil, errors.NewValueError("CrossValPredict", "classifier must not be nil")
	}
	nSamples, _ := X.Dims()
	if nSamples == 0 {
		return nil, errors.NewModelError("CrossValPredict", "empty data", errors.ErrEmptyData)
	}
	yRows, _ := y.Dims()
	if yRows != nSamples {
		return nil, errors.NewDimensionError("CrossValPredict", nSamples, yRows, 0)
	}
	if splitter.NSplits() > nSamples {
		return nil, errors.NewValueError("CrossValPredict", "more folds than samples")
	}

	predictions := mat.NewVecDense(nSamples, nil)
	seen := make([]bool, nSamples)

	for _, fold := range splitter.Split(X, y) {
		if len(fold.TestIndices) == 0 {
			continue
		}

		XTrain, yTrain := extractSubset(X, y, fold.TrainIndices)
		XTest, _ := extractSubset(X, y, fold.TestIndices)

		foldClf := clf.CloneClassifier()
		if err := foldClf.Fit(XTrain, yTrain); err != nil {
			return nil, errors.Wrap(err, "CrossValPredict: fold fit failed")
		}

		foldPreds, err := foldClf.Predict(XTest)
		if err != nil {
			return nil, errors.Wrap(err, "CrossValPredict: fold predict failed")
		}

		for i, idx := range fold.TestIndices {
			predictions.SetVec(idx, foldPreds.At(i, 0))
			seen[idx] = true
		}
	}

	for i, ok := range seen {
		if !ok {
			return nil, errors.NewValueError("CrossValPredict",
				fmt.Sprintf("splitter did not cover sample %d", i))
		}
	}

	return predictions, nil
}

// extractSubset gathers the given rows of X and y into new matrices.
// Rows appear in index order.
func extractSubset(X, y mat.Matrix, indices []int) (mat.Matrix, mat.Matrix) {
	rows := len(indices)
	_, xCols := X.Dims()
	_, yCols := y.Dims()

	xSubset := mat.NewDense(rows, xCols, nil)
	ySubset := mat.NewDense(rows, yCols, nil)

	for i, idx := range indices {
		for j := 0; j < xCols; j++ {
			xSubset.Set(i, j, X.At(idx, j))
		}
		for j := 0; j < yCols; j++ {
			ySubset.Set(i, j, y.At(idx, j))
		}
	}

	return xSubset, ySubset
}
