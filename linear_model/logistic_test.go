package linear_model

import (
	"testing"

	"gonum.org/v1/gonum/mat"
)

func separableData() (*mat.Dense, *mat.Dense) {
	X := mat.NewDense(8, 2, []float64{
		0, 0,
		0, 1,
		1, 0,
		1, 1,
		5, 5,
		5, 6,
		6, 5,
		6, 6,
	})
	y := mat.NewDense(8, 1, []float64{0, 0, 0, 0, 1, 1, 1, 1})
	return X, y
}

func TestLogisticRegressionFitPredict(t *testing.T) {
	X, y := separableData()

	lr := NewLogisticRegression(WithLRRandomState(42), WithLRMaxIter(500))
	if err := lr.Fit(X, y); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	preds, err := lr.Predict(X)
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}

	for i := 0; i < 8; i++ {
		if preds.At(i, 0) != y.At(i, 0) {
			t.Errorf("sample %d: predicted %v, want %v", i, preds.At(i, 0), y.At(i, 0))
		}
	}
}

func TestLogisticRegressionPredictProba(t *testing.T) {
	X, y := separableData()

	lr := NewLogisticRegression(WithLRRandomState(42), WithLRMaxIter(500))
	if err := lr.Fit(X, y); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	probas, err := lr.PredictProba(X)
	if err != nil {
		t.Fatalf("PredictProba failed: %v", err)
	}

	rows, cols := probas.Dims()
	if rows != 8 || cols != 2 {
		t.Fatalf("unexpected probas shape (%d, %d)", rows, cols)
	}
	for i := 0; i < rows; i++ {
		sum := probas.At(i, 0) + probas.At(i, 1)
		if sum < 0.999 || sum > 1.001 {
			t.Errorf("row %d probabilities sum to %v", i, sum)
		}
	}
}

func TestLogisticRegressionNonBinaryLabels(t *testing.T) {
	X := mat.NewDense(3, 1, []float64{1, 2, 3})
	y := mat.NewDense(3, 1, []float64{0, 1, 2})

	lr := NewLogisticRegression()
	if err := lr.Fit(X, y); err == nil {
		t.Error("Fit with 3 classes should fail")
	}
}

func TestLogisticRegressionPredictBeforeFit(t *testing.T) {
	lr := NewLogisticRegression()
	if _, err := lr.Predict(mat.NewDense(1, 1, nil)); err == nil {
		t.Error("Predict before Fit should fail")
	}
}

func TestLogisticRegressionNonZeroOneLabels(t *testing.T) {
	// Labels other than 0/1 must round-trip through prediction.
	X, _ := separableData()
	y := mat.NewDense(8, 1, []float64{2, 2, 2, 2, 7, 7, 7, 7})

	lr := NewLogisticRegression(WithLRRandomState(1), WithLRMaxIter(500))
	if err := lr.Fit(X, y); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	preds, err := lr.Predict(X)
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}
	for i := 0; i < 8; i++ {
		if got := preds.At(i, 0); got != 2 && got != 7 {
			t.Errorf("sample %d: predicted %v, want one of the training labels", i, got)
		}
	}
}

func TestLogisticRegressionClone(t *testing.T) {
	lr := NewLogisticRegression(WithLRC(0.5), WithLRMaxIter(50), WithLRRandomState(3))
	X, y := separableData()
	if err := lr.Fit(X, y); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	clone := lr.CloneClassifier().(*LogisticRegression)

	if clone.IsFitted() {
		t.Error("clone must be untrained")
	}
	if clone.c != 0.5 || clone.maxIter != 50 {
		t.Error("clone must keep hyperparameters")
	}
	if len(clone.coef) != 0 {
		t.Error("clone must not carry learned weights")
	}
}
