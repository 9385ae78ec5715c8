package neighbors

import (
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestKNNFitPredict(t *testing.T) {
	X := mat.NewDense(8, 2, []float64{
		0.0, 0.0,
		0.1, 0.1,
		0.2, 0.0,
		0.0, 0.2,
		5.0, 5.0,
		5.1, 5.1,
		5.2, 5.0,
		5.0, 5.2,
	})
	y := mat.NewDense(8, 1, []float64{0, 0, 0, 0, 1, 1, 1, 1})

	knn := NewKNeighborsClassifier(WithNNeighbors(3))
	if err := knn.Fit(X, y); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}
	if !knn.IsFitted() {
		t.Error("classifier should be fitted after Fit")
	}

	probe := mat.NewDense(2, 2, []float64{0.05, 0.05, 5.05, 5.05})
	pred, err := knn.Predict(probe)
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}
	if pred.At(0, 0) != 0 {
		t.Errorf("probe near cluster 0 predicted %v, want 0", pred.At(0, 0))
	}
	if pred.At(1, 0) != 1 {
		t.Errorf("probe near cluster 1 predicted %v, want 1", pred.At(1, 0))
	}
}

func TestKNNDistanceWeights(t *testing.T) {
	// Three neighbors of label 1 sit far away, one neighbor of label 0 is
	// adjacent. Uniform voting with k=4 picks 1, distance weighting picks 0.
	X := mat.NewDense(4, 1, []float64{0.0, 10.0, 10.1, 10.2})
	y := mat.NewDense(4, 1, []float64{0, 1, 1, 1})
	probe := mat.NewDense(1, 1, []float64{0.5})

	uniform := NewKNeighborsClassifier(WithNNeighbors(4))
	if err := uniform.Fit(X, y); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}
	pred, err := uniform.Predict(probe)
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}
	if pred.At(0, 0) != 1 {
		t.Errorf("uniform weighting predicted %v, want 1", pred.At(0, 0))
	}

	weighted := NewKNeighborsClassifier(WithNNeighbors(4), WithWeights("distance"))
	if err := weighted.Fit(X, y); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}
	pred, err = weighted.Predict(probe)
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}
	if pred.At(0, 0) != 0 {
		t.Errorf("distance weighting predicted %v, want 0", pred.At(0, 0))
	}
}

func TestKNNValidation(t *testing.T) {
	X := mat.NewDense(3, 1, []float64{0, 1, 2})
	y := mat.NewDense(3, 1, []float64{0, 0, 1})

	tests := []struct {
		name string
		knn  *KNeighborsClassifier
	}{
		{"k too large", NewKNeighborsClassifier(WithNNeighbors(10))},
		{"k zero", NewKNeighborsClassifier(WithNNeighbors(0))},
		{"bad weights", NewKNeighborsClassifier(WithWeights("nope"))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.knn.Fit(X, y); err == nil {
				t.Error("Fit should fail")
			}
		})
	}
}

func TestKNNPredictBeforeFit(t *testing.T) {
	knn := NewKNeighborsClassifier()
	if _, err := knn.Predict(mat.NewDense(1, 1, []float64{0})); err == nil {
		t.Error("Predict before Fit should fail")
	}
}

func TestKNNClone(t *testing.T) {
	X := mat.NewDense(4, 1, []float64{0, 1, 9, 10})
	y := mat.NewDense(4, 1, []float64{0, 0, 1, 1})

	knn := NewKNeighborsClassifier(WithNNeighbors(1), WithWeights("distance"))
	if err := knn.Fit(X, y); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	clone := knn.CloneClassifier()
	kClone, ok := clone.(*KNeighborsClassifier)
	if !ok {
		t.Fatalf("clone has type %T, want *KNeighborsClassifier", clone)
	}
	if kClone.IsFitted() {
		t.Error("clone should be unfitted")
	}
	if kClone.nNeighbors != 1 || kClone.weights != "distance" {
		t.Error("clone should keep hyperparameters")
	}
}
