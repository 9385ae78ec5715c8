package model_selection

import (
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestKFoldSplit(t *testing.T) {
	tests := []struct {
		name     string
		nSamples int
		k        int
		shuffle  bool
	}{
		{name: "Even split", nSamples: 10, k: 5},
		{name: "Uneven split", nSamples: 11, k: 3},
		{name: "Two folds", nSamples: 7, k: 2},
		{name: "Shuffled", nSamples: 20, k: 4, shuffle: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			X := mat.NewDense(tt.nSamples, 2, nil)
			y := mat.NewDense(tt.nSamples, 1, nil)

			kf := NewKFold(tt.k, tt.shuffle, 42)
			folds := kf.Split(X, y)

			if len(folds) != tt.k {
				t.Fatalf("expected %d folds, got %d", tt.k, len(folds))
			}

			// Every sample appears in exactly one test set.
			testCount := make(map[int]int)
			for _, fold := range folds {
				if len(fold.TrainIndices)+len(fold.TestIndices) != tt.nSamples {
					t.Errorf("train+test = %d, want %d",
						len(fold.TrainIndices)+len(fold.TestIndices), tt.nSamples)
				}
				trainSet := make(map[int]bool)
				for _, idx := range fold.TrainIndices {
					trainSet[idx] = true
				}
				for _, idx := range fold.TestIndices {
					if trainSet[idx] {
						t.Errorf("index %d in both train and test", idx)
					}
					testCount[idx]++
				}
			}
			for i := 0; i < tt.nSamples; i++ {
				if testCount[i] != 1 {
					t.Errorf("sample %d appears in %d test sets, want 1", i, testCount[i])
				}
			}
		})
	}
}

func TestKFoldDefaultsToFive(t *testing.T) {
	kf := NewKFold(1, false, 0)
	if kf.NSplits() != 5 {
		t.Errorf("NSplits() = %d, want 5", kf.NSplits())
	}
}

func TestKFoldDeterministicWithSeed(t *testing.T) {
	X := mat.NewDense(12, 1, nil)
	y := mat.NewDense(12, 1, nil)

	a := NewKFold(3, true, 7).Split(X, y)
	b := NewKFold(3, true, 7).Split(X, y)

	for i := range a {
		if len(a[i].TestIndices) != len(b[i].TestIndices) {
			t.Fatalf("fold %d test sizes differ", i)
		}
		for j := range a[i].TestIndices {
			if a[i].TestIndices[j] != b[i].TestIndices[j] {
				t.Fatalf("fold %d not deterministic for a fixed seed", i)
			}
		}
	}
}

func TestStratifiedKFoldBalance(t *testing.T) {
	// 8 positives, 8 negatives across 4 folds: each test fold should get
	// exactly 2 of each class.
	nSamples := 16
	X := mat.NewDense(nSamples, 1, nil)
	y := mat.NewDense(nSamples, 1, nil)
	for i := 0; i < nSamples; i++ {
		y.Set(i, 0, float64(i%2))
	}

	skf := NewStratifiedKFold(4, false, 0)
	folds := skf.Split(X, y)

	if len(folds) != 4 {
		t.Fatalf("expected 4 folds, got %d", len(folds))
	}

	for i, fold := range folds {
		pos, neg := 0, 0
		for _, idx := range fold.TestIndices {
			if y.At(idx, 0) == 1 {
				pos++
			} else {
				neg++
			}
		}
		if pos != 2 || neg != 2 {
			t.Errorf("fold %d: got %d positives and %d negatives, want 2 and 2", i, pos, neg)
		}
	}
}

func TestStratifiedKFoldCoversAllSamples(t *testing.T) {
	nSamples := 13
	X := mat.NewDense(nSamples, 1, nil)
	y := mat.NewDense(nSamples, 1, nil)
	for i := 0; i < nSamples; i++ {
		if i < 4 {
			y.Set(i, 0, 1)
		}
	}

	folds := NewStratifiedKFold(3, true, 99).Split(X, y)

	testCount := make(map[int]int)
	for _, fold := range folds {
		for _, idx := range fold.TestIndices {
			testCount[idx]++
		}
	}
	for i := 0; i < nSamples; i++ {
		if testCount[i] != 1 {
			t.Errorf("sample %d appears in %d test sets, want 1", i, testCount[i])
		}
	}
}
