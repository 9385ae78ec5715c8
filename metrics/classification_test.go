package metrics

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/clfbench/clfbench/pkg/errors"
)

func TestAccuracy(t *testing.T) {
	tests := []struct {
		name    string
		yTrue   []float64
		yPred   []float64
		want    float64
		wantErr bool
	}{
		{
			name:  "Perfect accuracy",
			yTrue: []float64{0, 1, 1, 0},
			yPred: []float64{0, 1, 1, 0},
			want:  1.0,
		},
		{
			name:  "Half correct",
			yTrue: []float64{0, 0, 1, 1},
			yPred: []float64{0, 1, 1, 0},
			want:  0.5,
		},
		{
			name:  "Zero accuracy",
			yTrue: []float64{0, 0, 0},
			yPred: []float64{1, 1, 1},
			want:  0.0,
		},
		{
			name:    "Empty vectors",
			yTrue:   []float64{},
			yPred:   []float64{},
			wantErr: true,
		},
		{
			name:    "Dimension mismatch",
			yTrue:   []float64{0, 1},
			yPred:   []float64{0},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Accuracy(vecOrNil(tt.yTrue), vecOrNil(tt.yPred))
			if (err != nil) != tt.wantErr {
				t.Errorf("Accuracy() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Accuracy() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPrecision(t *testing.T) {
	tests := []struct {
		name    string
		yTrue   []float64
		yPred   []float64
		want    float64
		wantErr bool
	}{
		{
			name:  "Perfect precision",
			yTrue: []float64{0, 0, 1, 1},
			yPred: []float64{0, 0, 1, 1},
			want:  1.0,
		},
		{
			name:  "One false positive",
			yTrue: []float64{0, 0, 1, 1},
			yPred: []float64{0, 1, 1, 1},
			want:  2.0 / 3.0,
		},
		{
			name:  "No predicted positives is undefined",
			yTrue: []float64{0, 1, 1},
			yPred: []float64{0, 0, 0},
			want:  0.0,
		},
		{
			name:    "Non-binary labels",
			yTrue:   []float64{0, 2, 1},
			yPred:   []float64{0, 1, 1},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Precision(vecOrNil(tt.yTrue), vecOrNil(tt.yPred))
			if (err != nil) != tt.wantErr {
				t.Errorf("Precision() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Precision() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRecall(t *testing.T) {
	tests := []struct {
		name    string
		yTrue   []float64
		yPred   []float64
		want    float64
		wantErr bool
	}{
		{
			name:  "Perfect recall",
			yTrue: []float64{0, 1, 1},
			yPred: []float64{0, 1, 1},
			want:  1.0,
		},
		{
			name:  "One missed positive",
			yTrue: []float64{0, 1, 1, 1, 0},
			yPred: []float64{0, 1, 1, 0, 0},
			want:  2.0 / 3.0,
		},
		{
			name:  "No true positives is undefined",
			yTrue: []float64{0, 0, 0},
			yPred: []float64{0, 1, 0},
			want:  0.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Recall(vecOrNil(tt.yTrue), vecOrNil(tt.yPred))
			if (err != nil) != tt.wantErr {
				t.Errorf("Recall() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Recall() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestF1Score(t *testing.T) {
	tests := []struct {
		name    string
		yTrue   []float64
		yPred   []float64
		want    float64
		wantErr bool
	}{
		{
			name:  "Perfect predictions",
			yTrue: []float64{0, 1, 1, 0},
			yPred: []float64{0, 1, 1, 0},
			want:  1.0,
		},
		{
			// precision 2/3, recall 2/3 -> f1 2/3
			name:  "Balanced errors",
			yTrue: []float64{1, 1, 1, 0, 0, 0},
			yPred: []float64{1, 1, 0, 1, 0, 0},
			want:  2.0 / 3.0,
		},
		{
			name:  "No positives anywhere is undefined",
			yTrue: []float64{0, 0, 0},
			yPred: []float64{0, 0, 0},
			want:  0.0,
		},
		{
			name:    "Empty vectors",
			yTrue:   []float64{},
			yPred:   []float64{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := F1Score(vecOrNil(tt.yTrue), vecOrNil(tt.yPred))
			if (err != nil) != tt.wantErr {
				t.Errorf("F1Score() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("F1Score() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestROCAUC(t *testing.T) {
	tests := []struct {
		name    string
		yTrue   []float64
		yPred   []float64
		want    float64
		wantErr bool
	}{
		{
			name:  "Perfect classifier",
			yTrue: []float64{0, 0, 0, 1, 1, 1},
			yPred: []float64{0.1, 0.2, 0.3, 0.7, 0.8, 0.9},
			want:  1.0,
		},
		{
			name:  "Worst classifier",
			yTrue: []float64{0, 0, 0, 1, 1, 1},
			yPred: []float64{0.9, 0.8, 0.7, 0.3, 0.2, 0.1},
			want:  0.0,
		},
		{
			name:  "Random classifier",
			yTrue: []float64{0, 1, 0, 1},
			yPred: []float64{0.5, 0.5, 0.5, 0.5},
			want:  0.5,
		},
		{
			name:  "Typical case",
			yTrue: []float64{0, 0, 1, 1},
			yPred: []float64{0.1, 0.4, 0.35, 0.8},
			want:  0.75,
		},
		{
			name:  "Hard labels",
			yTrue: []float64{0, 0, 1, 1},
			yPred: []float64{0, 1, 1, 1},
			want:  0.75,
		},
		{
			name:  "All positive labels",
			yTrue: []float64{1, 1, 1, 1},
			yPred: []float64{0.1, 0.4, 0.35, 0.8},
			want:  0.5, // undefined case, returns 0.5
		},
		{
			name:    "Non-binary labels",
			yTrue:   []float64{0, 0.5, 1},
			yPred:   []float64{0.1, 0.5, 0.9},
			wantErr: true,
		},
		{
			name:    "Dimension mismatch",
			yTrue:   []float64{0, 1},
			yPred:   []float64{0.5},
			wantErr: true,
		},
		{
			name:    "Empty vectors",
			yTrue:   []float64{},
			yPred:   []float64{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ROCAUC(vecOrNil(tt.yTrue), vecOrNil(tt.yPred))
			if (err != nil) != tt.wantErr {
				t.Errorf("ROCAUC() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && math.Abs(got-tt.want) > 1e-6 {
				t.Errorf("ROCAUC() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUndefinedMetricWarns(t *testing.T) {
	var captured []error
	errors.SetWarningHandler(func(w error) {
		captured = append(captured, w)
	})
	defer errors.SetWarningHandler(func(w error) {})
	errors.SetZerologWarnFunc(nil)

	yTrue := mat.NewVecDense(3, []float64{0, 1, 1})
	yPred := mat.NewVecDense(3, []float64{0, 0, 0})

	if _, err := Precision(yTrue, yPred); err != nil {
		t.Fatalf("Precision failed: %v", err)
	}

	if len(captured) != 1 {
		t.Fatalf("expected 1 warning, got %d", len(captured))
	}
	var undef *errors.UndefinedMetricWarning
	if !errors.As(captured[0], &undef) {
		t.Errorf("expected UndefinedMetricWarning, got %T", captured[0])
	}
}

func TestDefaultScorers(t *testing.T) {
	scorers := DefaultScorers()
	wantNames := []string{"f1_score", "recall_score", "precision_score", "roc_auc_score", "accuracy_score"}

	if len(scorers) != len(wantNames) {
		t.Fatalf("expected %d scorers, got %d", len(wantNames), len(scorers))
	}
	for i, s := range scorers {
		if s.Name != wantNames[i] {
			t.Errorf("scorer %d name = %v, want %v", i, s.Name, wantNames[i])
		}
		if s.Score == nil {
			t.Errorf("scorer %q has nil function", s.Name)
		}
	}

	// Each call builds a fresh slice.
	other := DefaultScorers()
	other[0].Name = "mutated"
	if DefaultScorers()[0].Name != "f1_score" {
		t.Error("DefaultScorers must not share state across calls")
	}
}

func vecOrNil(values []float64) *mat.VecDense {
	if len(values) == 0 {
		return nil
	}
	return mat.NewVecDense(len(values), values)
}
