package pipeline

import (
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/clfbench/clfbench/core/model"
	"github.com/clfbench/clfbench/preprocessing"
)

// constantClassifier predicts a fixed label.
type constantClassifier struct {
	model.BaseEstimator
	label float64
}

func (c *constantClassifier) Fit(_, _ mat.Matrix) error {
	c.SetFitted()
	return nil
}

func (c *constantClassifier) Predict(X mat.Matrix) (mat.Matrix, error) {
	rows, _ := X.Dims()
	out := mat.NewDense(rows, 1, nil)
	for i := 0; i < rows; i++ {
		out.Set(i, 0, c.label)
	}
	return out, nil
}

func (c *constantClassifier) CloneClassifier() model.Classifier {
	return &constantClassifier{label: c.label}
}

func TestNewValidatesSteps(t *testing.T) {
	tests := []struct {
		name    string
		steps   []Step
		wantErr bool
	}{
		{
			name:  "valid single step",
			steps: []Step{{Name: "scaler", Transformer: preprocessing.NewStandardScalerDefault()}},
		},
		{
			name: "duplicate names",
			steps: []Step{
				{Name: "scaler", Transformer: preprocessing.NewStandardScalerDefault()},
				{Name: "scaler", Transformer: preprocessing.NewMinMaxScalerDefault()},
			},
			wantErr: true,
		},
		{
			name:    "empty name",
			steps:   []Step{{Name: "", Transformer: preprocessing.NewStandardScalerDefault()}},
			wantErr: true,
		},
		{
			name:    "nil transformer",
			steps:   []Step{{Name: "scaler", Transformer: nil}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.steps...)
			if (err != nil) != tt.wantErr {
				t.Errorf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestPipelineFitPredict(t *testing.T) {
	p, err := New(Step{Name: "scaler", Transformer: preprocessing.NewStandardScalerDefault()})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	p.SetEstimator("model", &constantClassifier{label: 1})

	X := mat.NewDense(4, 1, []float64{1, 2, 3, 4})
	y := mat.NewDense(4, 1, []float64{0, 0, 1, 1})

	if err := p.Fit(X, y); err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	preds, err := p.Predict(X)
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}
	for i := 0; i < 4; i++ {
		if preds.At(i, 0) != 1 {
			t.Errorf("prediction %d = %v, want 1", i, preds.At(i, 0))
		}
	}
}

func TestPipelineWithoutEstimatorFails(t *testing.T) {
	p, err := New(Step{Name: "scaler", Transformer: preprocessing.NewStandardScalerDefault()})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	X := mat.NewDense(2, 1, []float64{1, 2})
	y := mat.NewDense(2, 1, []float64{0, 1})

	if err := p.Fit(X, y); err == nil {
		t.Error("Fit without a final classifier should fail")
	}
	if _, err := p.Predict(X); err == nil {
		t.Error("Predict without a final classifier should fail")
	}
}

func TestPipelinePredictBeforeFitFails(t *testing.T) {
	p, err := New(Step{Name: "scaler", Transformer: preprocessing.NewStandardScalerDefault()})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	p.SetEstimator("model", &constantClassifier{})

	if _, err := p.Predict(mat.NewDense(1, 1, nil)); err == nil {
		t.Error("Predict before Fit should fail")
	}
}

func TestCloneIsDeepAndUntrained(t *testing.T) {
	scaler := preprocessing.NewStandardScalerDefault()
	p, err := New(Step{Name: "scaler", Transformer: scaler})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	p.SetEstimator("model", &constantClassifier{label: 1})

	clone := p.Clone()

	if clone.IsFitted() {
		t.Error("clone must be untrained")
	}
	if clone.Steps()[0].Transformer == model.Transformer(scaler) {
		t.Error("clone must not share transformer instances with the template")
	}
	if clone.Estimator() == p.Estimator() {
		t.Error("clone must not share the final classifier instance")
	}

	// Fitting one clone must not affect a sibling clone's steps.
	sibling := p.Clone()
	X := mat.NewDense(2, 1, []float64{10, 20})
	y := mat.NewDense(2, 1, []float64{0, 1})
	if err := clone.Fit(X, y); err != nil {
		t.Fatalf("clone Fit failed: %v", err)
	}

	siblingScaler := sibling.Steps()[0].Transformer.(*preprocessing.StandardScaler)
	if siblingScaler.IsFitted() {
		t.Error("fitting one clone leaked state into a sibling clone")
	}
}

func TestPipelineString(t *testing.T) {
	p, err := New(Step{Name: "scaler", Transformer: preprocessing.NewStandardScalerDefault()})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	p.SetEstimator("model", &constantClassifier{})

	want := "Pipeline(scaler -> model)"
	if got := p.String(); got != want {
		t.Errorf("String() = %v, want %v", got, want)
	}
}
