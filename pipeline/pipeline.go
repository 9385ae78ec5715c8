// Package pipeline chains preprocessing transformers with an optional final
// classifier, so one preprocessing recipe can be shared across candidates.
package pipeline

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/clfbench/clfbench/core/model"
	"github.com/clfbench/clfbench/pkg/errors"
)

// Step is one named preprocessing stage.
type Step struct {
	Name        string
	Transformer model.Transformer
}

// Pipeline applies its steps in order and, when a final classifier is set,
// behaves as a model.Classifier itself: Fit fit-transforms through every
// step before training the classifier, Predict transforms before
// predicting.
type Pipeline struct {
	model.BaseEstimator

	steps []Step

	estimatorName string
	estimator     model.Classifier
}

// New creates a pipeline from the given preprocessing steps. Step names
// must be unique and non-empty.
func New(steps ...Step) (*Pipeline, error) {
	seen := make(map[string]bool, len(steps))
	for _, step := range steps {
		if step.Name == "" {
			return nil, errors.NewValidationError("steps", "step name must not be empty", step.Name)
		}
		if step.Transformer == nil {
			return nil, errors.NewValidationError("steps", "step transformer must not be nil", step.Name)
		}
		if seen[step.Name] {
			return nil, errors.NewValidationError("steps", "duplicate step name", step.Name)
		}
		seen[step.Name] = true
	}

	p := &Pipeline{steps: make([]Step, len(steps))}
	copy(p.steps, steps)
	return p, nil
}

// Steps returns a copy of the preprocessing steps.
func (p *Pipeline) Steps() []Step {
	out := make([]Step, len(p.steps))
	copy(out, p.steps)
	return out
}

// Estimator returns the final classifier, or nil when none is set.
func (p *Pipeline) Estimator() model.Classifier {
	return p.estimator
}

// EstimatorName returns the name of the final classifier step.
func (p *Pipeline) EstimatorName() string {
	return p.estimatorName
}

// SetEstimator installs the final classifier step.
func (p *Pipeline) SetEstimator(name string, clf model.Classifier) {
	p.estimatorName = name
	p.estimator = clf
}

// Clone returns an untrained deep copy: every transformer is cloned and,
// when present, so is the final classifier. The copy shares no mutable
// state with the original.
func (p *Pipeline) Clone() *Pipeline {
	clone := &Pipeline{steps: make([]Step, len(p.steps))}
	for i, step := range p.steps {
		clone.steps[i] = Step{
			Name:        step.Name,
			Transformer: step.Transformer.CloneTransformer(),
		}
	}
	if p.estimator != nil {
		clone.estimatorName = p.estimatorName
		clone.estimator = p.estimator.CloneClassifier()
	}
	return clone
}

// Fit fit-transforms the data through every step and trains the final
// classifier on the result.
func (p *Pipeline) Fit(X, y mat.Matrix) error {
	if p.estimator == nil {
		return errors.NewValueError("Pipeline.Fit", "no final classifier has been set")
	}

	current := X
	for _, step := range p.steps {
		transformed, err := step.Transformer.FitTransform(current)
		if err != nil {
			return errors.Wrapf(err, "Pipeline.Fit: step %q", step.Name)
		}
		current = transformed
	}

	if err := p.estimator.Fit(current, y); err != nil {
		return errors.Wrapf(err, "Pipeline.Fit: estimator %q", p.estimatorName)
	}

	p.SetFitted()
	return nil
}

// Predict transforms the data through every fitted step and predicts with
// the final classifier.
func (p *Pipeline) Predict(X mat.Matrix) (mat.Matrix, error) {
	if p.estimator == nil {
		return nil, errors.NewValueError("Pipeline.Predict", "no final classifier has been set")
	}
	if !p.IsFitted() {
		return nil, errors.NewNotFittedError("Pipeline", "Predict")
	}

	current := X
	for _, step := range p.steps {
		transformed, err := step.Transformer.Transform(current)
		if err != nil {
			return nil, errors.Wrapf(err, "Pipeline.Predict: step %q", step.Name)
		}
		current = transformed
	}

	return p.estimator.Predict(current)
}

// CloneClassifier implements model.Classifier so a pipeline with a final
// classifier can stand in wherever a bare classifier is expected.
func (p *Pipeline) CloneClassifier() model.Classifier {
	return p.Clone()
}

// String returns a textual representation of the pipeline.
func (p *Pipeline) String() string {
	names := make([]string, 0, len(p.steps)+1)
	for _, step := range p.steps {
		names = append(names, step.Name)
	}
	if p.estimator != nil {
		names = append(names, p.estimatorName)
	}
	return fmt.Sprintf("Pipeline(%s)", strings.Join(names, " -> "))
}
