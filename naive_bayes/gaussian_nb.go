// Package naive_bayes provides naive Bayes classifiers.
package naive_bayes

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/clfbench/clfbench/core/model"
	"github.com/clfbench/clfbench/pkg/errors"
)

// GaussianNB implements Gaussian naive Bayes: features are assumed to be
// normally distributed within each class.
type GaussianNB struct {
	model.BaseEstimator

	// VarSmoothing is added to all variances for numerical stability,
	// scaled by the largest feature variance.
	VarSmoothing float64

	classes   []float64
	priors    []float64   // log prior per class
	means     [][]float64 // per class, per feature
	variances [][]float64 // per class, per feature
	nFeatures int
}

// GaussianNBOption is a functional option for GaussianNB.
type GaussianNBOption func(*GaussianNB)

// NewGaussianNB creates a GaussianNB classifier.
func NewGaussianNB(opts ...GaussianNBOption) *GaussianNB {
	nb := &GaussianNB{
		VarSmoothing: 1e-9,
	}
	for _, opt := range opts {
		opt(nb)
	}
	return nb
}

// WithVarSmoothing sets the variance smoothing fraction.
func WithVarSmoothing(smoothing float64) GaussianNBOption {
	return func(nb *GaussianNB) {
		nb.VarSmoothing = smoothing
	}
}

// Fit estimates per-class feature means, variances and class priors.
func (nb *GaussianNB) Fit(X, y mat.Matrix) error {
	nSamples, nFeatures := X.Dims()
	yRows, yCols := y.Dims()

	if nSamples == 0 {
		return errors.NewModelError("GaussianNB.Fit", "empty data", errors.ErrEmptyData)
	}
	if nSamples != yRows {
		return errors.NewDimensionError("GaussianNB.Fit", nSamples, yRows, 0)
	}
	if yCols != 1 {
		return errors.NewValueError("GaussianNB.Fit", "y must be a column vector")
	}

	// Collect class labels and their sample indices.
	classSamples := make(map[float64][]int)
	for i := 0; i < nSamples; i++ {
		label := y.At(i, 0)
		classSamples[label] = append(classSamples[label], i)
	}
	if len(classSamples) < 2 {
		return errors.NewValidationError("y", "expected at least 2 classes", len(classSamples))
	}

	nb.classes = make([]float64, 0, len(classSamples))
	for label := range classSamples {
		nb.classes = append(nb.classes, label)
	}
	sort.Float64s(nb.classes)

	nb.nFeatures = nFeatures
	nb.priors = make([]float64, len(nb.classes))
	nb.means = make([][]float64, len(nb.classes))
	nb.variances = make([][]float64, len(nb.classes))

	// Largest overall feature variance scales the smoothing term.
	maxVariance := 0.0
	for j := 0; j < nFeatures; j++ {
		sum, sumSq := 0.0, 0.0
		for i := 0; i < nSamples; i++ {
			v := X.At(i, j)
			sum += v
			sumSq += v * v
		}
		mean := sum / float64(nSamples)
		if v := sumSq/float64(nSamples) - mean*mean; v > maxVariance {
			maxVariance = v
		}
	}
	epsilon := nb.VarSmoothing * maxVariance
	if epsilon <= 0 {
		epsilon = nb.VarSmoothing
	}

	for c, label := range nb.classes {
		indices := classSamples[label]
		nb.priors[c] = math.Log(float64(len(indices)) / float64(nSamples))
		nb.means[c] = make([]float64, nFeatures)
		nb.variances[c] = make([]float64, nFeatures)

		for j := 0; j < nFeatures; j++ {
			sum := 0.0
			for _, idx := range indices {
				sum += X.At(idx, j)
			}
			mean := sum / float64(len(indices))
			nb.means[c][j] = mean

			sumSq := 0.0
			for _, idx := range indices {
				diff := X.At(idx, j) - mean
				sumSq += diff * diff
			}
			nb.variances[c][j] = sumSq/float64(len(indices)) + epsilon
		}
	}

	nb.SetFitted()
	return nil
}

// Predict returns the class with the highest posterior for each row.
func (nb *GaussianNB) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !nb.IsFitted() {
		return nil, errors.NewNotFittedError("GaussianNB", "Predict")
	}

	nSamples, nFeatures := X.Dims()
	if nFeatures != nb.nFeatures {
		return nil, errors.NewDimensionError("GaussianNB.Predict", nb.nFeatures, nFeatures, 1)
	}

	predictions := mat.NewDense(nSamples, 1, nil)
	for i := 0; i < nSamples; i++ {
		bestScore := math.Inf(-1)
		bestClass := nb.classes[0]

		for c := range nb.classes {
			score := nb.priors[c]
			for j := 0; j < nFeatures; j++ {
				diff := X.At(i, j) - nb.means[c][j]
				variance := nb.variances[c][j]
				score -= 0.5 * (math.Log(2*math.Pi*variance) + diff*diff/variance)
			}
			if score > bestScore {
				bestScore = score
				bestClass = nb.classes[c]
			}
		}

		predictions.Set(i, 0, bestClass)
	}

	return predictions, nil
}

// CloneClassifier returns an untrained copy with the same hyperparameters.
func (nb *GaussianNB) CloneClassifier() model.Classifier {
	return NewGaussianNB(WithVarSmoothing(nb.VarSmoothing))
}

// Classes returns the class labels seen during Fit, ascending.
func (nb *GaussianNB) Classes() []float64 {
	out := make([]float64, len(nb.classes))
	copy(out, nb.classes)
	return out
}
