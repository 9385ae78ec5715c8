// Package neighbors provides nearest neighbor classifiers.
package neighbors

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/clfbench/clfbench/core/model"
	"github.com/clfbench/clfbench/pkg/errors"
)

// KNeighborsClassifier predicts by majority vote among the k training
// samples closest to the query point. Fit only stores the training data;
// all work happens at prediction time.
type KNeighborsClassifier struct {
	model.BaseEstimator

	nNeighbors int
	weights    string // "uniform" or "distance"

	trainX  *mat.Dense
	trainY  []float64
	classes []float64
}

// KNNOption configures a KNeighborsClassifier.
type KNNOption func(*KNeighborsClassifier)

// WithNNeighbors sets the number of neighbors consulted per query
// (default 5).
func WithNNeighbors(k int) KNNOption {
	return func(c *KNeighborsClassifier) {
		c.nNeighbors = k
	}
}

// WithWeights sets the vote weighting: "uniform" counts each neighbor
// once, "distance" weights votes by inverse distance.
func WithWeights(weights string) KNNOption {
	return func(c *KNeighborsClassifier) {
		c.weights = weights
	}
}

// NewKNeighborsClassifier creates a KNeighborsClassifier.
func NewKNeighborsClassifier(opts ...KNNOption) *KNeighborsClassifier {
	c := &KNeighborsClassifier{
		nNeighbors: 5,
		weights:    "uniform",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fit stores the training samples.
func (c *KNeighborsClassifier) Fit(X, y mat.Matrix) error {
	nSamples, nFeatures := X.Dims()
	yRows, yCols := y.Dims()

	if nSamples == 0 {
		return errors.NewModelError("KNeighborsClassifier.Fit", "empty data", errors.ErrEmptyData)
	}
	if nSamples != yRows {
		return errors.NewDimensionError("KNeighborsClassifier.Fit", nSamples, yRows, 0)
	}
	if yCols != 1 {
		return errors.NewValueError("KNeighborsClassifier.Fit", "y must be a column vector")
	}
	if c.nNeighbors < 1 {
		return errors.NewValidationError("n_neighbors", "must be at least 1", c.nNeighbors)
	}
	if c.nNeighbors > nSamples {
		return errors.NewValidationError("n_neighbors", "must not exceed the number of training samples", c.nNeighbors)
	}
	if c.weights != "uniform" && c.weights != "distance" {
		return errors.NewValidationError("weights", "must be \"uniform\" or \"distance\"", c.weights)
	}

	c.trainX = mat.NewDense(nSamples, nFeatures, nil)
	c.trainX.Copy(X)
	c.trainY = make([]float64, nSamples)
	classSet := make(map[float64]bool)
	for i := 0; i < nSamples; i++ {
		c.trainY[i] = y.At(i, 0)
		classSet[c.trainY[i]] = true
	}
	c.classes = make([]float64, 0, len(classSet))
	for label := range classSet {
		c.classes = append(c.classes, label)
	}
	sort.Float64s(c.classes)

	c.SetFitted()
	return nil
}

// Predict returns the majority label of the k nearest training samples
// for each query row, as an n x 1 matrix.
func (c *KNeighborsClassifier) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !c.IsFitted() {
		return nil, errors.NewNotFittedError("KNeighborsClassifier", "Predict")
	}

	nSamples, nFeatures := X.Dims()
	_, trainFeatures := c.trainX.Dims()
	if nFeatures != trainFeatures {
		return nil, errors.NewDimensionError("KNeighborsClassifier.Predict", trainFeatures, nFeatures, 1)
	}

	classIdx := make(map[float64]int, len(c.classes))
	for i, label := range c.classes {
		classIdx[label] = i
	}

	predictions := mat.NewDense(nSamples, 1, nil)
	for i := 0; i < nSamples; i++ {
		neighbors := c.nearest(X, i)
		votes := make([]float64, len(c.classes))
		for _, nb := range neighbors {
			weight := 1.0
			if c.weights == "distance" {
				// An exact hit dominates the vote.
				if nb.dist == 0 {
					weight = math.Inf(1)
				} else {
					weight = 1.0 / nb.dist
				}
			}
			votes[classIdx[c.trainY[nb.index]]] += weight
		}
		best := 0
		for cls := range votes {
			if votes[cls] > votes[best] {
				best = cls
			}
		}
		predictions.Set(i, 0, c.classes[best])
	}

	return predictions, nil
}

type neighbor struct {
	index int
	dist  float64
}

// nearest returns the k training samples closest to query row i by
// Euclidean distance, nearest first. Ties break on training order.
func (c *KNeighborsClassifier) nearest(X mat.Matrix, i int) []neighbor {
	nTrain, nFeatures := c.trainX.Dims()
	dists := make([]neighbor, nTrain)
	for t := 0; t < nTrain; t++ {
		var sum float64
		for j := 0; j < nFeatures; j++ {
			d := X.At(i, j) - c.trainX.At(t, j)
			sum += d * d
		}
		dists[t] = neighbor{index: t, dist: math.Sqrt(sum)}
	}
	sort.SliceStable(dists, func(a, b int) bool {
		return dists[a].dist < dists[b].dist
	})
	return dists[:c.nNeighbors]
}

// CloneClassifier returns an untrained copy with the same hyperparameters.
func (c *KNeighborsClassifier) CloneClassifier() model.Classifier {
	return NewKNeighborsClassifier(
		WithNNeighbors(c.nNeighbors),
		WithWeights(c.weights),
	)
}

// Classes returns the class labels seen during Fit, ascending.
func (c *KNeighborsClassifier) Classes() []float64 {
	out := make([]float64, len(c.classes))
	copy(out, c.classes)
	return out
}
