// Package ensemble provides tree ensemble classifiers.
package ensemble

import (
	"math"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/clfbench/clfbench/core/model"
	"github.com/clfbench/clfbench/core/parallel"
	"github.com/clfbench/clfbench/pkg/errors"
	"github.com/clfbench/clfbench/tree"
)

// forestOptions holds the hyperparameters shared by both forest variants.
type forestOptions struct {
	nEstimators     int
	maxDepth        int
	maxFeatures     int // 0 means sqrt(n_features)
	minSamplesSplit int
	criterion       string
	randomState     int64
}

func defaultForestOptions() forestOptions {
	return forestOptions{
		nEstimators:     100,
		minSamplesSplit: 2,
		criterion:       "gini",
		randomState:     -1,
	}
}

// ForestOption is a functional option shared by RandomForestClassifier and
// ExtraTreesClassifier.
type ForestOption func(*forestOptions)

// WithNEstimators sets the number of trees (default 100).
func WithNEstimators(n int) ForestOption {
	return func(o *forestOptions) {
		o.nEstimators = n
	}
}

// WithForestMaxDepth limits the depth of each tree. Zero means unlimited.
func WithForestMaxDepth(depth int) ForestOption {
	return func(o *forestOptions) {
		o.maxDepth = depth
	}
}

// WithForestMaxFeatures limits the features considered per split.
// Zero means sqrt(n_features).
func WithForestMaxFeatures(n int) ForestOption {
	return func(o *forestOptions) {
		o.maxFeatures = n
	}
}

// WithForestMinSamplesSplit sets the minimum node size eligible for
// splitting.
func WithForestMinSamplesSplit(n int) ForestOption {
	return func(o *forestOptions) {
		o.minSamplesSplit = n
	}
}

// WithForestCriterion sets the split criterion ("gini" or "entropy").
func WithForestCriterion(criterion string) ForestOption {
	return func(o *forestOptions) {
		o.criterion = criterion
	}
}

// WithForestRandomState sets the master random seed. Per-tree seeds are
// derived from it, so a fixed seed makes the whole ensemble reproducible.
func WithForestRandomState(seed int64) ForestOption {
	return func(o *forestOptions) {
		o.randomState = seed
	}
}

// baseForest implements fitting and voting shared by both variants.
type baseForest struct {
	model.BaseEstimator

	opts      forestOptions
	name      string
	bootstrap bool
	splitter  string

	trees     []*tree.DecisionTreeClassifier
	classes   []float64
	nFeatures int
}

func (f *baseForest) fit(X, y mat.Matrix) error {
	nSamples, nFeatures := X.Dims()
	yRows, yCols := y.Dims()

	if nSamples == 0 {
		return errors.NewModelError(f.name+".Fit", "empty data", errors.ErrEmptyData)
	}
	if nSamples != yRows {
		return errors.NewDimensionError(f.name+".Fit", nSamples, yRows, 0)
	}
	if yCols != 1 {
		return errors.NewValueError(f.name+".Fit", "y must be a column vector")
	}
	if f.opts.nEstimators < 1 {
		return errors.NewValidationError("n_estimators", "must be at least 1", f.opts.nEstimators)
	}

	classSet := make(map[float64]bool)
	for i := 0; i < nSamples; i++ {
		classSet[y.At(i, 0)] = true
	}
	f.classes = make([]float64, 0, len(classSet))
	for label := range classSet {
		f.classes = append(f.classes, label)
	}
	sort.Float64s(f.classes)
	f.nFeatures = nFeatures

	maxFeatures := f.opts.maxFeatures
	if maxFeatures <= 0 {
		maxFeatures = int(math.Sqrt(float64(nFeatures)))
		if maxFeatures < 1 {
			maxFeatures = 1
		}
	}

	var seed int64
	if f.opts.randomState >= 0 {
		seed = f.opts.randomState
	} else {
		seed = rand.Int63()
	}
	masterRand := rand.New(rand.NewSource(seed))

	// Draw per-tree seeds and bootstrap samples sequentially so results
	// do not depend on goroutine scheduling.
	treeSeeds := make([]int64, f.opts.nEstimators)
	sampleSets := make([][]int, f.opts.nEstimators)
	for t := 0; t < f.opts.nEstimators; t++ {
		treeSeeds[t] = masterRand.Int63()
		if f.bootstrap {
			samples := make([]int, nSamples)
			for i := range samples {
				samples[i] = masterRand.Intn(nSamples)
			}
			sampleSets[t] = samples
		}
	}

	f.trees = make([]*tree.DecisionTreeClassifier, f.opts.nEstimators)
	fitErrs := make([]error, f.opts.nEstimators)

	parallel.Parallelize(f.opts.nEstimators, func(start, end int) {
		for t := start; t < end; t++ {
			dt := tree.NewDecisionTreeClassifier(
				tree.WithCriterion(f.opts.criterion),
				tree.WithMaxDepth(f.opts.maxDepth),
				tree.WithMinSamplesSplit(f.opts.minSamplesSplit),
				tree.WithMaxFeatures(maxFeatures),
				tree.WithSplitter(f.splitter),
				tree.WithTreeRandomState(treeSeeds[t]),
			)

			XFit, yFit := X, y
			if f.bootstrap {
				XFit, yFit = resample(X, y, sampleSets[t])
			}

			if err := dt.Fit(XFit, yFit); err != nil {
				fitErrs[t] = err
				continue
			}
			f.trees[t] = dt
		}
	})

	for _, err := range fitErrs {
		if err != nil {
			return errors.Wrap(err, f.name+".Fit: tree fit failed")
		}
	}

	f.SetFitted()
	return nil
}

func (f *baseForest) predict(X mat.Matrix) (mat.Matrix, error) {
	if !f.IsFitted() {
		return nil, errors.NewNotFittedError(f.name, "Predict")
	}

	nSamples, nFeatures := X.Dims()
	if nFeatures != f.nFeatures {
		return nil, errors.NewDimensionError(f.name+".Predict", f.nFeatures, nFeatures, 1)
	}

	// Gather every tree's predictions, then majority-vote per sample.
	treePreds := make([]mat.Matrix, len(f.trees))
	predErrs := make([]error, len(f.trees))
	parallel.Parallelize(len(f.trees), func(start, end int) {
		for t := start; t < end; t++ {
			treePreds[t], predErrs[t] = f.trees[t].Predict(X)
		}
	})
	for _, err := range predErrs {
		if err != nil {
			return nil, errors.Wrap(err, f.name+".Predict: tree predict failed")
		}
	}

	classIdx := make(map[float64]int, len(f.classes))
	for i, label := range f.classes {
		classIdx[label] = i
	}

	predictions := mat.NewDense(nSamples, 1, nil)
	for i := 0; i < nSamples; i++ {
		votes := make([]int, len(f.classes))
		for t := range f.trees {
			votes[classIdx[treePreds[t].At(i, 0)]]++
		}
		best := 0
		for c := range votes {
			if votes[c] > votes[best] {
				best = c
			}
		}
		predictions.Set(i, 0, f.classes[best])
	}

	return predictions, nil
}

// resample gathers the bootstrap rows of X and y.
func resample(X, y mat.Matrix, samples []int) (mat.Matrix, mat.Matrix) {
	_, xCols := X.Dims()
	out := mat.NewDense(len(samples), xCols, nil)
	outY := mat.NewDense(len(samples), 1, nil)
	for i, idx := range samples {
		for j := 0; j < xCols; j++ {
			out.Set(i, j, X.At(idx, j))
		}
		outY.Set(i, 0, y.At(idx, 0))
	}
	return out, outY
}

// RandomForestClassifier is a bagged ensemble of decision trees: each tree
// trains on a bootstrap sample and considers a random feature subset per
// split. Predictions are majority votes.
type RandomForestClassifier struct {
	baseForest
}

// NewRandomForestClassifier creates a RandomForestClassifier.
func NewRandomForestClassifier(opts ...ForestOption) *RandomForestClassifier {
	o := defaultForestOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &RandomForestClassifier{baseForest{
		opts:      o,
		name:      "RandomForestClassifier",
		bootstrap: true,
		splitter:  "best",
	}}
}

// Fit trains the forest.
func (rf *RandomForestClassifier) Fit(X, y mat.Matrix) error {
	return rf.fit(X, y)
}

// Predict returns majority-vote predictions as an n x 1 matrix.
func (rf *RandomForestClassifier) Predict(X mat.Matrix) (mat.Matrix, error) {
	return rf.predict(X)
}

// CloneClassifier returns an untrained copy with the same hyperparameters.
func (rf *RandomForestClassifier) CloneClassifier() model.Classifier {
	clone := NewRandomForestClassifier()
	clone.opts = rf.opts
	return clone
}

// Classes returns the class labels seen during Fit, ascending.
func (rf *RandomForestClassifier) Classes() []float64 {
	out := make([]float64, len(rf.classes))
	copy(out, rf.classes)
	return out
}

// ExtraTreesClassifier is an extremely randomized tree ensemble: trees
// train on the full sample and draw split thresholds at random, trading a
// little bias for lower variance and faster fitting.
type ExtraTreesClassifier struct {
	baseForest
}

// NewExtraTreesClassifier creates an ExtraTreesClassifier.
func NewExtraTreesClassifier(opts ...ForestOption) *ExtraTreesClassifier {
	o := defaultForestOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &ExtraTreesClassifier{baseForest{
		opts:     o,
		name:     "ExtraTreesClassifier",
		splitter: "random",
	}}
}

// Fit trains the ensemble.
func (et *ExtraTreesClassifier) Fit(X, y mat.Matrix) error {
	return et.fit(X, y)
}

// Predict returns majority-vote predictions as an n x 1 matrix.
func (et *ExtraTreesClassifier) Predict(X mat.Matrix) (mat.Matrix, error) {
	return et.predict(X)
}

// CloneClassifier returns an untrained copy with the same hyperparameters.
func (et *ExtraTreesClassifier) CloneClassifier() model.Classifier {
	clone := NewExtraTreesClassifier()
	clone.opts = et.opts
	return clone
}

// Classes returns the class labels seen during Fit, ascending.
func (et *ExtraTreesClassifier) Classes() []float64 {
	out := make([]float64, len(et.classes))
	copy(out, et.classes)
	return out
}
