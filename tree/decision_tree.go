// Package tree provides decision tree classifiers.
package tree

import (
	"math"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/clfbench/clfbench/core/model"
	"github.com/clfbench/clfbench/pkg/errors"
)

// treeNode is one node of a fitted tree. Leaves carry the class
// distribution of the training samples that reached them.
type treeNode struct {
	feature   int
	threshold float64
	left      *treeNode
	right     *treeNode
	counts    []float64 // per-class sample counts, leaves only
	isLeaf    bool
}

// DecisionTreeClassifier implements a CART-style classification tree.
type DecisionTreeClassifier struct {
	model.BaseEstimator

	criterion       string // "gini" or "entropy"
	maxDepth        int    // 0 means unlimited
	minSamplesSplit int
	maxFeatures     int    // 0 means all features
	splitter        string // "best" or "random"
	randomState     int64

	root      *treeNode
	classes   []float64
	nFeatures int
	rand      *rand.Rand
}

// DecisionTreeOption is a functional option for DecisionTreeClassifier.
type DecisionTreeOption func(*DecisionTreeClassifier)

// NewDecisionTreeClassifier creates a DecisionTreeClassifier.
func NewDecisionTreeClassifier(opts ...DecisionTreeOption) *DecisionTreeClassifier {
	dt := &DecisionTreeClassifier{
		criterion:       "gini",
		minSamplesSplit: 2,
		splitter:        "best",
		randomState:     -1,
	}
	for _, opt := range opts {
		opt(dt)
	}

	if dt.randomState >= 0 {
		dt.rand = rand.New(rand.NewSource(dt.randomState))
	} else {
		dt.rand = rand.New(rand.NewSource(rand.Int63()))
	}

	return dt
}

// WithCriterion sets the split quality criterion ("gini" or "entropy").
func WithCriterion(criterion string) DecisionTreeOption {
	return func(dt *DecisionTreeClassifier) {
		dt.criterion = criterion
	}
}

// WithMaxDepth limits the tree depth. Zero means unlimited.
func WithMaxDepth(depth int) DecisionTreeOption {
	return func(dt *DecisionTreeClassifier) {
		dt.maxDepth = depth
	}
}

// WithMinSamplesSplit sets the minimum node size eligible for splitting.
func WithMinSamplesSplit(n int) DecisionTreeOption {
	return func(dt *DecisionTreeClassifier) {
		dt.minSamplesSplit = n
	}
}

// WithMaxFeatures limits how many features are considered per split.
// Zero means all features.
func WithMaxFeatures(n int) DecisionTreeOption {
	return func(dt *DecisionTreeClassifier) {
		dt.maxFeatures = n
	}
}

// WithSplitter selects the split strategy: "best" picks the best threshold
// per feature, "random" draws one threshold per feature at random (as in
// extremely randomized trees).
func WithSplitter(splitter string) DecisionTreeOption {
	return func(dt *DecisionTreeClassifier) {
		dt.splitter = splitter
	}
}

// WithTreeRandomState sets the random seed for feature and threshold
// sampling.
func WithTreeRandomState(seed int64) DecisionTreeOption {
	return func(dt *DecisionTreeClassifier) {
		dt.randomState = seed
	}
}

// Fit grows the tree on the training data.
func (dt *DecisionTreeClassifier) Fit(X, y mat.Matrix) error {
	nSamples, nFeatures := X.Dims()
	yRows, yCols := y.Dims()

	if nSamples == 0 {
		return errors.NewModelError("DecisionTreeClassifier.Fit", "empty data", errors.ErrEmptyData)
	}
	if nSamples != yRows {
		return errors.NewDimensionError("DecisionTreeClassifier.Fit", nSamples, yRows, 0)
	}
	if yCols != 1 {
		return errors.NewValueError("DecisionTreeClassifier.Fit", "y must be a column vector")
	}
	if dt.criterion != "gini" && dt.criterion != "entropy" {
		return errors.NewValidationError("criterion", "must be \"gini\" or \"entropy\"", dt.criterion)
	}

	classSet := make(map[float64]bool)
	for i := 0; i < nSamples; i++ {
		classSet[y.At(i, 0)] = true
	}
	dt.classes = make([]float64, 0, len(classSet))
	for label := range classSet {
		dt.classes = append(dt.classes, label)
	}
	sort.Float64s(dt.classes)
	dt.nFeatures = nFeatures

	indices := make([]int, nSamples)
	for i := range indices {
		indices[i] = i
	}

	dt.root = dt.buildNode(X, y, indices, 0)
	dt.SetFitted()
	return nil
}

// classIndex maps a label to its position in dt.classes.
func (dt *DecisionTreeClassifier) classIndex(label float64) int {
	for i, c := range dt.classes {
		if c == label {
			return i
		}
	}
	return 0
}

// countClasses tallies the class distribution over the given rows.
func (dt *DecisionTreeClassifier) countClasses(y mat.Matrix, indices []int) []float64 {
	counts := make([]float64, len(dt.classes))
	for _, idx := range indices {
		counts[dt.classIndex(y.At(idx, 0))]++
	}
	return counts
}

// impurity computes the configured impurity of a class distribution.
func (dt *DecisionTreeClassifier) impurity(counts []float64, total float64) float64 {
	if total == 0 {
		return 0
	}
	switch dt.criterion {
	case "entropy":
		entropy := 0.0
		for _, c := range counts {
			if c > 0 {
				p := c / total
				entropy -= p * math.Log2(p)
			}
		}
		return entropy
	default: // gini
		gini := 1.0
		for _, c := range counts {
			p := c / total
			gini -= p * p
		}
		return gini
	}
}

// buildNode grows the subtree for the given rows recursively.
func (dt *DecisionTreeClassifier) buildNode(X, y mat.Matrix, indices []int, depth int) *treeNode {
	counts := dt.countClasses(y, indices)

	pure := false
	for _, c := range counts {
		if c == float64(len(indices)) {
			pure = true
			break
		}
	}

	if pure ||
		len(indices) < dt.minSamplesSplit ||
		(dt.maxDepth > 0 && depth >= dt.maxDepth) {
		return &treeNode{isLeaf: true, counts: counts}
	}

	feature, threshold, ok := dt.findSplit(X, y, indices, counts)
	if !ok {
		return &treeNode{isLeaf: true, counts: counts}
	}

	var left, right []int
	for _, idx := range indices {
		if X.At(idx, feature) <= threshold {
			left = append(left, idx)
		} else {
			right = append(right, idx)
		}
	}
	if len(left) == 0 || len(right) == 0 {
		return &treeNode{isLeaf: true, counts: counts}
	}

	return &treeNode{
		feature:   feature,
		threshold: threshold,
		left:      dt.buildNode(X, y, left, depth+1),
		right:     dt.buildNode(X, y, right, depth+1),
	}
}

// findSplit searches for the impurity-minimizing (feature, threshold)
// pair over the sampled feature subset.
func (dt *DecisionTreeClassifier) findSplit(X, y mat.Matrix, indices []int, parentCounts []float64) (int, float64, bool) {
	total := float64(len(indices))
	parentImpurity := dt.impurity(parentCounts, total)

	bestGain := 0.0
	bestFeature := -1
	bestThreshold := 0.0

	for _, feature := range dt.sampleFeatures() {
		thresholds := dt.candidateThresholds(X, indices, feature)

		for _, threshold := range thresholds {
			leftCounts := make([]float64, len(dt.classes))
			leftTotal := 0.0
			for _, idx := range indices {
				if X.At(idx, feature) <= threshold {
					leftCounts[dt.classIndex(y.At(idx, 0))]++
					leftTotal++
				}
			}
			rightTotal := total - leftTotal
			if leftTotal == 0 || rightTotal == 0 {
				continue
			}

			rightCounts := make([]float64, len(dt.classes))
			for i := range rightCounts {
				rightCounts[i] = parentCounts[i] - leftCounts[i]
			}

			gain := parentImpurity -
				(leftTotal/total)*dt.impurity(leftCounts, leftTotal) -
				(rightTotal/total)*dt.impurity(rightCounts, rightTotal)

			if gain > bestGain {
				bestGain = gain
				bestFeature = feature
				bestThreshold = threshold
			}
		}
	}

	return bestFeature, bestThreshold, bestFeature >= 0
}

// sampleFeatures returns the feature indices considered at one split.
func (dt *DecisionTreeClassifier) sampleFeatures() []int {
	features := make([]int, dt.nFeatures)
	for i := range features {
		features[i] = i
	}

	if dt.maxFeatures <= 0 || dt.maxFeatures >= dt.nFeatures {
		return features
	}

	dt.rand.Shuffle(len(features), func(i, j int) {
		features[i], features[j] = features[j], features[i]
	})
	return features[:dt.maxFeatures]
}

// candidateThresholds returns the thresholds evaluated for one feature:
// midpoints between consecutive distinct values for the "best" splitter,
// or a single uniform draw from the value range for "random".
func (dt *DecisionTreeClassifier) candidateThresholds(X mat.Matrix, indices []int, feature int) []float64 {
	values := make([]float64, 0, len(indices))
	for _, idx := range indices {
		values = append(values, X.At(idx, feature))
	}
	sort.Float64s(values)

	min, max := values[0], values[len(values)-1]
	if min == max {
		return nil
	}

	if dt.splitter == "random" {
		return []float64{min + dt.rand.Float64()*(max-min)}
	}

	thresholds := make([]float64, 0, len(values)-1)
	for i := 1; i < len(values); i++ {
		if values[i] != values[i-1] {
			thresholds = append(thresholds, (values[i]+values[i-1])/2)
		}
	}
	return thresholds
}

// Predict returns the majority class of the leaf each row falls into.
func (dt *DecisionTreeClassifier) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !dt.IsFitted() {
		return nil, errors.NewNotFittedError("DecisionTreeClassifier", "Predict")
	}

	nSamples, nFeatures := X.Dims()
	if nFeatures != dt.nFeatures {
		return nil, errors.NewDimensionError("DecisionTreeClassifier.Predict", dt.nFeatures, nFeatures, 1)
	}

	predictions := mat.NewDense(nSamples, 1, nil)
	for i := 0; i < nSamples; i++ {
		counts := dt.leafCounts(X, i)
		best := 0
		for c := range counts {
			if counts[c] > counts[best] {
				best = c
			}
		}
		predictions.Set(i, 0, dt.classes[best])
	}

	return predictions, nil
}

// PredictProba returns per-class leaf frequencies as an n x n_classes
// matrix, columns ordered by ascending class value.
func (dt *DecisionTreeClassifier) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	if !dt.IsFitted() {
		return nil, errors.NewNotFittedError("DecisionTreeClassifier", "PredictProba")
	}

	nSamples, nFeatures := X.Dims()
	if nFeatures != dt.nFeatures {
		return nil, errors.NewDimensionError("DecisionTreeClassifier.PredictProba", dt.nFeatures, nFeatures, 1)
	}

	probas := mat.NewDense(nSamples, len(dt.classes), nil)
	for i := 0; i < nSamples; i++ {
		counts := dt.leafCounts(X, i)
		total := 0.0
		for _, c := range counts {
			total += c
		}
		for c := range counts {
			probas.Set(i, c, counts[c]/total)
		}
	}

	return probas, nil
}

// leafCounts walks row i of X down to its leaf and returns the class
// distribution there.
func (dt *DecisionTreeClassifier) leafCounts(X mat.Matrix, i int) []float64 {
	node := dt.root
	for !node.isLeaf {
		if X.At(i, node.feature) <= node.threshold {
			node = node.left
		} else {
			node = node.right
		}
	}
	return node.counts
}

// CloneClassifier returns an untrained copy with the same hyperparameters.
func (dt *DecisionTreeClassifier) CloneClassifier() model.Classifier {
	return NewDecisionTreeClassifier(
		WithCriterion(dt.criterion),
		WithMaxDepth(dt.maxDepth),
		WithMinSamplesSplit(dt.minSamplesSplit),
		WithMaxFeatures(dt.maxFeatures),
		WithSplitter(dt.splitter),
		WithTreeRandomState(dt.randomState),
	)
}

// Classes returns the class labels seen during Fit, ascending.
func (dt *DecisionTreeClassifier) Classes() []float64 {
	out := make([]float64, len(dt.classes))
	copy(out, dt.classes)
	return out
}
