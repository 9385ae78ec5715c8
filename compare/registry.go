package compare

import (
	"github.com/clfbench/clfbench/core/model"
	"github.com/clfbench/clfbench/ensemble"
	"github.com/clfbench/clfbench/linear_model"
	"github.com/clfbench/clfbench/naive_bayes"
	"github.com/clfbench/clfbench/neighbors"
	"github.com/clfbench/clfbench/pkg/errors"
)

// Registry is an ordered collection of named candidate classifiers.
// Insertion order defines the run and report order of a comparison.
type Registry struct {
	names  []string
	byName map[string]model.Classifier
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]model.Classifier)}
}

// Add registers a classifier under a unique name.
func (r *Registry) Add(name string, clf model.Classifier) error {
	if name == "" {
		return errors.NewValidationError("name", "candidate name must not be empty", name)
	}
	if clf == nil {
		return errors.NewValidationError("classifier", "candidate classifier must not be nil", name)
	}
	if _, exists := r.byName[name]; exists {
		return errors.NewValidationError("name", "candidate name already registered", name)
	}
	r.names = append(r.names, name)
	r.byName[name] = clf
	return nil
}

// Names returns the candidate names in insertion order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Get returns the classifier registered under name.
func (r *Registry) Get(name string) (model.Classifier, bool) {
	clf, ok := r.byName[name]
	return clf, ok
}

// Len returns the number of registered candidates.
func (r *Registry) Len() int {
	return len(r.names)
}

// DefaultClassifiers returns a fresh registry of commonly used
// classifiers with library defaults. A new registry with new estimator
// instances is built on every call so comparators never share state.
func DefaultClassifiers() *Registry {
	r := NewRegistry()
	// Error returns are impossible here: names are unique literals and
	// every classifier is non-nil.
	_ = r.Add("random_forest", ensemble.NewRandomForestClassifier())
	_ = r.Add("extra_trees", ensemble.NewExtraTreesClassifier())
	_ = r.Add("logistic_reg", linear_model.NewLogisticRegression())
	_ = r.Add("knn", neighbors.NewKNeighborsClassifier())
	_ = r.Add("naive_bayes", naive_bayes.NewGaussianNB())
	return r
}
