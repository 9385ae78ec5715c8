// Package compare implements a benchmarking harness for binary
// classifiers: every candidate is cross-validated on the same dataset
// and folds, scored with the same metrics, and timed, so the resulting
// table ranks candidates under identical conditions.
package compare

import (
	"sort"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/clfbench/clfbench/core/model"
	"github.com/clfbench/clfbench/metrics"
	"github.com/clfbench/clfbench/model_selection"
	"github.com/clfbench/clfbench/pipeline"
	"github.com/clfbench/clfbench/pkg/errors"
	"github.com/clfbench/clfbench/pkg/log"
)

// DefaultMetric is the results column BestClassifier ranks by when no
// metric name is given.
const DefaultMetric = "f1_score"

// DefaultCV is the fold count used when none is configured.
const DefaultCV = 5

// CrossValidator produces one out-of-fold prediction per input row.
// Every candidate is held behind this capability during a run, whether
// it is a bare classifier or a preprocessing pipeline.
type CrossValidator interface {
	FitPredictCV(X, y mat.Matrix, folds int) (*mat.VecDense, error)
}

// kfoldRunner runs k-fold cross-validated prediction over a classifier.
type kfoldRunner struct {
	clf model.Classifier
}

func (r kfoldRunner) FitPredictCV(X, y mat.Matrix, folds int) (*mat.VecDense, error) {
	return model_selection.CrossValPredict(r.clf, X, y, model_selection.NewKFold(folds, false, 0))
}

// candidate pairs a registry entry with its runnable form. estimator is
// what BestClassifier hands back: for pipelined candidates it is the
// trailing model step, not the whole pipeline.
type candidate struct {
	name      string
	estimator model.Classifier
	runner    CrossValidator
}

// Comparator cross-validates a set of candidate classifiers on one
// dataset and collects per-candidate scores and timing. The dataset and
// candidate set are fixed at construction; only the results table
// changes, and only as a whole on each Run.
type Comparator struct {
	x       mat.Matrix
	y       mat.Matrix
	yVec    *mat.VecDense
	cv      int
	scorers []metrics.Scorer
	tmpl    *pipeline.Pipeline
	logger  log.Logger

	candidates []candidate
	results    *Results
}

// Option configures a Comparator at construction.
type Option func(*comparatorConfig)

type comparatorConfig struct {
	registry *Registry
	cv       int
	scorers  []metrics.Scorer
	pipeline *pipeline.Pipeline
	logger   log.Logger
}

// WithClassifiers sets the candidate registry. The registry is read at
// construction and never mutated; without this option a fresh
// DefaultClassifiers registry is used.
func WithClassifiers(r *Registry) Option {
	return func(c *comparatorConfig) {
		c.registry = r
	}
}

// WithCV sets the cross-validation fold count (default 5).
func WithCV(folds int) Option {
	return func(c *comparatorConfig) {
		c.cv = folds
	}
}

// WithScorers sets the scorer list (default metrics.DefaultScorers).
func WithScorers(scorers []metrics.Scorer) Option {
	return func(c *comparatorConfig) {
		c.scorers = scorers
	}
}

// WithPipeline sets a shared preprocessing pipeline template. Each
// candidate gets an independent clone of the template with its own
// estimator appended as the trailing step.
func WithPipeline(p *pipeline.Pipeline) Option {
	return func(c *comparatorConfig) {
		c.pipeline = p
	}
}

// WithLogger sets the progress logger.
func WithLogger(logger log.Logger) Option {
	return func(c *comparatorConfig) {
		c.logger = logger
	}
}

// New creates a Comparator for the given dataset. The label vector y
// must be an n x 1 matrix with exactly two distinct values.
func New(X, y mat.Matrix, opts ...Option) (*Comparator, error) {
	cfg := comparatorConfig{cv: DefaultCV}
	for _, opt := range opts {
		opt(&cfg)
	}

	if X == nil || y == nil {
		return nil, errors.NewModelError("Comparator.New", "empty data", errors.ErrEmptyData)
	}
	nSamples, _ := X.Dims()
	yRows, yCols := y.Dims()
	if nSamples == 0 {
		return nil, errors.NewModelError("Comparator.New", "empty data", errors.ErrEmptyData)
	}
	if yCols != 1 {
		return nil, errors.NewValueError("Comparator.New", "y must be a column vector")
	}
	if yRows != nSamples {
		return nil, errors.NewDimensionError("Comparator.New", nSamples, yRows, 0)
	}

	yVec := mat.NewVecDense(nSamples, nil)
	classSet := make(map[float64]bool)
	for i := 0; i < nSamples; i++ {
		v := y.At(i, 0)
		yVec.SetVec(i, v)
		classSet[v] = true
	}
	if len(classSet) != 2 {
		return nil, errors.NewValidationError("y",
			"binary classification requires exactly 2 classes", len(classSet))
	}

	if cfg.cv < 2 {
		return nil, errors.NewValidationError("cv", "fold count must be at least 2", cfg.cv)
	}

	scorers := cfg.scorers
	if scorers == nil {
		scorers = metrics.DefaultScorers()
	}
	seen := make(map[string]bool, len(scorers))
	for _, s := range scorers {
		if s.Name == "" {
			return nil, errors.NewValidationError("scorers", "scorer name must not be empty", s.Name)
		}
		if s.Name == CVTimeColumn {
			return nil, errors.NewValidationError("scorers", "scorer name is reserved", s.Name)
		}
		if s.Score == nil {
			return nil, errors.NewValidationError("scorers", "scorer function must not be nil", s.Name)
		}
		if seen[s.Name] {
			return nil, errors.NewValidationError("scorers", "duplicate scorer name", s.Name)
		}
		seen[s.Name] = true
	}

	registry := cfg.registry
	if registry == nil {
		registry = DefaultClassifiers()
	}
	if registry.Len() == 0 {
		return nil, errors.NewValidationError("classifiers", "registry must not be empty", registry.Len())
	}

	logger := cfg.logger
	if logger == nil {
		logger = log.GetLoggerWithName("compare")
	}

	c := &Comparator{
		x:       X,
		y:       y,
		yVec:    yVec,
		cv:      cfg.cv,
		scorers: scorers,
		tmpl:    cfg.pipeline,
		logger:  logger,
	}

	// The caller's registry stays untouched: pipelined candidates live in
	// freshly built clones, one per candidate.
	for _, name := range registry.Names() {
		clf, _ := registry.Get(name)
		cand := candidate{name: name, estimator: clf}
		if cfg.pipeline != nil {
			pl := cfg.pipeline.Clone()
			pl.SetEstimator("model", clf)
			cand.runner = kfoldRunner{clf: pl}
		} else {
			cand.runner = kfoldRunner{clf: clf}
		}
		c.candidates = append(c.candidates, cand)
	}

	return c, nil
}

// Run cross-validates every candidate in registry order, scoring the
// out-of-fold predictions with every configured scorer and timing each
// candidate under the "cv_time" column. A failing candidate aborts the
// whole run and discards all partial results; the previous results
// table, if any, is kept. On success the results table is replaced
// wholesale.
func (c *Comparator) Run() error {
	runStart := time.Now()

	names := make([]string, 0, len(c.candidates))
	values := make(map[string]map[string]float64, len(c.candidates))

	for i, cand := range c.candidates {
		start := time.Now()
		preds, err := cand.runner.FitPredictCV(c.x, c.y, c.cv)
		if err != nil {
			return errors.Wrapf(err, "compare: candidate '%s'", cand.name)
		}
		elapsed := time.Since(start)

		row := make(map[string]float64, len(c.scorers)+1)
		row[CVTimeColumn] = elapsed.Seconds()
		for _, s := range c.scorers {
			score, err := s.Score(c.yVec, preds)
			if err != nil {
				return errors.Wrapf(err, "compare: candidate '%s': metric '%s'", cand.name, s.Name)
			}
			row[s.Name] = score
		}

		names = append(names, cand.name)
		values[cand.name] = row

		c.logger.Info("candidate cross-validated",
			log.CandidateKey, cand.name,
			log.CandidateIndexKey, i,
			log.FoldsKey, c.cv,
			log.DurationSecondsKey, elapsed.Seconds(),
		)
	}

	columns := make([]string, 0, len(c.scorers)+1)
	for _, s := range c.scorers {
		columns = append(columns, s.Name)
	}
	columns = append(columns, CVTimeColumn)

	c.results = newResults(names, columns, values)

	c.logger.Info("comparison finished",
		log.FoldsKey, c.cv,
		log.DurationSecondsKey, time.Since(runStart).Seconds(),
	)
	return nil
}

// Metrics returns the results table of the last successful Run.
func (c *Comparator) Metrics() (*Results, error) {
	if c.results == nil {
		return nil, errors.WithStack(errors.ErrNotRun)
	}
	return c.results, nil
}

// Pipeline returns the configured preprocessing pipeline template, or
// nil if none was supplied. Absence of a template raises a warning
// through the library warning system, never an error.
func (c *Comparator) Pipeline() *pipeline.Pipeline {
	if c.tmpl == nil {
		errors.Warn(errors.NewMissingPipelineWarning("Comparator.Pipeline"))
		return nil
	}
	return c.tmpl
}

// BestClassifier returns the estimator of the candidate with the
// highest value in the given results column (DefaultMetric when metric
// is empty). Candidates are sorted ascending by the column with a
// stable sort and the last one wins, so among tied maxima the candidate
// latest in registry order is returned. For pipelined candidates the
// trailing estimator step is returned, not the pipeline.
func (c *Comparator) BestClassifier(metric string) (model.Classifier, error) {
	if c.results == nil {
		return nil, errors.WithStack(errors.ErrNotRun)
	}
	if metric == "" {
		metric = DefaultMetric
	}
	column, err := c.results.Column(metric)
	if err != nil {
		return nil, err
	}

	order := make([]int, len(c.candidates))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return column[order[a]] < column[order[b]]
	})

	best := c.candidates[order[len(order)-1]]
	c.logger.Debug("best candidate selected",
		log.CandidateKey, best.name,
		log.MetricKey, metric,
	)
	return best.estimator, nil
}
