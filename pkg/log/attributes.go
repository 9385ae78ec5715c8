// Standard attribute keys for comparison and training operations.
//
// Using these keys keeps log output consistent across packages and enables
// structured filtering (e.g. all records for one candidate).

package log

// Model and operation context.
const (
	// ModelNameKey identifies the type of model.
	// Examples: "LogisticRegression", "RandomForestClassifier"
	ModelNameKey = "model.name"

	// CandidateKey identifies a named candidate within a comparison run.
	CandidateKey = "compare.candidate"

	// CandidateIndexKey is the 1-based position of the candidate in the
	// registry order.
	CandidateIndexKey = "compare.candidate_index"

	// OperationKey specifies the operation being performed.
	// Standard values: "fit", "predict", "transform", "cross_val_predict"
	OperationKey = "ml.operation"

	// ComponentKey identifies the package performing the operation.
	ComponentKey = "ml.component"
)

// Data shape.
const (
	// SamplesKey is the number of samples (rows) processed.
	SamplesKey = "data.samples"

	// FeaturesKey is the number of features (columns) processed.
	FeaturesKey = "data.features"

	// FoldsKey is the number of cross-validation folds.
	FoldsKey = "data.folds"
)

// Performance.
const (
	// DurationSecondsKey records elapsed wall-clock time in seconds.
	DurationSecondsKey = "perf.duration_seconds"

	// MetricKey names a metric being reported.
	MetricKey = "metrics.name"

	// ScoreKey records a metric score value.
	ScoreKey = "metrics.score"
)
