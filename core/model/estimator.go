package model

import "gonum.org/v1/gonum/mat"

// Fitter is the interface for trainable models.
type Fitter interface {
	// Fit trains the model on X (n_samples x n_features) and labels y
	// (n_samples x 1).
	Fit(X, y mat.Matrix) error
}

// Predictor is the interface for models that can predict.
type Predictor interface {
	// Predict returns one prediction per input row as an n_samples x 1
	// matrix.
	Predict(X mat.Matrix) (mat.Matrix, error)
}

// Classifier is the capability a comparison candidate must provide:
// fit on labeled data and predict hard labels. Cloning yields an
// untrained copy with identical hyperparameters; cross-validation
// relies on it to train each fold from scratch.
type Classifier interface {
	Fitter
	Predictor

	// CloneClassifier returns an untrained copy of the classifier with
	// the same hyperparameters. The copy must not share mutable state
	// with the original.
	CloneClassifier() Classifier
}
