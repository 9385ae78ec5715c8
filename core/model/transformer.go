package model

import "gonum.org/v1/gonum/mat"

// Transformer is the interface for data transformations.
type Transformer interface {
	// Fit learns the parameters needed for the transformation.
	Fit(X mat.Matrix) error

	// Transform applies the transformation.
	Transform(X mat.Matrix) (mat.Matrix, error)

	// FitTransform runs Fit and Transform in one call.
	FitTransform(X mat.Matrix) (mat.Matrix, error)

	// CloneTransformer returns an untrained copy with the same
	// configuration. Pipeline templates are cloned step by step, so the
	// copy must not share mutable state with the original.
	CloneTransformer() Transformer
}
