// Package clfbench is a benchmarking harness for binary classification
// models in Go.
//
// Given a labeled dataset, a set of named candidate classifiers, and a
// list of scoring metrics, clfbench cross-validates every candidate
// under identical conditions, records per-candidate timing and scores,
// and reports the best performer. Classifier implementations
// (logistic regression, random forest, extra trees, k-nearest
// neighbors, gaussian naive bayes), preprocessing, pipelines, k-fold
// cross-validation, and the classification metrics ship with the
// library, built on gonum matrices.
//
// # Quick Start
//
//	package main
//
//	import (
//	    "fmt"
//	    "log"
//
//	    "github.com/clfbench/clfbench/compare"
//	    "gonum.org/v1/gonum/mat"
//	)
//
//	func main() {
//	    X := mat.NewDense(6, 1, []float64{1, 2, 3, 10, 11, 12})
//	    y := mat.NewDense(6, 1, []float64{0, 0, 0, 1, 1, 1})
//
//	    c, err := compare.New(X, y, compare.WithCV(3))
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    if err := c.Run(); err != nil {
//	        log.Fatal(err)
//	    }
//
//	    results, _ := c.Metrics()
//	    fmt.Println(results)
//
//	    best, _ := c.BestClassifier("f1_score")
//	    fmt.Printf("best: %T\n", best)
//	}
//
// A shared preprocessing pipeline can be applied to every candidate via
// compare.WithPipeline; each candidate then runs an independent clone of
// the pipeline with its own estimator as the trailing step.
package clfbench
