// Package xgbgo provides Go bindings for the XGBoost C API, designed for
// backend services that need gradient-boosting inference without a Python
// runtime.
//
// All model logic lives in the prebuilt XGBoost shared library; this package
// binds to it via cgo and adds a safe ownership layer on top. Use
// cmd/fetch-xgboost to download the shared library for your platform before
// building.
//
// # Quick Start
//
// Load a trained model and run prediction on a row-major feature buffer:
//
//	package main
//
//	import (
//	    "fmt"
//	    "log"
//
//	    "github.com/YuminosukeSato/xgbgo"
//	)
//
//	func main() {
//	    booster, err := xgbgo.Load("model.json")
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    defer booster.Close()
//
//	    // 2 rows x 3 features, row-major
//	    data := []float32{1, 2, 3, 4, 5, 6}
//	    preds, err := booster.Predict(data, 2, 3, xgbgo.PredictDefault)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println("Predictions:", preds)
//	}
//
// # gonum Integration
//
// For callers working with gonum matrices:
//
//	X := mat.NewDense(2, 3, []float64{1, 2, 3, 4, 5, 6})
//	preds, err := booster.PredictMat(X, xgbgo.PredictDefault)
//
// # Ownership and Thread Safety
//
// A Booster exclusively owns one native handle. The handle is released
// exactly once: either by an explicit Close or by a finalizer backstop when
// the Booster becomes unreachable. Every operation after Close fails with a
// StateError instead of re-entering native code.
//
// A Booster is NOT safe for concurrent use. Confine each Booster to one
// goroutine, or guard every operation with a single external mutex. For
// parallel inference, load one Booster per goroutine; boosters loaded from
// the same model bytes produce identical predictions.
//
// # Error Handling
//
// Failures are reported as typed errors from pkg/errors: LoadError for
// missing or rejected models, DimensionError and ValidationError for caller
// mistakes caught before the native boundary, NativeError carrying the
// library's own diagnostic string verbatim, and StateError for operations on
// a released handle.
package xgbgo
