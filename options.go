package xgbgo

import (
	xgberrors "github.com/YuminosukeSato/xgbgo/pkg/errors"
)

// PredictOption is a bitmask selecting the prediction output kind. The values
// mirror the option_mask argument of XGBoosterPredict; options may be
// combined with bitwise OR where the native library allows it.
type PredictOption int

const (
	// PredictDefault outputs transformed scores (e.g. probabilities for
	// logistic objectives).
	PredictDefault PredictOption = 0x00
	// OutputMargin outputs untransformed margin values instead of
	// transformed scores.
	OutputMargin PredictOption = 0x01
	// PredictLeaf outputs the index of the leaf each row falls into, one
	// value per tree.
	PredictLeaf PredictOption = 0x02
	// PredictContribs outputs per-feature contribution (SHAP) values plus a
	// trailing bias term, rows x (features+1) values per output group.
	PredictContribs PredictOption = 0x04
	// ApproxContribs switches PredictContribs to the fast approximate
	// algorithm. Only meaningful combined with PredictContribs.
	ApproxContribs PredictOption = 0x08
	// PredictInteractions outputs SHAP interaction values,
	// rows x (features+1) x (features+1) values per output group.
	PredictInteractions PredictOption = 0x10
)

// knownOptions is the full set of bits the native library accepts.
const knownOptions = OutputMargin | PredictLeaf | PredictContribs | ApproxContribs | PredictInteractions

// validate rejects option masks outside the enumerated set before they can
// reach the native boundary, where an unknown mask is undefined behavior
// rather than a catchable error.
func (o PredictOption) validate() error {
	if o&^knownOptions != 0 {
		return xgberrors.NewValidationError("optionMask", "unknown option bits", int(o))
	}
	if o&ApproxContribs != 0 && o&(PredictContribs|PredictInteractions) == 0 {
		return xgberrors.NewValidationError("optionMask", "ApproxContribs requires PredictContribs or PredictInteractions", int(o))
	}
	return nil
}
