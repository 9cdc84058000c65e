// Package log defines standard attribute keys for native-binding operations.
//
// Using these keys consistently across the wrapper makes it possible to
// filter logs by operation, data shape, or native call when debugging an
// interaction with the shared library.
package log

// Operation context.
const (
	// OperationKey specifies the wrapper operation being performed.
	// Standard values: "load", "load_buffer", "predict", "save", "close"
	OperationKey = "xgb.operation"

	// NativeCallKey names the C API entry point involved in an operation.
	// Examples: "XGBoosterPredict", "XGDMatrixCreateFromMat"
	NativeCallKey = "xgb.native_call"

	// LibraryVersionKey records the version triple of the loaded shared
	// library, formatted as "major.minor.patch".
	LibraryVersionKey = "xgb.library_version"

	// ModelSourceKey records where a model was loaded from: a file path or
	// the literal "buffer" for in-memory loads.
	ModelSourceKey = "xgb.model_source"
)

// Data shape. Shape mismatches are the dominant caller error for a flat
// row-major buffer API, so both sides of every comparison get logged.
const (
	// RowsKey indicates the number of rows in a prediction request.
	RowsKey = "data.rows"

	// FeaturesKey indicates the number of features per row.
	FeaturesKey = "data.features"

	// BufferLenKey indicates the length of the flat input buffer.
	BufferLenKey = "data.buffer_len"

	// OutputLenKey indicates the length of the prediction output.
	OutputLenKey = "preds.output_len"

	// OptionMaskKey records the prediction option bitmask.
	OptionMaskKey = "preds.option_mask"
)

// Standard operation values.
const (
	OperationLoad       = "load"
	OperationLoadBuffer = "load_buffer"
	OperationPredict    = "predict"
	OperationSave       = "save"
	OperationClose      = "close"
)
