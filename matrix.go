package xgbgo

import (
	"gonum.org/v1/gonum/mat"

	xgberrors "github.com/YuminosukeSato/xgbgo/pkg/errors"
)

// PredictMat runs prediction over a gonum matrix and returns the result as a
// dense matrix of rows x outputs. Values are narrowed to float32 for the
// native library, matching what it was trained with.
func (b *Booster) PredictMat(X mat.Matrix, opts PredictOption) (*mat.Dense, error) {
	rows, cols := X.Dims()
	if rows == 0 || cols == 0 {
		return nil, xgberrors.NewValidationError("X", "matrix has zero rows or columns", []int{rows, cols})
	}

	data := flattenRowMajor(X, rows, cols)
	out, err := b.Predict(data, rows, cols, opts)
	if err != nil {
		return nil, err
	}
	if len(out)%rows != 0 {
		return nil, xgberrors.Newf("xgbgo: PredictMat: output length %d not divisible by %d rows", len(out), rows)
	}

	outCols := len(out) / rows
	dense := mat.NewDense(rows, outCols, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < outCols; j++ {
			dense.Set(i, j, float64(out[i*outCols+j]))
		}
	}
	return dense, nil
}

// ContribMat computes contribution (SHAP) values for a gonum matrix,
// returned as rows x (features+1) with the bias term in the last column.
func (b *Booster) ContribMat(X mat.Matrix, approx bool) (*mat.Dense, error) {
	opts := PredictContribs
	if approx {
		opts |= ApproxContribs
	}
	return b.PredictMat(X, opts)
}

// flattenRowMajor converts any mat.Matrix into the flat row-major float32
// buffer the native library expects. The *mat.Dense fast path reads the
// backing slice directly.
func flattenRowMajor(X mat.Matrix, rows, cols int) []float32 {
	data := make([]float32, rows*cols)
	if dense, ok := X.(*mat.Dense); ok {
		raw := dense.RawMatrix()
		for i := 0; i < rows; i++ {
			row := raw.Data[i*raw.Stride : i*raw.Stride+cols]
			for j, v := range row {
				data[i*cols+j] = float32(v)
			}
		}
		return data
	}
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			data[i*cols+j] = float32(X.At(i, j))
		}
	}
	return data
}
