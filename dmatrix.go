package xgbgo

import (
	"math"
	"runtime"
	"sync"

	"github.com/YuminosukeSato/xgbgo/internal/capi"
	xgberrors "github.com/YuminosukeSato/xgbgo/pkg/errors"
)

// DMatrix wraps a native data matrix built from a dense row-major float32
// buffer. Predict creates and frees one internally per call; construct a
// DMatrix explicitly only when the same input is predicted on repeatedly and
// the conversion cost matters.
//
// Like Booster, a DMatrix is not safe for concurrent use and must be closed
// when no longer needed. NaN values in the input are treated as missing.
type DMatrix struct {
	mu       sync.Mutex // guards the release transition
	handle   capi.DMatrixHandle
	rows     int
	cols     int
	released bool
}

// NewDMatrix builds a native data matrix from a row-major buffer of
// rows x cols float32 values. The buffer is copied by the native library and
// may be reused by the caller immediately.
func NewDMatrix(data []float32, rows, cols int) (*DMatrix, error) {
	if rows <= 0 {
		return nil, xgberrors.NewValidationError("rows", "must be positive", rows)
	}
	if cols <= 0 {
		return nil, xgberrors.NewValidationError("cols", "must be positive", cols)
	}
	if len(data) != rows*cols {
		return nil, xgberrors.NewDimensionError("NewDMatrix", rows*cols, len(data), 1)
	}

	h, err := capi.DMatrixCreateFromMat(data, rows, cols, float32(math.NaN()))
	if err != nil {
		return nil, err
	}
	m := &DMatrix{handle: h, rows: rows, cols: cols}
	runtime.SetFinalizer(m, (*DMatrix).finalize)
	return m, nil
}

// Dims returns the row and column counts the matrix was built with.
func (m *DMatrix) Dims() (rows, cols int) {
	return m.rows, m.cols
}

// Close releases the native matrix. Safe to call more than once, including
// from an explicit Close racing the finalizer; only the first call reaches
// the native library.
func (m *DMatrix) Close() error {
	m.mu.Lock()
	if m.released || m.handle == nil {
		m.mu.Unlock()
		return nil
	}
	m.released = true
	h := m.handle
	m.handle = nil
	m.mu.Unlock()

	runtime.SetFinalizer(m, nil)
	return capi.DMatrixFree(h)
}

func (m *DMatrix) finalize() {
	_ = m.Close()
}

// ensureLive reports a StateError when the matrix was already released.
func (m *DMatrix) ensureLive(op string) error {
	if m.released {
		return xgberrors.NewStateError(op, "released")
	}
	if m.handle == nil {
		return xgberrors.NewStateError(op, "unloaded")
	}
	return nil
}
