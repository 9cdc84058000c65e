package xgbgo

import (
	"log/slog"
	"os"
	"runtime"
	"sync"

	"github.com/YuminosukeSato/xgbgo/internal/capi"
	xgberrors "github.com/YuminosukeSato/xgbgo/pkg/errors"
	xgblog "github.com/YuminosukeSato/xgbgo/pkg/log"
)

// Booster is a loaded model: an exclusive owner of one native booster handle.
//
// The handle lives through exactly three states: it does not exist before
// Load, it is usable between Load and Close, and it is gone after Close.
// Close releases it exactly once on every path; a finalizer backstop covers
// boosters that are dropped without an explicit Close. Any operation on a
// closed Booster fails with a StateError before reaching native code.
//
// A Booster is not safe for concurrent use. The native library keeps mutable
// per-handle state, so confine each Booster to one goroutine or guard every
// operation with one external mutex. Prefer one Booster per goroutine. The
// internal mutex only makes the release itself exactly-once; it does not make
// other operations concurrent-safe.
type Booster struct {
	mu          sync.Mutex // guards the release transition
	handle      capi.BoosterHandle
	released    bool
	numFeatures int // cached after the first native query, 0 until then
}

// Load loads a serialized model from a file. The file format (JSON, UBJSON or
// the deprecated binary format) is detected by the native library; this layer
// only checks that the file exists and is readable.
func Load(path string) (*Booster, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, xgberrors.NewLoadError(path, "model file not accessible", err)
	}

	h, err := capi.BoosterCreate()
	if err != nil {
		return nil, err
	}
	if err := capi.BoosterLoadModel(h, path); err != nil {
		// The half-built handle must not leak; its free error is secondary
		// to the load failure being reported.
		_ = capi.BoosterFree(h)
		return nil, xgberrors.NewLoadError(path, "native library rejected model", err)
	}

	b := newBooster(h)
	slog.Debug("model loaded",
		slog.String(xgblog.OperationKey, xgblog.OperationLoad),
		slog.String(xgblog.ModelSourceKey, path),
	)
	return b, nil
}

// LoadFromBuffer loads a serialized model held in memory, for callers that do
// not have a filesystem path. The buffer is only read during the call.
func LoadFromBuffer(buf []byte) (*Booster, error) {
	if len(buf) == 0 {
		return nil, xgberrors.NewLoadError("buffer", "empty buffer", xgberrors.ErrEmptyData)
	}

	h, err := capi.BoosterCreate()
	if err != nil {
		return nil, err
	}
	if err := capi.BoosterLoadModelFromBuffer(h, buf); err != nil {
		_ = capi.BoosterFree(h)
		return nil, xgberrors.NewLoadError("buffer", "native library rejected model", err)
	}

	b := newBooster(h)
	slog.Debug("model loaded",
		slog.String(xgblog.OperationKey, xgblog.OperationLoadBuffer),
		slog.String(xgblog.ModelSourceKey, "buffer"),
		slog.Int(xgblog.BufferLenKey, len(buf)),
	)
	return b, nil
}

func newBooster(h capi.BoosterHandle) *Booster {
	b := &Booster{handle: h}
	runtime.SetFinalizer(b, (*Booster).finalize)
	return b
}

// Predict runs prediction over a row-major buffer of rows x cols float32
// values and returns a Go-owned copy of the native output. The output length
// depends on the option mask and the model: one value per row for plain
// scores, one per tree for PredictLeaf, rows x (cols+1) for PredictContribs.
//
// The buffer length is validated against rows*cols before anything crosses
// the native boundary; a mismatch there would be undefined behavior, not a
// catchable error.
func (b *Booster) Predict(data []float32, rows, cols int, opts PredictOption) ([]float32, error) {
	if err := b.ensureLoaded("Predict"); err != nil {
		return nil, err
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if rows <= 0 {
		return nil, xgberrors.NewValidationError("rows", "must be positive", rows)
	}
	if cols <= 0 {
		return nil, xgberrors.NewValidationError("cols", "must be positive", cols)
	}
	if len(data) != rows*cols {
		return nil, xgberrors.NewDimensionError("Predict", rows*cols, len(data), 1)
	}

	dm, err := NewDMatrix(data, rows, cols)
	if err != nil {
		return nil, err
	}
	out, predErr := b.PredictDMatrix(dm, opts)
	if closeErr := dm.Close(); predErr == nil {
		predErr = closeErr
	}
	if predErr != nil {
		return nil, predErr
	}
	return out, nil
}

// PredictDMatrix runs prediction over a caller-managed DMatrix. The matrix
// stays usable afterwards; the caller keeps responsibility for closing it.
func (b *Booster) PredictDMatrix(dm *DMatrix, opts PredictOption) ([]float32, error) {
	if err := b.ensureLoaded("PredictDMatrix"); err != nil {
		return nil, err
	}
	if err := dm.ensureLive("PredictDMatrix"); err != nil {
		return nil, err
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}

	out, err := capi.BoosterPredict(b.handle, dm.handle, int(opts), 0, false)
	// Keep both owners reachable until the native call returns: if this
	// method invocation is the caller's last reference, the finalizer could
	// otherwise free the handle out from under the pending call.
	runtime.KeepAlive(b)
	runtime.KeepAlive(dm)
	if err != nil {
		return nil, err
	}
	slog.Debug("prediction complete",
		slog.String(xgblog.OperationKey, xgblog.OperationPredict),
		slog.Int(xgblog.RowsKey, dm.rows),
		slog.Int(xgblog.FeaturesKey, dm.cols),
		slog.Int(xgblog.OptionMaskKey, int(opts)),
		slog.Int(xgblog.OutputLenKey, len(out)),
	)
	return out, nil
}

// Contrib computes per-feature contribution (SHAP) values. The output holds
// rows x (cols+1) values per output group: one contribution per feature plus
// a trailing bias term. Set approx to trade exactness for speed on deep
// ensembles.
func (b *Booster) Contrib(data []float32, rows, cols int, approx bool) ([]float32, error) {
	opts := PredictContribs
	if approx {
		opts |= ApproxContribs
	}
	return b.Predict(data, rows, cols, opts)
}

// LeafIndices returns the index of the leaf each row falls into, one value
// per tree, encoded as float32 by the native library.
func (b *Booster) LeafIndices(data []float32, rows, cols int) ([]float32, error) {
	return b.Predict(data, rows, cols, PredictLeaf)
}

// NumFeatures returns the number of features the model was trained on. The
// value is queried from the native library once and cached.
func (b *Booster) NumFeatures() (int, error) {
	if err := b.ensureLoaded("NumFeatures"); err != nil {
		return 0, err
	}
	if b.numFeatures > 0 {
		return b.numFeatures, nil
	}
	n, err := capi.BoosterNumFeature(b.handle)
	runtime.KeepAlive(b)
	if err != nil {
		return 0, err
	}
	b.numFeatures = n
	return n, nil
}

// Save writes the model to a file. The format is chosen by the native
// library from the file extension.
func (b *Booster) Save(path string) error {
	if err := b.ensureLoaded("Save"); err != nil {
		return err
	}
	err := capi.BoosterSaveModel(b.handle, path)
	runtime.KeepAlive(b)
	if err != nil {
		return err
	}
	slog.Debug("model saved",
		slog.String(xgblog.OperationKey, xgblog.OperationSave),
		slog.String(xgblog.ModelSourceKey, path),
	)
	return nil
}

// Close releases the native handle. Safe to call more than once, including
// from an explicit Close racing the finalizer; only the first call reaches
// the native library. After Close every other method fails with a StateError.
func (b *Booster) Close() error {
	b.mu.Lock()
	if b.released || b.handle == nil {
		b.mu.Unlock()
		return nil
	}
	b.released = true
	h := b.handle
	b.handle = nil
	b.mu.Unlock()

	runtime.SetFinalizer(b, nil)
	return capi.BoosterFree(h)
}

// finalize is the backstop for boosters dropped without Close. It must never
// panic and its error has nowhere to go.
func (b *Booster) finalize() {
	_ = b.Close()
}

func (b *Booster) ensureLoaded(op string) error {
	if b.released {
		return xgberrors.NewStateError(op, "released")
	}
	if b.handle == nil {
		return xgberrors.NewStateError(op, "unloaded")
	}
	return nil
}
