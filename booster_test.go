package xgbgo

import (
	"math"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"

	xgberrors "github.com/YuminosukeSato/xgbgo/pkg/errors"
)

const testModelPath = "testdata/model.json"

// loadTestBooster loads the shared test model, skipping when the fixture has
// not been generated (see testdata/README.md).
func loadTestBooster(t *testing.T) *Booster {
	t.Helper()
	if _, err := os.Stat(testModelPath); err != nil {
		t.Skipf("model fixture not available: %v", err)
	}
	b, err := Load(testModelPath)
	if err != nil {
		t.Fatalf("loading test model: %v", err)
	}
	t.Cleanup(func() { _ = b.Close() })
	return b
}

// testInput builds a deterministic rows x cols row-major buffer matching the
// model's feature count.
func testInput(t *testing.T, b *Booster, rows int) ([]float32, int) {
	t.Helper()
	cols, err := b.NumFeatures()
	if err != nil {
		t.Fatalf("NumFeatures: %v", err)
	}
	data := make([]float32, rows*cols)
	for i := range data {
		data[i] = float32(i%7) * 0.5
	}
	return data, cols
}

// ---------------------------------------------------------------------------
// Tests that never reach the native library.
// ---------------------------------------------------------------------------

func TestLoadMissingFile(t *testing.T) {
	b, err := Load(filepath.Join("testdata", "does_not_exist.json"))
	if b != nil {
		t.Error("Load of missing file should not produce a handle")
	}
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	var loadErr *xgberrors.LoadError
	if !xgberrors.As(err, &loadErr) {
		t.Errorf("expected *LoadError, got %T", err)
	}
}

func TestLoadFromBufferEmpty(t *testing.T) {
	for _, buf := range [][]byte{nil, {}} {
		b, err := LoadFromBuffer(buf)
		if b != nil {
			t.Error("LoadFromBuffer of empty buffer should not produce a handle")
		}
		var loadErr *xgberrors.LoadError
		if !xgberrors.As(err, &loadErr) {
			t.Errorf("expected *LoadError, got %T", err)
		}
	}
}

// TestOperationsOnZeroBooster tests that a never-loaded Booster fails fast
// on every operation instead of reaching native code.
func TestOperationsOnZeroBooster(t *testing.T) {
	var b Booster

	if _, err := b.Predict([]float32{1}, 1, 1, PredictDefault); !isStateError(err) {
		t.Errorf("Predict on zero booster: got %v, want StateError", err)
	}
	if _, err := b.NumFeatures(); !isStateError(err) {
		t.Errorf("NumFeatures on zero booster: got %v, want StateError", err)
	}
	if err := b.Save("out.json"); !isStateError(err) {
		t.Errorf("Save on zero booster: got %v, want StateError", err)
	}
	// Close on a never-loaded booster has nothing to release.
	if err := b.Close(); err != nil {
		t.Errorf("Close on zero booster: got %v, want nil", err)
	}
}

func TestOperationsAfterRelease(t *testing.T) {
	b := &Booster{released: true}

	if _, err := b.Predict([]float32{1}, 1, 1, PredictDefault); !isStateError(err) {
		t.Errorf("Predict after release: got %v, want StateError", err)
	}
	if _, err := b.Contrib([]float32{1}, 1, 1, false); !isStateError(err) {
		t.Errorf("Contrib after release: got %v, want StateError", err)
	}
	if err := b.Close(); err != nil {
		t.Errorf("repeated Close: got %v, want nil", err)
	}
}

func isStateError(err error) bool {
	var stateErr *xgberrors.StateError
	return xgberrors.As(err, &stateErr)
}

// ---------------------------------------------------------------------------
// Integration tests against the real library and a model fixture.
// ---------------------------------------------------------------------------

func TestPredictOutputShape(t *testing.T) {
	b := loadTestBooster(t)

	const rows = 2
	data, cols := testInput(t, b, rows)

	preds, err := b.Predict(data, rows, cols, PredictDefault)
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if len(preds) == 0 || len(preds)%rows != 0 {
		t.Errorf("output length %d is not a positive multiple of %d rows", len(preds), rows)
	}
}

func TestPredictDeterminism(t *testing.T) {
	b := loadTestBooster(t)

	const rows = 3
	data, cols := testInput(t, b, rows)

	first, err := b.Predict(data, rows, cols, PredictDefault)
	if err != nil {
		t.Fatalf("first Predict: %v", err)
	}
	second, err := b.Predict(data, rows, cols, PredictDefault)
	if err != nil {
		t.Fatalf("second Predict: %v", err)
	}

	if len(first) != len(second) {
		t.Fatalf("output lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		// Repeated prediction on the same handle must be bit-identical.
		if math.Float32bits(first[i]) != math.Float32bits(second[i]) {
			t.Errorf("output %d differs: %v vs %v", i, first[i], second[i])
		}
	}
}

// TestFileBufferRoundTrip tests that loading the same model from a path and
// from its raw bytes yields matching predictions.
func TestFileBufferRoundTrip(t *testing.T) {
	fromFile := loadTestBooster(t)

	raw, err := os.ReadFile(testModelPath)
	if err != nil {
		t.Fatalf("reading model bytes: %v", err)
	}
	fromBuffer, err := LoadFromBuffer(raw)
	if err != nil {
		t.Fatalf("LoadFromBuffer: %v", err)
	}
	defer func() { _ = fromBuffer.Close() }()

	const rows = 2
	data, cols := testInput(t, fromFile, rows)

	filePreds, err := fromFile.Predict(data, rows, cols, PredictDefault)
	if err != nil {
		t.Fatalf("file Predict: %v", err)
	}
	bufPreds, err := fromBuffer.Predict(data, rows, cols, PredictDefault)
	if err != nil {
		t.Fatalf("buffer Predict: %v", err)
	}

	if len(filePreds) != len(bufPreds) {
		t.Fatalf("output lengths differ: %d vs %d", len(filePreds), len(bufPreds))
	}
	const tol = 1e-6
	for i := range filePreds {
		if diff := math.Abs(float64(filePreds[i] - bufPreds[i])); diff > tol {
			t.Errorf("output %d differs by %g: %v vs %v", i, diff, filePreds[i], bufPreds[i])
		}
	}
}

func TestPredictDimensionMismatch(t *testing.T) {
	b := loadTestBooster(t)

	_, cols := testInput(t, b, 1)
	short := make([]float32, cols*2-1) // one element short of 2 rows

	_, err := b.Predict(short, 2, cols, PredictDefault)
	if err == nil {
		t.Fatal("expected error for mismatched buffer length")
	}
	var dimErr *xgberrors.DimensionError
	if !xgberrors.As(err, &dimErr) {
		t.Fatalf("expected *DimensionError, got %T", err)
	}
	if dimErr.Expected != cols*2 || dimErr.Got != cols*2-1 {
		t.Errorf("dimension fields = (%d, %d), want (%d, %d)", dimErr.Expected, dimErr.Got, cols*2, cols*2-1)
	}
}

func TestContribOutputShape(t *testing.T) {
	b := loadTestBooster(t)

	const rows = 2
	data, cols := testInput(t, b, rows)

	contribs, err := b.Contrib(data, rows, cols, false)
	if err != nil {
		t.Fatalf("Contrib: %v", err)
	}
	// One value per feature plus the bias term, per row and output group.
	if len(contribs)%(rows*(cols+1)) != 0 {
		t.Errorf("contrib length %d is not a multiple of rows*(features+1) = %d", len(contribs), rows*(cols+1))
	}
}

func TestLeafIndices(t *testing.T) {
	b := loadTestBooster(t)

	const rows = 2
	data, cols := testInput(t, b, rows)

	leaves, err := b.LeafIndices(data, rows, cols)
	if err != nil {
		t.Fatalf("LeafIndices: %v", err)
	}
	if len(leaves) == 0 || len(leaves)%rows != 0 {
		t.Errorf("leaf output length %d is not a positive multiple of %d rows", len(leaves), rows)
	}
	for i, v := range leaves {
		if v != float32(int(v)) || v < 0 {
			t.Errorf("leaf index %d = %v, want a non-negative integer value", i, v)
		}
	}
}

func TestUseAfterClose(t *testing.T) {
	if _, err := os.Stat(testModelPath); err != nil {
		t.Skipf("model fixture not available: %v", err)
	}
	b, err := Load(testModelPath)
	if err != nil {
		t.Fatalf("loading test model: %v", err)
	}

	const rows = 1
	data, cols := testInput(t, b, rows)
	if _, err := b.Predict(data, rows, cols, PredictDefault); err != nil {
		t.Fatalf("Predict before Close: %v", err)
	}

	if err := b.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := b.Close(); err != nil {
		t.Errorf("second Close: got %v, want nil", err)
	}

	if _, err := b.Predict(data, rows, cols, PredictDefault); !isStateError(err) {
		t.Errorf("Predict after Close: got %v, want StateError", err)
	}
	if _, err := b.NumFeatures(); !isStateError(err) {
		t.Errorf("NumFeatures after Close: got %v, want StateError", err)
	}
}

// TestPredictKeepsBoosterReachable tests that a prediction in flight pins the
// booster: when the method invocation holds the last reference, the finalizer
// must not free the handle before the native call completes.
func TestPredictKeepsBoosterReachable(t *testing.T) {
	if _, err := os.Stat(testModelPath); err != nil {
		t.Skipf("model fixture not available: %v", err)
	}

	for i := 0; i < 20; i++ {
		b, err := Load(testModelPath)
		if err != nil {
			t.Fatalf("loading test model: %v", err)
		}
		data, cols := testInput(t, b, 1)

		done := make(chan error, 1)
		go func(bb *Booster) {
			// bb is dead once the receiver is evaluated; only KeepAlive
			// inside the wrapper pins the handle through the native call.
			_, predErr := bb.Predict(data, 1, cols, PredictDefault)
			done <- predErr
		}(b)
		b = nil
		runtime.GC()

		if err := <-done; err != nil {
			t.Fatalf("Predict with collected caller reference: %v", err)
		}
		runtime.GC() // let the finalizer reclaim the handle
	}
}

// TestConcurrentClose tests that racing Close calls release the handle
// exactly once.
func TestConcurrentClose(t *testing.T) {
	if _, err := os.Stat(testModelPath); err != nil {
		t.Skipf("model fixture not available: %v", err)
	}
	b, err := Load(testModelPath)
	if err != nil {
		t.Fatalf("loading test model: %v", err)
	}

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = b.Close()
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Errorf("Close %d: %v", i, err)
		}
	}
	if _, err := b.NumFeatures(); !isStateError(err) {
		t.Errorf("NumFeatures after concurrent Close: got %v, want StateError", err)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	b := loadTestBooster(t)

	out := filepath.Join(t.TempDir(), "model_copy.json")
	if err := b.Save(out); err != nil {
		t.Fatalf("Save: %v", err)
	}

	reloaded, err := Load(out)
	if err != nil {
		t.Fatalf("reloading saved model: %v", err)
	}
	defer func() { _ = reloaded.Close() }()

	const rows = 2
	data, cols := testInput(t, b, rows)

	want, err := b.Predict(data, rows, cols, PredictDefault)
	if err != nil {
		t.Fatalf("original Predict: %v", err)
	}
	got, err := reloaded.Predict(data, rows, cols, PredictDefault)
	if err != nil {
		t.Fatalf("reloaded Predict: %v", err)
	}

	if len(want) != len(got) {
		t.Fatalf("output lengths differ: %d vs %d", len(want), len(got))
	}
	const tol = 1e-6
	for i := range want {
		if diff := math.Abs(float64(want[i] - got[i])); diff > tol {
			t.Errorf("output %d differs by %g after save/reload", i, diff)
		}
	}
}

func TestVersion(t *testing.T) {
	major, minor, patch := Version()
	if major < 1 {
		t.Errorf("implausible library version %d.%d.%d", major, minor, patch)
	}
}
