// Package capi declares the raw XGBoost C API surface and nothing else.
//
// Every function here mirrors exactly one native entry point: it crosses the
// cgo boundary, checks the returned status code, and on failure retrieves the
// library's own diagnostic string before any other native call can overwrite
// it. No validation, no policy. Consumers must go through the xgbgo wrapper
// types instead of calling this package directly.
package capi

/*
#cgo LDFLAGS: -L${SRCDIR}/../../lib -lxgboost
#cgo linux LDFLAGS: -Wl,-rpath,${SRCDIR}/../../lib -Wl,-rpath,$ORIGIN
#cgo darwin LDFLAGS: -Wl,-rpath,${SRCDIR}/../../lib -Wl,-rpath,@loader_path

#include <stdlib.h>
#include <stdint.h>

// Prototypes for the subset of xgboost/c_api.h this binding uses, declared
// here so the build does not depend on a vendored header tree. They must
// match the ABI of the shared library placed in lib/ by cmd/fetch-xgboost.
typedef void *BoosterHandle;
typedef void *DMatrixHandle;
typedef uint64_t bst_ulong;

extern const char *XGBGetLastError(void);
extern void XGBoostVersion(int *major, int *minor, int *patch);

extern int XGBoosterCreate(const DMatrixHandle dmats[], bst_ulong len, BoosterHandle *out);
extern int XGBoosterFree(BoosterHandle handle);
extern int XGBoosterLoadModel(BoosterHandle handle, const char *fname);
extern int XGBoosterLoadModelFromBuffer(BoosterHandle handle, const void *buf, bst_ulong len);
extern int XGBoosterSaveModel(BoosterHandle handle, const char *fname);
extern int XGBoosterGetNumFeature(BoosterHandle handle, bst_ulong *out);
extern int XGBoosterPredict(BoosterHandle handle, DMatrixHandle dmat, int option_mask,
                            unsigned int ntree_limit, int training,
                            bst_ulong *out_len, const float **out_result);

extern int XGDMatrixCreateFromMat(const float *data, bst_ulong nrow, bst_ulong ncol,
                                  float missing, DMatrixHandle *out);
extern int XGDMatrixFree(DMatrixHandle handle);
*/
import "C"

import (
	"sync"
	"unsafe"

	xgberrors "github.com/YuminosukeSato/xgbgo/pkg/errors"
)

// BoosterHandle is an opaque reference to a native booster. Only this package
// may dereference it.
type BoosterHandle unsafe.Pointer

// DMatrixHandle is an opaque reference to a native data matrix.
type DMatrixHandle unsafe.Pointer

// callMu serializes every native call together with its error retrieval.
// XGBGetLastError reads library-global state, so the status code and the
// message must be observed as one unit.
var callMu sync.Mutex

// check converts a native status code into a typed error. Must be called with
// callMu held, before any further native call.
func check(call string, status C.int) error {
	if status == 0 {
		return nil
	}
	return xgberrors.NewNativeError(call, C.GoString(C.XGBGetLastError()))
}

// Version reports the version triple of the loaded shared library.
func Version() (major, minor, patch int) {
	callMu.Lock()
	defer callMu.Unlock()

	var cMajor, cMinor, cPatch C.int
	C.XGBoostVersion(&cMajor, &cMinor, &cPatch)
	return int(cMajor), int(cMinor), int(cPatch)
}

// BoosterCreate creates an empty native booster with no cached matrices.
func BoosterCreate() (BoosterHandle, error) {
	callMu.Lock()
	defer callMu.Unlock()

	var h C.BoosterHandle
	if err := check("XGBoosterCreate", C.XGBoosterCreate(nil, 0, &h)); err != nil {
		return nil, err
	}
	return BoosterHandle(h), nil
}

// BoosterFree destroys a native booster. The handle must not be used again.
func BoosterFree(h BoosterHandle) error {
	callMu.Lock()
	defer callMu.Unlock()

	return check("XGBoosterFree", C.XGBoosterFree(C.BoosterHandle(h)))
}

// BoosterLoadModel loads a serialized model file into an existing booster.
func BoosterLoadModel(h BoosterHandle, path string) error {
	cPath := C.CString(path)
	defer C.free(unsafe.Pointer(cPath))

	callMu.Lock()
	defer callMu.Unlock()

	return check("XGBoosterLoadModel", C.XGBoosterLoadModel(C.BoosterHandle(h), cPath))
}

// BoosterLoadModelFromBuffer loads a serialized model held in memory.
// The buffer is only read for the duration of the call.
func BoosterLoadModelFromBuffer(h BoosterHandle, buf []byte) error {
	callMu.Lock()
	defer callMu.Unlock()

	return check("XGBoosterLoadModelFromBuffer", C.XGBoosterLoadModelFromBuffer(
		C.BoosterHandle(h),
		unsafe.Pointer(&buf[0]),
		C.bst_ulong(len(buf)),
	))
}

// BoosterSaveModel writes the model to a file in the format implied by the
// file extension (JSON, UBJSON or the deprecated binary format).
func BoosterSaveModel(h BoosterHandle, path string) error {
	cPath := C.CString(path)
	defer C.free(unsafe.Pointer(cPath))

	callMu.Lock()
	defer callMu.Unlock()

	return check("XGBoosterSaveModel", C.XGBoosterSaveModel(C.BoosterHandle(h), cPath))
}

// BoosterNumFeature returns the number of features the model was trained on.
func BoosterNumFeature(h BoosterHandle) (int, error) {
	callMu.Lock()
	defer callMu.Unlock()

	var out C.bst_ulong
	if err := check("XGBoosterGetNumFeature", C.XGBoosterGetNumFeature(C.BoosterHandle(h), &out)); err != nil {
		return 0, err
	}
	return int(out), nil
}

// BoosterPredict runs prediction over a native data matrix and copies the
// result into a Go-owned slice. The native output buffer is only valid until
// the next call into the library, so the copy happens under callMu before
// anything else can run.
func BoosterPredict(h BoosterHandle, dm DMatrixHandle, optionMask int, ntreeLimit uint, training bool) ([]float32, error) {
	callMu.Lock()
	defer callMu.Unlock()

	var (
		outLen    C.bst_ulong
		outResult *C.float
	)
	cTraining := C.int(0)
	if training {
		cTraining = 1
	}
	err := check("XGBoosterPredict", C.XGBoosterPredict(
		C.BoosterHandle(h),
		C.DMatrixHandle(dm),
		C.int(optionMask),
		C.uint(ntreeLimit),
		cTraining,
		&outLen,
		&outResult,
	))
	if err != nil {
		return nil, err
	}

	out := make([]float32, int(outLen))
	if outLen > 0 {
		src := unsafe.Slice((*float32)(unsafe.Pointer(outResult)), int(outLen))
		copy(out, src)
	}
	return out, nil
}

// DMatrixCreateFromMat wraps a dense row-major float32 buffer in a native
// DMatrix. The native library copies what it needs; the Go buffer is not
// retained past the call. Values equal to missing are treated as absent.
func DMatrixCreateFromMat(data []float32, rows, cols int, missing float32) (DMatrixHandle, error) {
	callMu.Lock()
	defer callMu.Unlock()

	var h C.DMatrixHandle
	if err := check("XGDMatrixCreateFromMat", C.XGDMatrixCreateFromMat(
		(*C.float)(unsafe.Pointer(&data[0])),
		C.bst_ulong(rows),
		C.bst_ulong(cols),
		C.float(missing),
		&h,
	)); err != nil {
		return nil, err
	}
	return DMatrixHandle(h), nil
}

// DMatrixFree destroys a native data matrix.
func DMatrixFree(h DMatrixHandle) error {
	callMu.Lock()
	defer callMu.Unlock()

	return check("XGDMatrixFree", C.XGDMatrixFree(C.DMatrixHandle(h)))
}
