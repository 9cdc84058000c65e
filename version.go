package xgbgo

import (
	"github.com/YuminosukeSato/xgbgo/internal/capi"
)

// Version reports the version triple of the loaded XGBoost shared library.
// It doubles as a cheap liveness probe: if the process got this far, the
// dynamic linker found a usable library.
func Version() (major, minor, patch int) {
	return capi.Version()
}
