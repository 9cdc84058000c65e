package fetch

import (
	"os/exec"
	"path/filepath"

	"github.com/rs/zerolog"
)

// FixupLoadPath rewrites the library's install name (darwin) or soname
// (linux) so the dynamic linker resolves it relative to the loading binary
// instead of the absolute path baked in at wheel build time. Best effort:
// the tools may be absent, and the library often works without the rewrite
// when an rpath points at its directory.
func FixupLoadPath(logger zerolog.Logger, goos, libPath string) {
	name := filepath.Base(libPath)

	switch goos {
	case "darwin":
		out, err := exec.Command("install_name_tool", "-id", "@loader_path/"+name, libPath).CombinedOutput()
		if err != nil {
			logger.Warn().Err(err).Str("output", string(out)).Msg("install_name_tool failed; relying on rpath")
		}
	case "linux":
		out, err := exec.Command("patchelf", "--set-soname", name, libPath).CombinedOutput()
		if err != nil {
			logger.Warn().Err(err).Str("output", string(out)).Msg("patchelf failed; relying on rpath")
		}
	}
}
