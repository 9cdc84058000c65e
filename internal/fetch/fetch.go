// Package fetch acquires the prebuilt XGBoost shared library.
//
// The library ships inside the official Python wheels on pythonhosted.org,
// one wheel per platform. Fetching means: resolve the wheel name for this
// platform and version, download it, pull the shared library out of the zip,
// and fix up its load path metadata so the dynamic linker resolves it
// relative to the consuming binary.
package fetch

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	xgberrors "github.com/YuminosukeSato/xgbgo/pkg/errors"
)

// DefaultVersion is the XGBoost release fetched when none is requested.
const DefaultVersion = "3.1.1"

// EnvVersion is the environment variable that overrides the default version.
const EnvVersion = "XGBOOST_VERSION"

const wheelBaseURL = "https://files.pythonhosted.org/packages/py3/x/xgboost/"

// WheelFilename resolves the platform-specific wheel name for a release.
// Platforms outside the table have no prebuilt library to fetch.
func WheelFilename(version, goos, goarch string) (string, error) {
	switch goos + "/" + goarch {
	case "linux/amd64":
		return fmt.Sprintf("xgboost-%s-py3-none-manylinux_2_28_x86_64.whl", version), nil
	case "linux/arm64":
		return fmt.Sprintf("xgboost-%s-py3-none-manylinux_2_28_aarch64.whl", version), nil
	case "darwin/amd64":
		return fmt.Sprintf("xgboost-%s-py3-none-macosx_10_15_x86_64.whl", version), nil
	case "darwin/arm64":
		return fmt.Sprintf("xgboost-%s-py3-none-macosx_12_0_arm64.whl", version), nil
	case "windows/amd64":
		return fmt.Sprintf("xgboost-%s-py3-none-win_amd64.whl", version), nil
	default:
		return "", xgberrors.NewLibraryError(fmt.Sprintf("no prebuilt library for platform %s/%s", goos, goarch))
	}
}

// WheelURL resolves the download URL for a release on this platform.
func WheelURL(version, goos, goarch string) (string, error) {
	name, err := WheelFilename(version, goos, goarch)
	if err != nil {
		return "", err
	}
	return wheelBaseURL + name, nil
}

// LibraryFilename returns the shared-library name the runtime linker expects
// on the given OS.
func LibraryFilename(goos string) string {
	switch goos {
	case "windows":
		return "xgboost.dll"
	case "darwin":
		return "libxgboost.dylib"
	default:
		return "libxgboost.so"
	}
}

// Download fetches url into dest, replacing any existing file.
func Download(ctx context.Context, url, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return xgberrors.Wrap(err, "building download request")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return xgberrors.Wrapf(err, "downloading %s", url)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return xgberrors.Newf("downloading %s: HTTP %d", url, resp.StatusCode)
	}

	f, err := os.Create(dest)
	if err != nil {
		return xgberrors.Wrap(err, "creating wheel file")
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		_ = f.Close()
		return xgberrors.Wrap(err, "writing wheel file")
	}
	return f.Close()
}

// ExtractLibrary pulls the shared library out of a wheel (a zip archive,
// library usually under xgboost/lib/) and writes it into outDir. Returns the
// path of the extracted library.
func ExtractLibrary(wheelPath, goos, outDir string) (string, error) {
	libName := LibraryFilename(goos)

	archive, err := zip.OpenReader(wheelPath)
	if err != nil {
		return "", xgberrors.Wrapf(err, "opening wheel %s", wheelPath)
	}
	defer func() { _ = archive.Close() }()

	for _, entry := range archive.File {
		if !strings.HasSuffix(entry.Name, libName) {
			continue
		}
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return "", xgberrors.Wrap(err, "creating output directory")
		}
		dest := filepath.Join(outDir, libName)
		if err := copyZipEntry(entry, dest); err != nil {
			return "", err
		}
		return dest, nil
	}
	return "", xgberrors.NewLibraryError(fmt.Sprintf("%s not found in %s", libName, filepath.Base(wheelPath)))
}

func copyZipEntry(entry *zip.File, dest string) error {
	src, err := entry.Open()
	if err != nil {
		return xgberrors.Wrapf(err, "opening %s in wheel", entry.Name)
	}
	defer func() { _ = src.Close() }()

	f, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o755)
	if err != nil {
		return xgberrors.Wrap(err, "creating library file")
	}
	if _, err := io.Copy(f, src); err != nil {
		_ = f.Close()
		return xgberrors.Wrap(err, "extracting library")
	}
	return f.Close()
}

// Options configures a Fetch run.
type Options struct {
	Version string // empty means EnvVersion, then DefaultVersion
	OutDir  string // where the shared library lands
	GOOS    string
	GOARCH  string
}

// ResolveVersion applies the version precedence: explicit flag, then the
// environment variable, then the fixed default.
func ResolveVersion(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if v := os.Getenv(EnvVersion); v != "" {
		return v
	}
	return DefaultVersion
}

// Fetch downloads the wheel for the requested version and platform, extracts
// the shared library into opts.OutDir, and fixes up its load path metadata.
// Returns the path of the installed library.
func Fetch(ctx context.Context, logger zerolog.Logger, opts Options) (string, error) {
	version := ResolveVersion(opts.Version)

	url, err := WheelURL(version, opts.GOOS, opts.GOARCH)
	if err != nil {
		return "", err
	}

	tmpDir, err := os.MkdirTemp("", "xgbgo-wheel-*")
	if err != nil {
		return "", xgberrors.Wrap(err, "creating temp directory")
	}
	defer func() { _ = os.RemoveAll(tmpDir) }()

	wheelPath := filepath.Join(tmpDir, filepath.Base(url))
	logger.Info().Str("url", url).Str("version", version).Msg("downloading wheel")
	if err := Download(ctx, url, wheelPath); err != nil {
		return "", err
	}

	logger.Info().Str("wheel", wheelPath).Msg("extracting shared library")
	libPath, err := ExtractLibrary(wheelPath, opts.GOOS, opts.OutDir)
	if err != nil {
		return "", err
	}

	FixupLoadPath(logger, opts.GOOS, libPath)
	logger.Info().Str("library", libPath).Msg("library installed")
	return libPath, nil
}
