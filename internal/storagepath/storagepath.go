// Package storagepath derives the on-disk storage context of a window's web
// surface (cookies, cache, local storage) from the application name.
package storagepath

import (
	"fmt"
	"os"
	"path/filepath"
)

// Root returns the directory every storage context lives under: the
// platform temp directory ($TMPDIR on unix, %TEMP% on windows).
func Root() string {
	return os.TempDir()
}

// Dir returns the storage context for appName. It depends only on appName
// and the process temp root, so two windows with the same app name share a
// directory.
//
// Root and appName are joined with the platform separator. Earlier builds
// concatenated them directly ("/tmpGlacier App"); those directories are
// not migrated.
func Dir(appName string) string {
	return filepath.Join(Root(), appName)
}

// Ensure creates dir (and parents) with owner-only permissions. The
// directory is never removed by glacier.
func Ensure(dir string) error {
	if dir == "" {
		return fmt.Errorf("storage dir is empty")
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create storage dir %s: %w", dir, err)
	}
	return nil
}

// EngineEnv returns the environment the rendering engine reads its data
// locations from, scoped under dir. It must be applied before the engine
// initializes.
//
// WebKitGTK stores website data under $XDG_DATA_HOME and $XDG_CACHE_HOME;
// WebView2 uses WEBVIEW2_USER_DATA_FOLDER.
func EngineEnv(dir string) map[string]string {
	return map[string]string{
		"XDG_DATA_HOME":             filepath.Join(dir, "data"),
		"XDG_CACHE_HOME":            filepath.Join(dir, "cache"),
		"WEBVIEW2_USER_DATA_FOLDER": dir,
	}
}
