// Package version reports the glacier library version.
package version

import "runtime/debug"

// Version is set at build time with
//
//	-ldflags "-X github.com/glacierapp/glacier/internal/version.Version=v1.2.3"
var Version = ""

// Core returns the library version: the ldflags value when set, else the
// module version recorded in the binary, else "dev".
func Core() string {
	if Version != "" {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		if v := info.Main.Version; v != "" && v != "(devel)" {
			return v
		}
	}
	return "dev"
}
