package pkg

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
)

// executableRename rewrites executable base names that do not identify the
// command, such as the binaries built by dlv.
//
//nolint:gochecknoglobals
var executableRename = []struct {
	pattern *regexp.Regexp
	repl    string
}{
	{regexp.MustCompile(`^__debug_bin\d*$`), Name},
	{regexp.MustCompile(`^\.+`), ""},
}

// Prefix returns the base name of the running executable, without extension,
// used to name the configuration and cache directories. [Name] is used when
// the executable name is unusable.
//
//nolint:gochecknoglobals
var Prefix = sync.OnceValue(
	func() string {
		exe, err := os.Executable()
		if err != nil {
			exe = os.Args[0]
		}

		id := filepath.Base(exe)
		id = strings.TrimSuffix(id, filepath.Ext(id))

		for _, r := range executableRename {
			id = r.pattern.ReplaceAllString(id, r.repl)
		}

		if id == "" || id == "." {
			return Name
		}

		return id
	},
)

// ConfigDir returns the directory holding the configuration file.
//
//nolint:gochecknoglobals
var ConfigDir = sync.OnceValue(
	func() string { return userDir(os.UserConfigDir, ".config") },
)

// CacheDir returns the directory holding REPL history and profiles.
//
//nolint:gochecknoglobals
var CacheDir = sync.OnceValue(
	func() string { return userDir(os.UserCacheDir, ".cache") },
)

// userDir returns the [Prefix] subdirectory of the directory reported by
// base. It falls back to hidden under the home directory, and then to the
// working directory.
func userDir(base func() (string, error), hidden string) string {
	dir, err := base()
	if err != nil {
		if home, herr := os.UserHomeDir(); herr == nil {
			dir = filepath.Join(home, hidden)
		} else if wd, werr := os.Getwd(); werr == nil {
			dir = wd
		} else {
			dir = "."
		}
	}

	return filepath.Join(dir, Prefix())
}
