package config

import (
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// dotEnvPaths returns the .env files to consult, highest precedence first:
// the working directory, then the directory holding the executable.
func dotEnvPaths() []string {
	paths := []string{".env"}
	if exe, err := os.Executable(); err == nil {
		paths = append(paths, filepath.Join(filepath.Dir(exe), ".env"))
	}
	return paths
}

// newEnvLookup returns a getenv that prefers the process environment and
// falls back to the values in paths. The process environment is not
// modified. Missing files are skipped.
func newEnvLookup(paths ...string) func(string) string {
	vals := make(map[string]string)
	for i := len(paths) - 1; i >= 0; i-- {
		m, err := godotenv.Read(paths[i])
		if err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				fmt.Fprintf(os.Stderr, "[WARN] could not read env file %s: %v. Ignoring it.\n", paths[i], err)
			}
			continue
		}
		maps.Copy(vals, m)
	}

	return func(key string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		return vals[key]
	}
}
