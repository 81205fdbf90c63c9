package clipboard

import "os"

// Detect returns the backend for the given GOOS. Anything other than darwin
// and windows gets the X11/Wayland backend.
func Detect(goos string) Backend {
	return detectWith(goos, execRunner{}, os.Getenv)
}

func detectWith(goos string, run commandRunner, getenv func(string) string) Backend {
	switch goos {
	case "darwin":
		return &darwinBackend{run: run}
	case "windows":
		return newWindowsBackend()
	default:
		return newLinuxBackend(run, getenv)
	}
}
