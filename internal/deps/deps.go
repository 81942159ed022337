// Package deps checks for the external programs vaani can use.
package deps

import (
	"os/exec"
	"runtime"
)

// Status represents the installation status of a dependency
type Status struct {
	Name      string
	Installed bool
	Path      string
}

var lookPath = exec.LookPath

// openers lists the commands that open a URL, per platform
func openers(goos string) []string {
	switch goos {
	case "darwin":
		return []string{"open"}
	case "windows":
		return []string{"rundll32"}
	default:
		return []string{"xdg-open", "sensible-browser", "x-www-browser"}
	}
}

// CheckBrowserOpener returns the first available URL opener for this platform
func CheckBrowserOpener() Status {
	return checkFirst(openers(runtime.GOOS))
}

func checkFirst(names []string) Status {
	for _, name := range names {
		if path, err := lookPath(name); err == nil {
			return Status{Name: name, Installed: true, Path: path}
		}
	}
	if len(names) == 0 {
		return Status{}
	}
	return Status{Name: names[0]}
}

// OpenURLCommand returns the command that opens url, or nil if no opener is installed
func OpenURLCommand(url string) *exec.Cmd {
	s := CheckBrowserOpener()
	if !s.Installed {
		return nil
	}
	if s.Name == "rundll32" {
		return exec.Command(s.Path, "url.dll,FileProtocolHandler", url)
	}
	return exec.Command(s.Path, url)
}
