// Package buildinfo reports the module version and VCS state a binary was
// built from, so that stored results can be traced to the code that made
// them.
package buildinfo

import (
	"fmt"
	"runtime/debug"
)

type Info struct {
	Package    string
	Version    string
	GoVersion  string
	Commit     string
	CommitTime string
	Modified   bool
}

func (c Info) String() string {
	if c.GoVersion == "" {
		return "build information unavailable"
	}

	mod := ""
	if c.Modified {
		mod = " Files in the repo were modified after that commit."
	}

	commit := c.Commit
	if commit == "" {
		commit = "unknown"
	}

	return fmt.Sprintf("This %s %s binary was built with %s at commit %s at time %v.%s", c.Package, c.Version, c.GoVersion, commit, c.CommitTime, mod)
}

// Fields returns the build information as alternating keys and values, for
// structured loggers.
func (c Info) Fields() []interface{} {
	return []interface{}{
		"package", c.Package,
		"version", c.Version,
		"go", c.GoVersion,
		"commit", c.Commit,
		"commit_time", c.CommitTime,
		"modified", c.Modified,
	}
}

// Get reads the build information embedded by the Go toolchain. The zero Info
// is returned when none is available.
func Get() Info {
	z, ok := debug.ReadBuildInfo()
	if !ok {
		return Info{}
	}

	return fromBuildInfo(z)
}

func fromBuildInfo(z *debug.BuildInfo) Info {
	out := Info{
		GoVersion: z.GoVersion,
		Package:   z.Path,
		Version:   z.Main.Version,
	}

	for _, s := range z.Settings {
		switch s.Key {
		case "vcs.revision":
			out.Commit = s.Value
		case "vcs.time":
			out.CommitTime = s.Value
		case "vcs.modified":
			out.Modified = s.Value == "true"
		}
	}

	return out
}
