// Package cmd holds the flags and build information shared by the hub executables.
package cmd

var (
	// Version is the app's semantic version. Designed to be overwritten by make.
	Version string

	// Branch is the git branch used to build the App. Designed to be overwritten by make.
	Branch string

	// Commit is the git commit used to build the app. Designed to be overwritten by make.
	Commit string
)

// FullVersion returns the version with the commit, when known.
func FullVersion() string {
	if Commit == "" {
		return Version
	}
	return Version + "+" + Commit
}
