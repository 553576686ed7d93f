package runner

// Build metadata, overridden at release time via
// -ldflags "-X github.com/mapleleads/directory-web/runner.Version=..."
var (
	// Version is the release version, "dev" for local builds.
	Version = "dev"

	// BuildDate is when the binary was built.
	BuildDate = "unknown"

	// Commit is the git commit hash the binary was built from.
	Commit = "none"
)
