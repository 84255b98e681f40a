package build

// Populated at link time via -ldflags; the defaults identify a plain
// source build.
var (
	Version   = "dev"
	Commit    = "none"
	BuildTime = "unknown"
)

// FullVersion renders "Version+Commit", e.g. "1.2.0+4f9c1d2". This is
// the string the CLI prints for --version.
func FullVersion() string {
	return Version + "+" + Commit
}
