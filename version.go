package parsnip

// Version and BuildDate identify a build of the toolkit. BuildDate is meant
// to be overridden via -ldflags at release time.
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
)
