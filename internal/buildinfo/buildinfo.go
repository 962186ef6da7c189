package buildinfo

// Populated at build time via -ldflags, e.g.
//
//	go build -ldflags "-X .../internal/buildinfo.Version=v1.2.0"
var (
	Version   = "dev"
	Revision  = "unknown"
	BuildDate = "unknown"
)
