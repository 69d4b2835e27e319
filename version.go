package dinit

// Version is the current version of the go-dinit library
const Version = "0.1.0"

// VersionInfo contains detailed version information
type VersionInfo struct {
	// Version is the semantic version
	Version string
	// Format is the definition file dialect supported
	Format string
}

// GetVersion returns the current version information
func GetVersion() VersionInfo {
	return VersionInfo{
		Version: Version,
		Format:  "dinit",
	}
}
