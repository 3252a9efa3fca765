package contracts

const CurrentManifestVersion = "1.0"

type ManifestDocument struct {
	Version   string                      `json:"version"`
	Libraries []*LibraryInstallationState `json:"libraries"`
}
