package cdnjs

import (
	"strings"

	"github.com/smarty/libman/contracts"
)

// ParseLibraryId splits "name" or "name@version". An omitted version is
// returned empty.
func ParseLibraryId(libraryId string) (name, version string, err error) {
	id := strings.TrimSpace(libraryId)
	index := strings.LastIndex(id, "@")
	if index < 0 {
		name = id
	} else {
		name, version = id[:index], id[index+1:]
		if version == "" {
			return "", "", contracts.NewInvalidLibraryError(libraryId, ProviderID)
		}
	}
	if name == "" || strings.ContainsAny(name, "/\\") {
		return "", "", contracts.NewInvalidLibraryError(libraryId, ProviderID)
	}
	return name, version, nil
}
