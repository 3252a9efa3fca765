package core

import (
	"strings"

	"github.com/smarty/libman/contracts"
)

// Filter keeps the libraries whose id, or name without a version, appears in filter.
func Filter(original []*contracts.LibraryInstallationState, filter []string) (filtered []*contracts.LibraryInstallationState) {
	if len(filter) == 0 {
		return original
	}
	for _, library := range original {
		if contains(filter, library.LibraryId) || contains(filter, LibraryName(library.LibraryId)) {
			filtered = append(filtered, library)
		}
	}
	return filtered
}

// LibraryName strips a trailing @version from a library id.
func LibraryName(libraryId string) string {
	if at := strings.LastIndex(libraryId, "@"); at > 0 {
		return libraryId[:at]
	}
	return libraryId
}

func contains(haystack []string, needle string) bool {
	for _, straw := range haystack {
		if straw == needle {
			return true
		}
	}
	return false
}
