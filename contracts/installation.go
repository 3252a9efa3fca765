package contracts

import (
	"context"
	"fmt"
	"path"
	"strings"
)

type LibraryInstallationState struct {
	ProviderId      string   `json:"provider"`
	LibraryId       string   `json:"library"`
	DestinationPath string   `json:"destination"`
	Files           []string `json:"files,omitempty"`
}

// Validate reports the first failing precondition for installing this state with
// the provider identified by providerID. An empty providerID skips the mismatch check.
func (this *LibraryInstallationState) Validate(providerID string) error {
	if this.ProviderId == "" || (providerID != "" && this.ProviderId != providerID) {
		return ProviderNotDefined()
	}
	if this.LibraryId == "" {
		return LibraryIdNotDefined()
	}
	if strings.TrimSpace(this.DestinationPath) == "" {
		return DestinationPathNotDefined(this.LibraryId)
	}
	if EscapesRoot(this.DestinationPath) {
		return DestinationPathInvalid(this.LibraryId, this.DestinationPath)
	}
	return nil
}

// Key identifies a manifest entry by provider, library and destination.
func (this *LibraryInstallationState) Key() string {
	return fmt.Sprintf("%s|%s|%s", this.ProviderId, this.LibraryId, CleanDestination(this.DestinationPath))
}

func (this *LibraryInstallationState) Title() string {
	return fmt.Sprintf("[%s: %s -> %s]", this.ProviderId, this.LibraryId, this.DestinationPath)
}

type InstallationResult struct {
	State     *LibraryInstallationState
	Cancelled bool
	Errors    []Error
}

func NewInstallationResult(state *LibraryInstallationState, errs ...Error) *InstallationResult {
	return &InstallationResult{State: state, Errors: errs}
}

func CancelledResult(state *LibraryInstallationState, errs ...Error) *InstallationResult {
	return &InstallationResult{State: state, Cancelled: true, Errors: errs}
}

func (this *InstallationResult) Success() bool {
	return !this.Cancelled && len(this.Errors) == 0
}

type Provider interface {
	ID() string
	Install(ctx context.Context, state *LibraryInstallationState) *InstallationResult
	Catalog() LibraryCatalog
}

type ProviderFactory interface {
	ProviderID() string
	CreateProvider(host HostInteraction) Provider
}

// EscapesRoot reports whether a slash- or backslash-separated relative path is
// absolute or climbs above its starting directory.
func EscapesRoot(relative string) bool {
	normalized := strings.ReplaceAll(relative, "\\", "/")
	if strings.HasPrefix(normalized, "/") || hasVolumeName(normalized) {
		return true
	}
	cleaned := path.Clean(normalized)
	return cleaned == ".." || strings.HasPrefix(cleaned, "../")
}

func CleanDestination(relative string) string {
	return path.Clean(strings.ReplaceAll(strings.TrimSpace(relative), "\\", "/"))
}

func hasVolumeName(normalized string) bool {
	return len(normalized) >= 2 && normalized[1] == ':'
}
