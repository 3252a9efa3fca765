package core

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/smartystreets/logging"
	"golang.org/x/sync/errgroup"

	"github.com/smarty/libman/contracts"
)

type ProviderRegistry interface {
	GetProvider(id string) (contracts.Provider, error)
	HostInteraction() contracts.HostInteraction
}

const DefaultConcurrency = 8

// Manifest is the desired state of a project's libraries, in declared order.
// It is not safe for concurrent mutation.
type Manifest struct {
	version      string
	libraries    []*contracts.LibraryInstallationState
	dependencies ProviderRegistry
	concurrency  int
	logger       *logging.Logger
}

func NewManifest(dependencies ProviderRegistry) *Manifest {
	return &Manifest{
		version:      contracts.CurrentManifestVersion,
		dependencies: dependencies,
		concurrency:  DefaultConcurrency,
	}
}

// FromJSON parses a manifest document. A blank document yields an empty manifest.
func FromJSON(raw []byte, dependencies ProviderRegistry) (*Manifest, error) {
	this := NewManifest(dependencies)
	if len(bytes.TrimSpace(raw)) == 0 {
		return this, nil
	}
	var document contracts.ManifestDocument
	err := json.Unmarshal(raw, &document)
	if err != nil {
		return nil, fmt.Errorf("malformed manifest: %w", err)
	}
	if document.Version != "" {
		this.version = document.Version
	}
	for _, library := range document.Libraries {
		if library != nil {
			this.libraries = append(this.libraries, library)
		}
	}
	return this, nil
}

func (this *Manifest) ToJSON() ([]byte, error) {
	document := contracts.ManifestDocument{
		Version:   this.version,
		Libraries: this.Libraries(),
	}
	if document.Libraries == nil {
		document.Libraries = []*contracts.LibraryInstallationState{}
	}
	raw, err := json.MarshalIndent(document, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(raw, '\n'), nil
}

// Save writes the document to a path relative to the host root.
func (this *Manifest) Save(ctx context.Context, name string) error {
	raw, err := this.ToJSON()
	if err != nil {
		return err
	}
	return this.dependencies.HostInteraction().WriteFile(ctx, name, bytes.NewReader(raw))
}

func (this *Manifest) Version() string {
	return this.version
}

func (this *Manifest) Libraries() []*contracts.LibraryInstallationState {
	return append([]*contracts.LibraryInstallationState(nil), this.libraries...)
}

func (this *Manifest) SetConcurrency(concurrency int) {
	if concurrency < 1 {
		concurrency = 1
	}
	this.concurrency = concurrency
}

// AddLibrary replaces the entry with the same provider, library and destination
// in place, or appends a new entry.
func (this *Manifest) AddLibrary(state *contracts.LibraryInstallationState) {
	if index := this.indexOf(state); index >= 0 {
		this.libraries[index] = state
		return
	}
	this.libraries = append(this.libraries, state)
}

func (this *Manifest) RemoveLibrary(state *contracts.LibraryInstallationState) bool {
	index := this.indexOf(state)
	if index < 0 {
		return false
	}
	this.libraries = append(this.libraries[:index:index], this.libraries[index+1:]...)
	return true
}

func (this *Manifest) FindLibraries(filter ...string) []*contracts.LibraryInstallationState {
	if len(filter) == 0 {
		return nil
	}
	return Filter(this.Libraries(), filter)
}

func (this *Manifest) indexOf(state *contracts.LibraryInstallationState) int {
	key := state.Key()
	for index, library := range this.libraries {
		if library.Key() == key {
			return index
		}
	}
	return -1
}

// InstallLibrary installs one entry with its registered provider.
func (this *Manifest) InstallLibrary(ctx context.Context, state *contracts.LibraryInstallationState) (result *contracts.InstallationResult) {
	defer func() {
		if recovered := recover(); recovered != nil {
			this.logger.Printf("[WARN] install of %s panicked: %v", state.Title(), recovered)
			result = contracts.NewInstallationResult(state, contracts.UnknownError(fmt.Errorf("%v", recovered)))
		}
	}()
	if ctx.Err() != nil {
		return contracts.CancelledResult(state)
	}
	provider, err := this.dependencies.GetProvider(state.ProviderId)
	if err != nil {
		return contracts.NewInstallationResult(state, contracts.AsError(err, contracts.ProviderNotFound(state.ProviderId)))
	}
	result = provider.Install(ctx, state)
	if result == nil {
		return contracts.NewInstallationResult(state, contracts.UnknownError(fmt.Errorf("provider %q returned no result", provider.ID())))
	}
	return result
}

// Restore installs every entry matching filter (all entries when filter is
// empty) and returns one result per entry in declared order. Entries that share
// a destination install one after another in declared order; all other entries
// install concurrently.
func (this *Manifest) Restore(ctx context.Context, filter ...string) []*contracts.InstallationResult {
	libraries := Filter(this.Libraries(), filter)
	results := make([]*contracts.InstallationResult, len(libraries))

	group := new(errgroup.Group)
	group.SetLimit(this.concurrency)
	for _, indexes := range groupByDestination(libraries) {
		indexes := indexes
		group.Go(func() error {
			for _, index := range indexes {
				results[index] = this.InstallLibrary(ctx, libraries[index])
			}
			return nil
		})
	}
	_ = group.Wait()
	return results
}

// UninstallLibrary deletes the entry's files and removes it from the manifest.
func (this *Manifest) UninstallLibrary(ctx context.Context, state *contracts.LibraryInstallationState) *contracts.InstallationResult {
	result := Uninstall(ctx, state, this.dependencies.HostInteraction())
	if result.Success() {
		this.RemoveLibrary(state)
	}
	return result
}

// Clean deletes the files of every entry but keeps the entries.
func (this *Manifest) Clean(ctx context.Context) (results []*contracts.InstallationResult) {
	for _, library := range this.Libraries() {
		results = append(results, Uninstall(ctx, library, this.dependencies.HostInteraction()))
	}
	return results
}

func groupByDestination(libraries []*contracts.LibraryInstallationState) (groups [][]int) {
	positions := make(map[string]int)
	for index, library := range libraries {
		destination := contracts.CleanDestination(library.DestinationPath)
		position, found := positions[destination]
		if !found {
			position = len(groups)
			positions[destination] = position
			groups = append(groups, nil)
		}
		groups[position] = append(groups[position], index)
	}
	return groups
}
