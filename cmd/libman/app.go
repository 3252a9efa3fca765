package main

import (
	"context"
	"fmt"
	"io/ioutil"
	"os"

	"github.com/smarty/libman/archive"
	"github.com/smarty/libman/cdnjs"
	"github.com/smarty/libman/contracts"
	"github.com/smarty/libman/core"
	"github.com/smarty/libman/filesystem"
	"github.com/smarty/libman/shell"
)

type App struct {
	palette
	config       Config
	dependencies *core.Dependencies
	manifest     *core.Manifest
}

func NewApp(config Config) (*App, error) {
	downloader := shell.NewHTTPDownloader(shell.NewHTTPClient(config.Timeout))
	cdn, err := cdnjs.NewFactory(downloader, config.CdnjsAPI, config.CdnjsFiles)
	if err != nil {
		return nil, err
	}
	dependencies := core.NewDependencies(
		shell.NewDiskFileSystem(config.Root),
		cdn,
		filesystem.NewFactory(downloader),
		archive.NewFactory(downloader),
	)
	manifest, err := readManifest(config.ManifestPath(), dependencies)
	if err != nil {
		return nil, err
	}
	manifest.SetConcurrency(config.Concurrency)
	return &App{
		palette:      newPalette(config.NoColor),
		config:       config,
		dependencies: dependencies,
		manifest:     manifest,
	}, nil
}

// readManifest treats a missing manifest as empty.
func readManifest(path string, dependencies *core.Dependencies) (*core.Manifest, error) {
	raw, err := ioutil.ReadFile(path)
	if os.IsNotExist(err) {
		return core.NewManifest(dependencies), nil
	}
	if err != nil {
		return nil, err
	}
	manifest, err := core.FromJSON(raw, dependencies)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return manifest, nil
}

func (this *App) Restore(ctx context.Context, filter ...string) []*contracts.InstallationResult {
	return this.manifest.Restore(ctx, filter...)
}

// Install installs one library and, when it succeeds, records it in the
// manifest. Without declared files, every file the catalog lists is installed.
func (this *App) Install(ctx context.Context, state *contracts.LibraryInstallationState) (*contracts.InstallationResult, error) {
	if len(state.Files) == 0 {
		library, err := this.library(ctx, state.ProviderId, state.LibraryId)
		if err != nil {
			return nil, err
		}
		state.Files = library.Files
		if library.Version != "" && state.ProviderId == cdnjs.ProviderID {
			state.LibraryId = library.ID()
		}
	}
	result := this.manifest.InstallLibrary(ctx, state)
	if !result.Success() {
		return result, nil
	}
	this.manifest.AddLibrary(state)
	return result, this.save(ctx)
}

func (this *App) Uninstall(ctx context.Context, libraryId string) ([]*contracts.InstallationResult, error) {
	matches := this.manifest.FindLibraries(libraryId)
	if len(matches) == 0 {
		return nil, fmt.Errorf("no library in the manifest matches %q", libraryId)
	}
	var results []*contracts.InstallationResult
	for _, state := range matches {
		results = append(results, this.manifest.UninstallLibrary(ctx, state))
	}
	return results, this.save(ctx)
}

func (this *App) Clean(ctx context.Context) []*contracts.InstallationResult {
	return this.manifest.Clean(ctx)
}

func (this *App) Search(ctx context.Context, providerId, term string, max int) ([]contracts.LibraryGroup, error) {
	catalog, err := this.catalog(providerId)
	if err != nil {
		return nil, err
	}
	return catalog.Search(ctx, term, max)
}

func (this *App) Versions(ctx context.Context, providerId, name string) ([]string, error) {
	catalog, err := this.catalog(providerId)
	if err != nil {
		return nil, err
	}
	return catalog.Versions(ctx, name)
}

func (this *App) library(ctx context.Context, providerId, libraryId string) (contracts.Library, error) {
	catalog, err := this.catalog(providerId)
	if err != nil {
		return contracts.Library{}, err
	}
	return catalog.GetLibrary(ctx, libraryId)
}

func (this *App) catalog(providerId string) (contracts.LibraryCatalog, error) {
	provider, err := this.dependencies.GetProvider(providerId)
	if err != nil {
		return nil, err
	}
	catalog := provider.Catalog()
	if catalog == nil {
		return nil, fmt.Errorf("the %q provider has no catalog", providerId)
	}
	return catalog, nil
}

func (this *App) save(ctx context.Context) error {
	return this.manifest.Save(ctx, this.config.Manifest)
}
