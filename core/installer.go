package core

import (
	"context"
	"errors"
	"io"
	"os"
	"path"

	"github.com/smartystreets/logging"

	"github.com/smarty/libman/contracts"
)

// LibrarySource serves the files of one resolved library.
type LibrarySource interface {
	// Select narrows the declared file names to the ones this source installs.
	Select(declared []string) []string
	Open(ctx context.Context, file string) (io.ReadCloser, error)
	Close() error
}

type LibraryResolver interface {
	Resolve(ctx context.Context, state *contracts.LibraryInstallationState) (LibrarySource, error)
}

// PackageInstaller is the install algorithm every provider shares. Per-file
// failures are collected; cancellation is checked before each file.
type PackageInstaller struct {
	providerID string
	host       contracts.HostInteraction
	resolver   LibraryResolver
	logger     *logging.Logger
}

func NewPackageInstaller(providerID string, host contracts.HostInteraction, resolver LibraryResolver) *PackageInstaller {
	return &PackageInstaller{providerID: providerID, host: host, resolver: resolver}
}

func (this *PackageInstaller) Install(ctx context.Context, state *contracts.LibraryInstallationState) *contracts.InstallationResult {
	if ctx.Err() != nil {
		return contracts.CancelledResult(state)
	}
	if err := state.Validate(this.providerID); err != nil {
		return contracts.NewInstallationResult(state, contracts.AsError(err, contracts.UnknownError(err)))
	}

	source, err := this.resolver.Resolve(ctx, state)
	if err != nil {
		if ctx.Err() != nil {
			return contracts.CancelledResult(state)
		}
		return contracts.NewInstallationResult(state, contracts.AsError(err, contracts.LibraryIdNotFound(state.LibraryId)))
	}
	defer func() { _ = source.Close() }()

	var failures []contracts.Error
	for _, file := range source.Select(state.Files) {
		if ctx.Err() != nil {
			return contracts.CancelledResult(state, failures...)
		}
		err := this.installFile(ctx, state, source, file)
		if err == nil {
			continue
		}
		if ctx.Err() != nil {
			return contracts.CancelledResult(state, failures...)
		}
		this.logger.Printf("[WARN] %s in %s", err.Error(), state.Title())
		failures = append(failures, *err)
	}
	return contracts.NewInstallationResult(state, failures...)
}

func (this *PackageInstaller) installFile(ctx context.Context, state *contracts.LibraryInstallationState, source LibrarySource, file string) *contracts.Error {
	if file == "" || contracts.EscapesRoot(file) {
		failure := contracts.FileNotFound(file, state.LibraryId)
		return &failure
	}
	reader, err := source.Open(ctx, file)
	if err != nil {
		failure := contracts.AsError(err, openFailure(err, file, state.LibraryId))
		return &failure
	}
	defer func() { _ = reader.Close() }()

	target := path.Join(contracts.CleanDestination(state.DestinationPath), contracts.CleanDestination(file))
	err = this.host.WriteFile(ctx, target, reader)
	if err != nil {
		failure := contracts.UnknownError(err)
		return &failure
	}
	return nil
}

func openFailure(err error, file, libraryId string) contracts.Error {
	if errors.Is(err, os.ErrNotExist) || errors.Is(err, contracts.ErrNotFound) {
		return contracts.FileNotFound(file, libraryId)
	}
	return contracts.UnknownError(err)
}
