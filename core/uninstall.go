package core

import (
	"context"
	"path"

	"github.com/smarty/libman/contracts"
)

// Uninstall deletes the declared files of one library from its destination.
func Uninstall(ctx context.Context, state *contracts.LibraryInstallationState, deleter contracts.Deleter) *contracts.InstallationResult {
	if err := state.Validate(""); err != nil {
		return contracts.NewInstallationResult(state, contracts.AsError(err, contracts.UnknownError(err)))
	}
	var failures []contracts.Error
	for _, file := range state.Files {
		if ctx.Err() != nil {
			return contracts.CancelledResult(state, failures...)
		}
		if contracts.EscapesRoot(file) {
			failures = append(failures, contracts.FileNotFound(file, state.LibraryId))
			continue
		}
		target := path.Join(contracts.CleanDestination(state.DestinationPath), contracts.CleanDestination(file))
		if err := deleter.DeleteFile(ctx, target); err != nil {
			failures = append(failures, contracts.UnknownError(err))
		}
	}
	return contracts.NewInstallationResult(state, failures...)
}
