package contracts

import (
	"errors"
	"fmt"
)

const (
	CodeUnknownError              = "LIB001"
	CodeLibraryIdNotFound         = "LIB002"
	CodeInvalidLibraryId          = "LIB003"
	CodeFileNotFound              = "LIB004"
	CodeDestinationPathNotDefined = "LIB005"
	CodeLibraryIdNotDefined       = "LIB006"
	CodeProviderNotDefined        = "LIB007"
)

// Error is a coded installation failure. The codes are stable and shared with
// existing manifests and tooling.
type Error struct {
	Code    string
	Message string
}

func (this Error) Error() string {
	return fmt.Sprintf("%s: %s", this.Code, this.Message)
}

func UnknownError(err error) Error {
	return Error{Code: CodeUnknownError, Message: fmt.Sprintf("an unknown error occurred: %s", err)}
}

func LibraryIdNotFound(libraryId string) Error {
	return Error{Code: CodeLibraryIdNotFound, Message: fmt.Sprintf("the library %q could not be resolved", libraryId)}
}

func InvalidLibraryId(libraryId, providerId string) Error {
	return Error{Code: CodeInvalidLibraryId, Message: fmt.Sprintf("the library id %q is not valid for the %q provider", libraryId, providerId)}
}

func FileNotFound(file, libraryId string) Error {
	return Error{Code: CodeFileNotFound, Message: fmt.Sprintf("the file %q was not found in library %q", file, libraryId)}
}

func DestinationPathNotDefined(libraryId string) Error {
	return Error{Code: CodeDestinationPathNotDefined, Message: fmt.Sprintf("the destination path must be defined for library %q", libraryId)}
}

func DestinationPathInvalid(libraryId, destination string) Error {
	return Error{Code: CodeDestinationPathNotDefined, Message: fmt.Sprintf("the destination path %q for library %q must stay inside the project root", destination, libraryId)}
}

func LibraryIdNotDefined() Error {
	return Error{Code: CodeLibraryIdNotDefined, Message: "the library id must be defined"}
}

func ProviderNotDefined() Error {
	return Error{Code: CodeProviderNotDefined, Message: "the provider must be defined"}
}

func ProviderNotFound(providerId string) Error {
	return Error{Code: CodeProviderNotDefined, Message: fmt.Sprintf("no provider is registered as %q", providerId)}
}

// AsError lifts a coded Error out of err's chain, falling back to fallback.
func AsError(err error, fallback Error) Error {
	var coded Error
	if errors.As(err, &coded) {
		return coded
	}
	var invalid *InvalidLibraryError
	if errors.As(err, &invalid) {
		return InvalidLibraryId(invalid.LibraryId, invalid.ProviderId)
	}
	return fallback
}

type InvalidLibraryError struct {
	LibraryId  string
	ProviderId string
}

func NewInvalidLibraryError(libraryId, providerId string) *InvalidLibraryError {
	return &InvalidLibraryError{LibraryId: libraryId, ProviderId: providerId}
}

func (this *InvalidLibraryError) Error() string {
	return fmt.Sprintf("the library %q is not a valid id for the %q provider", this.LibraryId, this.ProviderId)
}

var ErrNotFound = errors.New("not found")
