package contracts

import (
	"context"
	"io"
)

// HostInteraction is the only way the core touches the destination filesystem.
// Paths are relative to RootPath and use forward slashes.
type HostInteraction interface {
	RootPath
	FileWriter
	Deleter
}

type RootPath interface {
	RootPath() string
}

type FileWriter interface {
	WriteFile(ctx context.Context, path string, content io.Reader) error
}

type Deleter interface {
	DeleteFile(ctx context.Context, path string) error
}
