package shell

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"sync"

	"github.com/smarty/libman/contracts"
)

// InMemoryFileSystem is a HostInteraction that never touches the disk.
type InMemoryFileSystem struct {
	Root string

	mutex        sync.Mutex
	fileSystem   map[string][]byte
	writes       []string
	errWriteFile map[string]error
}

func NewInMemoryFileSystem() *InMemoryFileSystem {
	return &InMemoryFileSystem{
		Root:         "/project",
		fileSystem:   make(map[string][]byte),
		errWriteFile: make(map[string]error),
	}
}

func (this *InMemoryFileSystem) RootPath() string {
	return this.Root
}

func (this *InMemoryFileSystem) WriteFile(ctx context.Context, path string, content io.Reader) error {
	key, err := this.key(path)
	if err != nil {
		return err
	}
	raw, err := io.ReadAll(NewContextReader(ctx, content))
	if err != nil {
		return err
	}

	this.mutex.Lock()
	defer this.mutex.Unlock()
	if err := this.errWriteFile[key]; err != nil {
		return err
	}
	this.fileSystem[key] = raw
	this.writes = append(this.writes, key)
	return nil
}

func (this *InMemoryFileSystem) DeleteFile(_ context.Context, path string) error {
	key, err := this.key(path)
	if err != nil {
		return err
	}
	this.mutex.Lock()
	defer this.mutex.Unlock()
	delete(this.fileSystem, key)
	return nil
}

func (this *InMemoryFileSystem) ReadFile(path string) ([]byte, error) {
	this.mutex.Lock()
	defer this.mutex.Unlock()
	raw, found := this.fileSystem[contracts.CleanDestination(path)]
	if !found {
		return nil, fmt.Errorf("%q: %w", path, os.ErrNotExist)
	}
	return raw, nil
}

func (this *InMemoryFileSystem) Exists(path string) bool {
	_, err := this.ReadFile(path)
	return err == nil
}

// Seed stores a file without recording a write.
func (this *InMemoryFileSystem) Seed(path string, content []byte) {
	this.mutex.Lock()
	defer this.mutex.Unlock()
	this.fileSystem[contracts.CleanDestination(path)] = content
}

func (this *InMemoryFileSystem) FailWrite(path string, err error) {
	this.mutex.Lock()
	defer this.mutex.Unlock()
	this.errWriteFile[contracts.CleanDestination(path)] = err
}

func (this *InMemoryFileSystem) Listing() (paths []string) {
	this.mutex.Lock()
	defer this.mutex.Unlock()
	for path := range this.fileSystem {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// Writes lists every successful write in the order it happened.
func (this *InMemoryFileSystem) Writes() []string {
	this.mutex.Lock()
	defer this.mutex.Unlock()
	return append([]string(nil), this.writes...)
}

func (this *InMemoryFileSystem) key(path string) (string, error) {
	if contracts.EscapesRoot(path) {
		return "", fmt.Errorf("the path %q is outside of the root directory", path)
	}
	return contracts.CleanDestination(path), nil
}
