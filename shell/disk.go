package shell

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/smarty/libman/contracts"
)

// DiskFileSystem writes beneath a fixed root. Each write lands in a temp file
// next to its target and is renamed into place once fully copied.
type DiskFileSystem struct {
	root string
}

func NewDiskFileSystem(root string) *DiskFileSystem {
	return &DiskFileSystem{root: filepath.Clean(root)}
}

func (this *DiskFileSystem) RootPath() string {
	return this.root
}

func (this *DiskFileSystem) WriteFile(ctx context.Context, path string, content io.Reader) error {
	target, err := this.resolve(path)
	if err != nil {
		return err
	}
	err = os.MkdirAll(filepath.Dir(target), 0755)
	if err != nil {
		return err
	}
	temp, err := os.CreateTemp(filepath.Dir(target), "."+filepath.Base(target)+".*")
	if err != nil {
		return err
	}
	_, err = io.Copy(temp, NewContextReader(ctx, content))
	closeErr := temp.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(temp.Name())
		return err
	}
	err = os.Chmod(temp.Name(), 0644)
	if err == nil {
		err = os.Rename(temp.Name(), target)
	}
	if err != nil {
		_ = os.Remove(temp.Name())
		return err
	}
	return nil
}

func (this *DiskFileSystem) DeleteFile(_ context.Context, path string) error {
	target, err := this.resolve(path)
	if err != nil {
		return err
	}
	err = os.Remove(target)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (this *DiskFileSystem) resolve(path string) (string, error) {
	if contracts.EscapesRoot(path) {
		return "", fmt.Errorf("the path %q is outside of the root directory %q", path, this.root)
	}
	return filepath.Join(this.root, filepath.FromSlash(contracts.CleanDestination(path))), nil
}
