package archive

import (
	"archive/tar"
	"context"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zip"
	"github.com/klauspost/compress/zstd"
	"github.com/mholt/archiver"
	"github.com/nwaples/rardecode"

	"github.com/smarty/libman/contracts"
)

// Visitor receives each regular file entry. Returning archiver.ErrStopWalk ends
// the walk without an error.
type Visitor func(name string, content io.Reader) error

// Walk visits the regular file entries of a local archive in archive order.
func Walk(ctx context.Context, format Format, filename string, visit Visitor) error {
	guarded := func(name string, content io.Reader) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		name = entryName(name)
		if name == "" || contracts.EscapesRoot(name) {
			return nil
		}
		return visit(name, content)
	}
	switch format {
	case Zip:
		return walkZip(filename, guarded)
	case TarZstd:
		return walkTarZstd(filename, guarded)
	default:
		return archiver.Walk(filename, func(file archiver.File) error {
			if file.IsDir() || !regular(file) {
				return nil
			}
			return guarded(headerName(file), file)
		})
	}
}

func walkZip(filename string, visit Visitor) error {
	reader, err := zip.OpenReader(filename)
	if err != nil {
		return err
	}
	defer func() { _ = reader.Close() }()

	for _, file := range reader.File {
		if file.FileInfo().IsDir() {
			continue
		}
		err = visitZipEntry(file, visit)
		if err == archiver.ErrStopWalk {
			return nil
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func visitZipEntry(file *zip.File, visit Visitor) error {
	content, err := file.Open()
	if err != nil {
		return err
	}
	defer func() { _ = content.Close() }()
	return visit(file.Name, content)
}

func walkTarZstd(filename string, visit Visitor) error {
	file, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()
	decoder, err := zstd.NewReader(file)
	if err != nil {
		return err
	}
	defer decoder.Close()

	reader := tar.NewReader(decoder)
	for {
		header, err := reader.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if header.Typeflag != tar.TypeReg {
			continue
		}
		err = visit(header.Name, reader)
		if err == archiver.ErrStopWalk {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func headerName(file archiver.File) string {
	switch header := file.Header.(type) {
	case *tar.Header:
		return header.Name
	case *rardecode.FileHeader:
		return header.Name
	default:
		return file.Name()
	}
}

func regular(file archiver.File) bool {
	if header, ok := file.Header.(*tar.Header); ok {
		return header.Typeflag == tar.TypeReg
	}
	return file.Mode().IsRegular()
}

func entryName(name string) string {
	name = strings.TrimPrefix(contracts.CleanDestination(name), "./")
	if name == "." {
		return ""
	}
	return name
}
