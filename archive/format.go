package archive

import "strings"

type Format int

const (
	Unsupported Format = iota
	Zip
	TarZstd
	Walkable
)

var extensions = []struct {
	suffix string
	format Format
}{
	{".zip", Zip},
	{".tar.zst", TarZstd},
	{".tzst", TarZstd},
	{".tar.gz", Walkable},
	{".tgz", Walkable},
	{".tar.bz2", Walkable},
	{".tbz2", Walkable},
	{".tar.xz", Walkable},
	{".txz", Walkable},
	{".tar.lz4", Walkable},
	{".tlz4", Walkable},
	{".tar.sz", Walkable},
	{".tsz", Walkable},
	{".tar", Walkable},
	{".rar", Walkable},
}

// Detect reports the archive format implied by name's extension along with
// the matched extension.
func Detect(name string) (Format, string) {
	lower := strings.ToLower(name)
	if index := strings.IndexAny(lower, "?#"); index >= 0 {
		lower = lower[:index]
	}
	for _, extension := range extensions {
		if strings.HasSuffix(lower, extension.suffix) {
			return extension.format, extension.suffix
		}
	}
	return Unsupported, ""
}
