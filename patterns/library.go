package patterns

import (
	"embed"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

var ErrUnknownPattern = errors.New("unknown pattern")

//go:embed library/*.json
var library embed.FS

// builtins parses the embedded library once, keyed by file name
var builtins = sync.OnceValues(func() (map[string]Pattern, error) {
	entries, err := fs.ReadDir(library, "library")
	if err != nil {
		return nil, errors.Wrap(err, "[builtins] failed to list embedded patterns")
	}

	set := make(map[string]Pattern, len(entries))
	for _, entry := range entries {
		f, err := library.Open(path.Join("library", entry.Name()))
		if err != nil {
			return nil, errors.Wrapf(err, "[builtins] failed to open %+v", entry.Name())
		}
		p, err := Decode(f)
		f.Close()
		if err != nil {
			return nil, errors.Wrapf(err, "[builtins] failed to decode %+v", entry.Name())
		}
		set[strings.TrimSuffix(entry.Name(), ".json")] = p
	}
	return set, nil
})

// Builtin returns the embedded pattern called name
func Builtin(name string) (Pattern, error) {
	set, err := builtins()
	if err != nil {
		return Pattern{}, err
	}
	p, ok := set[name]
	if !ok {
		return Pattern{}, errors.Wrapf(ErrUnknownPattern, "[Builtin] %q", name)
	}
	return p, nil
}

// BuiltinNames lists the embedded patterns in alphabetical order
func BuiltinNames() []string {
	set, err := builtins()
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Resolve looks for <dir>/<name>.json first and falls back to the embedded
// pattern of the same name. An empty dir only consults the embedded library.
func Resolve(name, dir string) (Pattern, error) {
	if dir != "" {
		filename := filepath.Join(dir, name+".json")
		p, err := LoadFile(filename)
		if err == nil {
			return p, nil
		}
		if !os.IsNotExist(errors.Cause(err)) {
			return Pattern{}, err
		}
	}
	return Builtin(name)
}
