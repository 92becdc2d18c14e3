package properties

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	javaprops "github.com/magiconair/properties"
)

// ClasspathPrefix marks a path that is looked up in the bundled resources.
const ClasspathPrefix = "classpath:"

// LoadError reports a configuration source that exists but could not be read
// or parsed.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Loader reads flat key/value configuration from resources or the filesystem.
type Loader struct {
	// Resources serves classpath: paths. Nil means no bundled resources.
	Resources fs.FS
	// WorkDir anchors relative filesystem paths. Empty means the process
	// working directory.
	WorkDir string
}

// Load reads the configuration at p. A missing file or resource yields a nil
// map and no error.
func (l *Loader) Load(p string) (map[string]string, error) {
	data, err := l.read(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, &LoadError{Path: p, Err: err}
	}

	entries, err := Parse(p, data)
	if err != nil {
		return nil, &LoadError{Path: p, Err: err}
	}
	return entries, nil
}

func (l *Loader) read(p string) ([]byte, error) {
	if name, ok := strings.CutPrefix(p, ClasspathPrefix); ok {
		if l.Resources == nil {
			return nil, fs.ErrNotExist
		}
		name = path.Clean(strings.TrimPrefix(name, "/"))
		if !fs.ValidPath(name) {
			return nil, fmt.Errorf("invalid resource name %q", name)
		}
		return fs.ReadFile(l.Resources, name)
	}

	if !filepath.IsAbs(p) {
		dir := l.WorkDir
		if dir == "" {
			wd, err := os.Getwd()
			if err != nil {
				return nil, fmt.Errorf("resolve working directory: %w", err)
			}
			dir = wd
		}
		p = filepath.Join(dir, p)
	}
	return os.ReadFile(p)
}

// Parse decodes data according to the extension of name: .yaml/.yml and
// .toml documents are flattened to dotted keys, anything else is read as a
// Java properties file.
func Parse(name string, data []byte) (map[string]string, error) {
	switch strings.ToLower(path.Ext(strings.TrimPrefix(name, ClasspathPrefix))) {
	case ".yaml", ".yml":
		return parseYAML(data)
	case ".toml":
		return parseTOML(data)
	default:
		return parseProperties(data)
	}
}

func parseProperties(data []byte) (map[string]string, error) {
	loader := &javaprops.Loader{
		Encoding:         javaprops.UTF8,
		DisableExpansion: true,
	}
	p, err := loader.LoadBytes(data)
	if err != nil {
		return nil, fmt.Errorf("parse properties: %w", err)
	}
	return p.Map(), nil
}
