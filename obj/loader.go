package obj

import (
	"path/filepath"

	"github.com/go-mesh/meshio/internal/ioreader"
	"github.com/go-mesh/meshio/loader"
	"github.com/go-mesh/meshio/mesh"
)

// Loader decodes Wavefront OBJ files, resolving mtllib/usemtl directives
// through the installed listener's MaterialLoaderRequester.
type Loader struct {
	*loader.Base
	active *iterator
}

// New constructs an OBJ Loader with the given configuration overrides.
func New(opts ...loader.Option) (*Loader, error) {
	cfg, err := loader.NewConfig(opts...)
	if err != nil {
		return nil, err
	}
	return &Loader{Base: loader.NewBase(loader.FormatOBJ, cfg)}, nil
}

// IsValidFile reports whether the bound file opens and contains at least
// one recognized OBJ directive line within its first few hundred lines.
func (l *Loader) IsValidFile() bool {
	if !l.HasFile() {
		return false
	}
	r, err := ioreader.NewStream(l.Path())
	if err != nil {
		return false
	}
	defer r.Close()
	for i := 0; i < 500; i++ {
		line, err := r.ReadLine()
		if err != nil {
			return false
		}
		fields := splitLeadingToken(line)
		switch fields {
		case "v", "vn", "vt", "f", "usemtl", "mtllib", "g", "o":
			return true
		}
	}
	return false
}

func splitLeadingToken(line string) string {
	i := 0
	for i < len(line) && line[i] != ' ' && line[i] != '\t' {
		i++
	}
	return line[:i]
}

// resolveMaterialLoader asks the installed listener to resolve mtlPath
// (typically relative to the OBJ file's directory) to a MaterialLoader,
// then loads it. Listeners that do not implement MaterialLoaderRequester
// cause mtllib directives to be silently ignored, same as an OBJ consumer
// with no material support.
func (l *Loader) resolveMaterialLoader(mtlPath string) (map[string]*mesh.Material, error) {
	requester, ok := l.Listener().(loader.MaterialLoaderRequester)
	if !ok {
		return nil, nil
	}
	if !filepath.IsAbs(mtlPath) {
		mtlPath = filepath.Join(filepath.Dir(l.Path()), mtlPath)
	}
	ml, err := requester.OnMaterialLoaderRequested(l, mtlPath)
	if err != nil {
		return nil, loader.Wrap(loader.IOFailure, "resolve mtllib", err)
	}
	if ml == nil {
		return nil, nil
	}
	return ml.Load()
}

// Load parses the OBJ file (and any resolvable MTL libraries) eagerly —
// position/normal/texcoord data is cheap relative to a binary mesh format —
// and returns an Iterator that lazily assembles DataChunks from the parsed
// face list, flushing at every material boundary and at the configured
// vertex cap.
func (l *Loader) Load() (loader.Iterator, error) {
	if err := l.RequireReady(); err != nil {
		return nil, err
	}

	r, err := ioreader.NewStream(l.Path())
	if err != nil {
		return nil, loader.Wrap(loader.IOFailure, "open obj file", err)
	}
	defer r.Close()

	doc, err := parseOBJ(r, l.resolveMaterialLoader)
	if err != nil {
		return nil, err
	}

	l.Lock(l)
	it := &iterator{l: l, doc: doc, cfg: l.Config()}
	l.active = it
	if !it.HasNext() {
		// An empty document (no faces) never calls Next(), so nothing would
		// otherwise fire OnLoadEnd or clear the lock.
		it.finish()
	}
	return it, nil
}

// Close implements Loader.Close; obj holds no open file handle between
// calls (Load reads the whole file up front), so this only clears the
// lock.
func (l *Loader) Close() error {
	l.active = nil
	return l.Base.Close()
}

var _ loader.Loader = (*Loader)(nil)
