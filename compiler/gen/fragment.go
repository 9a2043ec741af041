package gen

import (
	"embed"
	"io/fs"
	"path"
	"strings"

	"github.com/modelforge/modelforge"
)

//go:embed fragments
var fragmentFS embed.FS

// AlwaysValue keys the fragment an unconditioned slot renders.
const AlwaysValue = "always"

type fragmentKey struct {
	Group string // "<artifact key>/<slot name>"
	Value string // axis value, or AlwaysValue
}

// Store holds the fragment table keyed by (group, value). It is loaded
// once from the embedded tree and read-only afterwards, so concurrent
// renders share it without synchronization.
type Store struct {
	fragments map[fragmentKey]string
}

// NewStore loads the built-in fragment table.
func NewStore() (*Store, error) {
	return NewStoreFS(fragmentFS, "fragments")
}

// NewStoreFS loads a fragment table from a directory tree. A file directly
// under an artifact directory ("serve/header.py") registers the always
// fragment of its slot; a file one level deeper ("serve/app/flask.py")
// registers the fragment selected by that axis value. An empty file
// registers an intentionally empty fragment, which is distinct from no
// registration at all.
func NewStoreFS(fsys fs.FS, root string) (*Store, error) {
	s := &Store{fragments: make(map[fragmentKey]string)}
	err := fs.WalkDir(fsys, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel := strings.TrimPrefix(p, root+"/")
		name := strings.TrimSuffix(path.Base(rel), path.Ext(rel))
		var key fragmentKey
		switch parts := strings.Split(rel, "/"); len(parts) {
		case 2:
			key = fragmentKey{Group: parts[0] + "/" + name, Value: AlwaysValue}
		case 3:
			key = fragmentKey{Group: parts[0] + "/" + parts[1], Value: name}
		default:
			return modelforge.NewInternalError("store", rel, "fragment path must be artifact/slot.py or artifact/slot/value.py")
		}
		content, err := fs.ReadFile(fsys, p)
		if err != nil {
			return modelforge.NewInternalError("store", rel, err.Error())
		}
		return s.Register(key.Group, key.Value, string(content))
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Register adds a fragment under (group, value). Registering the same key
// twice is a programming error.
func (s *Store) Register(group, value, content string) error {
	key := fragmentKey{Group: group, Value: value}
	if _, ok := s.fragments[key]; ok {
		return modelforge.NewInternalError("store", group+"/"+value, "fragment registered twice")
	}
	s.fragments[key] = content
	return nil
}

// Fragment returns the fragment registered under (group, value). A miss
// means the fragment table disagrees with the axis registry and is
// reported as an InternalError, never rendered around.
func (s *Store) Fragment(group, value string) (string, error) {
	content, ok := s.fragments[fragmentKey{Group: group, Value: value}]
	if !ok {
		return "", modelforge.NewInternalError("store", group+"/"+value, "no fragment registered")
	}
	return content, nil
}

// Len returns the number of registered fragments.
func (s *Store) Len() int {
	return len(s.fragments)
}
