package contextstore

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// fileStore wraps one on-disk contexts.json (global or project).
type fileStore struct {
	scope Scope
	path  string
	file  StoreFile
}

func loadFileStore(path string, scope Scope) *fileStore {
	fs := &fileStore{scope: scope, path: path, file: newStoreFile()}
	data, err := os.ReadFile(path)
	if err != nil {
		return fs
	}
	var parsed StoreFile
	if err := json.Unmarshal(data, &parsed); err != nil {
		return fs
	}
	if parsed.Contexts == nil {
		parsed.Contexts = map[string]StoredContext{}
	}
	if parsed.Active.Projects == nil {
		parsed.Active.Projects = map[string]string{}
	}
	fs.file = parsed
	return fs
}

// ensure returns the stored context for name, creating an empty one
// (recorded with this store's scope) if absent.
func (fs *fileStore) ensure(name, projectRoot string) StoredContext {
	if ctx, ok := fs.file.Contexts[name]; ok {
		return ctx
	}
	ctx := StoredContext{Scope: fs.scope, ProjectRoot: projectRoot}
	fs.file.Contexts[name] = ctx
	return ctx
}

func (fs *fileStore) get(name string) (StoredContext, bool) {
	ctx, ok := fs.file.Contexts[name]
	return ctx, ok
}

func (fs *fileStore) put(name string, ctx StoredContext) {
	fs.file.Contexts[name] = ctx
}

// save atomically rewrites the file as pretty JSON (write-to-temp-then-rename).
func (fs *fileStore) save() error {
	if err := os.MkdirAll(filepath.Dir(fs.path), 0o755); err != nil {
		return err
	}
	buf, err := json.MarshalIndent(fs.file, "", "  ")
	if err != nil {
		return err
	}
	tmp := fs.path + ".tmp"
	if err := os.WriteFile(tmp, buf, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, fs.path)
}
