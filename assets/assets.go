// Package assets provides access to embedded static files: the landing page,
// its stylesheets and scripts, the service worker and SQL migrations.
package assets

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed css/*.css js/*.js migrations/*.sql *.html sw.js
var embedFS embed.FS

// GetFileSystem returns an http.FileSystem over the embedded assets.
func GetFileSystem() http.FileSystem {
	fsys, err := fs.Sub(embedFS, ".")
	if err != nil {
		panic(err)
	}
	return http.FS(fsys)
}

// ReadFile returns the content of a specific embedded file by name.
func ReadFile(name string) ([]byte, error) {
	return embedFS.ReadFile(name)
}

// ReadDir returns the directory entries for a specific embedded path.
func ReadDir(name string) ([]fs.DirEntry, error) {
	return embedFS.ReadDir(name)
}
