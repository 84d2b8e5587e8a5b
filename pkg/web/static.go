package web

import (
	"io/fs"
	"net/http"
)

// DistServer serves files from subdir of fsys, stripping urlPrefix.
// It panics if subdir does not exist.
func DistServer(fsys fs.FS, subdir, urlPrefix string) http.Handler {
	sub, err := fs.Sub(fsys, subdir)
	if err != nil {
		panic("failed to create sub-filesystem: " + err.Error())
	}
	return http.StripPrefix(urlPrefix, http.FileServerFS(sub))
}
