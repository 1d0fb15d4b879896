package handlers

import (
	"net/http"
	"os"
)

// Generated serves durable copies from GeneratedDir under /generated/.
// Directory listings are not exposed.
func (a *App) Generated() http.Handler {
	fs := http.FileServer(noListingFS{http.Dir(a.GeneratedDir)})
	return http.StripPrefix("/generated", fs)
}

type noListingFS struct {
	fs http.FileSystem
}

func (n noListingFS) Open(name string) (http.File, error) {
	f, err := n.fs.Open(name)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	if info.IsDir() {
		_ = f.Close()
		return nil, os.ErrNotExist
	}
	return f, nil
}
