// Copyright 2018 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Package site serves the small set of HTML pages that accompany the
// application registry API.  The pages are static apart from the
// requested path on the 404 page.
package site

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

//go:embed templates/*.html
var templateFS embed.FS

// page is the data passed to every template.
type page struct {
	Title string
	Path  string
}

// Site holds the parsed page templates.
type Site struct {
	pages map[string]*template.Template
}

// New parses the embedded templates.
func New() (*Site, error) {
	s := &Site{pages: make(map[string]*template.Template)}
	for _, name := range []string{"index.html", "about.html", "contact.html", "404.html"} {
		tmpl, err := template.ParseFS(templateFS, "templates/layout.html", "templates/"+name)
		if err != nil {
			return nil, err
		}
		s.pages[name] = tmpl
	}
	return s, nil
}

// NewHandler creates an http.Handler serving the site pages.
func NewHandler() (http.Handler, error) {
	s, err := New()
	if err != nil {
		return nil, err
	}
	return s.Router(), nil
}

// Router builds a router for the site.  Any path it does not know
// gets the 404 page; a known path with a method other than GET or
// HEAD gets 405 Method Not Allowed.
func (s *Site) Router() *mux.Router {
	r := mux.NewRouter()
	r.Path("/").Name("index").Handler(s.handler("index.html", "Home"))
	r.Path("/index").Handler(s.handler("index.html", "Home"))
	r.Path("/about").Name("about").Handler(s.handler("about.html", "About"))
	r.Path("/contact").Name("contact").Handler(s.handler("contact.html", "Contact"))
	r.NotFoundHandler = http.HandlerFunc(s.notFound)
	return r
}

func (s *Site) handler(name, title string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet && req.Method != http.MethodHead {
			w.Header().Set("Allow", "GET, HEAD")
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}
		s.render(w, req, name, http.StatusOK, page{Title: title, Path: req.URL.Path})
	})
}

func (s *Site) notFound(w http.ResponseWriter, req *http.Request) {
	s.render(w, req, "404.html", http.StatusNotFound, page{Title: "Not Found", Path: req.URL.Path})
}

// render executes a template into a buffer first, so a template
// failure can still produce a clean 500.
func (s *Site) render(w http.ResponseWriter, req *http.Request, name string, status int, data page) {
	var buf bytes.Buffer
	err := s.pages[name].ExecuteTemplate(&buf, "layout", data)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"template": name,
			"path":     req.URL.Path,
		}).WithError(err).Error("could not render page")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if req.Method != http.MethodHead {
		_, _ = buf.WriteTo(w)
	}
}
