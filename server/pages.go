package server

import (
	"embed"
	"net/http"

	"github.com/google/safehtml/template"
	"go.uber.org/zap"

	"github.com/ratst-engine/ratst"
	"github.com/ratst-engine/ratst/mapping"
)

//go:embed templates/*
var templateFS embed.FS

type pages struct {
	index *template.Template
}

func newPages() (*pages, error) {
	trustedFS := template.TrustedFSFromEmbed(templateFS)
	index, err := template.New("index.html").ParseFS(trustedFS, "templates/index.html")
	if err != nil {
		return nil, err
	}
	return &pages{index: index}, nil
}

type dialectOption struct {
	Name     string
	Selected bool
}

// indexViewModel feeds templates/index.html
type indexViewModel struct {
	Query     string
	Dialects  []dialectOption
	Result    string
	Tree      string
	Relations []string
	Error     string
}

func (s *Server) handleUI(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	dialect, ok := mapping.NormalizeDialect(r.URL.Query().Get("dialect"))
	if !ok || r.URL.Query().Get("dialect") == "" {
		dialect = s.cfg.Dialect
	}

	vm := indexViewModel{Query: query}
	for _, d := range mapping.SupportedDialects {
		vm.Dialects = append(vm.Dialects, dialectOption{Name: d, Selected: d == dialect})
	}

	if query != "" {
		e, err := ratst.Explain(query, ratst.WithDialect(dialect), ratst.WithPluralCollections(s.cfg.Pluralize))
		if err == nil {
			vm.Tree = e.Tree
			vm.Relations = e.Relations
			vm.Result, err = e.Result.Text()
		}
		if err != nil {
			vm.Error = ratst.Describe(err)
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.pages.index.Execute(w, vm); err != nil {
		s.log.Error("render page", zap.Error(err))
	}
}
