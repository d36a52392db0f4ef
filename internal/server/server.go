package server

import (
	"embed"
	"html/template"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog"
	"github.com/go-chi/render"
	"gorm.io/datatypes"

	"shin5ok/simple-books-lookup/internal/catalog"
)

const Greeting = "Hello, world. You're at the polls index."

//go:embed templates/*.html
var templateFS embed.FS

type Options struct {
	AppName  string
	LogLevel string
	// JSON switches access logs from console to JSON lines.
	JSON bool
}

type Server struct {
	books catalog.BookOperation
	page  *template.Template
}

func New(books catalog.BookOperation) *Server {
	return &Server{books: books, page: searchTemplate()}
}

func searchTemplate() *template.Template {
	return template.Must(template.New("search.html").Funcs(template.FuncMap{
		"date": func(d datatypes.Date) string {
			return time.Time(d).Format(catalog.DisplayDateLayout)
		},
		"dob": func(d *datatypes.Date) string {
			if d == nil {
				return ""
			}
			return time.Time(*d).Format(catalog.DisplayDateLayout)
		},
	}).ParseFS(templateFS, "templates/search.html"))
}

// Router wires the middleware stack and every route.
func (s *Server) Router(opts Options) http.Handler {
	/* jsonify logging */
	httpLogger := httplog.NewLogger(opts.AppName, httplog.Options{
		JSON:           opts.JSON,
		LogLevel:       opts.LogLevel,
		LevelFieldName: "severity",
		Concise:        true,
	})

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(httplog.RequestLogger(httpLogger))

	r.Get("/", s.hello)
	r.Get("/hello", s.hello)
	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, map[string]string{"message": "pong"})
	})
	r.Get("/search", s.searchPage)

	r.Route("/api", func(a chi.Router) {
		a.Use(render.SetContentType(render.ContentTypeJSON))
		a.Get("/books", s.searchBooks)
		a.Post("/books", s.createBook)
		a.Get("/books/{id}", s.getBook)
		a.Delete("/books/{id}", s.deleteBook)
		a.Post("/authors", s.createAuthor)
		a.Delete("/authors/{id}", s.deleteAuthor)
	})

	return r
}
