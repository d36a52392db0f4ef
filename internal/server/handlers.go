package server

import (
	"bytes"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httplog"
	"github.com/go-chi/render"
	"gorm.io/datatypes"

	"shin5ok/simple-books-lookup/internal/catalog"
)

// requestDateLayout is how the JSON API takes dates.
const requestDateLayout = "2006-01-02"

var errorRender = func(w http.ResponseWriter, r *http.Request, httpCode int, err error) {
	if httpCode >= http.StatusInternalServerError {
		oplog := httplog.LogEntry(r.Context())
		oplog.Error().Err(err).Msg("request failed")
	}
	render.Status(r, httpCode)
	render.JSON(w, r, map[string]interface{}{"ERROR": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, catalog.ErrInvalidRecord):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) hello(w http.ResponseWriter, r *http.Request) {
	render.PlainText(w, r, Greeting)
}

func (s *Server) searchPage(w http.ResponseWriter, r *http.Request) {
	res, err := s.books.SearchBooks(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		errorRender(w, r, http.StatusInternalServerError, err)
		return
	}

	var buf bytes.Buffer
	if err := s.page.Execute(&buf, res); err != nil {
		errorRender(w, r, http.StatusInternalServerError, err)
		return
	}
	render.HTML(w, r, buf.String())
}

type searchResponse struct {
	catalog.SearchResult
	Count int `json:"count"`
}

func (s *Server) searchBooks(w http.ResponseWriter, r *http.Request) {
	res, err := s.books.SearchBooks(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		errorRender(w, r, http.StatusInternalServerError, err)
		return
	}
	render.JSON(w, r, searchResponse{SearchResult: res, Count: len(res.Books)})
}

// authorRequest may carry the author's first books; they are stored in the
// same transaction as the author.
type authorRequest struct {
	Name        string         `json:"name"`
	DateOfBirth string         `json:"date_of_birth"`
	Books       []*bookRequest `json:"books"`

	dob *datatypes.Date
}

func (a *authorRequest) Bind(r *http.Request) error {
	// render only descends into struct fields, not slices
	for _, b := range a.Books {
		if b == nil {
			return errors.New("books: null entry")
		}
		if err := b.Bind(r); err != nil {
			return err
		}
	}

	if strings.TrimSpace(a.DateOfBirth) == "" {
		return nil
	}
	d, err := parseRequestDate("date_of_birth", a.DateOfBirth)
	if err != nil {
		return err
	}
	a.dob = &d
	return nil
}

type authorResponse struct {
	catalog.Author
	Books []catalog.Book `json:"books,omitempty"`
}

type bookRequest struct {
	Title       string `json:"title"`
	AuthorID    string `json:"author_id"`
	Genre       string `json:"genre"`
	PublishDate string `json:"publish_date"`

	published datatypes.Date
}

func (b *bookRequest) Bind(r *http.Request) error {
	d, err := parseRequestDate("publish_date", b.PublishDate)
	if err != nil {
		return err
	}
	b.published = d
	return nil
}

func (b *bookRequest) book() catalog.Book {
	return catalog.Book{
		Title:       b.Title,
		AuthorID:    b.AuthorID,
		Genre:       b.Genre,
		PublishDate: b.published,
	}
}

type dateError struct {
	field, value string
}

func (e dateError) Error() string {
	return e.field + ": " + `"` + e.value + `" is not a ` + requestDateLayout + " date"
}

func parseRequestDate(field, value string) (datatypes.Date, error) {
	t, err := time.Parse(requestDateLayout, strings.TrimSpace(value))
	if err != nil {
		return datatypes.Date{}, dateError{field: field, value: value}
	}
	return catalog.DateOf(t), nil
}

func (s *Server) createAuthor(w http.ResponseWriter, r *http.Request) {
	req := &authorRequest{}
	if err := render.Bind(r, req); err != nil {
		errorRender(w, r, http.StatusBadRequest, err)
		return
	}

	author := catalog.Author{Name: req.Name, DateOfBirth: req.dob}
	if len(req.Books) == 0 {
		created, err := s.books.RegisterAuthor(r.Context(), author)
		if err != nil {
			errorRender(w, r, statusFor(err), err)
			return
		}
		render.Status(r, http.StatusCreated)
		render.JSON(w, r, authorResponse{Author: created})
		return
	}

	books := make([]catalog.Book, 0, len(req.Books))
	for _, b := range req.Books {
		books = append(books, b.book())
	}
	created, books, err := s.books.AddAuthorWithBooks(r.Context(), author, books)
	if err != nil {
		errorRender(w, r, statusFor(err), err)
		return
	}
	for i := range books {
		books[i].Author = created
	}
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, authorResponse{Author: created, Books: books})
}

func (s *Server) createBook(w http.ResponseWriter, r *http.Request) {
	req := &bookRequest{}
	if err := render.Bind(r, req); err != nil {
		errorRender(w, r, http.StatusBadRequest, err)
		return
	}

	if req.AuthorID != "" {
		if _, err := s.books.GetAuthor(r.Context(), req.AuthorID); err != nil {
			code := statusFor(err)
			if code == http.StatusNotFound {
				code = http.StatusBadRequest
			}
			errorRender(w, r, code, err)
			return
		}
	}

	book, err := s.books.AddBook(r.Context(), req.book())
	if err != nil {
		errorRender(w, r, statusFor(err), err)
		return
	}
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, book)
}

func (s *Server) getBook(w http.ResponseWriter, r *http.Request) {
	book, err := s.books.GetBook(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		errorRender(w, r, statusFor(err), err)
		return
	}
	render.JSON(w, r, book)
}

func (s *Server) deleteAuthor(w http.ResponseWriter, r *http.Request) {
	removed, err := s.books.DeleteAuthor(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		errorRender(w, r, statusFor(err), err)
		return
	}
	render.JSON(w, r, map[string]int64{"deleted_books": removed})
}

func (s *Server) deleteBook(w http.ResponseWriter, r *http.Request) {
	if err := s.books.DeleteBook(r.Context(), chi.URLParam(r, "id")); err != nil {
		errorRender(w, r, statusFor(err), err)
		return
	}
	render.NoContent(w, r)
}
