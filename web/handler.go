package web

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"sync"

	"contentlib/internal/content/model"
	"contentlib/pkg/logger"

	"github.com/gorilla/mux"
)

//go:embed templates/*.html
var templateFS embed.FS

var funcs = template.FuncMap{
	"formatDate":     FormatDate,
	"formatDateTime": FormatDateTime,
	"deref": func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	},
}

type pageData struct {
	Live     bool
	Contents []model.ContentResponse
	Content  *model.ContentResponse
	Form     Form
	Message  string
	IsError  bool
}

// Pages serves the server-rendered front end. Every read and write goes
// through API, so the pages work the same against the in-process schema
// or a remote endpoint.
type Pages struct {
	API  *API
	Live bool

	templates map[string]*template.Template
	deleting  sync.Map
}

func NewPages(client Client, live bool) *Pages {
	p := &Pages{API: NewAPI(client), Live: live, templates: make(map[string]*template.Template)}
	for _, name := range []string{"list", "detail", "form", "confirm_delete", "message"} {
		p.templates[name] = template.Must(template.New(name).Funcs(funcs).ParseFS(templateFS,
			"templates/layout.html", "templates/"+name+".html"))
	}
	return p
}

func (p *Pages) Register(r *mux.Router) {
	r.HandleFunc("/", p.List).Methods(http.MethodGet)
	r.HandleFunc("/create", p.CreateForm).Methods(http.MethodGet)
	r.HandleFunc("/create", p.Create).Methods(http.MethodPost)
	r.HandleFunc("/content/{id}", p.Detail).Methods(http.MethodGet)
	r.HandleFunc("/content/{id}/delete", p.ConfirmDelete).Methods(http.MethodGet)
	r.HandleFunc("/content/{id}/delete", p.Delete).Methods(http.MethodPost)
	r.HandleFunc("/edit/{id}", p.EditForm).Methods(http.MethodGet)
	r.HandleFunc("/edit/{id}", p.Update).Methods(http.MethodPost)
}

func (p *Pages) render(w http.ResponseWriter, status int, name string, data pageData) {
	var buf bytes.Buffer
	if err := p.templates[name].ExecuteTemplate(&buf, "layout", data); err != nil {
		logger.Sugar.Errorf("Web: Failed to render %s: %v", name, err)
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

func (p *Pages) message(w http.ResponseWriter, status int, msg string) {
	p.render(w, status, "message", pageData{Message: msg, IsError: status >= 400})
}

func (p *Pages) fail(w http.ResponseWriter, err error) {
	var gqlErr *GraphQLError
	if errors.As(err, &gqlErr) && gqlErr.Code() == "NOT_FOUND" {
		p.message(w, http.StatusNotFound, "Content not found")
		return
	}
	p.message(w, http.StatusBadGateway, "Error: "+err.Error())
}

// load resolves the {id} route variable to a record, writing the error
// page itself when it cannot.
func (p *Pages) load(w http.ResponseWriter, r *http.Request) (*model.ContentResponse, bool) {
	id, err := ParseContentID(mux.Vars(r)["id"])
	if err != nil {
		p.message(w, http.StatusBadRequest, ErrInvalidID.Error())
		return nil, false
	}
	c, err := p.API.Content(r.Context(), id)
	if err != nil {
		p.fail(w, err)
		return nil, false
	}
	if c == nil {
		p.message(w, http.StatusNotFound, "Content not found")
		return nil, false
	}
	return c, true
}

func (p *Pages) List(w http.ResponseWriter, r *http.Request) {
	contents, err := p.API.Contents(r.Context())
	if err != nil {
		p.fail(w, err)
		return
	}
	p.render(w, http.StatusOK, "list", pageData{Live: p.Live, Contents: contents})
}

func (p *Pages) Detail(w http.ResponseWriter, r *http.Request) {
	c, ok := p.load(w, r)
	if !ok {
		return
	}
	p.render(w, http.StatusOK, "detail", pageData{Content: c})
}

func (p *Pages) CreateForm(w http.ResponseWriter, r *http.Request) {
	p.render(w, http.StatusOK, "form", pageData{Form: NewForm(nil)})
}

func (p *Pages) Create(w http.ResponseWriter, r *http.Request) {
	form := FormFromRequest(r, nil)
	if !form.Validate() {
		p.render(w, http.StatusUnprocessableEntity, "form", pageData{Form: form})
		return
	}

	c, err := p.API.CreateContent(r.Context(), form.CreateInput())
	if err != nil {
		logger.Sugar.Errorf("Web: Error saving content: %v", err)
		form.SubmitError = err.Error()
		p.render(w, http.StatusBadGateway, "form", pageData{Form: form})
		return
	}
	http.Redirect(w, r, fmt.Sprintf("/content/%d", c.ID), http.StatusSeeOther)
}

func (p *Pages) EditForm(w http.ResponseWriter, r *http.Request) {
	c, ok := p.load(w, r)
	if !ok {
		return
	}
	p.render(w, http.StatusOK, "form", pageData{Form: NewForm(c)})
}

// Update validates before touching the API. The stub record only carries
// the id the form posts back to.
func (p *Pages) Update(w http.ResponseWriter, r *http.Request) {
	id, err := ParseContentID(mux.Vars(r)["id"])
	if err != nil {
		p.message(w, http.StatusBadRequest, ErrInvalidID.Error())
		return
	}

	form := FormFromRequest(r, &model.ContentResponse{ID: int(id)})
	if !form.Validate() {
		p.render(w, http.StatusUnprocessableEntity, "form", pageData{Form: form})
		return
	}

	c, err := p.API.UpdateContent(r.Context(), id, form.UpdateInput())
	if err != nil {
		var gqlErr *GraphQLError
		if errors.As(err, &gqlErr) && gqlErr.Code() == "NOT_FOUND" {
			p.fail(w, err)
			return
		}
		logger.Sugar.Errorf("Web: Error saving content %d: %v", id, err)
		form.SubmitError = err.Error()
		p.render(w, http.StatusBadGateway, "form", pageData{Form: form})
		return
	}
	http.Redirect(w, r, fmt.Sprintf("/content/%d", c.ID), http.StatusSeeOther)
}

func (p *Pages) ConfirmDelete(w http.ResponseWriter, r *http.Request) {
	c, ok := p.load(w, r)
	if !ok {
		return
	}
	p.render(w, http.StatusOK, "confirm_delete", pageData{Content: c})
}

// Delete only issues the mutation for confirm=yes. Anything else is a
// declined confirmation and returns to the list untouched.
func (p *Pages) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := ParseContentID(mux.Vars(r)["id"])
	if err != nil {
		p.message(w, http.StatusBadRequest, ErrInvalidID.Error())
		return
	}
	if r.PostFormValue("confirm") != "yes" {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	if _, busy := p.deleting.LoadOrStore(id, struct{}{}); busy {
		p.message(w, http.StatusConflict, "Delete already in progress")
		return
	}
	defer p.deleting.Delete(id)

	if _, err := p.API.DeleteContent(r.Context(), id); err != nil {
		logger.Sugar.Errorf("Web: Error deleting content %d: %v", id, err)
		p.fail(w, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
