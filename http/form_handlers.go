package http

import (
	"embed"
	"errors"
	"html/template"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"burnoutcheck/form"
	"burnoutcheck/ml"
)

//go:embed templates/index.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

type pageField struct {
	form.Field
	Value   int
	Display string
	Error   string
}

type pageData struct {
	Fields     []pageField
	Submitted  bool
	Prediction *ml.Prediction
	Error      string
}

func newPageData(input ml.UserInput, fieldErrors map[string]string) pageData {
	fields := form.Fields()
	data := pageData{Fields: make([]pageField, len(fields))}
	for i, field := range fields {
		value := int(input[field.Name])
		display := strconv.Itoa(value)
		if field.Control == form.Select {
			display = field.OptionLabel(value)
		}
		data.Fields[i] = pageField{
			Field:   field,
			Value:   value,
			Display: display,
			Error:   fieldErrors[field.Name],
		}
	}
	return data
}

func (h *Handlers) handleForm(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, http.StatusOK, newPageData(form.Defaults(), nil))
}

func (h *Handlers) handleFormSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		data := newPageData(form.Defaults(), nil)
		data.Error = "Could not read the form: " + err.Error()
		h.renderPage(w, http.StatusBadRequest, data)
		return
	}

	input, err := form.ParseValues(r.PostForm)
	if err != nil {
		var fieldErrors map[string]string
		var verr *form.ValidationError
		if errors.As(err, &verr) {
			fieldErrors = verr.Fields
		}
		data := newPageData(input, fieldErrors)
		data.Error = err.Error()
		h.renderPage(w, http.StatusBadRequest, data)
		return
	}

	data := newPageData(input, nil)
	data.Submitted = true
	prediction, status, errResp := h.evaluate(r.Context(), input)
	if errResp != nil {
		// The form stays usable; only the prediction is withheld.
		data.Error = errResp.Error
		h.renderPage(w, status, data)
		return
	}
	data.Prediction = &prediction
	h.renderPage(w, http.StatusOK, data)
}

func (h *Handlers) renderPage(w http.ResponseWriter, status int, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := h.page.Execute(w, data); err != nil {
		h.logger.Error("render form page", zap.Error(err))
	}
}
