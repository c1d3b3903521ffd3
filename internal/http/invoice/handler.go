package invoice

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/govalues/money"

	"github.com/MrJamesThe3rd/openfacture/internal/auth"
	"github.com/MrJamesThe3rd/openfacture/internal/invoice"
)

const maxBodyBytes = 1 << 20

type Handler struct {
	svc *invoice.Service
}

func NewHandler(svc *invoice.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/summary", h.summary)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

func owner(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, ok := auth.Owner(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "missing bearer token")
	}

	return id, ok
}

func invoiceID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid id")
		return uuid.Nil, false
	}

	return id, true
}

func decodePayload(w http.ResponseWriter, r *http.Request) (invoice.Payload, bool) {
	var p invoice.Payload

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return invoice.Payload{}, false
	}

	return p, true
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := owner(w, r)
	if !ok {
		return
	}

	p, ok := decodePayload(w, r)
	if !ok {
		return
	}

	res, err := h.svc.Create(r.Context(), ownerID, p)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toResult(res))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := owner(w, r)
	if !ok {
		return
	}

	id, ok := invoiceID(w, r)
	if !ok {
		return
	}

	p, ok := decodePayload(w, r)
	if !ok {
		return
	}

	res, err := h.svc.Update(r.Context(), ownerID, id, p)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toResult(res))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := owner(w, r)
	if !ok {
		return
	}

	filter := invoice.ListFilter{}
	query := r.URL.Query()

	if s := query.Get("currency"); s != "" {
		curr, err := money.ParseCurr(s)
		if err != nil {
			writeMessage(w, http.StatusBadRequest, "invalid currency")
			return
		}

		filter.Currency = new(curr)
	}

	if s := query.Get("from"); s != "" {
		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			writeMessage(w, http.StatusBadRequest, "invalid from date, expected YYYY-MM-DD")
			return
		}

		filter.From = new(t)
	}

	if s := query.Get("to"); s != "" {
		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			writeMessage(w, http.StatusBadRequest, "invalid to date, expected YYYY-MM-DD")
			return
		}

		// inclusive of the whole day
		filter.To = new(t.Add(24*time.Hour - time.Nanosecond))
	}

	invoices, err := h.svc.List(r.Context(), ownerID, filter)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"invoices": toResponseList(invoices)})
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := owner(w, r)
	if !ok {
		return
	}

	s, err := h.svc.Summary(r.Context(), ownerID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"summary": toSummary(s)})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := owner(w, r)
	if !ok {
		return
	}

	id, ok := invoiceID(w, r)
	if !ok {
		return
	}

	inv, err := h.svc.Get(r.Context(), ownerID, id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"invoice": toResponse(inv)})
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := owner(w, r)
	if !ok {
		return
	}

	id, ok := invoiceID(w, r)
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), ownerID, id); err != nil {
		writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
