package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httplog/v2"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/vadimbarashkov/shortlinks/internal/entity"
)

type urlUseCase interface {
	CreateShortURL(ctx context.Context, req entity.ShortenRequest) (*entity.URL, error)
	ResolveRedirect(ctx context.Context, shortCode string, visit entity.Visit) (string, error)
	GetStats(ctx context.Context, shortCode string) (*entity.StatsSnapshot, error)
	CountURLs(ctx context.Context) (int, error)
	Now() time.Time
}

func handlePing(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "pong")
}

func handleIndex(w http.ResponseWriter, r *http.Request) {
	render.Status(r, http.StatusOK)
	render.JSON(w, r, serviceInfo)
}

type urlHandler struct {
	useCase  urlUseCase
	validate *validator.Validate
	baseURL  string
}

func newURLHandler(useCase urlUseCase, validate *validator.Validate, baseURL string) *urlHandler {
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &urlHandler{
		useCase:  useCase,
		validate: validate,
		baseURL:  strings.TrimRight(baseURL, "/"),
	}
}

func (h *urlHandler) health(w http.ResponseWriter, r *http.Request) {
	n, err := h.useCase.CountURLs(r.Context())
	if err != nil {
		renderError(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, healthResponse{
		Status:    "healthy",
		Timestamp: h.useCase.Now().UTC(),
		TotalURLs: n,
	})
}

func (h *urlHandler) createShortURL(w http.ResponseWriter, r *http.Request) {
	var req shortenRequest

	if err := render.DecodeJSON(r.Body, &req); err != nil {
		if errors.Is(err, io.EOF) {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, emptyRequestBodyResponse)
			return
		}

		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, invalidRequestBodyResponse)
		return
	}

	if err := h.validate.Struct(req); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, validationErrorResponse(err))
		return
	}

	url, err := h.useCase.CreateShortURL(r.Context(), req.toEntity())
	if err != nil {
		renderError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, toShortenResponse(h.baseURL, url))
}

func (h *urlHandler) getStats(w http.ResponseWriter, r *http.Request) {
	shortCode := chi.URLParam(r, "shortCode")

	snapshot, err := h.useCase.GetStats(r.Context(), shortCode)
	if err != nil {
		renderError(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, toStatsResponse(snapshot))
}

func (h *urlHandler) redirect(w http.ResponseWriter, r *http.Request) {
	shortCode := chi.URLParam(r, "shortCode")

	target, err := h.useCase.ResolveRedirect(r.Context(), shortCode, visitFromRequest(r))
	if err != nil {
		renderError(w, r, err)
		return
	}

	http.Redirect(w, r, target, http.StatusFound)
}

func visitFromRequest(r *http.Request) entity.Visit {
	return entity.Visit{
		ClientIP:  clientIP(r),
		UserAgent: r.UserAgent(),
		Referrer:  r.Referer(),
	}
}

// clientIP strips the port from RemoteAddr. middleware.RealIP may already
// have replaced it with a bare address.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func renderError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, entity.ErrInvalidFormat):
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, invalidFormatResponse)
	case errors.Is(err, entity.ErrInvalidValidity):
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, invalidValidityResponse)
	case errors.Is(err, entity.ErrShortCodeExists):
		render.Status(r, http.StatusConflict)
		render.JSON(w, r, shortCodeExistsResponse)
	case errors.Is(err, entity.ErrURLNotFound):
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, urlNotFoundResponse)
	case errors.Is(err, entity.ErrURLExpired):
		render.Status(r, http.StatusGone)
		render.JSON(w, r, urlExpiredResponse)
	default:
		httplog.LogEntrySetField(r.Context(), "err", slog.AnyValue(err))

		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, serverErrorResponse)
	}
}
