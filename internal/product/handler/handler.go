// Package handler provides HTTP handlers for product-related operations.
package handler

import (
	"log/slog"
	"net/http"

	"github.com/abgdnv/productcatalog/internal/platform/web"
	"github.com/abgdnv/productcatalog/internal/product/pipeline"
	"github.com/abgdnv/productcatalog/internal/product/query"
	"github.com/abgdnv/productcatalog/internal/product/service"
	"github.com/abgdnv/productcatalog/internal/product/validation"
	"github.com/go-chi/chi/v5"
)

const welcomeMessage = "Welcome to the Product API"

// Handler wires product routes onto the request pipeline.
type Handler struct {
	service  service.ProductService
	validate *validation.Validator
	driver   *pipeline.Driver
	apiKey   string
	logger   *slog.Logger
}

// NewHandler creates a new Handler guarding mutating routes with apiKey.
func NewHandler(service service.ProductService, apiKey string, logger *slog.Logger) *Handler {
	return &Handler{
		service:  service,
		validate: validation.New(),
		driver:   pipeline.NewDriver(logger),
		apiKey:   apiKey,
		logger:   logger.With("component", "rest"),
	}
}

// RegisterRoutes registers the HTTP routes for the product API.
func (h *Handler) RegisterRoutes(r chi.Router) {
	logged := pipeline.LogRequest()
	authenticated := pipeline.Authenticate(h.apiKey)

	r.Get("/", h.driver.Serve(pipeline.Route{Name: "welcome", Stages: []pipeline.Stage{logged}, Handle: h.welcome}))

	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", h.driver.Serve(pipeline.Route{
			Name:   "list",
			Stages: []pipeline.Stage{logged},
			Handle: h.list,
		}))
		r.Post("/", h.driver.Serve(pipeline.Route{
			Name:   "create",
			Stages: []pipeline.Stage{logged, authenticated, pipeline.ValidateCreate(h.validate)},
			Handle: h.create,
		}))

		// stats is registered before {id} so it is never read as an ID
		r.Get("/stats", h.driver.Serve(pipeline.Route{
			Name:   "stats",
			Stages: []pipeline.Stage{logged},
			Handle: h.stats,
		}))

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.driver.Serve(pipeline.Route{
				Name:   "get",
				Stages: []pipeline.Stage{logged},
				Handle: h.findByID,
			}))
			r.Put("/", h.driver.Serve(pipeline.Route{
				Name:   "update",
				Stages: []pipeline.Stage{logged, authenticated, pipeline.ValidatePatch(h.validate)},
				Handle: h.update,
			}))
			r.Delete("/", h.driver.Serve(pipeline.Route{
				Name:   "delete",
				Stages: []pipeline.Stage{logged, authenticated},
				Handle: h.deleteByID,
			}))
		})
	})

	r.Get("/healthz", h.HealthCheck)
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		web.RespondError(w, h.logger, http.StatusNotFound, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		web.RespondError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed")
	})
}

func (h *Handler) welcome(*pipeline.Exchange) (*pipeline.Response, error) {
	return pipeline.Text(http.StatusOK, welcomeMessage), nil
}

// list returns one page of products matching the query string.
func (h *Handler) list(ex *pipeline.Exchange) (*pipeline.Response, error) {
	params := query.ParseParams(ex.Request.URL.Query())
	ex.Logger.DebugContext(ex.Request.Context(), "Listing products",
		"category", params.Category, "q", params.Search, "page", params.Page, "limit", params.Limit)

	list, err := h.service.List(ex.Request.Context(), params)
	if err != nil {
		return nil, err
	}
	ex.Logger.DebugContext(ex.Request.Context(), "Successfully retrieved product list", "count", len(list.Data), "total", list.Meta.Total)
	return pipeline.JSON(http.StatusOK, list), nil
}

func (h *Handler) stats(ex *pipeline.Exchange) (*pipeline.Response, error) {
	stats, err := h.service.Stats(ex.Request.Context())
	if err != nil {
		return nil, err
	}
	return pipeline.JSON(http.StatusOK, stats), nil
}

// findByID retrieves a product by its ID.
func (h *Handler) findByID(ex *pipeline.Exchange) (*pipeline.Response, error) {
	id := chi.URLParam(ex.Request, "id")
	found, err := h.service.FindByID(ex.Request.Context(), id)
	if err != nil {
		return nil, err
	}
	ex.Logger.DebugContext(ex.Request.Context(), "Successfully retrieved product", "ID", found.ID, "Name", found.Name)
	return pipeline.JSON(http.StatusOK, found), nil
}

// create stores the validated product under a new ID.
func (h *Handler) create(ex *pipeline.Exchange) (*pipeline.Response, error) {
	dto, err := pipeline.InputAs[service.ProductCreateDto](ex)
	if err != nil {
		return nil, err
	}
	created, err := h.service.Create(ex.Request.Context(), dto)
	if err != nil {
		return nil, err
	}
	ex.Logger.InfoContext(ex.Request.Context(), "Product created successfully", "ID", created.ID, "Name", created.Name)
	return pipeline.JSON(http.StatusCreated, created), nil
}

func (h *Handler) update(ex *pipeline.Exchange) (*pipeline.Response, error) {
	id := chi.URLParam(ex.Request, "id")
	patch, err := pipeline.InputAs[service.ProductPatchDto](ex)
	if err != nil {
		return nil, err
	}
	updated, err := h.service.Update(ex.Request.Context(), id, patch)
	if err != nil {
		return nil, err
	}
	ex.Logger.InfoContext(ex.Request.Context(), "Product updated successfully", "ID", updated.ID, "Name", updated.Name)
	return pipeline.JSON(http.StatusOK, updated), nil
}

// deleteByID deletes a product by its ID and echoes it back.
func (h *Handler) deleteByID(ex *pipeline.Exchange) (*pipeline.Response, error) {
	id := chi.URLParam(ex.Request, "id")
	deleted, err := h.service.DeleteByID(ex.Request.Context(), id)
	if err != nil {
		return nil, err
	}
	ex.Logger.InfoContext(ex.Request.Context(), "Product deleted successfully", "ID", id)
	return pipeline.JSON(http.StatusOK, service.DeletedDto{Deleted: *deleted}), nil
}

// HealthCheck is a simple health check endpoint.
func (h *Handler) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}
