// Package pipeline runs a request through an ordered list of stages and a handler,
// and funnels every failure into one error translation point.
//
// A Route is data: its stages run in order, each either letting the request
// continue (nil) or ending it with an error. Only the driver writes error responses.
package pipeline

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/abgdnv/productcatalog/internal/platform/web"
	perrors "github.com/abgdnv/productcatalog/internal/product/errors"
	"github.com/go-chi/chi/v5/middleware"
)

// Exchange carries one request through the pipeline.
type Exchange struct {
	Request *http.Request
	Logger  *slog.Logger
	// Input is the validated payload set by a validation stage.
	Input any
}

// Stage inspects or enriches the exchange. A non-nil error ends the request.
type Stage func(ex *Exchange) error

// Handler executes the route's business logic once every stage has passed.
type Handler func(ex *Exchange) (*Response, error)

// Response is a successful result. Text responses are written as text/plain.
type Response struct {
	Status int
	Body   any
	Text   string
}

// JSON builds a JSON response.
func JSON(status int, body any) *Response {
	return &Response{Status: status, Body: body}
}

// Text builds a plain text response.
func Text(status int, text string) *Response {
	return &Response{Status: status, Text: text}
}

// Route binds a name, its gates and its handler.
type Route struct {
	Name   string
	Stages []Stage
	Handle Handler
}

// Driver turns routes into http.HandlerFuncs.
type Driver struct {
	logger *slog.Logger
}

// NewDriver creates a Driver logging through logger.
func NewDriver(logger *slog.Logger) *Driver {
	return &Driver{logger: logger.With("component", "pipeline")}
}

// Serve returns the http.HandlerFunc running route.
func (d *Driver) Serve(route Route) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ex := &Exchange{
			Request: r,
			Logger:  d.logger.With("request_id", middleware.GetReqID(r.Context()), "route", route.Name),
		}

		resp, err := d.run(ex, route)
		if err != nil {
			d.translate(w, ex, err)
			return
		}
		if resp.Body == nil && resp.Text != "" {
			web.RespondText(w, resp.Status, resp.Text)
			return
		}
		web.RespondJSON(w, ex.Logger, resp.Status, resp.Body)
	}
}

// run executes the stages in order, then the handler. A panic anywhere becomes an Internal error.
func (d *Driver) run(ex *Exchange, route Route) (resp *Response, err error) {
	defer func() {
		if rvr := recover(); rvr != nil {
			if rvr == http.ErrAbortHandler {
				panic(rvr)
			}
			resp, err = nil, perrors.Internal("", fmt.Errorf("panic: %v", rvr))
		}
	}()

	for _, stage := range route.Stages {
		if err := stage(ex); err != nil {
			return nil, err
		}
	}
	resp, err = route.Handle(ex)
	if err == nil && resp == nil {
		return nil, perrors.Internal("", fmt.Errorf("route %s returned no response", route.Name))
	}
	return resp, err
}

// translate is the single place where failures become HTTP responses.
func (d *Driver) translate(w http.ResponseWriter, ex *Exchange, err error) {
	appErr := perrors.Classify(err)
	switch appErr.Kind {
	case perrors.KindInternal:
		ex.Logger.ErrorContext(ex.Request.Context(), "Request failed", "kind", appErr.Kind.String(), "error", err)
	case perrors.KindNotFound, perrors.KindValidation, perrors.KindAuth:
		ex.Logger.WarnContext(ex.Request.Context(), "Request rejected", "kind", appErr.Kind.String(), "status", appErr.Status(), "message", appErr.Message)
	}
	web.RespondError(w, ex.Logger, appErr.Status(), appErr.Message)
}

// InputAs returns the validated input stored on the exchange.
func InputAs[T any](ex *Exchange) (T, error) {
	input, ok := ex.Input.(T)
	if !ok {
		var zero T
		return zero, perrors.Internal("", fmt.Errorf("unexpected input type %T", ex.Input))
	}
	return input, nil
}
