package router

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/Surzhikov161/Refferal-App/config"
	"github.com/Surzhikov161/Refferal-App/pkg/authenticator"
	"github.com/Surzhikov161/Refferal-App/pkg/logger"
	"github.com/Surzhikov161/Refferal-App/pkg/xcontext"
	"github.com/mitchellh/mapstructure"
	"github.com/rs/cors"
	"gorm.io/gorm"
)

type HandlerFunc[Request, Response any] func(ctx context.Context, req *Request) (*Response, error)

// MiddlewareFunc runs before the handler. It may extend the context (e.g.
// with the authenticated user id) or abort the request with an error.
type MiddlewareFunc func(ctx context.Context) (context.Context, error)

// CloserFunc runs after the response has been written, successful or not.
type CloserFunc func(ctx context.Context, err error)

type Router struct {
	mux *http.ServeMux

	cfg         config.Configs
	logger      logger.Logger
	db          *gorm.DB
	tokenEngine authenticator.TokenEngine

	befores []MiddlewareFunc
	closers []CloserFunc
}

func New(db *gorm.DB, cfg config.Configs, logger logger.Logger) *Router {
	return &Router{
		mux:         http.NewServeMux(),
		cfg:         cfg,
		logger:      logger,
		db:          db,
		tokenEngine: authenticator.NewTokenEngine(cfg.Auth.TokenSecret),
	}
}

// Branch returns a router sharing the same mux but with its own middleware
// chain, seeded with the parent's.
func (r *Router) Branch() *Router {
	return &Router{
		mux:         r.mux,
		cfg:         r.cfg,
		logger:      r.logger,
		db:          r.db,
		tokenEngine: r.tokenEngine,
		befores:     append([]MiddlewareFunc{}, r.befores...),
		closers:     append([]CloserFunc{}, r.closers...),
	}
}

func (r *Router) Before(middleware MiddlewareFunc) {
	r.befores = append(r.befores, middleware)
}

func (r *Router) AddCloser(closer CloserFunc) {
	r.closers = append(r.closers, closer)
}

func (r *Router) Handler() http.Handler {
	return cors.AllowAll().Handler(r.mux)
}

func GET[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.mux.HandleFunc(pattern, wrapHandler(r, http.MethodGet, handler))
}

func POST[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.mux.HandleFunc(pattern, wrapHandler(r, http.MethodPost, handler))
}

func DELETE[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.mux.HandleFunc(pattern, wrapHandler(r, http.MethodDelete, handler))
}

func wrapHandler[Request, Response any](
	router *Router, method string, handler HandlerFunc[Request, Response],
) http.HandlerFunc {
	return func(w http.ResponseWriter, httpReq *http.Request) {
		ctx := httpReq.Context()
		ctx = xcontext.WithConfigs(ctx, router.cfg)
		ctx = xcontext.WithLogger(ctx, router.logger)
		ctx = xcontext.WithDB(ctx, router.db)
		ctx = xcontext.WithTokenEngine(ctx, router.tokenEngine)
		ctx = xcontext.WithHTTPRequest(ctx, httpReq)

		var err error
		defer func() {
			for _, closer := range router.closers {
				closer(ctx, err)
			}
		}()

		if httpReq.Method != method {
			err = errNotSupportedMethod
			writeError(w, router.logger, err)
			return
		}

		var req Request
		if err = bindRequest(httpReq, method, &req); err != nil {
			err = errBadRequest
			writeError(w, router.logger, err)
			return
		}

		for _, middleware := range router.befores {
			if ctx, err = middleware(ctx); err != nil {
				writeError(w, router.logger, err)
				return
			}
		}

		var resp *Response
		if resp, err = handler(ctx, &req); err != nil {
			writeError(w, router.logger, err)
			return
		}

		writeResponse(w, router.logger, resp)
	}
}

func bindRequest(httpReq *http.Request, method string, req any) error {
	if method == http.MethodPost {
		if httpReq.Body == nil {
			return nil
		}

		if err := json.NewDecoder(httpReq.Body).Decode(req); err != nil {
			// An empty body is acceptable for requests without parameters.
			if err.Error() == "EOF" {
				return nil
			}

			return err
		}

		return nil
	}

	values := map[string]string{}
	for key := range httpReq.URL.Query() {
		values[key] = httpReq.URL.Query().Get(key)
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           req,
		TagName:          "json",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}

	return decoder.Decode(values)
}
