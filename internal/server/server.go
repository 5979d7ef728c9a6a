package server

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	humachi "github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"arbeitskorb/internal/domain"
	"arbeitskorb/internal/engine"
	"arbeitskorb/internal/store"
)

// Config for the HTTP API handler.
type Config struct {
	Engine   engine.Engine
	BasePath string
}

type apiErrorBody struct {
	Code    string         `json:"code" example:"not_found"`
	Message string         `json:"message" example:"work item WI-0000: not found"`
	Details map[string]any `json:"details,omitempty" jsonschema:"type=object,additionalProperties=true"`
}

// apiError models the error envelope.
type apiError struct {
	status int
	Body   apiErrorBody `json:"error"`
}

func (e *apiError) GetStatus() int { return e.status }
func (e *apiError) Error() string  { return e.Body.Message }

// New returns an HTTP handler exposing the Arbeitskorb API.
func New(cfg Config) (http.Handler, error) {
	basePath := cfg.BasePath
	if basePath == "" {
		basePath = "/api"
	}
	if !strings.HasPrefix(basePath, "/") {
		basePath = "/" + basePath
	}
	huma.DefaultArrayNullable = false
	huma.NewError = func(status int, msg string, errs ...error) huma.StatusError {
		return newAPIError(status, "", msg, nil)
	}

	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	hcfg := huma.DefaultConfig("Arbeitskorb API", "0.1.0")
	hcfg.OpenAPIPath = "/openapi"
	api := humachi.New(router, hcfg)
	group := huma.NewGroup(api, basePath)

	registerHealth(group)
	registerWorkItems(group, cfg.Engine)
	registerContext(group, cfg.Engine)
	registerAdmin(group, cfg.Engine)

	return router, nil
}

func newAPIError(status int, code, message string, details map[string]any) huma.StatusError {
	if code == "" {
		code = defaultCodeForStatus(status)
	}
	return &apiError{
		status: status,
		Body: apiErrorBody{
			Code:    code,
			Message: message,
			Details: details,
		},
	}
}

// handleError maps the engine's failure taxonomy onto status codes.
func handleError(err error) huma.StatusError {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrNotFound):
		return newAPIError(http.StatusNotFound, "not_found", err.Error(), nil)
	case errors.Is(err, engine.ErrInvalidAction):
		return newAPIError(http.StatusBadRequest, "invalid_action", err.Error(), nil)
	case errors.Is(err, engine.ErrInvalidCommand):
		return newAPIError(http.StatusBadRequest, "invalid_command", err.Error(), nil)
	case errors.Is(err, engine.ErrInvalidRequest):
		return newAPIError(http.StatusBadRequest, "invalid_request", err.Error(), nil)
	default:
		return newAPIError(http.StatusInternalServerError, "internal_error", "internal error", map[string]any{"error": err.Error()})
	}
}

func defaultCodeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "bad_request"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusInternalServerError:
		return "internal_error"
	default:
		return strings.ToLower(strings.ReplaceAll(http.StatusText(status), " ", "_"))
	}
}

func registerHealth(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "health",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body map[string]string `json:"body"`
	}, error) {
		return &struct {
			Body map[string]string `json:"body"`
		}{Body: map[string]string{"status": "ok"}}, nil
	})
}

type searchParams struct {
	Page       int    `query:"page" default:"0"`
	Size       int    `query:"size" default:"10"`
	Sort       string `query:"sort" default:"receivedAt,desc"`
	Q          string `query:"q"`
	Status     string `query:"status"`
	Basket     string `query:"basket" default:"MY"`
	Colleague  string `query:"colleague"`
	ObjectType string `query:"objectType"`
	ObjectID   string `query:"objectId"`
}

func (p searchParams) toOptions() (engine.SearchOptions, huma.StatusError) {
	opts := engine.SearchOptions{
		Page:      p.Page,
		Size:      p.Size,
		Sort:      p.Sort,
		Query:     p.Q,
		Colleague: p.Colleague,
		ObjectID:  p.ObjectID,
	}
	if p.Status != "" {
		status, err := domain.ParseStatus(p.Status)
		if err != nil {
			return opts, newAPIError(http.StatusBadRequest, "invalid_request", err.Error(), nil)
		}
		opts.Status = status
	}
	if p.Basket != "" {
		basket, err := domain.ParseBasketScope(p.Basket)
		if err != nil {
			return opts, newAPIError(http.StatusBadRequest, "invalid_request", err.Error(), nil)
		}
		opts.Basket = basket
	}
	if p.ObjectType != "" {
		objectType, err := domain.ParseObjectType(p.ObjectType)
		if err != nil {
			return opts, newAPIError(http.StatusBadRequest, "invalid_request", err.Error(), nil)
		}
		opts.ObjectType = objectType
	}
	return opts, nil
}

func registerWorkItems(api huma.API, e engine.Engine) {
	huma.Register(api, huma.Operation{
		OperationID: "searchWorkItems",
		Method:      http.MethodGet,
		Path:        "/work-items",
		Summary:     "Search work items with paging, sorting and filtering",
		Errors:      []int{http.StatusBadRequest},
	}, func(ctx context.Context, input *searchParams) (*struct {
		Body WorkItemsPageResponse `json:"body"`
	}, error) {
		opts, apiErr := input.toOptions()
		if apiErr != nil {
			return nil, apiErr
		}
		page, err := e.Search(ctx, opts)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body WorkItemsPageResponse `json:"body"`
		}{Body: page}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "getWorkItemById",
		Method:      http.MethodGet,
		Path:        "/work-items/{id}",
		Summary:     "Get work item details",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		ID string `path:"id"`
	}) (*struct {
		Body WorkItemResponse `json:"body"`
	}, error) {
		item, err := e.GetWorkItem(ctx, input.ID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body WorkItemResponse `json:"body"`
		}{Body: item}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "performWorkItemAction",
		Method:      http.MethodPost,
		Path:        "/work-items/{id}/actions",
		Summary:     "Apply a state-transition action to a work item",
		Errors:      []int{http.StatusBadRequest, http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		ID   string        `path:"id"`
		Body ActionRequest `json:"body"`
	}) (*struct {
		Body WorkItemResponse `json:"body"`
	}, error) {
		act, err := engine.ParseAction(input.Body.Action, input.Body.Assignee, input.Body.FollowUpAt)
		if err != nil {
			return nil, handleError(err)
		}
		item, err := e.ApplyAction(ctx, input.ID, act, input.Body.Comment)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body WorkItemResponse `json:"body"`
		}{Body: item}, nil
	})
}

func registerContext(api huma.API, e engine.Engine) {
	huma.Register(api, huma.Operation{
		OperationID: "getContextView",
		Method:      http.MethodGet,
		Path:        "/work-items/context",
		Summary:     "Aggregated view of one business object: tasks, documents, protocol",
		Errors:      []int{http.StatusBadRequest, http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		ObjectType string `query:"objectType"`
		ObjectID   string `query:"objectId"`
	}) (*struct {
		Body ContextViewResponse `json:"body"`
	}, error) {
		objectType, apiErr := parseObjectTypeParam(input.ObjectType)
		if apiErr != nil {
			return nil, apiErr
		}
		view, viewErr := e.GetContext(ctx, objectType, input.ObjectID)
		if viewErr != nil {
			return nil, handleError(viewErr)
		}
		return &struct {
			Body ContextViewResponse `json:"body"`
		}{Body: view}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "uploadDocument",
		Method:        http.MethodPost,
		Path:          "/work-items/context/{objectType}/{objectId}/documents",
		Summary:       "Record uploaded document metadata for a business object",
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusBadRequest},
	}, func(ctx context.Context, input *struct {
		ObjectType string                `path:"objectType"`
		ObjectID   string                `path:"objectId"`
		Body       UploadDocumentRequest `json:"body"`
	}) (*struct {
		Body DocumentResponse `json:"body"`
	}, error) {
		objectType, apiErr := parseObjectTypeParam(input.ObjectType)
		if apiErr != nil {
			return nil, apiErr
		}
		doc, uploadErr := e.UploadDocument(ctx, objectType, input.ObjectID, engine.UploadCommand{
			FileName:      input.Body.FileName,
			MimeType:      input.Body.MimeType,
			SizeInBytes:   input.Body.SizeInBytes,
			IndexKeywords: input.Body.IndexKeywords,
			UploadedBy:    input.Body.UploadedBy,
		})
		if uploadErr != nil {
			return nil, handleError(uploadErr)
		}
		return &struct {
			Body DocumentResponse `json:"body"`
		}{Body: doc}, nil
	})
}

func registerAdmin(api huma.API, e engine.Engine) {
	huma.Register(api, huma.Operation{
		OperationID:   "resetState",
		Method:        http.MethodPost,
		Path:          "/admin/reset",
		Summary:       "Restore the seed snapshot (test support)",
		DefaultStatus: http.StatusNoContent,
	}, func(ctx context.Context, _ *struct{}) (*struct{}, error) {
		if err := e.Reset(ctx); err != nil {
			return nil, handleError(err)
		}
		return &struct{}{}, nil
	})
}

func parseObjectTypeParam(raw string) (domain.ObjectType, huma.StatusError) {
	if raw == "" {
		return "", newAPIError(http.StatusBadRequest, "invalid_request", "objectType is required", nil)
	}
	objectType, err := domain.ParseObjectType(raw)
	if err != nil {
		return "", newAPIError(http.StatusBadRequest, "invalid_request", err.Error(), nil)
	}
	return objectType, nil
}
