package http

import (
	"context"
	"strings"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/pkg/errs"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// RequestValidator checks parameters and bodies against the operation documented for the
// route echo matched. Requests that reach no documented operation are passed on, so echo
// still answers 404 and 405 for them.
func RequestValidator(doc *openapi3.T) echo.MiddlewareFunc {
	// Identity is ActorRequired's job; the document declares no security schemes.
	options := &openapi3filter.Options{
		AuthenticationFunc: func(context.Context, *openapi3filter.AuthenticationInput) error { return nil },
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			route, pathParams, ok := documentedRoute(doc, ctx)
			if !ok {
				return next(ctx)
			}

			input := &openapi3filter.RequestValidationInput{
				Request:    ctx.Request(),
				PathParams: pathParams,
				Route:      route,
				Options:    options,
			}
			if err := openapi3filter.ValidateRequest(ctx.Request().Context(), input); err != nil {
				return fail(ctx, errs.NewValueIsInvalidErrorWithCause("request", err))
			}
			return next(ctx)
		}
	}
}

// documentedRoute resolves the operation from the path echo routed on, so the document and
// the router can never disagree about which operation a request belongs to.
func documentedRoute(doc *openapi3.T, ctx echo.Context) (*routers.Route, map[string]string, bool) {
	path := openAPIPath(ctx.Path())
	item := doc.Paths.Value(path)
	if item == nil {
		return nil, nil, false
	}
	method := ctx.Request().Method
	operation := item.GetOperation(method)
	if operation == nil {
		return nil, nil, false
	}

	names, values := ctx.ParamNames(), ctx.ParamValues()
	pathParams := make(map[string]string, len(names))
	for i, name := range names {
		if i < len(values) {
			pathParams[name] = values[i]
		}
	}

	return &routers.Route{
		Spec:      doc,
		Path:      path,
		PathItem:  item,
		Method:    method,
		Operation: operation,
	}, pathParams, true
}

// openAPIPath turns an echo path (/orders/:id) into its OpenAPI template (/orders/{id}).
func openAPIPath(echoPath string) string {
	segments := strings.Split(echoPath, "/")
	for i, segment := range segments {
		if strings.HasPrefix(segment, ":") {
			segments[i] = "{" + segment[1:] + "}"
		}
	}
	return strings.Join(segments, "/")
}

// pathID binds a UUID path parameter the way generated OpenAPI servers do.
func pathID(ctx echo.Context, name string) (kernel.UUID, error) {
	var id openapi_types.UUID
	err := runtime.BindStyledParameterWithOptions("simple", name, ctx.Param(name), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	return kernel.UUIDFromBytes(id[:])
}
