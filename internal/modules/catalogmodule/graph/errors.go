package graph

import (
	"context"
	"errors"

	"github.com/mantonx/moviegraph/internal/middleware"
	"github.com/mantonx/moviegraph/internal/modules/catalogmodule/repository"
	"github.com/mantonx/moviegraph/internal/types"
)

// resolverError exposes an AppError to GraphQL clients: its message becomes the
// error message and its code is reported under extensions.
type resolverError struct {
	app *types.AppError
}

func (e *resolverError) Error() string { return e.app.Message }

func (e *resolverError) Unwrap() error { return e.app }

func (e *resolverError) Extensions() map[string]interface{} {
	return map[string]interface{}{"code": string(e.app.Code)}
}

// toResolverError classifies a repository error. Unexpected failures are logged
// and reported without their underlying detail.
func (r *Resolver) toResolverError(ctx context.Context, op string, err error) error {
	var app *types.AppError
	switch {
	case errors.Is(err, repository.ErrStatusNotFound):
		app = types.NewBadRequestError(types.ErrorCodeStatusNotFound, err.Error(), err)
	case errors.Is(err, repository.ErrRoleNotFound):
		app = types.NewBadRequestError(types.ErrorCodeRoleNotFound, err.Error(), err)
	case errors.Is(err, repository.ErrMovieNotFound), errors.Is(err, repository.ErrPersonNotFound):
		app = types.NewBadRequestError(types.ErrorCodeNotFound, err.Error(), err)
	case errors.Is(err, repository.ErrDuplicateCredit):
		app = types.NewConflictError(err.Error(), err)
		app.Code = types.ErrorCodeDuplicateLink
	case errors.Is(err, context.Canceled):
		app = types.NewAppErrorWithCause(types.ErrorCodeCancelled, "request cancelled", types.HTTPStatusFromErrorCode(types.ErrorCodeCancelled), err)
	case errors.Is(err, context.DeadlineExceeded):
		app = types.NewAppErrorWithCause(types.ErrorCodeTimeout, "request timed out", types.HTTPStatusFromErrorCode(types.ErrorCodeTimeout), err)
	default:
		app = types.NewInternalError("internal error", err)
		r.log.Error("resolver failed", "operation", op, "error", err,
			"request_id", middleware.RequestIDFromContext(ctx))
	}
	return &resolverError{app: app}
}
