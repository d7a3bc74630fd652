package providers

import (
	"context"
	"net/url"

	"github.com/zatekoja/nursinghomefinder/internal/domain/entities"
)

// FacilitySource queries the remote facility filter endpoint.
//
// Errors are *errors.AppError values of type NETWORK, HTTP or DECODE.
type FacilitySource interface {
	Search(ctx context.Context, params url.Values) (*entities.SearchResponse, error)
}

// ErrorReporter forwards failure causes to a diagnostics backend
type ErrorReporter interface {
	Report(ctx context.Context, err error, tags map[string]string)
}
