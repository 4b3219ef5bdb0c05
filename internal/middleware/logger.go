package middleware

import (
	"context"
	"errors"
	"fmt"

	"github.com/Surzhikov161/Refferal-App/pkg/errorx"
	"github.com/Surzhikov161/Refferal-App/pkg/router"
	"github.com/Surzhikov161/Refferal-App/pkg/xcontext"
)

// Logger returns a closer logging every finished request with its outcome.
func Logger() router.CloserFunc {
	return func(ctx context.Context, err error) {
		req := xcontext.HTTPRequest(ctx)
		if req == nil {
			return
		}

		info := fmt.Sprintf("%s | %s", req.Method, req.URL.Path)
		if err == nil {
			xcontext.Logger(ctx).Infof("%s | OK", info)
			return
		}

		var errx errorx.Error
		if !errors.As(err, &errx) {
			errx = errorx.Unknown
		}

		xcontext.Logger(ctx).Warnf("%s | %d | %s", info, errx.Code, errx.Message)
	}
}
