package middleware

import (
	"context"
	"strings"

	"github.com/Surzhikov161/Refferal-App/internal/model"
	"github.com/Surzhikov161/Refferal-App/pkg/errorx"
	"github.com/Surzhikov161/Refferal-App/pkg/router"
	"github.com/Surzhikov161/Refferal-App/pkg/xcontext"
)

type AuthVerifier struct {
	useAccessToken bool
}

func NewAuthVerifier() *AuthVerifier {
	return &AuthVerifier{}
}

func (verifier *AuthVerifier) WithAccessToken() *AuthVerifier {
	verifier.useAccessToken = true
	return verifier
}

func (verifier *AuthVerifier) Middleware() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		if !verifier.useAccessToken {
			return ctx, nil
		}

		token := extractAccessToken(ctx)
		if token == "" {
			return ctx, errorx.New(errorx.Unauthenticated, "You need to authenticate before")
		}

		var accessToken model.AccessToken
		if err := xcontext.TokenEngine(ctx).Verify(token, &accessToken); err != nil {
			xcontext.Logger(ctx).Debugf("Cannot verify access token: %v", err)
			return ctx, errorx.New(errorx.Unauthenticated, "Invalid access token")
		}

		return xcontext.WithRequestUserID(ctx, accessToken.ID), nil
	}
}

func extractAccessToken(ctx context.Context) string {
	req := xcontext.HTTPRequest(ctx)
	if req == nil {
		return ""
	}

	authorization := req.Header.Get("Authorization")
	if strings.HasPrefix(authorization, "Bearer ") {
		return strings.TrimPrefix(authorization, "Bearer ")
	}

	cookie, err := req.Cookie(xcontext.Configs(ctx).Auth.AccessToken.Name)
	if err != nil {
		return ""
	}

	return cookie.Value
}
