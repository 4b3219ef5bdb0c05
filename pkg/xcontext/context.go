package xcontext

import (
	"context"
	"net/http"

	"github.com/Surzhikov161/Refferal-App/config"
	"github.com/Surzhikov161/Refferal-App/pkg/authenticator"
	"github.com/Surzhikov161/Refferal-App/pkg/logger"
	"gorm.io/gorm"
)

type (
	configsKey       struct{}
	loggerKey        struct{}
	dbKey            struct{}
	txKey            struct{}
	tokenEngineKey   struct{}
	requestUserIDKey struct{}
	httpRequestKey   struct{}
)

func WithConfigs(ctx context.Context, cfg config.Configs) context.Context {
	return context.WithValue(ctx, configsKey{}, cfg)
}

func Configs(ctx context.Context) config.Configs {
	cfg, ok := ctx.Value(configsKey{}).(config.Configs)
	if !ok {
		return config.Configs{}
	}

	return cfg
}

func WithLogger(ctx context.Context, l logger.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

func Logger(ctx context.Context) logger.Logger {
	l, ok := ctx.Value(loggerKey{}).(logger.Logger)
	if !ok {
		return logger.NewLogger(logger.INFO)
	}

	return l
}

func WithDB(ctx context.Context, db *gorm.DB) context.Context {
	return context.WithValue(ctx, dbKey{}, db)
}

// DB returns the database transaction in the context if it exists, otherwise
// the root connection set up by WithDB.
func DB(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok && tx != nil {
		return tx
	}

	return ctx.Value(dbKey{}).(*gorm.DB)
}

// WithDBTransaction begins a transaction and replaces the returned value of
// DB() until the transaction is committed or rolled back.
func WithDBTransaction(ctx context.Context) context.Context {
	return context.WithValue(ctx, txKey{}, DB(ctx).Begin())
}

// WithCommitDBTransaction commits the current transaction if it exists and
// reports the commit failure; a success returned to the caller must mean the
// writes are durable. A later rollback of the same transaction is a no-op at
// the database.
func WithCommitDBTransaction(ctx context.Context) error {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok && tx != nil {
		return tx.Commit().Error
	}

	return nil
}

// WithRollbackDBTransaction rollbacks the current transaction if it exists.
func WithRollbackDBTransaction(ctx context.Context) context.Context {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok && tx != nil {
		tx.Rollback()
	}

	return context.WithValue(ctx, txKey{}, (*gorm.DB)(nil))
}

func WithTokenEngine(ctx context.Context, engine authenticator.TokenEngine) context.Context {
	return context.WithValue(ctx, tokenEngineKey{}, engine)
}

func TokenEngine(ctx context.Context) authenticator.TokenEngine {
	return ctx.Value(tokenEngineKey{}).(authenticator.TokenEngine)
}

func WithRequestUserID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestUserIDKey{}, id)
}

func RequestUserID(ctx context.Context) string {
	id, ok := ctx.Value(requestUserIDKey{}).(string)
	if !ok {
		return ""
	}

	return id
}

func WithHTTPRequest(ctx context.Context, r *http.Request) context.Context {
	return context.WithValue(ctx, httpRequestKey{}, r)
}

func HTTPRequest(ctx context.Context) *http.Request {
	r, ok := ctx.Value(httpRequestKey{}).(*http.Request)
	if !ok {
		return nil
	}

	return r
}
