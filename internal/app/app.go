package app

import (
	"context"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redinteligente/authcode/internal/pkg/clock"
	"github.com/redinteligente/authcode/internal/pkg/config"
	"github.com/redinteligente/authcode/internal/pkg/goroutine"
	"github.com/redinteligente/authcode/internal/pkg/hash"
	"github.com/redinteligente/authcode/internal/pkg/idempotency"
	"github.com/redinteligente/authcode/internal/pkg/instrument"
	"github.com/redinteligente/authcode/internal/pkg/mail"
	"github.com/redinteligente/authcode/internal/pkg/messaging"
	"github.com/redinteligente/authcode/internal/pkg/otp"
	"github.com/redinteligente/authcode/internal/pkg/router"
	"github.com/redinteligente/authcode/internal/pkg/uid"
	"github.com/redinteligente/authcode/internal/pkg/validator"
	"github.com/redis/go-redis/v9"
)

// App wires dependencies and manages service lifecycle.
type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	// configuration
	config config.Config
	ins    instrument.Instrumentation

	// libraries
	goroutine *goroutine.Manager
	validator validator.Validator
	clock     clock.Clocker
	argon2id  hash.Hash
	uuid      uid.StringID
	codes     otp.Generator

	// resources
	dbConn    *pgxpool.Pool
	cacheConn *redis.Client
	idemp     idempotency.Idempotency
	mail      mail.Mail
	messaging messaging.Messaging

	// server
	router     *router.Router
	httpServer *http.Server

	//
	closers []struct {
		name string
		fn   func(context.Context) error
	}
}

// New initializes the application with default wiring and returns an App instance.
func New() *App {
	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		ctx:    ctx,
		cancel: cancel,
	}

	app.initConfig()
	app.initInstrument()
	app.initLibraries()
	app.initDatabase()
	app.initCache()
	app.initMail()
	app.initMessaging()
	app.initHTTPServer()
	app.initModules()
	app.initClosers()

	return app
}
