// Package app assembles the storefront client: store, session, REST client,
// feature services and the gateway in front of them.
package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"goldmart/internal/admin"
	"goldmart/internal/api"
	"goldmart/internal/cart"
	"goldmart/internal/clientstore"
	"goldmart/internal/config"
	"goldmart/internal/infrastructure/asset"
	"goldmart/internal/logger"
	"goldmart/internal/logger/sl"
	"goldmart/internal/orders"
	"goldmart/internal/payment"
	"goldmart/internal/poll"
	"goldmart/internal/server"
	"goldmart/internal/session"
)

const shutdownTimeout = 5 * time.Second

type Application struct {
	Config   config.Config
	Store    clientstore.Store
	Session  *session.Manager
	Client   *api.Client
	Cart     *cart.Manager
	Checkout *payment.Checkout
	Server   *server.Server
	log      *slog.Logger
}

// New wires every layer over store. A nil provider means the simulated
// payment gateway.
func New(cfg config.Config, store clientstore.Store, provider payment.Provider, log *slog.Logger) *Application {
	log = logger.OrDefault(log)
	if provider == nil {
		provider = &payment.Simulator{Delay: cfg.PaymentDelay}
	}

	sess := session.New(store, log)
	client := api.New(cfg.APIBaseURL, cfg.HTTPTimeout, sess, log)
	client.OnUnauthorized = sess.ForceLogout
	client.OnAdminUnauthorized = sess.ForceAdminLogout

	crt := cart.New(store, log)
	co := &payment.Checkout{
		Orders:       client,
		Cart:         crt,
		Store:        store,
		Provider:     provider,
		SuccessDelay: cfg.SuccessDelay,
		Log:          log,
	}
	srv := server.New(server.Deps{
		Config:   cfg,
		Store:    store,
		Session:  sess,
		Cart:     crt,
		API:      client,
		Checkout: co,
		Orders:   orders.New(client, asset.NewFSWriter(cfg.DownloadsDir), log),
		Admin:    admin.New(client, store, log),
		Polls:    poll.NewGroup(log),
		Log:      log,
	})
	return &Application{
		Config:   cfg,
		Store:    store,
		Session:  sess,
		Client:   client,
		Cart:     crt,
		Checkout: co,
		Server:   srv,
		log:      log,
	}
}

// Run serves until ctx ends, then shuts the gateway down gracefully.
func (a *Application) Run(ctx context.Context) error {
	addr := ":" + strconv.Itoa(a.Config.Port)
	errc := make(chan error, 1)
	go func() {
		a.log.Info("gateway listening", slog.String("addr", addr), slog.String("api", a.Config.APIBaseURL))
		if err := a.Server.Run(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err, ok := <-errc:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	a.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	a.Shutdown(shutdownCtx)
	return nil
}

func (a *Application) Shutdown(ctx context.Context) {
	if err := a.Server.Stop(ctx); err != nil {
		a.log.Error("gateway stop", sl.Err(err))
	}
	if c, ok := a.Store.(interface{ Close() error }); ok {
		if err := c.Close(); err != nil {
			a.log.Error("store close", sl.Err(err))
		}
	}
}
