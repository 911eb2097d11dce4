package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"breachwatch/internal/modkit"
	"breachwatch/internal/modkit/httpkit"
	"breachwatch/internal/modkit/module"
	"breachwatch/internal/platform/config"
	perr "breachwatch/internal/platform/errors"
	"breachwatch/internal/platform/logger"
	"breachwatch/internal/platform/metrics"
	"breachwatch/internal/platform/store"
	almodule "breachwatch/internal/services/alerts/module"
	clmodule "breachwatch/internal/services/claims/module"
	mtmodule "breachwatch/internal/services/matcher/module"
	wlmodule "breachwatch/internal/services/watchlist/module"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	root := config.New()
	apiCfg := root.Prefix("CORE_API_")
	pgCfg := root.Prefix("SERVICE_PGSQL_")

	l := logger.Get()

	st, err := store.Open(
		context.Background(),
		store.Config{
			PG: store.PGConfig{
				Enabled:     true,
				URL:         pgCfg.MustString("DBURL"),
				MaxConns:    int32(pgCfg.MayInt("MAX_CONNS", 4)),
				SlowQueryMs: pgCfg.MayInt("SLOW_MS", 500),
				LogSQL:      pgCfg.MayBool("LOG_SQL", true),
			},
		},
		store.WithLogger(*l),
	)
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	deps := modkit.Deps{
		Log: *l,
		Cfg: root,
		PG:  st.PG,
		Met: metrics.NewEngine(),
	}

	watchlist := wlmodule.New(deps)
	alerts := almodule.New(deps)
	claims := clmodule.New(deps)
	matcher := mtmodule.New(deps, watchlist.Ports().(wlmodule.Ports).Reader, alerts.Ports().(almodule.Ports).Emitter)

	// identifier mutations rebuild the matcher snapshot
	watchlist.SetInvalidator(matcher.Ports().(mtmodule.Ports).Matcher)

	for _, m := range []module.Module{watchlist, alerts, claims, matcher} {
		module.Register(m.Name(), m.Ports())
	}

	srv := httpkit.NewServer(apiCfg)
	r := srv.Router()
	for _, m := range []module.Module{watchlist, alerts, claims, matcher} {
		m.MountRoutes(r)
	}

	httpkit.Get(r, "/healthz", func(req *http.Request) (any, error) {
		if err := st.Guard(req.Context()); err != nil {
			return nil, perr.Wrap(err, perr.ErrorCodeUnavailable, "store not ready")
		}
		return map[string]string{"status": "ok"}, nil
	})
	r.Handle("/metrics", promhttp.Handler())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		_ = srv.Shutdown(context.Background())
	}()

	if err := srv.Run(context.Background()); err != nil {
		l.Panic().Err(err).Msg("http server stopped")
	}
}
