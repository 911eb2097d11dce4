package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"breachwatch/internal/modkit"
	"breachwatch/internal/modkit/module"
	"breachwatch/internal/platform/config"
	"breachwatch/internal/platform/logger"
	"breachwatch/internal/platform/metrics"
	"breachwatch/internal/platform/store"
	almodule "breachwatch/internal/services/alerts/module"
	clmodule "breachwatch/internal/services/claims/module"
	comodule "breachwatch/internal/services/collector/module"
	mtmodule "breachwatch/internal/services/matcher/module"
	nomodule "breachwatch/internal/services/notify/module"
	wlmodule "breachwatch/internal/services/watchlist/module"
)

func main() {
	root := config.New()
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
				LogSQL:      pgCfg.MayBool("LOG_SQL", false),
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
	notify := nomodule.New(deps)

	watchlist.SetInvalidator(matcher.Ports().(mtmodule.Ports).Matcher)

	collector := comodule.New(
		deps,
		claims.Ports().(clmodule.Ports).Admitter,
		matcher.Ports().(mtmodule.Ports).Matcher,
		notify.Ports().(nomodule.Ports).Notifier,
	)

	for _, m := range []module.Module{watchlist, alerts, claims, matcher, notify, collector} {
		module.Register(m.Name(), m.Ports())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loop := collector.Ports().(comodule.Ports).Loop
	if err := loop.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		l.Panic().Err(err).Msg("collection loop stopped")
	}
	l.Info().Msg("collector shut down")
}
