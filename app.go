package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"psychology_station/archive"
	"psychology_station/config"
	"psychology_station/generator"
	"psychology_station/logger"
	"psychology_station/markers"
	"psychology_station/portal"
	"psychology_station/trending"
)

const (
	serviceName = "psychstation"
	pingTimeout = 3 * time.Second
)

// app holds what every command needs: config, logger, zone and the
// resources to release on exit.
type app struct {
	cfg     *config.Config
	log     *slog.Logger
	loc     *time.Location
	closers []func() error
}

func newApp(configPath string) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	return &app{
		cfg: cfg,
		log: logger.New(serviceName, cfg.LogLevel),
		loc: loc,
	}, nil
}

func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	return errors.Join(errs...)
}

func (a *app) agent(ctx context.Context) (*generator.Agent, error) {
	llm, err := generator.NewLLM(ctx, &generator.LLMSettings{
		Provider: a.cfg.LLM.Provider,
		Model:    a.cfg.LLM.Model,
		APIKey:   a.cfg.LLM.APIKey,
		BaseURL:  a.cfg.LLM.BaseURL,
		Logger:   a.log,
	})
	if err != nil {
		return nil, err
	}
	return generator.NewAgent(llm, generator.Options{
		Logger:   a.log,
		Retries:  a.cfg.LLM.Retries,
		Timeout:  a.cfg.LLMTimeout(),
		Location: a.loc,
	})
}

func (a *app) markerStore(ctx context.Context) (markers.Store, error) {
	store, err := markers.Open(ctx, markers.Options{
		Backend:  a.cfg.Markers.Backend,
		Path:     a.cfg.MarkerStorePath(),
		RedisURL: a.cfg.Markers.RedisURL,
	})
	if err != nil {
		return nil, fmt.Errorf("open marker store: %w", err)
	}
	a.closers = append(a.closers, store.Close)
	return store, nil
}

// sinks builds the configured archive sinks. The searcher is nil unless
// Elasticsearch is configured.
func (a *app) sinks(ctx context.Context) (archive.Sink, archive.Searcher, error) {
	var (
		multi    archive.Multi
		searcher archive.Searcher
	)
	if addr := a.cfg.Archive.ElasticsearchAddr; addr != "" {
		es, err := archive.NewElasticsearch(addr, a.cfg.Archive.ElasticsearchIndex, a.log)
		if err != nil {
			return nil, nil, err
		}
		pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		if err := es.Ping(pingCtx); err != nil {
			a.log.Warn("elasticsearch not reachable yet", slog.Any("err", err))
		}
		cancel()
		multi = append(multi, es)
		searcher = es
	}
	if brokers := a.cfg.Archive.KafkaBrokers; len(brokers) > 0 {
		k, err := archive.NewKafka(brokers, a.cfg.Archive.KafkaTopic)
		if err != nil {
			return nil, nil, err
		}
		a.closers = append(a.closers, k.Close)
		multi = append(multi, k)
	}
	if len(multi) == 0 {
		return nil, searcher, nil
	}
	return multi, searcher, nil
}

func (a *app) trending() trending.Source {
	if a.cfg.Trending.FeedURL == "" {
		return trending.StaticSource{}
	}
	return trending.NewFeedSource(a.cfg.Trending.FeedURL, a.cfg.Trending.Limit, a.cfg.TrendingTTL(), a.log)
}

func (a *app) portal(ctx context.Context) (*portal.Portal, archive.Searcher, error) {
	agent, err := a.agent(ctx)
	if err != nil {
		return nil, nil, err
	}
	sink, searcher, err := a.sinks(ctx)
	if err != nil {
		return nil, nil, err
	}
	p, err := portal.New(agent, portal.Options{
		Logger:   a.log,
		Sink:     sink,
		Trending: a.trending(),
	})
	if err != nil {
		return nil, nil, err
	}
	return p, searcher, nil
}
