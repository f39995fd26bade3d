package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"psychology_station/article"
	"psychology_station/publisher"
	"psychology_station/render"
	"psychology_station/schedule"
	"psychology_station/server"
	"psychology_station/telemetry"
)

var version = "dev"

const shutdownTimeout = 10 * time.Second

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "psychstation",
		Short:         "心理学放送局: AI psychology article portal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to config.yaml (default $XDG_CONFIG_HOME/psychstation/config.yaml)")

	serve := newServeCmd(&configPath)
	root.RunE = serve.RunE
	root.Flags().AddFlagSet(serve.Flags())

	root.AddCommand(
		serve,
		newGenerateCmd(&configPath),
		newRenderCmd(),
		newCheckScheduleCmd(&configPath),
		&cobra.Command{
			Use:   "version",
			Short: "Print the version",
			Run: func(cmd *cobra.Command, _ []string) {
				fmt.Fprintln(cmd.OutOrStdout(), version)
			},
		},
	)
	return root
}

func newServeCmd(configPath *string) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web portal and the twice-daily scheduler",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), *configPath, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "http listen address (overrides server_addr)")
	return cmd
}

func runServe(parent context.Context, configPath, addr string) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	a, err := newApp(configPath)
	if err != nil {
		return err
	}
	defer a.Close()
	log := a.log

	shutdownTracing, err := telemetry.Init(ctx, serviceName, version, a.cfg.Telemetry.OTLPEndpoint)
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			log.Warn("tracing shutdown", slog.Any("err", err))
		}
	}()

	p, searcher, err := a.portal(ctx)
	if err != nil {
		return err
	}
	srv, err := server.New(p, server.Options{Logger: log, Searcher: searcher})
	if err != nil {
		return err
	}

	var sched *schedule.Scheduler
	if a.cfg.Schedule.Enabled {
		store, err := a.markerStore(ctx)
		if err != nil {
			return err
		}
		sched, err = schedule.New(store, p.Trigger, schedule.Options{
			Prefix:   a.cfg.Schedule.KeyPrefix,
			Interval: a.cfg.ScheduleInterval(),
			Location: a.loc,
			Logger:   log,
		})
		if err != nil {
			return err
		}
	}

	listen := a.cfg.ServerAddr
	if addr != "" {
		listen = addr
	}
	if listen == "" {
		listen = ":8080"
	}
	httpServer := &http.Server{
		Addr:              listen,
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		// POST /api/articles waits for the model
		WriteTimeout: 3 * time.Minute,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("web server starting", slog.String("addr", listen))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	if sched != nil {
		g.Go(func() error { return sched.Run(gctx) })
	}
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutdown signal received")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(sctx)
	})

	err = g.Wait()
	if sched != nil {
		sched.Wait()
	}
	srv.Wait()
	log.Info("stopped")
	return err
}

func newGenerateCmd(configPath *string) *cobra.Command {
	var (
		topic    string
		category string
		outDir   string
		asJSON   bool
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate one article and print it",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cat, err := article.ParseCategory(category)
			if err != nil {
				return err
			}
			if cat == article.All {
				cat = article.Mental
			}
			a, err := newApp(*configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			agent, err := a.agent(cmd.Context())
			if err != nil {
				return err
			}
			art, err := agent.Generate(cmd.Context(), topic, cat)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(art); err != nil {
					return err
				}
			} else {
				fmt.Fprintf(out, "%s\n[%s] %s\n\n", art.Title, art.Category, art.CreatedAt)
				fmt.Fprintln(out, render.Terminal(render.Render(art.Content)))
				for _, src := range art.Sources {
					fmt.Fprintf(out, "  - %s <%s>\n", src.Title, src.URL)
				}
			}

			if outDir != "" {
				pub, err := publisher.New(a.log)
				if err != nil {
					return err
				}
				path, err := pub.WriteFile(outDir, *art)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.ErrOrStderr(), path)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&topic, "topic", "", "article topic (required)")
	cmd.Flags().StringVar(&category, "category", string(article.Mental), "article category")
	cmd.Flags().StringVar(&outDir, "out", "", "also export a standalone HTML file into this directory")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the article as JSON")
	_ = cmd.MarkFlagRequired("topic")
	return cmd
}

func newRenderCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "render [file]",
		Short: "Render article text (file or stdin) to the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				data []byte
				err  error
			)
			if len(args) == 1 && args[0] != "-" {
				data, err = os.ReadFile(args[0])
			} else {
				data, err = io.ReadAll(cmd.InOrStdin())
			}
			if err != nil {
				return err
			}
			text := strings.ReplaceAll(string(data), "\r\n", "\n")
			fmt.Fprintln(cmd.OutOrStdout(), render.Terminal(render.Render(text)))
			return nil
		},
	}
}

func newCheckScheduleCmd(configPath *string) *cobra.Command {
	var at string
	cmd := &cobra.Command{
		Use:   "check-schedule",
		Short: "Run one schedule check and wait for the generation it starts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(*configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			now := time.Now()
			if at != "" {
				if now, err = time.Parse(time.RFC3339, at); err != nil {
					return fmt.Errorf("--at: %w", err)
				}
			}

			ctx := cmd.Context()
			p, _, err := a.portal(ctx)
			if err != nil {
				return err
			}
			store, err := a.markerStore(ctx)
			if err != nil {
				return err
			}
			sched, err := schedule.New(store, p.Trigger, schedule.Options{
				Prefix:   a.cfg.Schedule.KeyPrefix,
				Location: a.loc,
				Logger:   a.log,
			})
			if err != nil {
				return err
			}

			before := p.Status().Articles
			slot, fired := sched.Check(ctx, now)
			sched.Wait()
			out := cmd.OutOrStdout()
			if !fired {
				fmt.Fprintln(out, "no slot due")
				return nil
			}
			fmt.Fprintf(out, "fired %s: %s\n", slot.Name, slot.Topic)
			if p.Status().Articles == before {
				return errors.New("scheduled generation failed; the slot stays marked for today")
			}
			art := p.Articles(article.All)[0]
			fmt.Fprintf(out, "%s (%s)\n", art.Title, art.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&at, "at", "", "check as of this RFC3339 time instead of now")
	return cmd
}
