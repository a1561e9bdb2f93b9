package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	variation "github.com/goliatone/go-variation"
	"github.com/goliatone/go-variation/pkg/activity"
	"github.com/goliatone/go-variation/pkg/broadcast"
	"github.com/goliatone/go-variation/pkg/dataset"
	"github.com/goliatone/go-variation/pkg/seedhttp"
	"github.com/goliatone/go-variation/pkg/state"
)

const hotelsDomain = "hotels"

// maxOrderCount bounds /order requests; permutation candidates grow with the
// square of the list length.
const maxOrderCount = 256

type serveOptions struct {
	addr     string
	cacheDir string
	baseSeed int
}

func newServeCmd(root *rootOptions) *cobra.Command {
	opts := &serveOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve variation lookups and a demo dataset over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := root.engine(cmd)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := newServer(ctx, engine, opts)
			defer srv.close()

			httpServer := &http.Server{
				Addr:              opts.addr,
				Handler:           srv.routes(),
				ReadHeaderTimeout: 5 * time.Second,
			}
			errCh := make(chan error, 1)
			go func() {
				errCh <- httpServer.ListenAndServe()
			}()
			cmd.Printf("listening on %s\n", opts.addr)

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
			}
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return httpServer.Shutdown(shutdownCtx)
		},
	}
	cmd.Flags().StringVar(&opts.addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&opts.cacheDir, "cache-dir", "", "directory for dataset snapshots (memory when empty)")
	cmd.Flags().IntVar(&opts.baseSeed, "seed", variation.CanonicalSeed, "seed the demo dataset starts with")
	return cmd
}

type server struct {
	engine   *variation.Engine
	resolver *seedhttp.Resolver
	channel  *broadcast.MemoryChannel
	hotels   *dataset.Coordinator[hotel]
	stop     func()
}

func newServer(ctx context.Context, engine *variation.Engine, opts *serveOptions) *server {
	var store state.Store[[]hotel] = state.NewMemoryStore[[]hotel]()
	if opts.cacheDir != "" {
		store = state.NewFileStore[[]hotel](opts.cacheDir)
	}
	tracker := &seedhttp.Tracker{}
	resolver := seedhttp.NewResolver(engine.Policy())
	resolver.Tracker = tracker

	loader := dataset.NewCachingLoader(demoLoader(engine), store,
		dataset.WithCacheLogger(engine.Logger()),
	)
	hotels := dataset.New[hotel](hotelsDomain, loader,
		dataset.WithConfig(engine.Config()),
		dataset.WithLogger(engine.Logger()),
		dataset.WithBaseSeed(opts.baseSeed),
		dataset.WithSeedSource(tracker),
		dataset.WithEmitter(activity.NewEmitter(logHook(engine.Logger()), activity.Config{Enabled: true})),
	)
	channel := broadcast.NewMemoryChannel()
	srv := &server{
		engine:   engine,
		resolver: resolver,
		channel:  channel,
		hotels:   hotels,
		stop:     hotels.Watch(ctx, channel),
	}
	hotels.Reload(ctx, 0)
	return srv
}

func (s *server) close() {
	s.stop()
	s.channel.Close()
}

func (s *server) routes() http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	router.Group(func(r chi.Router) {
		r.Use(s.resolver.Middleware)
		r.Get("/layout", s.handleLayout)
		r.Get("/s/{seed}/layout", s.handleLayout)
		r.Get("/variant/{key}", s.handleVariant)
		r.Get("/order/{key}", s.handleOrder)
		r.Get("/plan/{key}", s.handlePlan)
		r.Post("/seed", s.handlePublishSeed)
	})
	router.Get("/hotels", s.handleHotels)
	router.Get("/hotels/{id}", s.handleHotel)
	return router
}

func (s *server) handleLayout(w http.ResponseWriter, r *http.Request) {
	layout, match := s.engine.Layouts().ResolveWithMatch(seedhttp.FromContext(r.Context()))
	writeJSON(w, http.StatusOK, map[string]any{"match": match, "layout": layout})
}

func (s *server) handleVariant(w http.ResponseWriter, r *http.Request) {
	seed := seedhttp.FromContext(r.Context())
	key := chi.URLParam(r, "key")
	var local variation.Dictionary
	if raw := r.URL.Query().Get("candidates"); raw != "" {
		local = variation.Dictionary{key: strings.Split(raw, ",")}
	}
	writeJSON(w, http.StatusOK, s.engine.Catalog().Resolve(seed, key, local))
}

func (s *server) handleOrder(w http.ResponseWriter, r *http.Request) {
	count, err := strconv.Atoi(r.URL.Query().Get("count"))
	if err != nil || count < 0 || count > maxOrderCount {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "count must be an integer between 0 and " + strconv.Itoa(maxOrderCount),
		})
		return
	}
	seed := seedhttp.FromContext(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{
		"seed":        seed,
		"permutation": s.engine.Order(seed, chi.URLParam(r, "key"), count),
	})
}

func (s *server) handlePlan(w http.ResponseWriter, r *http.Request) {
	seed := seedhttp.FromContext(r.Context())
	writeJSON(w, http.StatusOK, s.engine.Plan(seed, chi.URLParam(r, "key")))
}

func (s *server) handlePublishSeed(w http.ResponseWriter, r *http.Request) {
	change := broadcast.SeedChange{
		Seed:   seedhttp.FromContext(r.Context()),
		Origin: r.RemoteAddr,
	}
	if err := s.channel.Publish(r.Context(), change); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]int{"seed": change.Seed})
}

func (s *server) handleHotels(w http.ResponseWriter, r *http.Request) {
	if err := s.hotels.WhenReady(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": err.Error()})
		return
	}
	query := r.URL.Query()
	filters := map[string]string{}
	if city := query.Get("city"); city != "" {
		filters["city"] = city
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"seed":    s.hotels.Seed(),
		"records": s.hotels.Search(query.Get("q"), filters),
	})
}

func (s *server) handleHotel(w http.ResponseWriter, r *http.Request) {
	if err := s.hotels.WhenReady(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": err.Error()})
		return
	}
	id := chi.URLParam(r, "id")
	record, ok := s.hotels.GetByID(id)
	if !ok {
		record, ok = s.hotels.GetByName(id)
	}
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "hotel not found"})
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// logHook forwards dataset activity to the engine logger.
func logHook(logger variation.Logger) activity.Hooks {
	return activity.Hooks{activity.HookFunc(func(_ context.Context, event activity.Event) error {
		logger.Log(variation.LogEvent{
			Level:     variation.LogLevelInfo,
			Component: "activity",
			Message:   event.Verb,
			Seed:      event.Seed,
			Key:       event.ObjectID,
			Fields:    event.Metadata,
		})
		return nil
	})}
}
