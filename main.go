package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"
	"github.com/sirupsen/logrus"
	socketio "github.com/zishang520/socket.io/v2/socket"

	"nurinuri/config"
	"nurinuri/core"
	"nurinuri/gallery"
	"nurinuri/handlers/api/artworks"
	"nurinuri/handlers/api/catalog"
	"nurinuri/handlers/auth"
	"nurinuri/handlers/websocket"
	authMiddleware "nurinuri/middleware"
	"nurinuri/stores"
)

func setupRouter(g *gallery.Gallery, cfg config.Config) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Content-Length", "Origin", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/shape-types", catalog.HandleShapeTypes())
		r.Get("/canvas-sizes", catalog.HandleCanvasSizes())
		r.Get("/colors", catalog.HandleColors())

		// Mutating routes are protected by JWT auth when a secret is configured
		guard := authMiddleware.AuthJWT

		r.Route("/artworks", func(r chi.Router) {
			r.Get("/", artworks.HandleListArtworks(g))
			r.With(guard).Post("/", artworks.HandleCreateArtwork(g))

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", artworks.HandleGetArtwork(g))

				r.Group(func(r chi.Router) {
					r.Use(guard)
					r.Put("/", artworks.HandleReplaceArtwork(g))
					r.Patch("/", artworks.HandlePatchArtwork(g))
					r.Delete("/", artworks.HandleDeleteArtwork(g))

					r.Post("/shapes", artworks.HandleAddShape(g))
					r.Route("/shapes/{shapeId}", func(r chi.Router) {
						r.Put("/", artworks.HandleUpdateShape(g))
						r.Delete("/", artworks.HandleRemoveShape(g))
						r.Post("/move", artworks.HandleMoveShape(g))
						r.Post("/scale", artworks.HandleScaleShape(g))
						r.Post("/front", artworks.HandleBringShapeToFront(g))
						r.Post("/back", artworks.HandleSendShapeToBack(g))
					})
				})
			})
		})

		r.Get("/current", artworks.HandleGetCurrent(g))
		r.With(guard).Put("/current", artworks.HandleOpenCurrent(g))
		r.With(guard).Delete("/current", artworks.HandleCloseCurrent(g))

		r.Get("/export", artworks.HandleExport(g))
		r.With(guard).Post("/import", artworks.HandleImport(g))
	})

	return r
}

func waitForShutdown(srv *http.Server, ioo *socketio.Server, store core.ArtworkStore) {
	signalC := make(chan os.Signal, 1)
	signal.Notify(signalC, os.Interrupt, syscall.SIGHUP, syscall.SIGTERM, syscall.SIGQUIT)
	s := <-signalC
	logrus.WithField("signal", s.String()).Info("Shutting down...")

	ioo.Close(nil)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logrus.WithError(err).Error("HTTP server shutdown failed")
	}

	if closer, ok := store.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			logrus.WithError(err).Error("Failed to close storage")
		}
	}
}

func main() {
	cfg := config.Load()

	listenAddress := flag.String("listen", cfg.ListenAddr, "The address to listen on.")
	logLevel := flag.String("loglevel", cfg.LogLevel, "The log level (debug, info, warn, error).")
	issueToken := flag.String("issue-token", "", "Print a bearer token for the given subject and exit.")
	flag.Parse()

	level, err := logrus.ParseLevel(*logLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level: %v", err)
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	auth.Init(cfg.JWTSecret)
	if *issueToken != "" {
		token, err := auth.IssueJWT(*issueToken, "", 7*24*time.Hour)
		if err != nil {
			logrus.Fatalf("Failed to issue token: %v", err)
		}
		fmt.Println(token)
		return
	}

	ctx := context.Background()
	store, err := stores.GetStore(ctx, cfg)
	if err != nil {
		logrus.WithField("event", "init storage").Fatal(err)
	}

	g := gallery.New(store)
	if err := g.Load(ctx); err != nil {
		logrus.WithField("event", "load artworks").Fatal(err)
	}
	if cfg.SeedSamples {
		if _, err := g.Seed(ctx); err != nil {
			logrus.WithField("event", "seed artworks").Fatal(err)
		}
	}

	r := setupRouter(g, cfg)

	ioo, stopEvents := websocket.SetupSocketIO(g, cfg.CORSAllowedOrigins)
	defer stopEvents()
	r.Mount("/socket.io/", ioo.ServeHandler(nil))

	srv := &http.Server{
		Addr:    *listenAddress,
		Handler: r,
	}

	logrus.WithField("addr", *listenAddress).Info("starting server")
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.WithField("event", "start server").Fatal(err)
		}
	}()

	logrus.Debug("Server is running in the background")
	waitForShutdown(srv, ioo, store)
}
