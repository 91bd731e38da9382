package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"openmusic-service/internal/auth"
	"openmusic-service/internal/cache"
	"openmusic-service/internal/catalog"
	"openmusic-service/internal/config"
	"openmusic-service/internal/export"
	"openmusic-service/internal/httpx"
	"openmusic-service/internal/playlist"
	"openmusic-service/internal/storage"
)

func newRouter(cfg *config.Config, d deps) (http.Handler, error) {
	covers, err := storage.NewDisk(cfg.Storage.CoversDir)
	if err != nil {
		return nil, err
	}

	var cacheStore cache.Store
	if d.rdb != nil {
		cacheStore = cache.NewRedisStore(d.rdb)
	}
	aside := cache.NewAside(cacheStore, cfg.Cache.TTL)

	tokens := auth.NewTokenManager(
		cfg.Auth.AccessTokenKey, cfg.Auth.RefreshTokenKey,
		cfg.Auth.AccessTokenAge, cfg.Auth.RefreshTokenAge,
	)
	users := auth.NewPostgresUsers(d.pool, cfg.Auth.BcryptCost)

	catalogSvc := catalog.NewService(
		catalog.NewPostgresAlbums(d.pool),
		catalog.NewPostgresSongs(d.pool),
		catalog.NewPostgresLikes(d.pool),
		aside,
		covers,
	)

	playlists := playlist.NewPostgresStore(d.pool)
	playlistSvc := playlist.NewService(playlists, playlists, users)

	dispatcher := export.NewDispatcher(playlistSvc, d.producer, cfg.Queue.ExportQueue)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(httpx.CORS(cfg.Server.CORSOrigin))
	if cfg.Server.RateLimitRPS > 0 {
		r.Use(httpx.RateLimit(cfg.Server.RateLimitRPS))
	}
	r.Use(middleware.Timeout(cfg.Server.Timeout))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httpx.Data(w, http.StatusOK, map[string]string{"service": "openmusic"})
	})

	auth.NewHandler(users, auth.NewPostgresRefreshTokens(d.pool), tokens).Routes(r)
	catalog.NewHandler(catalogSvc, covers.Handler(), cfg.Server.PublicBaseURL).Routes(r, tokens.RequireUser)
	playlist.NewHandler(playlistSvc).Routes(r, tokens.RequireUser)
	export.NewHandler(dispatcher).Routes(r, tokens.RequireUser)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httpx.Fail(w, http.StatusNotFound, "resource not found")
	})

	return r, nil
}
