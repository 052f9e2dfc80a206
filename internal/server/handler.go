package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
)

type handlers struct {
	ctx     context.Context //nolint:containedctx
	dataDir string
	db      Database
	logger  Logger
	forcer  RunForcer
	timeNow func() time.Time
}

func newHandler(ctx context.Context, rootURL, dataDir string,
	db Database, logger Logger, forcer RunForcer) http.Handler {
	handlers := &handlers{
		ctx:     ctx,
		dataDir: dataDir,
		db:      db,
		logger:  logger,
		forcer:  forcer,
		timeNow: time.Now,
	}

	rootURL = strings.TrimSuffix(rootURL, "/")

	router := chi.NewRouter()

	router.Get(rootURL+"/", handlers.index)
	router.Get(rootURL+"/api/v1/assets", handlers.getAssets)
	router.Get(rootURL+"/api/v1/domains", handlers.getDomains)
	router.Get(rootURL+"/api/v1/nodata", handlers.getNoDataDomains)
	router.Post(rootURL+"/api/v1/run", handlers.forceRun)

	return router
}
