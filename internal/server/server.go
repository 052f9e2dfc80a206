// Package server exposes the inventory over HTTP: a human readable
// HTML page, JSON API endpoints and an endpoint to force a run.
package server

import (
	"context"

	"github.com/qdm12/goservices/httpserver"
)

func New(ctx context.Context, address, rootURL, dataDir string,
	db Database, logger Logger, forcer RunForcer) (
	server *httpserver.Server, err error) {
	handler := newHandler(ctx, rootURL, dataDir, db, logger, forcer)
	name := "http server"
	return httpserver.New(httpserver.Settings{
		Handler: handler,
		Name:    &name,
		Address: &address,
		Logger:  logger,
	})
}
