package root

import (
	"context"

	"github.com/simplenow320/I-Get-It-Done-2-sub001/internal/config"
	"github.com/simplenow320/I-Get-It-Done-2-sub001/internal/engine"
	"github.com/simplenow320/I-Get-It-Done-2-sub001/internal/logging"
	"github.com/simplenow320/I-Get-It-Done-2-sub001/internal/storage"
)

func openService(ctx context.Context) (*engine.Service, func(), error) {
	cfgPath, err := config.Path()
	if err != nil {
		return nil, nil, err
	}
	timings, err := config.Load(cfgPath)
	if err != nil {
		return nil, nil, err
	}

	dbPath, err := storage.ResolveDBPath()
	if err != nil {
		return nil, nil, err
	}
	db, err := storage.Open(ctx, dbPath)
	if err != nil {
		return nil, nil, err
	}

	// Background failures land in the log file; a missing logger still works.
	var log *logging.Logger
	if logPath, err := logging.DefaultPath(); err == nil {
		log, _ = logging.Open(logPath)
	}

	svc := engine.NewService(ctx, db, timings, log)
	cleanup := func() {
		svc.Flush()
		_ = db.Close()
		_ = log.Close()
	}
	return svc, cleanup, nil
}
