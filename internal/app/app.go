package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/polkiloo/betacycle/internal/config"
	"github.com/polkiloo/betacycle/internal/domain/repository"
	"github.com/polkiloo/betacycle/internal/usecase"
	"github.com/polkiloo/betacycle/internal/worker"
)

// Module wires the facade and the runtime components into the fx lifecycle.
var Module = fx.Options(
	fx.Provide(
		NewBetaCycleFacade,
		newHTTPServer,
		newTraceWriter,
		func(w *worker.TraceWriter) usecase.TraceSink { return w },
	),
	fx.Invoke(registerLifecycle),
)

type serverParams struct {
	fx.In

	Config *config.Config
	Router *gin.Engine
}

func newHTTPServer(p serverParams) *http.Server {
	return &http.Server{
		Addr:              p.Config.RunAddress,
		Handler:           p.Router,
		ReadHeaderTimeout: p.Config.RequestTimeout,
	}
}

type workerParams struct {
	fx.In

	Traces repository.TraceRepository
	Config *config.Config
	Logger *slog.Logger
}

func newTraceWriter(p workerParams) *worker.TraceWriter {
	return worker.NewTraceWriter(
		p.Traces,
		p.Config.TraceQueueSize,
		p.Config.TraceBatchSize,
		p.Config.TraceFlushInterval,
		p.Config.TraceWorkers,
		p.Logger,
	)
}

type lifecycleParams struct {
	fx.In

	Lifecycle  fx.Lifecycle
	Shutdowner fx.Shutdowner
	Logger     *slog.Logger
	Server     *http.Server
	Worker     *worker.TraceWriter
	Config     *config.Config
}

func registerLifecycle(p lifecycleParams) {
	s := &service{p}
	p.Lifecycle.Append(fx.Hook{OnStart: s.start, OnStop: s.stop})
}

// service owns the HTTP listener and the trace writer between start and stop.
type service struct {
	lifecycleParams
}

func (r *service) start(ctx context.Context) error {
	r.Logger.Info("starting betacycle", slog.String("addr", r.Server.Addr))
	// The start context expires once startup completes.
	r.Worker.Start(context.WithoutCancel(ctx))
	go r.serve()
	return nil
}

func (r *service) serve() {
	err := r.Server.ListenAndServe()
	if err == nil || errors.Is(err, http.ErrServerClosed) {
		return
	}
	r.Logger.Error("http server terminated", slog.String("error", err.Error()))
	_ = r.Shutdowner.Shutdown(fx.ExitCode(1))
}

func (r *service) stop(ctx context.Context) error {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Config.ShutdownTimeout)
		defer cancel()
	}

	// Stop accepting requests first so no trace is enqueued after the writer drains.
	serverErr := r.Server.Shutdown(ctx)
	r.Worker.Stop()
	if serverErr != nil && !errors.Is(serverErr, http.ErrServerClosed) {
		r.Logger.Error("http server shutdown failed", slog.String("error", serverErr.Error()))
		return serverErr
	}
	r.Logger.Info("betacycle stopped")
	return nil
}
