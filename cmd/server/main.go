package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/sfu-control-plane/internal/admission"
	"github.com/dkeye/sfu-control-plane/internal/config"
	router "github.com/dkeye/sfu-control-plane/internal/controlplane/http"
	"github.com/dkeye/sfu-control-plane/internal/core"
	"github.com/dkeye/sfu-control-plane/internal/drain"
	"github.com/dkeye/sfu-control-plane/internal/fanout"
	"github.com/dkeye/sfu-control-plane/internal/mediaplane"
	"github.com/dkeye/sfu-control-plane/internal/minutes"
	"github.com/dkeye/sfu-control-plane/internal/moderation"
	"github.com/dkeye/sfu-control-plane/internal/sfustate"
	"github.com/dkeye/sfu-control-plane/internal/transcription"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		log.Error().Err(err).Msg("failed to load config")
	}

	state := sfustate.New()
	mp := mediaplane.New()
	fo := fanout.New(state.Registry)
	admissionEngine := admission.New()
	moderationEngine := moderation.New(mp)
	drainEngine := drain.New(state, state.Registry, fo)

	transcriptionMgr := transcription.NewManager(mp, transcription.Config{
		ASRURL:         cfg.ASRURL,
		SampleRateHz:   cfg.ASRSampleRateHz,
		DecoderBinPath: cfg.DecoderBinPath,
	})

	localSummarizer := minutes.NewLocalSummarizer()
	var primary core.Summarizer = localSummarizer
	if cfg.RemoteSummarizationEnabled() {
		primary = minutes.NewRemoteSummarizer(cfg.SummarizerURL, cfg.SummarizerToken)
	}
	minutesGen := minutes.NewGenerator(transcriptionMgr, primary, localSummarizer, minutes.NewPDFRenderer())

	srv := &router.Server{
		Secret:        cfg.Secret,
		State:         state,
		Registry:      state.Registry,
		Admission:     admissionEngine,
		Moderation:    moderationEngine,
		Drain:         drainEngine,
		Fanout:        fo,
		Minutes:       minutesGen,
		Transcription: transcriptionMgr,
		MediaPlane:    mp,
	}

	engine := router.NewRouter(ctx, srv)
	httpSrv := &http.Server{Addr: cfg.BindAddress, Handler: engine}

	go func() {
		log.Info().Str("addr", cfg.BindAddress).Str("instance", cfg.InstanceID).Msg("sfu control plane started")
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}
	log.Info().Msg("server exited gracefully")
}
