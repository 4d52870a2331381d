// @title        Pack Mint API
// @version      1.0
// @description  Mints NFT packs from a Metaplex Candy Machine.
// @BasePath     /
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AlexZinkM/pack-mint/internal/api"
	"github.com/AlexZinkM/pack-mint/internal/authority"
	"github.com/AlexZinkM/pack-mint/internal/client"
	"github.com/AlexZinkM/pack-mint/internal/common"
	"github.com/AlexZinkM/pack-mint/internal/config"
	"github.com/AlexZinkM/pack-mint/internal/journal"
	"github.com/AlexZinkM/pack-mint/internal/logging"
	"github.com/AlexZinkM/pack-mint/solana"

	"github.com/sirupsen/logrus"
)

func main() {
	if err := config.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	cfg := config.Get()

	logger := logging.New(cfg.LogLevel)

	var password []byte
	if cfg.KeypairEncrypted() {
		if cfg.KeypairPassword == "" {
			if err := config.PromptForPassword(); err != nil {
				logger.WithError(err).Fatal("read key file password")
			}
		}
		p, err := config.KeypairPasswordBytes()
		if err != nil {
			logger.WithError(err).Fatal("read key file password")
		}
		password = p
	}

	auth, err := authority.Load(cfg.KeypairPath, password)
	clear(password)
	config.ClearPassword()
	if err != nil {
		logger.WithError(err).Fatal("load mint authority")
	}
	defer auth.Close()
	logger.WithField("authority", common.MaskShort(auth.PublicKey().String())).Info("mint authority loaded")

	ctx := context.Background()

	var store journal.Store
	if cfg.RedisURL != "" {
		cache, err := journal.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			logger.WithError(err).Fatal("connect redis")
		}
		defer func() {
			if err := cache.Close(); err != nil {
				logger.WithError(err).Warn("close redis")
			}
		}()
		store = journal.NewRedisStore(cache, cfg.IdempotencyTTL)
	} else {
		logger.Warn("REDIS_URL not set, mint journal is kept in memory and lost on restart")
		store = journal.NewMemoryStore(cfg.IdempotencyTTL)
	}

	chain := client.NewSolanaClient(cfg.RPCURL, auth, cfg.CandyMachine(), cfg.CollectionAuthority()).
		WithTimeout(cfg.RPCTimeout)

	svc := solana.NewService(chain, store, solana.Options{
		MaxQuantity: cfg.MaxQuantity,
		Network:     cfg.Network,
		PublicURL:   cfg.PublicURL,
		PayLabel:    cfg.PayLabel,
		PayIcon:     cfg.PayIcon,
		Logger:      logger,
	})

	srv := &http.Server{
		Addr: cfg.Address(),
		Handler: api.SetupRouter(svc, api.RouterConfig{
			APISecret:      cfg.APISecret,
			AllowedOrigins: cfg.CORSAllowedOrigins,
			Logger:         logger,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	if cfg.APISecret == "" {
		logger.Warn("API_SECRET not set, POST /api/mint is open")
	}

	srvErrCh := make(chan error, 1)
	go func() {
		logger.WithFields(logrus.Fields{
			"addr":          srv.Addr,
			"candy_machine": cfg.CandyMachineID,
			"network":       cfg.Network,
		}).Info("server listening")
		srvErrCh <- srv.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.WithField("signal", sig.String()).Info("shutdown signal received")
	case err := <-srvErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Error("server error")
			os.Exit(1)
		}
		return
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("shutdown error")
		os.Exit(1)
	}

	logger.Info("server exited cleanly")
}
