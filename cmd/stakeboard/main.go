// Command stakeboard runs the staking dashboard: it connects a wallet,
// reconciles on-chain rewards against the local stake ledger and serves
// a live web dashboard.
//
// Usage:
//
//	stakeboard --config config.yaml
//	stakeboard setup   (interactive configuration wizard)
//
// The wallet private key is read from the environment variable named by
// the private_key_env config option (STAKEBOARD_PRIVATE_KEY by default).
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ethereum/go-ethereum/common"
	"github.com/vadiminshakov/stakeboard/config"
	"github.com/vadiminshakov/stakeboard/internal/core"
	"github.com/vadiminshakov/stakeboard/internal/gateway"
	"github.com/vadiminshakov/stakeboard/internal/services/pricer"
	"github.com/vadiminshakov/stakeboard/internal/setup"
	"github.com/vadiminshakov/stakeboard/internal/storage/ledgerstore"
	"github.com/vadiminshakov/stakeboard/internal/wallet"
	"github.com/vadiminshakov/stakeboard/internal/web"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "setup" {
		if err := setup.RunTUI(); err != nil {
			log.Fatal(err)
		}
		return
	}

	cfg, err := config.Get()
	if err != nil {
		log.Fatal(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	privateKey := os.Getenv(cfg.PrivateKeyEnv)
	if privateKey == "" {
		logger.Fatal("wallet private key env is not set", zap.String("env", cfg.PrivateKeyEnv))
	}

	session := wallet.NewSession()
	transitions := session.Subscribe()
	if err := session.Connect(privateKey); err != nil {
		logger.Fatal("failed to connect wallet", zap.Error(err))
	}

	gw, err := gateway.NewEthereumGateway(cfg.RPCURL, cfg.ChainID,
		common.HexToAddress(cfg.TokenAddress), common.HexToAddress(cfg.RewardsAddress), session.Key())
	if err != nil {
		logger.Fatal("failed to create ethereum gateway", zap.Error(err))
	}
	defer gw.Close()

	store, err := ledgerstore.NewStore(cfg.WalDir, logger)
	if err != nil {
		logger.Fatal("failed to open ledger store", zap.Error(err))
	}
	defer store.Close()

	prc, err := pricer.New(cfg.PricingPlatform, session.Key())
	if err != nil {
		logger.Fatal("failed to create pricer", zap.Error(err))
	}

	c := core.New(logger, session, gw, store, cfg.Tokens, cfg.PollRewardsInterval)
	server := web.NewServer(cfg.ListenAddr, c, prc, cfg.Tokens)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return c.Run(ctx, transitions)
	})
	g.Go(func() error {
		if len(cfg.TLSDomains) > 0 {
			return server.StartWithAutoTLS(ctx, cfg.TLSDomains, cfg.CertCacheDir)
		}
		return server.Start(ctx)
	})

	if addr, ok := session.Address(); ok {
		logger.Info("stakeboard started",
			zap.String("wallet", addr.Hex()),
			zap.String("listen", cfg.ListenAddr))
	}

	if err := g.Wait(); err != nil && ctx.Err() == nil {
		logger.Fatal("stakeboard stopped", zap.Error(err))
	}
	session.Disconnect()
	logger.Info("stakeboard shut down")
}
