package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/vaultkeeper/multivault/internal/config"
	"github.com/vaultkeeper/multivault/pkg/api"
	"github.com/vaultkeeper/multivault/pkg/app"
	"github.com/vaultkeeper/multivault/pkg/core"
	"github.com/vaultkeeper/multivault/pkg/pusher/sources"
	"github.com/vaultkeeper/multivault/pkg/transfer"
)

func main() {
	cfg := config.Load()
	log := app.Logger(cfg.App.LogLevel)

	dispatcher := sources.NewLedgerDispatcher(log)
	eventCh := dispatcher.Run(context.Background())

	var transferFn core.TransferFunc
	var handlerOpts []api.HandlerOption
	if cfg.App.SettlementURL != "" {
		// the remote settlement endpoint owns the balance, so none is reported
		transferFn = transfer.NewGateway(cfg.App.SettlementURL, log).Transfer
	} else {
		book := transfer.NewBook(cfg.App.PoolBalance)
		transferFn = book.Transfer
		handlerOpts = append(handlerOpts, api.WithBalance(book))
	}

	opts := []core.Option{
		core.WithLogger(log),
		core.WithEvents(eventCh),
		core.WithTransfer(transferFn),
	}
	if cfg.App.Creator != "" {
		creator, err := core.ParseAddress(cfg.App.Creator)
		if err != nil {
			log.Fatal("CREATOR parsing failed", zap.Error(err))
		}
		opts = append(opts, core.WithCreator(creator))
	}
	wallet, err := core.NewWallet(cfg.App.Approvers, opts...)
	if err != nil {
		log.Fatal("wallet init", zap.Error(err))
	}
	log.Info("wallet ready",
		zap.Int("approvers", len(wallet.Approvers())),
		zap.Int("required_confirmations", wallet.RequiredConfirmations()))

	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		if err := http.ListenAndServe(fmt.Sprintf(":%v", cfg.App.MetricsPort), mux); err != nil {
			log.Fatal("metrics server failed", zap.Error(err))
		}
	}()

	h := api.NewHandler(log, wallet, handlerOpts...)
	server, err := api.NewServer(log, h, fmt.Sprintf(":%v", cfg.API.Port),
		api.WithEventSource(dispatcher),
		api.WithProposalRateLimit(cfg.App.ProposalRateLimit))
	if err != nil {
		log.Fatal("server init", zap.Error(err))
	}
	server.Run()
}
