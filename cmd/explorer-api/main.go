// Package main runs the public explorer API for one UTXO chain.
package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/btcsuite/btcd/rpcclient"
	"github.com/goodnatureofminers/blockinsight7000-explorer/internal/metrics"
	"github.com/goodnatureofminers/blockinsight7000-explorer/internal/transport"
	"github.com/goodnatureofminers/blockinsight7000-explorer/internal/utxo/bitcoin"
	"github.com/goodnatureofminers/blockinsight7000-explorer/internal/utxo/keys"
	"github.com/goodnatureofminers/blockinsight7000-explorer/internal/utxo/model"
	"github.com/goodnatureofminers/blockinsight7000-explorer/internal/utxo/notifier"
	"github.com/goodnatureofminers/blockinsight7000-explorer/internal/utxo/repository/clickhouse"
	"github.com/goodnatureofminers/blockinsight7000-explorer/internal/utxo/service"
	"github.com/goodnatureofminers/blockinsight7000-explorer/internal/utxo/tip"
	"github.com/goodnatureofminers/blockinsight7000-explorer/internal/utxo/view"
	"github.com/goodnatureofminers/blockinsight7000-proto/pkg/blockinsight7000/v1"
	grpcMiddleware "github.com/grpc-ecosystem/go-grpc-middleware"
	grpcZap "github.com/grpc-ecosystem/go-grpc-middleware/logging/zap"
	grpcRecovery "github.com/grpc-ecosystem/go-grpc-middleware/recovery"
	grpcCtxTags "github.com/grpc-ecosystem/go-grpc-middleware/tags"
	grpcPrometheus "github.com/grpc-ecosystem/go-grpc-prometheus"
	gwruntime "github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"github.com/jessevdk/go-flags"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

var config struct {
	Addr     string `long:"addr" env:"EXPLORER_API_ADDR" description:"gRPC listen address" default:":8000"`
	RestAddr string `long:"rest-addr" env:"EXPLORER_API_REST_ADDR" description:"REST listen address" default:":8001"`

	Coin    string `long:"coin" env:"EXPLORER_API_COIN" description:"coin served by this instance" default:"BTC"`
	Network string `long:"network" env:"EXPLORER_API_NETWORK" description:"chain network" default:"mainnet"`

	NodeHost      string `long:"node-host" env:"EXPLORER_API_NODE_HOST" description:"node RPC host:port" default:"localhost:8332"`
	NodeUser      string `long:"node-user" env:"EXPLORER_API_NODE_USER" description:"node RPC user"`
	NodePass      string `long:"node-pass" env:"EXPLORER_API_NODE_PASS" description:"node RPC password"`
	NodeTLS       bool   `long:"node-tls" env:"EXPLORER_API_NODE_TLS" description:"use TLS for node RPC"`
	NodeRPS       int    `long:"node-rps" env:"EXPLORER_API_NODE_RPS" description:"node RPC requests per second, 0 disables the limit" default:"0"`
	ClickhouseDSN string `long:"clickhouse-dsn" env:"EXPLORER_API_CLICKHOUSE_DSN" description:"address index dsn" default:"clickhouse://localhost:9000/default"`
	ZMQAddr       string `long:"zmq-addr" env:"EXPLORER_API_ZMQ_ADDR" description:"node zmq hashblock endpoint"`
	KeysFile      string `long:"keys-file" env:"EXPLORER_API_KEYS_FILE" description:"YAML directory of known providers, validators and pools"`

	PollInterval       time.Duration `long:"poll-interval" env:"EXPLORER_API_POLL_INTERVAL" description:"best block poll interval" default:"5s"`
	LatestBlockTimeout time.Duration `long:"latest-block-timeout" env:"EXPLORER_API_LATEST_BLOCK_TIMEOUT" description:"long poll timeout of /api/block/latest" default:"300s"`
	MaxWaiters         int           `long:"max-waiters" env:"EXPLORER_API_MAX_WAITERS" description:"maximum concurrent long poll waiters" default:"1000"`
	BlockCacheSize     int           `long:"block-cache-size" env:"EXPLORER_API_BLOCK_CACHE_SIZE" description:"settled block cache capacity" default:"1000"`
	SummaryCacheSize   int           `long:"summary-cache-size" env:"EXPLORER_API_SUMMARY_CACHE_SIZE" description:"settled block summary cache capacity" default:"1000000"`
	PageWorkers        int           `long:"page-workers" env:"EXPLORER_API_PAGE_WORKERS" description:"concurrent fetches per page" default:"16"`
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic("can't initialize zap logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync()
	}()
	grpcZap.ReplaceGrpcLoggerV2(logger)
	if _, err := flags.ParseArgs(&config, os.Args); err != nil {
		logger.Fatal("Failed to parse arguments", zap.Error(err))
	}

	coin := model.Coin(config.Coin)
	network := model.Network(config.Network)
	logger = logger.With(zap.String("coin", config.Coin), zap.String("network", config.Network))

	client, err := rpcclient.New(&rpcclient.ConnConfig{
		Host:         config.NodeHost,
		User:         config.NodeUser,
		Pass:         config.NodePass,
		HTTPPostMode: true,
		DisableTLS:   !config.NodeTLS,
	}, nil)
	if err != nil {
		logger.Fatal("Create node rpc client", zap.Error(err))
	}
	defer client.Shutdown()

	index, err := clickhouse.NewRepository(config.ClickhouseDSN, metrics.NewClickhouseRepository())
	if err != nil {
		logger.Fatal("Open address index", zap.Error(err))
	}
	defer func() {
		if err := index.Close(); err != nil {
			logger.Warn("Close address index", zap.Error(err))
		}
	}()

	rpc := bitcoin.NewRPCClient(client, metrics.NewRPCClient(coin, network), config.NodeRPS)
	node, err := bitcoin.NewNode(rpc, index, coin, network)
	if err != nil {
		logger.Fatal("Create node adapter", zap.Error(err))
	}
	addresses, err := bitcoin.NewAddressDecoder(network)
	if err != nil {
		logger.Fatal("Create address decoder", zap.Error(err))
	}
	directory, err := keys.Load(config.KeysFile)
	if err != nil {
		logger.Fatal("Load key directory", zap.Error(err))
	}

	bestHeight := tip.NewTracker(node)
	blocks := notifier.New(config.MaxWaiters, nil, metrics.NewNotifier())

	explorer, err := service.NewExplorer(
		node,
		addresses,
		bestHeight,
		blocks,
		view.NewTransformer(directory, nil),
		metrics.NewCache(),
		service.Config{
			BlockCacheSize:     config.BlockCacheSize,
			SummaryCacheSize:   config.SummaryCacheSize,
			PageWorkers:        config.PageWorkers,
			LatestBlockTimeout: config.LatestBlockTimeout,
		},
		logger.Named("explorer"),
	)
	if err != nil {
		logger.Fatal("Create explorer", zap.Error(err))
	}

	blockSignal, err := startBlockSignal(ctx, config.ZMQAddr, logger.Named("zmq"))
	if err != nil {
		logger.Fatal("Subscribe to block notifications", zap.Error(err))
	}
	watcher, err := service.NewBlockWatcher(
		node,
		bestHeight,
		blocks,
		metrics.NewBlockWatcher(coin, network),
		coin,
		network,
		logger.Named("block_watcher"),
		blockSignal,
		config.PollInterval,
	)
	if err != nil {
		logger.Fatal("Create block watcher", zap.Error(err))
	}
	go func() {
		if err := watcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("Block watcher stopped", zap.Error(err))
		}
	}()

	chain := []grpc.UnaryServerInterceptor{
		grpcRecovery.UnaryServerInterceptor(),
		grpcCtxTags.UnaryServerInterceptor(),
		grpcPrometheus.UnaryServerInterceptor,
		grpcZap.UnaryServerInterceptor(logger),
	}
	grpcServer := grpc.NewServer(
		grpc.UnaryInterceptor(grpcMiddleware.ChainUnaryServer(chain...)),
	)
	grpcPrometheus.EnableHandlingTimeHistogram()
	grpcPrometheus.Register(grpcServer)

	blockinsight7000v1.RegisterExplorerServiceServer(grpcServer, transport.NewExplorerHandler(bestHeight))

	socket, err := net.Listen("tcp", config.Addr)
	if err != nil {
		logger.Fatal("net.Listen error", zap.Error(err))
	}
	go func() {
		if serveErr := grpcServer.Serve(socket); serveErr != nil {
			logger.Fatal("Start GRPC server", zap.Error(serveErr))
		}
	}()
	go func() {
		<-ctx.Done()
		logger.Info("Shutting down gRPC server")
		grpcServer.GracefulStop()
	}()

	mux := http.NewServeMux()

	gw := gwruntime.NewServeMux()
	opts := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	}
	if err := blockinsight7000v1.RegisterExplorerServiceHandlerFromEndpoint(ctx, gw, config.Addr, opts); err != nil {
		logger.Fatal("Register explorer handler", zap.Error(err))
	}

	if err := transport.NewRESTHandler(explorer, metrics.NewHTTP(), logger).Register(gw); err != nil {
		logger.Fatal("Register REST routes", zap.Error(err))
	}
	mux.Handle("/", gw)
	mux.Handle("/metrics", promhttp.Handler())

	// Long polls on /api/block/latest must fit in the write timeout.
	s := &http.Server{
		Addr:              config.RestAddr,
		Handler:           cors.Default().Handler(mux),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      config.LatestBlockTimeout + 15*time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    http.DefaultMaxHeaderBytes,
	}
	go func() {
		<-ctx.Done()
		logger.Info("Shutting down the http server")
		if err := s.Shutdown(context.Background()); err != nil {
			logger.Error("Failed to shutdown http server", zap.Error(err))
		}
	}()

	logger.Info("Starting HTTP server", zap.String("addr", config.RestAddr))
	if err := s.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Failed to listen and serve", zap.Error(err))
	}
}
