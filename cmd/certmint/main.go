package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/redis/go-redis/v9"

	"github.com/certmint/certmint/adapters/chain"
	"github.com/certmint/certmint/adapters/events"
	"github.com/certmint/certmint/adapters/ipfs"
	"github.com/certmint/certmint/adapters/store"
	"github.com/certmint/certmint/adapters/tokenizer"
	"github.com/certmint/certmint/adapters/tokenstore"
	"github.com/certmint/certmint/internal/config"
	"github.com/certmint/certmint/ports"
	"github.com/certmint/certmint/service"
	transport "github.com/certmint/certmint/transport/http"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Database
	db, err := store.OpenPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	// Redis
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Fatalf("Failed to parse Redis URL: %v", err)
	}
	redisClient := redis.NewClient(opts)
	defer redisClient.Close()

	// Watermill Redis publisher
	logger := watermill.NewStdLogger(false, false)
	publisher, err := redisstream.NewPublisher(
		redisstream.PublisherConfig{
			Client: redisClient,
		},
		logger,
	)
	if err != nil {
		log.Fatalf("Failed to create Redis publisher: %v", err)
	}

	// Chain client
	contractClient := buildChainClient(cfg)

	// Adapters
	tkn := tokenizer.NewJWTTokenizer([]byte(cfg.JWTSecret))
	tokens := tokenstore.NewRedisStore(redisClient)
	eventPub := events.NewWatermillPublisher(publisher)
	pinner := ipfs.NewPinningClient(cfg.PinningEndpoint, cfg.PinningAPIKey)

	// Services
	authService := service.NewAuthService(db, tkn, tokens, eventPub, cfg.AccessTTL, cfg.RefreshTTL)
	companyService := service.NewCompanyService(db, contractClient)
	certificateService := service.NewCertificateService(db, db, pinner, contractClient, eventPub)

	router := transport.SetupRouter(authService, companyService, certificateService)

	server := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: router,
	}

	go func() {
		log.Printf("Listening on %s", cfg.ListenAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Println("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Forced shutdown: %v", err)
	}
}

func buildChainClient(cfg *config.Config) ports.ContractClient {
	if cfg.RPCURL == "" {
		log.Println("RPC_URL not set, contract deployment and minting disabled")
		return chain.Disabled{}
	}

	abiJSON, err := os.ReadFile(cfg.ContractABIPath)
	if err != nil {
		log.Fatalf("Failed to read contract ABI: %v", err)
	}
	bytecode, err := os.ReadFile(cfg.ContractBinPath)
	if err != nil {
		log.Fatalf("Failed to read contract bytecode: %v", err)
	}

	client, err := chain.NewEthereumClient(cfg.RPCURL, cfg.DeployerKey, cfg.ChainID, string(abiJSON), string(bytecode))
	if err != nil {
		log.Fatalf("Failed to create chain client: %v", err)
	}
	return client
}
