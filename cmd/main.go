package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/go-redis/redis/v8"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"gitlab.com/codebounty.net/internal/adapter/chain"
	"gitlab.com/codebounty.net/internal/adapter/crypto"
	"gitlab.com/codebounty.net/internal/adapter/fixture"
	"gitlab.com/codebounty.net/internal/adapter/logging"
	memoryvalidation "gitlab.com/codebounty.net/internal/adapter/memory/validationport"
	mongoenrollment "gitlab.com/codebounty.net/internal/adapter/mongo/enrollmentrepo"
	pgenrollment "gitlab.com/codebounty.net/internal/adapter/postgres/enrollmentrepo"
	redisvalidation "gitlab.com/codebounty.net/internal/adapter/redis/validationport"
	"gitlab.com/codebounty.net/internal/adapter/validator"
	"gitlab.com/codebounty.net/internal/config"
	"gitlab.com/codebounty.net/internal/core/ports/secondary"
	auth2 "gitlab.com/codebounty.net/internal/core/services/auth"
	"gitlab.com/codebounty.net/internal/core/services/certificate"
	"gitlab.com/codebounty.net/internal/core/services/challenge"
	"gitlab.com/codebounty.net/internal/core/services/countdown"
	"gitlab.com/codebounty.net/internal/core/services/enrollment"
	"gitlab.com/codebounty.net/internal/core/services/submission"
	"gitlab.com/codebounty.net/internal/core/services/validation"
	"gitlab.com/codebounty.net/internal/handlers"
	http2 "gitlab.com/codebounty.net/internal/http"
	"gitlab.com/codebounty.net/internal/metrics"
	"gitlab.com/codebounty.net/internal/schedulerengine"
)

type validationStore interface {
	secondary.ValidationStateStore
	secondary.ValidationTokenStore
}

type enrollmentStore interface {
	secondary.EnrollmentRepository
	secondary.CourseRepository
}

func main() {
	InitReader()
	// Set up graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	sysCfg := config.NewSystemConfig()
	logLevel := sysCfg.ServerConfig.LogLevel
	if sysCfg.DebugMode {
		logLevel = "debug"
	}
	logger := logging.NewZapLogger(logLevel)
	defer logger.Sync()
	logger.Info("Starting codebounty service", "challengeSource", sysCfg.ChallengeConfig.Source, "storeDriver", sysCfg.StoreConfig.Driver)

	decimal.MarshalJSONWithoutQuotes = true

	ctxBg, stop := context.WithCancel(context.Background())
	defer stop()

	// SECONDARY PORTS
	enrollments, closeStore, err := setupEnrollmentStore(ctxBg, sysCfg, logger)
	if err != nil {
		logger.Error("Failed to set up enrollment store", "driver", sysCfg.StoreConfig.Driver, "error", err)
		os.Exit(1)
	}
	defer closeStore()

	validations, closeValidations := setupValidationStore(ctxBg, sysCfg, logger)
	defer closeValidations()

	contract, err := setupContract(ctxBg, sysCfg.ChainConfig, logger)
	if err != nil {
		if sysCfg.ChallengeConfig.Source == config.ChallengeSourceChain {
			logger.Error("Chain access is required for the chain challenge source", "error", err)
			os.Exit(1)
		}
		logger.Warn("Running without chain access", "error", err)
	}

	var (
		source    secondary.ChallengeSource
		reader    secondary.RemainingTimeReader
		creator   secondary.ChallengeCreator
		submitter secondary.SolutionSubmitter
		certs     secondary.CertificateContract
	)
	if contract != nil {
		reader, creator, submitter, certs = contract, contract, contract, contract
	}
	switch sysCfg.ChallengeConfig.Source {
	case config.ChallengeSourceFixture:
		fixtures, err := fixture.NewSource(sysCfg.ChallengeConfig.FixtureFile)
		if err != nil {
			logger.Error("Failed to load challenge fixtures", "file", sysCfg.ChallengeConfig.FixtureFile, "error", err)
			os.Exit(1)
		}
		source = fixtures
	case config.ChallengeSourceChain:
		source = chain.NewSource(contract)
	default:
		logger.Error("Unknown challenge source", "source", sysCfg.ChallengeConfig.Source)
		os.Exit(1)
	}

	validatorClient := validator.NewClient(sysCfg.ValidatorConfig, logger)

	//primary ports
	jwtProvider := crypto.NewJWTService(sysCfg.JwtConfig)
	m := metrics.NewMetrics(sysCfg.ServerConfig.ServiceName)

	//services
	challengeSvc := challenge.NewChallengeService(source, creator, logger)
	countdownEngine := countdown.NewEngine(source.Mode(), sysCfg.CountdownConfig.Period, reader, logger)
	validationSvc := validation.NewValidationService(
		challengeSvc,
		validatorClient,
		validatorClient,
		validations,
		validations,
		sysCfg.ValidatorConfig.TokenTTL,
		m,
		logger,
	)
	submissionSvc := submission.NewSubmissionService(challengeSvc, validations, submitter, m, logger)
	enrollmentSvc := enrollment.NewEnrollmentService(enrollments, enrollments, logger)
	certificateSvc := certificate.NewCertificateService(certs, enrollmentSvc, sysCfg.ChainConfig.ExplorerUrl, m, logger)

	var ocidAuth auth2.IAuthService
	if sysCfg.OCIDAuthConfig.ClientID != "" {
		ocidAuth = auth2.NewOCIDAuthService(sysCfg.OCIDAuthConfig, jwtProvider, logger)
	}
	authRequired := sysCfg.JwtConfig.Secret != "" && ocidAuth != nil
	if contract != nil && sysCfg.ChainConfig.PrivateKey != "" && !authRequired {
		logger.Warn("UNGUARDED SIGNER: chain key loaded but JWT auth is off; any caller can create challenges and submit solutions paid by the service wallet",
			"hint", "set JWT_SECRET and OCID_CLIENT_ID")
	}
	serviceProvider := http2.NewServiceProvider(
		challengeSvc,
		countdownEngine,
		validationSvc,
		submissionSvc,
		enrollmentSvc,
		certificateSvc,
		ocidAuth,
	)

	//server
	// Chain writes send and then wait up to TxTimeout for mining; the margin covers gas estimation and sending.
	budget := handlers.WriteBudget{
		Chain:     sysCfg.ChainConfig.TxTimeout + 30*time.Second,
		Validator: validatorClient.MaxDuration() + 5*time.Second,
	}
	if sysCfg.ChainConfig.TxTimeout <= 0 {
		budget.Chain = 0
	}
	httpServer := http2.NewServer(sysCfg.ServerConfig.Port, sysCfg.ServerConfig.ServiceName, *serviceProvider, authRequired, budget, m, logger)
	if err := httpServer.Init(); err != nil {
		logger.Error("Failed to init http server", "error", err)
		os.Exit(1)
	}
	serveErr := httpServer.Start(ctxBg)

	var resolverStopped <-chan struct{}
	if sysCfg.ResolverConfig.Enabled {
		if contract == nil {
			logger.Warn("Resolver enabled but no contract configured; not starting")
		} else {
			resolver := schedulerengine.NewResolverEngine(sysCfg.ResolverConfig, contract, m, logger)
			resolverStopped = resolver.Start(ctxBg)
		}
	}

	select {
	case <-quit:
	case err := <-serveErr:
		if err != nil {
			logger.Error("Http server stopped", "error", err)
		}
	}
	logger.Info("Shutting down server...")
	stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Stop(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}
	if resolverStopped != nil {
		<-resolverStopped
	}

	logger.Info("successfully shutdown server")
}

// setupEnrollmentStore opens the configured database and prepares its indexes or tables.
func setupEnrollmentStore(ctx context.Context, cfg *config.AppConfig, logger *logging.ZapLogger) (enrollmentStore, func(), error) {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	switch cfg.StoreConfig.Driver {
	case config.StoreDriverMongo:
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoConfig.Uri))
		if err != nil {
			return nil, nil, err
		}
		if err := client.Ping(ctx, nil); err != nil {
			return nil, nil, err
		}
		repo := mongoenrollment.New(client.Database(cfg.MongoConfig.Database), logger)
		if err := repo.EnsureIndexes(ctx); err != nil {
			return nil, nil, err
		}
		return repo, func() { _ = client.Disconnect(context.Background()) }, nil

	case config.StoreDriverPostgres:
		db, err := setupDatabase(cfg.PostgresConfig.Url)
		if err != nil {
			return nil, nil, err
		}
		repo := pgenrollment.New(db, logger, cfg.PostgresConfig.Schema)
		if err := repo.EnsureTablesExist(ctx); err != nil {
			return nil, nil, err
		}
		return repo, func() { _ = db.Close() }, nil
	}
	return nil, nil, fmt.Errorf("unknown store driver %q", cfg.StoreConfig.Driver)
}

// setupDatabase sets up the PostgreSQL connection
func setupDatabase(connStr string) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		return nil, err
	}

	return db, nil
}

// setupValidationStore prefers Redis and falls back to process memory when Redis is disabled or unreachable.
func setupValidationStore(ctx context.Context, cfg *config.AppConfig, logger *logging.ZapLogger) (validationStore, func()) {
	if !cfg.RedisConfig.Enabled {
		logger.Info("Redis disabled; validation state kept in memory")
		return memoryvalidation.New(), func() {}
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisConfig.Url,
		Password: cfg.RedisConfig.Password,
		DB:       cfg.RedisConfig.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		logger.Warn("Redis unreachable; validation state kept in memory", "addr", cfg.RedisConfig.Url, "error", err)
		_ = redisClient.Close()
		return memoryvalidation.New(), func() {}
	}
	return redisvalidation.New(redisClient, cfg.ValidatorConfig.StateTTL, logger), func() { _ = redisClient.Close() }
}

// setupContract dials the RPC endpoint and checks it serves the configured chain.
func setupContract(ctx context.Context, cfg *config.ChainConfig, logger *logging.ZapLogger) (*chain.Contract, error) {
	if cfg.RpcUrl == "" || cfg.ContractAddress == "" {
		return nil, fmt.Errorf("chain rpc url or contract address not configured")
	}

	dialCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	client, err := ethclient.DialContext(dialCtx, cfg.RpcUrl)
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %w", cfg.RpcUrl, err)
	}

	contract, err := chain.NewContract(client, cfg, logger)
	if err != nil {
		client.Close()
		return nil, err
	}
	if err := contract.CheckChainID(dialCtx); err != nil {
		client.Close()
		return nil, err
	}
	return contract, nil
}

// InitReader loads <env>.env when an environment name is given; otherwise the process environment is used as is.
func InitReader() {
	if len(os.Args) < 2 {
		return
	}
	environment := os.Args[1]
	if err := godotenv.Load(environment + ".env"); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading %s.env file: %v\n", environment, err)
		os.Exit(1)
	}
}
