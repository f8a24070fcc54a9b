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

	"github.com/beka-birhanu/gridbot/api"
	api_i "github.com/beka-birhanu/gridbot/api/i"
	"github.com/beka-birhanu/gridbot/api/identity"
	runapi "github.com/beka-birhanu/gridbot/api/run"
	"github.com/beka-birhanu/gridbot/config"
	identitydmn "github.com/beka-birhanu/gridbot/identity"
	logger "github.com/beka-birhanu/gridbot/infrastruture/log"
	"github.com/beka-birhanu/gridbot/infrastruture/sortedstorage"
	"github.com/beka-birhanu/gridbot/infrastruture/token"
	"github.com/beka-birhanu/gridbot/service"
	"github.com/beka-birhanu/gridbot/service/i"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

const (
	runIndexKeep    = 100
	runIndexTTL     = 24 * time.Hour
	shutdownTimeout = 10 * time.Second
)

// Global variables for dependencies
var (
	redisClient    *redis.Client
	runIndex       i.RunIndex
	runManager     *service.RunManager
	runController  api_i.Controller
	jwtTokenizer   i.Tokenizer
	authService    i.Authenticator
	authController api_i.Controller
	router         *api.Router
	appLogger      *logger.Logger
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve simulation runs over HTTP",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		serve(cmd.Context())
	},
}

func initRedis(ctx context.Context) {
	if config.Envs.RedisAddr == "" {
		appLogger.Info("REDIS_ADDR not set, frames will not be published")
		return
	}

	redisClient = redis.NewClient(&redis.Options{
		Addr:     config.Envs.RedisAddr,
		Password: config.Envs.RedisPassword,
		DB:       config.Envs.RedisDB,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		appLogger.Error(fmt.Sprintf("Redis ping failed: %v", err))
		os.Exit(exitFailure)
	}
	appLogger.Info("Connected to Redis")
}

func initRunIndex() {
	if redisClient == nil {
		return
	}
	var err error
	runIndex, err = sortedstorage.NewRedisRunIndex(redisClient, config.Envs.RedisPrefix, runIndexKeep, runIndexTTL)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating run index: %v", err))
		os.Exit(exitFailure)
	}
	appLogger.Info("Run index initialized")
}

func initRunManager() {
	runLogger, err := logger.New("RUN-MANAGER", config.ColorCyan, os.Stdout)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating run manager logger: %v", err))
		os.Exit(exitFailure)
	}

	c := &service.Config{
		Logger:     runLogger,
		Index:      runIndex,
		Prefix:     config.Envs.RedisPrefix,
		StepDelay:  config.Envs.StepDelay(),
		CellPixels: config.Envs.CellPixels,
		MaxSteps:   config.Envs.MaxSteps,
	}
	if redisClient != nil {
		c.Publisher = redisClient
	}

	runManager, err = service.NewRunManager(c)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating run manager: %v", err))
		os.Exit(exitFailure)
	}
	appLogger.Info("Run manager initialized")
}

func initRunController() {
	runController = runapi.NewRunController(runManager)
	appLogger.Info("Run controller initialized")
}

func initJWTTokenizer() {
	var err error
	jwtTokenizer, err = token.NewJwtService(config.Envs.JWTSecret, config.Envs.JWTIssuer)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating JWT tokenizer: %v", err))
		os.Exit(exitFailure)
	}
	appLogger.Info("JWT Tokenizer initialized")
}

func initAuthService() {
	operator, err := identitydmn.NewOperator(config.Envs.OperatorPasswordHash)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Loading operator: %v", err))
		os.Exit(exitFailure)
	}
	authService = service.NewOperatorAuth(operator, jwtTokenizer)
	appLogger.Info("Auth service initialized")
}

func initAuthController() {
	authController = identity.NewIdentityServer(authService)
	appLogger.Info("Auth controller initialized")
}

func initRouter(t i.Tokenizer) {
	router = api.NewRouter(api.Config{
		Addr:                    fmt.Sprintf("%s:%v", config.Envs.HostIP, config.Envs.RESTPort),
		BaseURL:                 "/api",
		Mode:                    config.Envs.GinMode,
		Controllers:             []api_i.Controller{authController, runController},
		AuthorizationMiddleware: identity.Authoriz(t),
	})
	appLogger.Info("Router initialized")
}

func serve(ctx context.Context) {
	var err error
	appLogger, err = logger.New("APP", config.ColorGreen, os.Stdout)
	if err != nil {
		fmt.Fprintln(os.Stderr, "gridbot:", err)
		os.Exit(exitFailure)
	}
	defer func() {
		_ = appLogger.Sync()
	}()

	if err := config.Envs.ValidateServer(); err != nil {
		appLogger.Error(err.Error())
		os.Exit(exitFailure)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	initRedis(ctx)
	if redisClient != nil {
		defer redisClient.Close()
	}

	initRunIndex()
	initRunManager()
	defer runManager.StopAll()

	initRunController()
	initJWTTokenizer()
	initAuthService()
	initAuthController()
	initRouter(jwtTokenizer)

	server := &http.Server{
		Addr:    router.Addr(),
		Handler: router.Handler(),
	}

	serverErr := make(chan error, 1)
	go func() {
		appLogger.Info(fmt.Sprintf("Listening on %s", server.Addr))
		serverErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error(fmt.Sprintf("Starting server: %v", err))
			runManager.StopAll()
			os.Exit(exitFailure)
		}
	case <-ctx.Done():
		appLogger.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			appLogger.Error(fmt.Sprintf("Shutting down server: %v", err))
		}
	}
}
