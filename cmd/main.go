package main

import (
	"context"
	"errors"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"gopeople/config"
	"gopeople/internal/api/person"
	"gopeople/internal/api/router"
	"gopeople/internal/api/user"
	"gopeople/internal/domain"
	"gopeople/internal/pkg/cache"
	"gopeople/internal/pkg/database"
	"gopeople/internal/pkg/logger"
	"gopeople/internal/pkg/storage"
	"gopeople/internal/pkg/token"
	"gopeople/internal/repository/memoryrepo"
	"gopeople/internal/repository/personrepo"
	"gopeople/internal/repository/userrepo"
	"gopeople/internal/service/personservice"
	"gopeople/internal/service/userservice"
	"gopeople/internal/validator"
)

// @title gopeople API
// @version 1.0
// @description Cadastro de pessoas físicas com validação de campos e relatório de renda.
// @BasePath /v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	stdlog.Println("⚡ Inicializando serviço gopeople...")
	if err := godotenv.Load(); err != nil {
		stdlog.Println("⚠️ Aviso: Arquivo .env não encontrado ou erro de leitura. Carregando configs apenas do ambiente do sistema.")
	}

	cfg := config.LoadConfig()
	log := logger.NewLogger(cfg.LogLevel)
	log.Info("Configurações carregadas.", map[string]interface{}{"env": cfg.Environment, "storage": cfg.Storage, "pictures": cfg.PictureStore})

	ctx := context.Background()

	// Cache (Redis). Sem Redis, cai para o cache em memória do processo.
	var cacheClient cache.Client
	redisClient, err := cache.NewRedisClient(ctx, cfg.RedisAddr, cfg.CacheTimeout)
	if err != nil {
		log.Warn("Redis indisponível, usando cache em memória.", map[string]interface{}{"addr": cfg.RedisAddr, "error": err.Error()})
		cacheClient = cache.NewMemoryClient()
	} else {
		defer redisClient.Close()
		cacheClient = redisClient
		log.Info("Conexão Redis estabelecida.", nil)
	}

	// Repositórios
	var (
		personRepo domain.NaturalPersonRepository
		userRepo   domain.UserRepository
	)
	switch cfg.Storage {
	case config.StoragePostgres:
		db, err := database.NewPostgresDB(ctx, cfg.DatabaseURL, database.DefaultPool, cfg.DBTimeout)
		if err != nil {
			log.Fatal("Falha ao conectar ao banco de dados.", err)
		}
		defer db.Close()
		log.Info("Conexão PostgreSQL estabelecida.", nil)

		personRepo = personrepo.NewPersonRepository(db, cacheClient, cfg.DBTimeout, cfg.PersonCacheTTL, log)
		userRepo = userrepo.NewUserRepository(db, cfg.DBTimeout, log)
	default:
		log.Warn("Usando armazenamento em memória; os dados serão perdidos ao encerrar.", nil)
		personRepo = memoryrepo.NewPersonRepo()
		userRepo = memoryrepo.NewUserRepo()
	}

	// Fotos
	var (
		pictures storage.PictureStore
		media    http.Handler
	)
	switch cfg.PictureStore {
	case config.PictureStoreS3:
		pictures, err = storage.NewS3Store(ctx, cfg.S3Bucket, cfg.S3Region)
	default:
		var local *storage.LocalStore
		if local, err = storage.NewLocalStore(cfg.PictureDir); err == nil {
			pictures, media = local, local.Handler()
		}
	}
	if err != nil {
		log.Fatal("Falha ao inicializar armazenamento de fotos.", err)
	}

	// Serviços
	tokenSvc := token.NewService(cfg.JWTSecretKey, cfg.TokenExpiry)
	personSvc := personservice.NewService(personRepo, pictures, validator.SystemClock{}, log)
	userSvc := userservice.NewService(userRepo, tokenSvc, cacheClient, log)

	if err := userSvc.EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminPassword); err != nil {
		log.Fatal("Falha ao criar usuário administrador.", err)
	}

	r := router.NewRouter(router.Options{
		PersonHandler: person.NewHandler(personSvc, log),
		UserHandler:   user.NewHandler(userSvc, log),
		TokenSvc:      tokenSvc,
		Cache:         cacheClient,
		Logger:        log,
		Media:         media,
		RateLimit:     cfg.RateLimitMaxRequests,
		RateWindow:    cfg.RateLimitPeriod,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("Servidor gopeople ouvindo na porta", map[string]interface{}{"port": cfg.Port})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Servidor falhou.", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	log.Info("Sinal de encerramento recebido. Desligando servidor...", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Desligamento do servidor forçado.", err)
	}

	log.Info("Servidor encerrado com sucesso.", nil)
}
