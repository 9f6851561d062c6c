package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Modos de armazenamento suportados.
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"

	PictureStoreLocal = "local"
	PictureStoreS3    = "s3"
)

// Config armazena todas as configurações do gopeople.
type Config struct {
	// Geral
	Port        string
	Environment string
	LogLevel    string

	// Persistência
	Storage     string // "postgres" ou "memory"
	DatabaseURL string
	DBTimeout   time.Duration

	// Cache (Redis). Vazio = cache em memória.
	RedisAddr      string
	CacheTimeout   time.Duration
	PersonCacheTTL time.Duration

	// Segurança (JWT)
	JWTSecretKey string
	TokenExpiry  time.Duration

	// Rate Limiting
	RateLimitMaxRequests int
	RateLimitPeriod      time.Duration

	// Armazenamento das fotos
	PictureStore string // "local" ou "s3"
	PictureDir   string
	S3Bucket     string
	S3Region     string

	// Usuário administrador criado na subida, se informado
	AdminUsername string
	AdminPassword string
}

// LoadConfig carrega as configurações a partir das variáveis de ambiente.
// O .env (godotenv) é carregado antes, em cmd/.
func LoadConfig() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("❌ Erro de Configuração: %v", err)
	}
	return cfg
}

// Load é a variante que devolve o erro em vez de encerrar o processo.
func Load() (*Config, error) {
	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		Storage:     strings.ToLower(getEnv("STORAGE", StoragePostgres)),
		DatabaseURL: getEnv("DATABASE_URL", ""),
		DBTimeout:   getDurationEnv("DB_TIMEOUT_SEC", 5) * time.Second,

		RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),
		CacheTimeout:   getDurationEnv("CACHE_TIMEOUT_SEC", 10) * time.Second,
		PersonCacheTTL: getDurationEnv("PERSON_CACHE_TTL_MIN", 5) * time.Minute,

		JWTSecretKey: getEnv("JWT_SECRET_KEY", ""),
		TokenExpiry:  getDurationEnv("JWT_EXPIRY_MIN", 60) * time.Minute,

		RateLimitMaxRequests: getIntEnv("RATE_LIMIT_MAX_REQUESTS", 100),
		RateLimitPeriod:      getDurationEnv("RATE_LIMIT_PERIOD_MIN", 1) * time.Minute,

		PictureStore: strings.ToLower(getEnv("PICTURE_STORE", PictureStoreLocal)),
		PictureDir:   getEnv("PICTURE_DIR", "./media"),
		S3Bucket:     getEnv("S3_BUCKET_NAME", ""),
		S3Region:     getEnv("S3_REGION", "us-east-1"),

		AdminUsername: getEnv("ADMIN_USERNAME", ""),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadMigrationConfig lê só o necessário para rodar as migrações (DATABASE_URL e DB_TIMEOUT_SEC).
func LoadMigrationConfig() (*Config, error) {
	cfg := &Config{
		Storage:     StoragePostgres,
		DatabaseURL: getEnv("DATABASE_URL", ""),
		DBTimeout:   getDurationEnv("DB_TIMEOUT_SEC", 5) * time.Second,
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("a variável de ambiente DATABASE_URL deve ser definida")
	}
	return cfg, nil
}

// Validate garante que as combinações obrigatórias estão presentes.
func (c *Config) Validate() error {
	if c.JWTSecretKey == "" {
		return fmt.Errorf("a variável de ambiente JWT_SECRET_KEY deve ser definida")
	}
	switch c.Storage {
	case StoragePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("a variável de ambiente DATABASE_URL deve ser definida quando STORAGE=%s", StoragePostgres)
		}
	case StorageMemory:
	default:
		return fmt.Errorf("STORAGE inválido: %q", c.Storage)
	}
	switch c.PictureStore {
	case PictureStoreLocal:
	case PictureStoreS3:
		if c.S3Bucket == "" {
			return fmt.Errorf("a variável de ambiente S3_BUCKET_NAME deve ser definida quando PICTURE_STORE=%s", PictureStoreS3)
		}
	default:
		return fmt.Errorf("PICTURE_STORE inválido: %q", c.PictureStore)
	}
	return nil
}

// Funções Helpers (Auxiliares)

// getEnv lê a variável de ambiente ou retorna um valor padrão.
func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getDurationEnv lê uma variável de ambiente numérica e retorna-a como time.Duration (sem unidade).
func getDurationEnv(key string, defaultValue int) time.Duration {
	return time.Duration(getIntEnv(key, defaultValue))
}

// getIntEnv lê uma variável de ambiente numérica e retorna-a como int.
func getIntEnv(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("⚠️ Aviso: Valor de %s ('%s') não é um número inteiro válido. Usando padrão (%d).", key, valueStr, defaultValue)
		return defaultValue
	}
	return value
}
