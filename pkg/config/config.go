package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (variables de entorno vía Viper; .env opcional).
type Config struct {
	App       AppConfig
	DB        DBConfig
	JWT       JWTConfig
	HTTP      HTTPConfig
	AI        AIConfig
	Storage   StorageConfig
	RateLimit RateLimitConfig
	Jobs      JobsConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
}

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío, se usa como connection string completo (ej. DATABASE_URL de Supabase).
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	MaxConns    int
	AutoMigrate bool
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string para PostgreSQL con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// JWTConfig configuración de JWT. El mismo secreto valida tokens del proveedor de identidad.
type JWTConfig struct {
	Secret     string
	Expiration int // minutos
	Issuer     string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host        string
	Port        int
	CORSOrigins string // lista separada por comas; "*" en desarrollo
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Proveedores de LLM soportados.
const (
	AIProviderAnthropic = "anthropic"
	AIProviderGemini    = "gemini"
)

// AIConfig configuración del asistente conversacional.
type AIConfig struct {
	Provider        string // anthropic | gemini
	AnthropicAPIKey string
	AnthropicModel  string
	GeminiAPIKey    string
	GeminiModel     string
	TimeoutSeconds  int
}

// Timeout devuelve el límite de cada llamada al modelo.
func (c AIConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// StorageConfig almacenamiento de documentos en un bucket compatible con S3
// (AWS, Supabase Storage, MinIO).
type StorageConfig struct {
	Bucket          string
	Region          string
	Endpoint        string // vacío = endpoint de AWS
	AccessKeyID     string
	SecretAccessKey string
	ForcePathStyle  bool
	MaxBytes        int64
}

// RateLimitConfig límite de peticiones por cliente.
type RateLimitConfig struct {
	Max           int
	WindowSeconds int
	Store         string // memory | postgres
}

// Window devuelve la ventana del limitador.
func (c RateLimitConfig) Window() time.Duration {
	return time.Duration(c.WindowSeconds) * time.Second
}

// JobsConfig tareas programadas.
type JobsConfig struct {
	ChatRetentionDays int
	RetentionCron     string // expresión cron estándar de 5 campos
}

// Load lee la configuración desde variables de entorno. Si existe un .env en el
// directorio actual se carga primero; las variables ya definidas tienen prioridad.
func Load() (*Config, error) {
	_ = godotenv.Load() // ignoramos error si no existe

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults(v)

	cfg := &Config{
		App: AppConfig{
			Env:      v.GetString("APP_ENV"),
			Name:     v.GetString("APP_NAME"),
			LogLevel: v.GetString("LOG_LEVEL"),
		},
		DB: DBConfig{
			DatabaseURL: v.GetString("DATABASE_URL"),
			Host:        v.GetString("DB_HOST"),
			Port:        v.GetInt("DB_PORT"),
			User:        v.GetString("DB_USER"),
			Password:    v.GetString("DB_PASSWORD"),
			DBName:      v.GetString("DB_NAME"),
			SSLMode:     v.GetString("DB_SSLMODE"),
			MaxConns:    v.GetInt("DB_MAX_CONNS"),
			AutoMigrate: v.GetBool("DB_AUTO_MIGRATE"),
		},
		JWT: JWTConfig{
			Secret:     v.GetString("JWT_SECRET"),
			Expiration: v.GetInt("JWT_EXPIRATION_MINUTES"),
			Issuer:     v.GetString("JWT_ISSUER"),
		},
		HTTP: HTTPConfig{
			Host:        v.GetString("HTTP_HOST"),
			Port:        v.GetInt("HTTP_PORT"),
			CORSOrigins: v.GetString("CORS_ORIGINS"),
		},
		AI: AIConfig{
			Provider:        strings.ToLower(v.GetString("AI_PROVIDER")),
			AnthropicAPIKey: v.GetString("ANTHROPIC_API_KEY"),
			AnthropicModel:  v.GetString("ANTHROPIC_MODEL"),
			GeminiAPIKey:    v.GetString("GEMINI_API_KEY"),
			GeminiModel:     v.GetString("GEMINI_MODEL"),
			TimeoutSeconds:  v.GetInt("AI_TIMEOUT_SECONDS"),
		},
		Storage: StorageConfig{
			Bucket:          v.GetString("S3_BUCKET"),
			Region:          v.GetString("S3_REGION"),
			Endpoint:        v.GetString("S3_ENDPOINT"),
			AccessKeyID:     v.GetString("S3_ACCESS_KEY_ID"),
			SecretAccessKey: v.GetString("S3_SECRET_ACCESS_KEY"),
			ForcePathStyle:  v.GetBool("S3_FORCE_PATH_STYLE"),
			MaxBytes:        v.GetInt64("DOCUMENT_MAX_BYTES"),
		},
		RateLimit: RateLimitConfig{
			Max:           v.GetInt("RATE_LIMIT_MAX"),
			WindowSeconds: v.GetInt("RATE_LIMIT_WINDOW_SECONDS"),
			Store:         strings.ToLower(v.GetString("RATE_LIMIT_STORE")),
		},
		Jobs: JobsConfig{
			ChatRetentionDays: v.GetInt("CHAT_RETENTION_DAYS"),
			RetentionCron:     v.GetString("RETENTION_CRON"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_NAME", "provisiona-api")
	v.SetDefault("LOG_LEVEL", "info")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_NAME", "provisiona")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("DB_AUTO_MIGRATE", false)

	v.SetDefault("JWT_EXPIRATION_MINUTES", 60)
	v.SetDefault("JWT_ISSUER", "provisiona-api")

	v.SetDefault("HTTP_HOST", "0.0.0.0")
	v.SetDefault("HTTP_PORT", 8080)
	v.SetDefault("CORS_ORIGINS", "*")

	v.SetDefault("AI_PROVIDER", AIProviderAnthropic)
	v.SetDefault("ANTHROPIC_MODEL", "claude-3-5-haiku-20241022")
	v.SetDefault("GEMINI_MODEL", "gemini-2.0-flash")
	v.SetDefault("AI_TIMEOUT_SECONDS", 30)

	v.SetDefault("S3_REGION", "us-east-1")
	v.SetDefault("S3_FORCE_PATH_STYLE", true)
	v.SetDefault("DOCUMENT_MAX_BYTES", 10<<20)

	v.SetDefault("RATE_LIMIT_MAX", 20)
	v.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 60)
	v.SetDefault("RATE_LIMIT_STORE", "memory")

	v.SetDefault("CHAT_RETENTION_DAYS", 180)
	v.SetDefault("RETENTION_CRON", "30 3 * * *")
}

func (c *Config) validate() error {
	if c.App.Env == "production" && c.JWT.Secret == "" {
		return fmt.Errorf("config: JWT_SECRET es obligatorio en production")
	}
	switch c.AI.Provider {
	case AIProviderAnthropic, AIProviderGemini:
	default:
		return fmt.Errorf("config: AI_PROVIDER %q no soportado", c.AI.Provider)
	}
	switch c.RateLimit.Store {
	case "memory", "postgres":
	default:
		return fmt.Errorf("config: RATE_LIMIT_STORE %q no soportado", c.RateLimit.Store)
	}
	if c.RateLimit.Max <= 0 || c.RateLimit.WindowSeconds <= 0 {
		return fmt.Errorf("config: RATE_LIMIT_MAX y RATE_LIMIT_WINDOW_SECONDS deben ser positivos")
	}
	if c.AI.TimeoutSeconds <= 0 {
		return fmt.Errorf("config: AI_TIMEOUT_SECONDS debe ser positivo")
	}
	return nil
}
