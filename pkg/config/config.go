package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	OTP           OTPConfig
	Loyalty       LoyaltyConfig
	Mail          MailConfig
	FeatureFlags  FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"FARMERSGATE_APP_ENV" required:"true"`
	Port         string `envconfig:"FARMERSGATE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"FARMERSGATE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"FARMERSGATE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"FARMERSGATE_DB_DSN"`
	Driver string `envconfig:"FARMERSGATE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"FARMERSGATE_DB_HOST"`
	LegacyPort     int    `envconfig:"FARMERSGATE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"FARMERSGATE_DB_USER"`
	LegacyPassword string `envconfig:"FARMERSGATE_DB_PASSWORD"`
	LegacyName     string `envconfig:"FARMERSGATE_DB_NAME"`
	LegacySSLMode  string `envconfig:"FARMERSGATE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"FARMERSGATE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"FARMERSGATE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"FARMERSGATE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"FARMERSGATE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"FARMERSGATE_REDIS_URL" required:"true"`
	Address      string        `envconfig:"FARMERSGATE_REDIS_ADDR"`
	Password     string        `envconfig:"FARMERSGATE_REDIS_PASSWORD"`
	DB           int           `envconfig:"FARMERSGATE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"FARMERSGATE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"FARMERSGATE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"FARMERSGATE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"FARMERSGATE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"FARMERSGATE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"FARMERSGATE_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"FARMERSGATE_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"FARMERSGATE_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"FARMERSGATE_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"FARMERSGATE_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"FARMERSGATE_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"FARMERSGATE_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"FARMERSGATE_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"FARMERSGATE_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"FARMERSGATE_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"FARMERSGATE_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"FARMERSGATE_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"FARMERSGATE_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"FARMERSGATE_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"FARMERSGATE_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type OTPConfig struct {
	TTL    time.Duration `envconfig:"FARMERSGATE_OTP_TTL" default:"10m"`
	Digits int           `envconfig:"FARMERSGATE_OTP_DIGITS" default:"6"`
}

type LoyaltyConfig struct {
	// EarnDivisor controls how many currency units of delivered order total
	// earn one loyalty point.
	EarnDivisor int `envconfig:"FARMERSGATE_LOYALTY_EARN_DIVISOR" default:"100"`
}

type MailConfig struct {
	FromAddress string `envconfig:"FARMERSGATE_MAIL_FROM" default:"no-reply@farmersgate.lk"`
	FromName    string `envconfig:"FARMERSGATE_MAIL_FROM_NAME" default:"Farmer's Gate"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"FARMERSGATE_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"FARMERSGATE_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
