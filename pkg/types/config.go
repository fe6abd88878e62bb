package types

type Config struct {
	Environment     string `envconfig:"ENVIRONMENT" default:"development"`
	ServerPort      uint   `envconfig:"SERVER_PORT" default:"5000"`
	ReadTimeoutSec  uint   `envconfig:"READ_TIMEOUT_SEC" default:"10"`
	WriteTimeoutSec uint   `envconfig:"WRITE_TIMEOUT_SEC" default:"15"`
	LogLevel        string `envconfig:"LOG_LEVEL" default:"info"`

	// Storage
	DatabaseDriver string `envconfig:"DATABASE_DRIVER" default:"mongo"` // mongo, postgres or memory
	DatabaseURL    string `envconfig:"DATABASE_URL"`
	DatabaseName   string `envconfig:"DATABASE_NAME" default:"helpNow-platform"`

	// Session token
	AccessTokenSecret string `envconfig:"ACCESS_TOKEN_SECRET"`
	SessionMaxAgeSec  int    `envconfig:"SESSION_MAX_AGE_SEC" default:"2592000"` // 30 days

	// Cookie encryption keys (base64 encoded)
	// helpnow keygen
	// to generate values
	CookieHashKey  string `envconfig:"COOKIE_HASH_KEY"`  // 32 or 64 bytes
	CookieBlockKey string `envconfig:"COOKIE_BLOCK_KEY"` // 16, 24, or 32 bytes

	AllowedOrigins []string `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:5173,http://localhost:5174"`
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
