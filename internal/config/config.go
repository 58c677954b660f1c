package config

import (
	"os"
	"strings"
	"time"
	"unicode"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

const defaultConfigFile = "config.yaml"

// Config holds application level configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	MySQL     MySQLConfig     `koanf:"mysql"`
	Redis     RedisConfig     `koanf:"redis"`
	JWT       JWTConfig       `koanf:"jwt"`
	Auth      AuthConfig      `koanf:"auth"`
	RateLimit RateLimitConfig `koanf:"rateLimit"`
	Log       LogConfig       `koanf:"log"`
	Swagger   SwaggerConfig   `koanf:"swagger"`
	Seed      SeedConfig      `koanf:"seed"`
}

type ServerConfig struct {
	Port            string        `koanf:"port"`
	BodyLimit       string        `koanf:"bodyLimit"`
	ShutdownTimeout time.Duration `koanf:"shutdownTimeout"`
}

type MySQLConfig struct {
	DSN string `koanf:"dsn"`
}

type RedisConfig struct {
	Addr     string `koanf:"addr"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`
}

type JWTConfig struct {
	Secret string        `koanf:"secret"`
	TTL    time.Duration `koanf:"ttl"`
}

// AuthConfig controls password hashing and the failed-login lockout policy.
type AuthConfig struct {
	BcryptCost        int           `koanf:"bcryptCost"`
	MaxFailedAttempts int           `koanf:"maxFailedAttempts"`
	LockoutWindow     time.Duration `koanf:"lockoutWindow"`
}

// RateLimitConfig bounds requests per client IP on the public auth endpoints.
type RateLimitConfig struct {
	Requests int           `koanf:"requests"`
	Window   time.Duration `koanf:"window"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Pretty bool   `koanf:"pretty"`
	Debug  bool   `koanf:"debug"`
}

type SwaggerConfig struct {
	Host string `koanf:"host"`
}

// SeedConfig holds the bootstrap admin credentials used by the seed command.
type SeedConfig struct {
	AdminEmail    string `koanf:"adminEmail"`
	AdminPassword string `koanf:"adminPassword"`
	AdminName     string `koanf:"adminName"`
}

var defaults = map[string]any{
	"server.port":            "8080",
	"server.bodyLimit":       "1M",
	"server.shutdownTimeout": "10s",
	"mysql.dsn":              "user:password@tcp(localhost:3306)/pizzeria?charset=utf8mb4&parseTime=True&loc=UTC",
	"redis.addr":             "localhost:6379",
	"redis.password":         "",
	"redis.db":               0,
	"jwt.secret":             "change-me",
	"jwt.ttl":                "24h",
	"auth.bcryptCost":        12,
	"auth.maxFailedAttempts": 5,
	"auth.lockoutWindow":     "15m",
	"rateLimit.requests":     10,
	"rateLimit.window":       "1m",
	"log.level":              "info",
	"log.pretty":             false,
	"log.debug":              false,
	"swagger.host":           "",
	"seed.adminEmail":        "admin@pizzashop.com",
	"seed.adminPassword":     "Admin1234",
	"seed.adminName":         "Pizza Admin",
}

// Load builds Config from defaults, an optional YAML file and the environment, in that order.
// CONFIG_FILE overrides the YAML location.
func Load() (*Config, error) {
	path := os.Getenv("CONFIG_FILE")
	if path == "" {
		path = defaultConfigFile
	}
	return LoadFrom(path)
}

// LoadFrom is Load with an explicit YAML path. A missing file is not an error.
func LoadFrom(path string) (*Config, error) {
	k := koanf.New(".")

	for key, value := range defaults {
		if err := k.Set(key, value); err != nil {
			return nil, errors.Wrapf(err, "set default %s", key)
		}
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, errors.Wrapf(err, "read config file %s", path)
			}
		}
	}

	known := k.Raw()
	if err := k.Load(env.Provider(".", env.Opt{
		TransformFunc: func(key, value string) (string, any) {
			// SERVER_PORT -> server.port, AUTH_BCRYPT_COST -> auth.bcryptCost.
			// Variables that don't resolve to a known key are dropped.
			return canonicalizeEnvKey(key, known), value
		},
	}), nil); err != nil {
		return nil, errors.Wrap(err, "load env variables")
	}

	cfg := new(Config)
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           cfg,
			TagName:          "koanf",
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
			),
		},
	}); err != nil {
		return nil, errors.Wrap(err, "unmarshal config")
	}

	return cfg, nil
}

// canonicalizeEnvKey walks the known key tree, consuming as many underscore
// separated segments as needed to match each key, so that multi-word camelCase
// keys can be addressed from the environment.
func canonicalizeEnvKey(rawKey string, known map[string]any) string {
	segments := strings.Split(strings.ToLower(rawKey), "_")
	path := make([]string, 0, len(segments))
	current := known

	for i := 0; i < len(segments); {
		if len(current) == 0 {
			return ""
		}
		matched := false
		for j := len(segments); j > i; j-- {
			needle := strings.Join(segments[i:j], "")
			for key, value := range current {
				if normalizeToken(key) != needle {
					continue
				}
				path = append(path, key)
				current, _ = value.(map[string]any)
				i = j
				matched = true
				break
			}
			if matched {
				break
			}
		}
		if !matched {
			return ""
		}
	}

	// Only leaves are overridable.
	if current != nil {
		return ""
	}
	return strings.Join(path, ".")
}

func normalizeToken(s string) string {
	var normalized strings.Builder
	normalized.Grow(len(s))
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			continue
		}
		normalized.WriteRune(unicode.ToLower(r))
	}
	return normalized.String()
}
