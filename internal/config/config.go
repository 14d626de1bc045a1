package config

import (
	"log"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Tables struct {
	Schema string
	Orders string
}

type Postgres struct {
	Host     string
	Port     string
	DB       string
	User     string
	Password string
	SSLMode  string
}

// Cache selects and sizes the cache backend.
type Cache struct {
	Backend  string // memory | redis | firestore
	TTL      time.Duration
	Capacity int           // memory backend only
	Timeout  time.Duration // per cache call; expiry falls through to the store
}

type Redis struct {
	Addr     string
	Password string
	DB       int
}

type Firestore struct {
	ProjectID  string
	Collection string
}

// Kafka configures the invalidation fan-out; empty brokers disable it.
type Kafka struct {
	Brokers []string
	Topic   string
	Group   string
}

type Breaker struct {
	Threshold   int
	OpenTimeout time.Duration
	MaxHalfOpen int
}

type Retry struct {
	Attempts     int
	Base         time.Duration
	Max          time.Duration
	JitterFactor float64
}

type Config struct {
	HTTPAddr  string
	JWTSecret string

	Pg        Postgres
	Tables    Tables
	Cache     Cache
	Redis     Redis
	Firestore Firestore
	Kafka     Kafka
	Breaker   Breaker
	Retry     Retry
}

// Load keeps the fatal-on-error API for main().
func Load() Config {
	cfg, err := load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}
	return cfg
}

func load() (Config, error) {
	_ = godotenv.Load("env/.env")

	cfg := Config{
		HTTPAddr:  envDefault("HTTP_ADDR", ":8081"),
		JWTSecret: strings.TrimSpace(os.Getenv("JWT_SECRET")),

		Pg: Postgres{
			Host:     strings.TrimSpace(os.Getenv("PG_HOST")),
			Port:     strings.TrimSpace(envDefault("PG_PORT", "5432")),
			DB:       strings.TrimSpace(os.Getenv("PG_DB")),
			User:     strings.TrimSpace(os.Getenv("PG_USER")),
			Password: strings.TrimSpace(os.Getenv("PG_PASSWORD")),
			SSLMode:  strings.TrimSpace(envDefault("PG_SSLMODE", "disable")),
		},

		Tables: Tables{
			Schema: strings.TrimSpace(envDefault("DB_SCHEMA", "public")),
			Orders: strings.TrimSpace(envDefault("TBL_ORDERS", "orders")),
		},

		Cache: Cache{
			Backend:  strings.ToLower(envDefault("CACHE_BACKEND", "memory")),
			TTL:      envDurationMS("CACHE_TTL", time.Hour),
			Capacity: envInt("CACHE_CAP", 1000),
			Timeout:  envDurationMS("CACHE_TIMEOUT", 200*time.Millisecond),
		},

		Redis: Redis{
			Addr:     strings.TrimSpace(os.Getenv("REDIS_ADDR")),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       envInt("REDIS_DB", 0),
		},

		Firestore: Firestore{
			ProjectID:  strings.TrimSpace(os.Getenv("FIRESTORE_PROJECT")),
			Collection: strings.TrimSpace(envDefault("FIRESTORE_COLLECTION", "order-cache")),
		},

		Kafka: Kafka{
			Brokers: splitCSV(strings.TrimSpace(os.Getenv("KAFKA_BROKERS"))),
			Topic:   strings.TrimSpace(envDefault("KAFKA_TOPIC", "cache-invalidation")),
			Group:   strings.TrimSpace(os.Getenv("KAFKA_GROUP")),
		},

		Breaker: Breaker{
			Threshold:   envInt("BREAKER_THRESHOLD", 5),
			OpenTimeout: envDurationMS("BREAKER_OPENTIMEOUT", 10*time.Second),
			MaxHalfOpen: envInt("BREAKER_MAXHALFOPEN", 3),
		},

		Retry: Retry{
			Attempts:     envInt("RETRY_ATTEMPTS", 2),
			Base:         envDurationMS("RETRY_BASE", 10*time.Millisecond),
			Max:          envDurationMS("RETRY_MAX", 100*time.Millisecond),
			JitterFactor: envFloat64("RETRY_JITTERFACTOR", 0.3),
		},
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	var missing []string
	req := map[string]string{
		"PG_HOST":     c.Pg.Host,
		"PG_DB":       c.Pg.DB,
		"PG_USER":     c.Pg.User,
		"PG_PASSWORD": c.Pg.Password,
		"JWT_SECRET":  c.JWTSecret,
	}
	switch c.Cache.Backend {
	case "memory":
	case "redis":
		req["REDIS_ADDR"] = c.Redis.Addr
	case "firestore":
		req["FIRESTORE_PROJECT"] = c.Firestore.ProjectID
	default:
		return &badEnvError{Key: "CACHE_BACKEND", Value: c.Cache.Backend}
	}
	if len(c.Kafka.Brokers) > 0 && c.Kafka.Group == "" {
		missing = append(missing, "KAFKA_GROUP")
	}
	for k, v := range req {
		if strings.TrimSpace(v) == "" {
			missing = append(missing, k)
		}
	}
	if len(missing) > 0 {
		return &missingEnvError{Keys: missing}
	}

	if c.Cache.Capacity <= 0 {
		log.Printf("CACHE_CAP is %d, adjusting to 1", c.Cache.Capacity)
	}
	if c.Retry.Attempts < 1 {
		log.Printf("RETRY_ATTEMPTS is %d, adjusting to 1", c.Retry.Attempts)
	}
	return nil
}

type missingEnvError struct{ Keys []string }

func (e *missingEnvError) Error() string {
	return "missing required envs: " + strings.Join(e.Keys, ", ")
}

type badEnvError struct{ Key, Value string }

func (e *badEnvError) Error() string {
	return "invalid " + e.Key + ": " + e.Value
}

// DSN builds the Postgres URL, escaping user/pass and query.
func (c Config) DSN() string {
	u := &url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.Pg.User, c.Pg.Password),
		Host:   net.JoinHostPort(c.Pg.Host, c.Pg.Port),
		Path:   "/" + c.Pg.DB,
	}
	q := url.Values{}
	if c.Pg.SSLMode != "" {
		q.Set("sslmode", c.Pg.SSLMode)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

func envDefault(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

func envInt(k string, def int) int {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("invalid %s=%q, using default %d: %v", k, v, def, err)
		return def
	}
	return n
}

func envFloat64(k string, def float64) float64 {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Printf("invalid %s=%q, using default %.3f: %v", k, v, def, err)
		return def
	}
	return f
}

// envDurationMS supports plain integer milliseconds ("1500") or Go
// duration strings ("1.5s", "250ms", "2m").
func envDurationMS(k string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	if strings.IndexFunc(v, func(r rune) bool { return r < '0' || r > '9' }) != -1 {
		d, err := time.ParseDuration(v)
		if err != nil {
			log.Printf("invalid %s=%q, using default %v: %v", k, v, def, err)
			return def
		}
		return d
	}
	ms, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("invalid %s=%q, using default %v: %v", k, v, def, err)
		return def
	}
	return time.Duration(ms) * time.Millisecond
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	out := make([]string, 0, len(raw))
	for _, p := range raw {
		t := strings.TrimSpace(p)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}
