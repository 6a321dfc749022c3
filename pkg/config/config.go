package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App   AppConfig
	HTTP  HTTPConfig
	CMS   CMSConfig
	Redis RedisConfig
	DB    DBConfig
	Cart  CartConfig
	Shop  ShopConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// CMSConfig configuración del CMS headless (Strapi v4).
type CMSConfig struct {
	BaseURL    string        // origen para las URLs de medios relativas, ej. http://localhost:1337
	APIURL     string        // raíz REST, ej. http://localhost:1337/api
	APIToken   string        // opcional: token de solo lectura
	Timeout    time.Duration // timeout de red por petición
	Revalidate time.Duration // TTL de la caché de catálogo
	Currency   string        // moneda asignada a los productos transformados
}

// RedisConfig configuración de Redis. URL vacía = sin Redis.
type RedisConfig struct {
	URL          string
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Enabled indica si hay Redis configurado.
func (c RedisConfig) Enabled() bool {
	return c.URL != ""
}

// DBConfig configuración de PostgreSQL (solo se usa con CART_STORE=postgres).
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
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

// Backends de almacenamiento del carrito.
const (
	CartStoreMemory   = "memory"
	CartStoreRedis    = "redis"
	CartStorePostgres = "postgres"
)

// CartConfig reglas de precio del carrito y su persistencia.
type CartConfig struct {
	Store                 string // memory, redis, postgres
	TTL                   time.Duration
	TaxRate               decimal.Decimal // 0.08 = 8%
	ShippingFlat          decimal.Decimal
	FreeShippingThreshold decimal.Decimal // envío gratis si subtotal > umbral
	CookieSecure          bool
}

// ShopConfig datos de la tienda para el handoff por WhatsApp.
type ShopConfig struct {
	Name            string
	WhatsAppNumber  string // sin el signo +
	FeaturedLimit   int
	SearchSampleLen int
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, CMS_API_URL, REDIS_URL, CART_STORE, etc.
func Load() (*Config, error) {
	v := viper.New()

	// Opcional: archivo de configuración (.env o config.env)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cmsBase := strings.TrimRight(getString(v, "CMS_URL", "http://localhost:1337"), "/")

	taxRate, err := getDecimal(v, "CART_TAX_RATE", "0.08")
	if err != nil {
		return nil, err
	}
	shipping, err := getDecimal(v, "CART_SHIPPING_FLAT", "15")
	if err != nil {
		return nil, err
	}
	threshold, err := getDecimal(v, "CART_FREE_SHIPPING_THRESHOLD", "100")
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "veloce-moto-api"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		CMS: CMSConfig{
			BaseURL:    cmsBase,
			APIURL:     strings.TrimRight(getString(v, "CMS_API_URL", cmsBase+"/api"), "/"),
			APIToken:   getString(v, "CMS_API_TOKEN", ""),
			Timeout:    time.Duration(getInt(v, "CMS_TIMEOUT_SECONDS", 10)) * time.Second,
			Revalidate: time.Duration(getInt(v, "CMS_REVALIDATE_SECONDS", 60)) * time.Second,
			Currency:   getString(v, "CMS_CURRENCY", "LKR"),
		},
		Redis: RedisConfig{
			URL:          getString(v, "REDIS_URL", ""),
			DialTimeout:  time.Duration(getInt(v, "REDIS_DIAL_TIMEOUT", 5)) * time.Second,
			ReadTimeout:  time.Duration(getInt(v, "REDIS_READ_TIMEOUT", 3)) * time.Second,
			WriteTimeout: time.Duration(getInt(v, "REDIS_WRITE_TIMEOUT", 3)) * time.Second,
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "veloce_moto"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
		},
		Cart: CartConfig{
			Store:                 strings.ToLower(getString(v, "CART_STORE", CartStoreMemory)),
			TTL:                   time.Duration(getInt(v, "CART_TTL_HOURS", 30*24)) * time.Hour,
			TaxRate:               taxRate,
			ShippingFlat:          shipping,
			FreeShippingThreshold: threshold,
			CookieSecure:          getBool(v, "CART_COOKIE_SECURE", false),
		},
		Shop: ShopConfig{
			Name:            getString(v, "SHOP_NAME", "Veloce Moto"),
			WhatsAppNumber:  strings.TrimPrefix(getString(v, "SHOP_WHATSAPP_NUMBER", "94741813772"), "+"),
			FeaturedLimit:   getInt(v, "SHOP_FEATURED_LIMIT", 8),
			SearchSampleLen: getInt(v, "SHOP_SEARCH_SAMPLE", 6),
		},
	}

	switch cfg.Cart.Store {
	case CartStoreMemory, CartStoreRedis, CartStorePostgres:
	default:
		return nil, fmt.Errorf("CART_STORE inválido: %q", cfg.Cart.Store)
	}
	if cfg.Cart.Store == CartStoreRedis && !cfg.Redis.Enabled() {
		return nil, fmt.Errorf("CART_STORE=redis requiere REDIS_URL")
	}

	return cfg, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(v.GetString(key))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if v.IsSet(key) {
		return v.GetBool(key)
	}
	return def
}

func getDecimal(v *viper.Viper, key, def string) (decimal.Decimal, error) {
	raw := getString(v, key, def)
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s inválido: %w", key, err)
	}
	return d, nil
}
