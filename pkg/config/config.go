package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const EnvPrefix = "OLIST"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

// Env var names referenced from tests and error messages.
const (
	EnvAppEnv  = "OLIST_APP_ENV"
	EnvPort    = "OLIST_APP_PORT"
	EnvDataDir = "OLIST_DATA_DIR"
)

type Config struct {
	App    AppConfig
	Server ServerConfig
	Data   DataConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"OLIST_APP_ENV" default:"development"`
	Port         string `envconfig:"OLIST_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"OLIST_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"OLIST_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServerConfig struct {
	ReadTimeout     time.Duration `envconfig:"OLIST_SERVER_READ_TIMEOUT" default:"10s"`
	WriteTimeout    time.Duration `envconfig:"OLIST_SERVER_WRITE_TIMEOUT" default:"30s"`
	ShutdownTimeout time.Duration `envconfig:"OLIST_SERVER_SHUTDOWN_TIMEOUT" default:"15s"`
}

// DataConfig locates the seven Olist CSV exports. File names default to the
// names used by the public dataset distribution.
type DataConfig struct {
	Dir             string `envconfig:"OLIST_DATA_DIR" default:"data"`
	OrdersFile      string `envconfig:"OLIST_DATA_ORDERS_FILE" default:"olist_orders_dataset.csv"`
	CustomersFile   string `envconfig:"OLIST_DATA_CUSTOMERS_FILE" default:"olist_customers_dataset.csv"`
	OrderItemsFile  string `envconfig:"OLIST_DATA_ORDER_ITEMS_FILE" default:"olist_order_items_dataset.csv"`
	PaymentsFile    string `envconfig:"OLIST_DATA_PAYMENTS_FILE" default:"olist_order_payments_dataset.csv"`
	ProductsFile    string `envconfig:"OLIST_DATA_PRODUCTS_FILE" default:"olist_products_dataset.csv"`
	ReviewsFile     string `envconfig:"OLIST_DATA_REVIEWS_FILE" default:"olist_order_reviews_dataset.csv"`
	TranslationFile string `envconfig:"OLIST_DATA_TRANSLATION_FILE" default:"product_category_name_translation.csv"`
}

// Path resolves a dataset file name against the data directory.
func (d DataConfig) Path(file string) string {
	return filepath.Join(d.Dir, file)
}
