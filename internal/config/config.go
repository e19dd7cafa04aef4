package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/ianferguson/contracting-hours/internal/models"
)

type Config struct {
	Stage           string
	BucketName      string
	ResendAPIKey    string
	SenderAddress   string
	TestInbox       string
	BigQueryProject string
	DatabaseURL     string
	DatabaseDriver  string
	ConfigBlob      string
	ConfigPath      string
	AssetsDir       string
	DaysBack        int
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	daysBack, err := strconv.Atoi(getEnv("DAYS_BACK", "7"))
	if err != nil {
		return nil, fmt.Errorf("%w: DAYS_BACK must be an integer", models.ErrConfig)
	}

	cfg := &Config{
		Stage:           getEnv("STAGE", "development"),
		BucketName:      getEnv("GCS_BUCKET_NAME", ""),
		ResendAPIKey:    getEnv("RESEND_API_KEY", ""),
		SenderAddress:   getEnv("SENDER_ADDRESS", "Ian Ferguson Billing <no-reply@ianferguson.dev>"),
		TestInbox:       getEnv("TEST_INBOX", ""),
		BigQueryProject: getEnv("BIGQUERY_PROJECT_ID", ""),
		DatabaseURL:     getEnv("DATABASE_URL", "./hours.db"),
		DatabaseDriver:  getEnv("DATABASE_DRIVER", "sqlite3"),
		ConfigBlob:      getEnv("CONFIG_BLOB", "contracting_config.json"),
		ConfigPath:      getEnv("CONFIG_PATH", "./contracting_config.json"),
		AssetsDir:       getEnv("ASSETS_DIR", os.TempDir()),
		DaysBack:        daysBack,
	}

	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Stage == "production"
}

// ValidateRun checks the values the full pipeline needs. Commands that
// never touch the transports skip this.
func (c *Config) ValidateRun() error {
	if c.BucketName == "" {
		return fmt.Errorf("%w: GCS bucket name must be provided via --bucket or GCS_BUCKET_NAME", models.ErrConfig)
	}
	if c.ResendAPIKey == "" {
		return fmt.Errorf("%w: RESEND_API_KEY is required", models.ErrConfig)
	}
	if c.IsProduction() {
		if c.BigQueryProject == "" {
			return fmt.Errorf("%w: BIGQUERY_PROJECT_ID is required in production", models.ErrConfig)
		}
		return nil
	}
	// Outside production all mail is redirected, so a destination inbox
	// is mandatory.
	if c.TestInbox == "" {
		return fmt.Errorf("%w: TEST_INBOX is required outside production", models.ErrConfig)
	}
	return nil
}

// Schema returns the warehouse column set for the active environment.
// The production tables carry the extra Purpose column.
func (c *Config) Schema() models.Schema {
	if c.IsProduction() {
		return models.SchemaProduction
	}
	return models.SchemaDevelopment
}

func (c *Config) Dump() {
	fmt.Printf("Stage: %s\n", c.Stage)
	fmt.Printf("Bucket: %s\n", c.BucketName)
	fmt.Printf("BigQuery Project: %s\n", c.BigQueryProject)
	fmt.Printf("Database URL: %s\n", c.DatabaseURL)
	fmt.Printf("Database Driver: %s\n", c.DatabaseDriver)
	fmt.Printf("Assets Dir: %s\n", c.AssetsDir)
	fmt.Printf("Days Back: %d\n", c.DaysBack)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// ClientProfile is one entry of the per-client billing map.
type ClientProfile struct {
	TableName     string  `json:"table_name"`
	BilledTo      string  `json:"billed_to"`
	ContactName   string  `json:"contact_name"`
	ContactEmail  string  `json:"contact_email"`
	HourlyRate    float64 `json:"hourly_rate"`
	TaxRate       float64 `json:"tax_rate,omitempty"`
	PaymentMethod string  `json:"payment_method,omitempty"`
}

// Company holds the issuing company's identity used on invoice headers.
type Company struct {
	Name      string `json:"name"`
	ShortName string `json:"short_name,omitempty"`
	Address   string `json:"address"`
	City      string `json:"city"`
	State     string `json:"state"`
	Zip       string `json:"zip"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
}

// Short is the organization label used in filenames and email subjects,
// e.g. "Ferguson". Falls back to the full company name.
func (c Company) Short() string {
	if c.ShortName != "" {
		return c.ShortName
	}
	return c.Name
}

// Billing pairs the client map with the company globals. In production it
// is downloaded from the config blob in the assets bucket; locally it is
// read from an untracked JSON file.
type Billing struct {
	Clients map[string]ClientProfile `json:"clients"`
	Company Company                  `json:"globals"`
}

func ParseBilling(data []byte) (*Billing, error) {
	var billing Billing
	if err := json.Unmarshal(data, &billing); err != nil {
		return nil, fmt.Errorf("failed to parse billing config: %w", err)
	}
	if len(billing.Clients) == 0 {
		return nil, fmt.Errorf("%w: billing config has no clients", models.ErrConfig)
	}
	if billing.Company.Name == "" {
		return nil, fmt.Errorf("%w: billing config has no company name", models.ErrConfig)
	}
	return &billing, nil
}

func LoadBillingFile(path string) (*Billing, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read billing config %s: %w", path, err)
	}
	return ParseBilling(data)
}
