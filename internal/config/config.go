package config

import (
	"flag"
	"net/url"

	"github.com/caarlos0/env/v8"
	"github.com/joho/godotenv"
)

type Config struct {
	Address           string `env:"RUN_ADDRESS"`
	DatabaseURI       string `env:"DATABASE_URI"`
	PaymentAPIAddress string `env:"PAYMENT_API_ADDRESS"`
	BlobAPIAddress    string `env:"BLOB_API_ADDRESS"`
}

func NewConfig() (Config, error) {
	godotenv.Load()

	config := Config{}

	config.parseFlags()

	if err := env.Parse(&config); err != nil {
		return Config{}, err
	}

	if err := config.validateConfig(); err != nil {
		return Config{}, err
	}

	return config, nil
}

func (c *Config) parseFlags() {
	flag.StringVar(&c.Address, "a", c.Address, "Service address")
	flag.StringVar(&c.DatabaseURI, "d", c.DatabaseURI, "Database URI")
	flag.StringVar(&c.PaymentAPIAddress, "p", c.PaymentAPIAddress, "Payment processor address")
	flag.StringVar(&c.BlobAPIAddress, "b", c.BlobAPIAddress, "Blob storage address")

	flag.Parse()
}

func (c *Config) validateConfig() error {
	for _, URI := range []string{c.Address, c.PaymentAPIAddress, c.BlobAPIAddress} {
		_, err := url.ParseRequestURI(URI)
		if err != nil {
			return err
		}
	}

	return nil
}
