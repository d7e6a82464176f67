// Package provider builds the Elasticsearch client and registers the engine
// with a scout manager.
package provider

import (
	"crypto/tls"
	"fmt"
	"net/http"
	"os"

	"github.com/elastic/go-elasticsearch/v8"

	"github.com/weiawesome/wes-io-live/scout-elasticsearch/internal/elastic"
	"github.com/weiawesome/wes-io-live/scout-elasticsearch/internal/scout"
)

type Config struct {
	Hosts        []string  `mapstructure:"hosts"`
	Index        string    `mapstructure:"index"`
	Username     string    `mapstructure:"username"`
	Password     string    `mapstructure:"password"`
	SSL          SSLConfig `mapstructure:"ssl"`
	MappingTypes bool      `mapstructure:"mapping_types"`
	CreateIndex  bool      `mapstructure:"create_index"`
}

type SSLConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	Certificate string `mapstructure:"certificate"`
	SkipVerify  bool   `mapstructure:"skip_verify"`
}

// NewClient creates an Elasticsearch client from cfg. With SSL enabled the
// certificate file, when set, is trusted as the cluster CA.
func NewClient(cfg Config) (*elasticsearch.Client, error) {
	if len(cfg.Hosts) == 0 {
		return nil, fmt.Errorf("elasticsearch hosts are required")
	}

	esCfg := elasticsearch.Config{
		Addresses: cfg.Hosts,
		Username:  cfg.Username,
		Password:  cfg.Password,
	}

	if cfg.SSL.Enabled {
		if cfg.SSL.SkipVerify {
			t := http.DefaultTransport.(*http.Transport).Clone()
			t.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
			esCfg.Transport = t
		} else if cfg.SSL.Certificate != "" {
			cert, err := os.ReadFile(cfg.SSL.Certificate)
			if err != nil {
				return nil, fmt.Errorf("failed to read elasticsearch certificate: %w", err)
			}
			esCfg.CACert = cert
		}
	}

	client, err := elasticsearch.NewClient(esCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create elasticsearch client: %w", err)
	}
	return client, nil
}

// Register builds the client once and registers a factory on m that binds a
// new engine to cfg.Index on every resolution.
func Register(m *scout.Manager, cfg Config) (*elasticsearch.Client, error) {
	if cfg.Index == "" {
		return nil, fmt.Errorf("elasticsearch index is required")
	}

	client, err := NewClient(cfg)
	if err != nil {
		return nil, err
	}

	var opts []elastic.Option
	if cfg.MappingTypes {
		opts = append(opts, elastic.WithMappingTypes())
	}

	m.Extend(elastic.DriverName, func() (scout.Engine, error) {
		return elastic.NewEngine(client, cfg.Index, opts...), nil
	})
	return client, nil
}
