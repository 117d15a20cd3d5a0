package appconfig

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v2"
)

// Config holds all configuration details
type Config struct {
	Host          string              `yaml:"host"`
	BasePath      string              `yaml:"basePath"`
	DocsPath      string              `yaml:"docsPath"`
	Database      DatabaseConfig      `yaml:"database"`
	Auth          AuthConfig          `yaml:"auth"`
	Pulsar        PulsarConfig        `yaml:"pulsar"`
	AWS           AWSConfig           `yaml:"aws"`
	Notifications NotificationsConfig `yaml:"notifications"`
	CORS          CORSConfig          `yaml:"cors"`
	Codes         CodesConfig         `yaml:"codes"`
	Tunnel        TunnelConfig        `yaml:"tunnel"`
}

// DatabaseConfig defines the database connection details. When SecretName is
// set the connection string is built from the Secrets Manager secret instead
// of Source.
type DatabaseConfig struct {
	Driver     string `yaml:"driver"`
	Source     string `yaml:"source"`
	SecretName string `yaml:"secretName"`
}

// AuthConfig controls how bearer tokens are trusted and mapped to roles
type AuthConfig struct {
	// JWTSecret enables HS256 signature verification. Without it tokens are
	// assumed to be verified by the gateway.
	JWTSecret       string `yaml:"jwtSecret"`
	RoleClaimPrefix string `yaml:"roleClaimPrefix"`
}

// PulsarConfig defines the messaging system connection details
type PulsarConfig struct {
	URL           string `yaml:"url"`
	TopicProducer string `yaml:"topicProducer"`
	TopicConsumer string `yaml:"topicConsumer"`
	Subscription  string `yaml:"subscription"`
}

type AWSConfig struct {
	Region string `yaml:"region"`
}

// NotificationsConfig defines the sender and recipients of e-mail notifications
type NotificationsConfig struct {
	SenderEmail     string `yaml:"senderEmail"`
	ComplianceEmail string `yaml:"complianceEmail"`
}

type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowedOrigins"`
}

// CodesConfig holds the prefixes of generated record codes
type CodesConfig struct {
	ChecklistPrefix string `yaml:"checklistPrefix"`
	EducationPrefix string `yaml:"educationPrefix"`
	RevisionPrefix  string `yaml:"revisionPrefix"`
}

// TunnelConfig defines the bastion used by the db-tunnel command
type TunnelConfig struct {
	SSHHost    string `yaml:"sshHost"`
	SSHPort    string `yaml:"sshPort"`
	SSHUser    string `yaml:"sshUser"`
	SSHKeyPath string `yaml:"sshKeyPath"`
	KnownHosts string `yaml:"knownHosts"`
	LocalPort  string `yaml:"localPort"`
	RemoteHost string `yaml:"remoteHost"`
	RemotePort string `yaml:"remotePort"`
}

// LoadConfig loads and parses the configuration from a given file path
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		err := errors.New("config file path is required")
		log.Error().Err(err).Msg("config file not provided")
		return nil, err
	}

	// A missing .env file is not an error
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg("error loading .env file")
	}

	// Unset variables render as empty strings so optional settings stay off
	tmpl, err := template.New(filepath.Base(path)).Option("missingkey=zero").ParseFiles(path)
	if err != nil {
		log.Error().Err(err).Msg("error parsing config file template")
		return nil, err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, loadEnvVars()); err != nil {
		log.Error().Err(err).Msg("error executing config file template")
		return nil, err
	}

	var config Config
	if err := yaml.Unmarshal(buf.Bytes(), &config); err != nil {
		log.Error().Err(err).Msg("failed to unmarshal config YAML")
		return nil, err
	}

	config.applyDefaults()
	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.Host == "" {
		c.Host = ":8080"
	}
	if c.BasePath == "" {
		c.BasePath = "/api"
	}
	if c.DocsPath == "" {
		c.DocsPath = "/api/docs"
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "postgres"
	}
	if c.Database.Source == "" {
		c.Database.Source = os.Getenv("DATABASE_URL")
	}
	if c.Codes.ChecklistPrefix == "" {
		c.Codes.ChecklistPrefix = "CL"
	}
	if c.Codes.EducationPrefix == "" {
		c.Codes.EducationPrefix = "EDU"
	}
	if c.Codes.RevisionPrefix == "" {
		c.Codes.RevisionPrefix = "REV"
	}
}

// loadEnvVars loads environment variables into a map
func loadEnvVars() map[string]string {
	envVars := make(map[string]string)
	for _, env := range os.Environ() {
		kv := strings.SplitN(env, "=", 2)
		if len(kv) == 2 {
			envVars[kv[0]] = kv[1]
		}
	}
	return envVars
}
