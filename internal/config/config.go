package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"gopkg.in/yaml.v2"
)

// Environment variables holding the JIRA credentials
const (
	EnvServer   = "JIRA_API_SERVER"
	EnvUsername = "JIRA_API_USERNAME"
	EnvToken    = "JIRA_API_TOKEN"
)

// DefaultTimeoutSeconds is used when neither a flag nor the config file sets a timeout
const DefaultTimeoutSeconds = 30

// Config represents the application configuration file
type Config struct {
	Jira JiraConfig `yaml:"jira"`
}

// JiraConfig represents JIRA API configuration
type JiraConfig struct {
	BaseURL  string `yaml:"base_url"`
	Username string `yaml:"username"`
	APIToken string `yaml:"api_token"`
	Timeout  int    `yaml:"timeout_seconds"`
}

// ConfigError reports a missing or invalid credential
type ConfigError struct {
	Variable string
	Reason   string
}

func (e *ConfigError) Error() string {
	if e.Variable == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s %s", e.Variable, e.Reason)
}

// LookupFunc looks up an environment variable, like os.LookupEnv
type LookupFunc func(key string) (string, bool)

// Overrides holds values given explicitly on the command line.
// A nil pointer means the flag was not given.
type Overrides struct {
	Server         *string
	Username       *string
	Token          *string
	TimeoutSeconds int
}

// LoadConfig loads configuration from a YAML file. An empty path yields an empty configuration.
func LoadConfig(configPath string) (*Config, error) {
	var config Config
	if configPath == "" {
		return &config, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &config, nil
}

// Resolve merges the config file, the environment and the command line overrides
// (in increasing precedence) into validated JIRA credentials.
func Resolve(configPath string, overrides Overrides, lookupEnv LookupFunc) (*JiraConfig, error) {
	if lookupEnv == nil {
		lookupEnv = os.LookupEnv
	}

	file, err := LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	var resolved JiraConfig
	var ok bool

	if resolved.BaseURL, ok = pick(overrides.Server, EnvServer, lookupEnv, file.Jira.BaseURL); !ok {
		return nil, &ConfigError{Variable: EnvServer, Reason: "variable is not specified"}
	}
	if resolved.Username, ok = pick(overrides.Username, EnvUsername, lookupEnv, file.Jira.Username); !ok {
		return nil, &ConfigError{Variable: EnvUsername, Reason: "variable is not specified"}
	}
	if resolved.APIToken, ok = pick(overrides.Token, EnvToken, lookupEnv, file.Jira.APIToken); !ok {
		return nil, &ConfigError{Variable: EnvToken, Reason: "variable is not specified"}
	}

	switch {
	case overrides.TimeoutSeconds > 0:
		resolved.Timeout = overrides.TimeoutSeconds
	case file.Jira.Timeout > 0:
		resolved.Timeout = file.Jira.Timeout
	default:
		resolved.Timeout = DefaultTimeoutSeconds
	}

	resolved.BaseURL = strings.TrimRight(resolved.BaseURL, "/")

	if err := resolved.Validate(); err != nil {
		return nil, err
	}

	return &resolved, nil
}

func pick(flag *string, env string, lookupEnv LookupFunc, fromFile string) (string, bool) {
	if flag != nil {
		return *flag, true
	}
	if v, ok := lookupEnv(env); ok {
		return v, true
	}
	if fromFile != "" {
		return fromFile, true
	}
	return "", false
}

// Validate validates the configuration
func (c *JiraConfig) Validate() error {
	if c.BaseURL == "" {
		return &ConfigError{Reason: "JIRA API server name is empty"}
	}

	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return &ConfigError{Reason: fmt.Sprintf("JIRA API server %q is not a valid http(s) URL", c.BaseURL)}
	}

	if c.Username == "" {
		return &ConfigError{Reason: "JIRA API user name is empty"}
	}

	if c.APIToken == "" {
		return &ConfigError{Reason: "JIRA API secure token is empty"}
	}

	return nil
}

// IssueURL returns the browser link of an issue
func (c *JiraConfig) IssueURL(issueKey string) string {
	return c.BaseURL + "/browse/" + issueKey
}

// WriteSample writes a configuration file with placeholder credentials.
// An existing file is only replaced when overwrite is set.
func WriteSample(configPath string, overwrite bool) error {
	if _, err := os.Stat(configPath); err == nil && !overwrite {
		return fmt.Errorf("configuration file already exists at %s", configPath)
	}

	sample := Config{
		Jira: JiraConfig{
			BaseURL:  "https://your-domain.atlassian.net",
			Username: "your-email@example.com",
			APIToken: "your-jira-api-token",
			Timeout:  DefaultTimeoutSeconds,
		},
	}

	data, err := yaml.Marshal(&sample)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
