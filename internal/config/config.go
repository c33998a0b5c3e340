package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds server configuration aggregated from env/config files.
type Config struct {
	Server struct {
		Addr string
	}
	Database struct {
		Path string
	}
	CORS struct {
		Origins string
	}
	Cookie struct {
		Name   string
		Path   string
		Secure bool
	}
	Auth struct {
		BcryptCost int
	}
	Upload struct {
		MaxBytes int64
	}
	Storage struct {
		Bucket    string
		KeyPrefix string
		Region    string
		Endpoint  string
	}
	AWS struct {
		Profile string
	}
	Log LogConfig
}

// LogConfig selects the logrus level and formatter.
type LogConfig struct {
	Level  string
	Format string
}

// ClientConfig configures the terminal client.
type ClientConfig struct {
	Client struct {
		Server    string
		StatePath string
	}
	Log LogConfig
}

// AllowedOrigins splits the comma separated CORS allow-list.
func (c Config) AllowedOrigins() []string {
	var out []string
	for _, o := range strings.Split(c.CORS.Origins, ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			out = append(out, strings.TrimRight(o, "/"))
		}
	}
	return out
}

func newViper() *viper.Viper {
	loadDotEnv()

	v := viper.New()
	v.SetEnvPrefix("CAMPUSHUB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetConfigName("config")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // optional file
	return v
}

// Load reads server configuration from environment variables and optional config files.
func Load() (Config, error) {
	v := newViper()

	v.SetDefault("server.addr", "0.0.0.0:4000")
	v.SetDefault("database.path", "data/campushub.db")
	v.SetDefault("cors.origins", "http://localhost:3000,http://127.0.0.1:3000")
	v.SetDefault("cookie.name", "sid")
	v.SetDefault("cookie.path", "/api")
	v.SetDefault("cookie.secure", false)
	v.SetDefault("auth.bcryptcost", 10)
	v.SetDefault("upload.maxbytes", 10<<20)
	v.SetDefault("storage.bucket", "")
	v.SetDefault("storage.keyprefix", "uploads")
	v.SetDefault("storage.region", "us-east-1")
	v.SetDefault("storage.endpoint", "")
	v.SetDefault("aws.profile", "")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if cfg.Cookie.Name == "" {
		return Config{}, fmt.Errorf("cookie.name must not be empty")
	}
	if cfg.Upload.MaxBytes <= 0 {
		return Config{}, fmt.Errorf("upload.maxbytes must be positive, got %d", cfg.Upload.MaxBytes)
	}

	return cfg, nil
}

// LoadClient reads the terminal client configuration.
func LoadClient() (ClientConfig, error) {
	v := newViper()

	v.SetDefault("client.server", "http://localhost:4000")
	v.SetDefault("client.statepath", "~/.campushub/state.db")

	var cfg ClientConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return ClientConfig{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	path, err := expandHome(cfg.Client.StatePath)
	if err != nil {
		return ClientConfig{}, err
	}
	cfg.Client.StatePath = path
	cfg.Client.Server = strings.TrimRight(cfg.Client.Server, "/")
	return cfg, nil
}

func expandHome(p string) (string, error) {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~")), nil
}

func loadDotEnv() {
	file, err := os.Open(".env")
	if err != nil {
		return
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "export ")

		partsIndex := strings.Index(line, "=")
		if partsIndex <= 0 {
			continue
		}

		key := strings.TrimSpace(line[:partsIndex])
		value := strings.TrimSpace(line[partsIndex+1:])
		value = strings.Trim(value, `"'`)
		if key == "" {
			continue
		}

		if _, exists := os.LookupEnv(key); !exists {
			_ = os.Setenv(key, value)
		}
	}
}
