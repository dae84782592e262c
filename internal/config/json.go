package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig mirrors [StructuredConfig] with snake_case JSON keys
// and string durations.
type StructuredJSONConfig struct {
	App struct {
		Version        string `json:"version"`
		LogLevel       string `json:"log_level"`
		BcryptCost     int    `json:"bcrypt_cost"`
		DisableAvatars bool   `json:"disable_avatars"`
	} `json:"app,omitempty"`

	Auth struct {
		AccessTokenSecret   string   `json:"access_token_secret"`
		RefreshTokenSecret  string   `json:"refresh_token_secret"`
		RefreshTokenHashKey string   `json:"refresh_token_hash_key"`
		TokenIssuer         string   `json:"token_issuer"`
		AccessTokenTTL      Duration `json:"access_token_ttl"`
		RefreshTokenTTL     Duration `json:"refresh_token_ttl"`
		InsecureCookies     bool     `json:"insecure_cookies"`
	} `json:"auth,omitempty"`

	Storage struct {
		DB struct {
			Driver string `json:"driver"`
			DSN    string `json:"dsn"`
		} `json:"db,omitempty"`

		Files struct {
			BlobDir       string `json:"blob_dir"`
			PublicBaseURL string `json:"public_base_url"`
		} `json:"files,omitempty"`
	} `json:"storage,omitempty"`

	Server struct {
		HTTPAddress    string   `json:"http_address"`
		GRPCAddress    string   `json:"grpc_address"`
		RequestTimeout Duration `json:"request_timeout"`
		RateLimitRPS   float64  `json:"rate_limit_rps"`
		RateLimitBurst int      `json:"rate_limit_burst"`
	} `json:"server,omitempty"`

	Workers struct {
		SessionCleanupInterval Duration `json:"session_cleanup_interval"`
		AvatarCleanupInterval  Duration `json:"avatar_cleanup_interval"`
	} `json:"workers,omitempty"`

	Seed struct {
		AdminName     string `json:"admin_name"`
		AdminUsername string `json:"admin_username"`
		AdminPassword string `json:"admin_password"`
	} `json:"seed,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		App: App{
			Version:        jsonCfg.App.Version,
			LogLevel:       jsonCfg.App.LogLevel,
			BcryptCost:     jsonCfg.App.BcryptCost,
			DisableAvatars: jsonCfg.App.DisableAvatars,
		},
		Auth: Auth{
			AccessTokenSecret:   jsonCfg.Auth.AccessTokenSecret,
			RefreshTokenSecret:  jsonCfg.Auth.RefreshTokenSecret,
			RefreshTokenHashKey: jsonCfg.Auth.RefreshTokenHashKey,
			TokenIssuer:         jsonCfg.Auth.TokenIssuer,
			AccessTokenTTL:      time.Duration(jsonCfg.Auth.AccessTokenTTL),
			RefreshTokenTTL:     time.Duration(jsonCfg.Auth.RefreshTokenTTL),
			InsecureCookies:     jsonCfg.Auth.InsecureCookies,
		},
		Storage: Storage{
			DB: DB{
				Driver: jsonCfg.Storage.DB.Driver,
				DSN:    jsonCfg.Storage.DB.DSN,
			},
			Files: Files{
				BlobDir:       jsonCfg.Storage.Files.BlobDir,
				PublicBaseURL: jsonCfg.Storage.Files.PublicBaseURL,
			},
		},
		Server: Server{
			HTTPAddress:    jsonCfg.Server.HTTPAddress,
			GRPCAddress:    jsonCfg.Server.GRPCAddress,
			RequestTimeout: time.Duration(jsonCfg.Server.RequestTimeout),
			RateLimitRPS:   jsonCfg.Server.RateLimitRPS,
			RateLimitBurst: jsonCfg.Server.RateLimitBurst,
		},
		Workers: Workers{
			SessionCleanupInterval: time.Duration(jsonCfg.Workers.SessionCleanupInterval),
			AvatarCleanupInterval:  time.Duration(jsonCfg.Workers.AvatarCleanupInterval),
		},
		Seed: Seed{
			AdminName:     jsonCfg.Seed.AdminName,
			AdminUsername: jsonCfg.Seed.AdminUsername,
			AdminPassword: jsonCfg.Seed.AdminPassword,
		},
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling from strings like "1h", "30s"
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return fmt.Errorf("invalid duration %s", string(b))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
