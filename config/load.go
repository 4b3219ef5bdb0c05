package config

import (
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
)

// fileConfigs mirrors Configs for toml decoding. Durations are written as
// strings ("30m") and parsed with time.ParseDuration.
type fileConfigs struct {
	Env string `toml:"env"`

	Database struct {
		Host     string `toml:"host"`
		Port     string `toml:"port"`
		Database string `toml:"database"`
		User     string `toml:"user"`
		Password string `toml:"password"`
	} `toml:"database"`

	ApiServer struct {
		Host string `toml:"host"`
		Port string `toml:"port"`
		Cert string `toml:"cert"`
		Key  string `toml:"key"`
	} `toml:"api_server"`

	Auth struct {
		TokenSecret             string `toml:"token_secret"`
		AccessTokenExpiration   string `toml:"access_token_expiration"`
		ReferralTokenExpiration string `toml:"referral_token_expiration"`
	} `toml:"auth"`

	Redis struct {
		Addr string `toml:"addr"`
	} `toml:"redis"`

	Cache struct {
		ReferralCodeTTL string `toml:"referral_code_ttl"`
	} `toml:"cache"`

	Referral struct {
		PruneEdgesOnRevoke bool `toml:"prune_edges_on_revoke"`
	} `toml:"referral"`
}

// Load builds the configurations from a toml file, with environment
// variables taking precedence over file values. The path may be empty, in
// which case only the environment is consulted.
func Load(path string) (Configs, error) {
	var file fileConfigs
	if path != "" {
		if _, err := toml.DecodeFile(path, &file); err != nil {
			return Configs{}, err
		}
	}

	cfg := Configs{
		Env: pick("ENV", file.Env, "local"),
		Database: DatabaseConfigs{
			Host:     pick("DB_HOST", file.Database.Host, "localhost"),
			Port:     pick("DB_PORT", file.Database.Port, "3306"),
			Database: pick("DB_NAME", file.Database.Database, "referral_app"),
			User:     pick("DB_USER", file.Database.User, "root"),
			Password: pick("DB_PASSWORD", file.Database.Password, ""),
		},
		ApiServer: ServerConfigs{
			Host: pick("HOST", file.ApiServer.Host, "localhost"),
			Port: pick("PORT", file.ApiServer.Port, "8080"),
			Cert: pick("SERVER_CERT", file.ApiServer.Cert, ""),
			Key:  pick("SERVER_KEY", file.ApiServer.Key, ""),
		},
		Auth: AuthConfigs{
			TokenSecret: pick("TOKEN_SECRET", file.Auth.TokenSecret, ""),
			AccessToken: TokenConfigs{
				Name: "access_token",
				Expiration: pickDuration(
					"ACCESS_TOKEN_EXPIRATION", file.Auth.AccessTokenExpiration, 15*time.Minute),
			},
			ReferralToken: TokenConfigs{
				Name: "referral_token",
				Expiration: pickDuration(
					"REFERRAL_TOKEN_EXPIRATION", file.Auth.ReferralTokenExpiration, 30*time.Minute),
			},
		},
		Redis: RedisConfigs{
			Addr: pick("REDIS_ADDR", file.Redis.Addr, "localhost:6379"),
		},
		Cache: CacheConfigs{
			ReferralCodeTTL: pickDuration(
				"REFERRAL_CODE_CACHE_TTL", file.Cache.ReferralCodeTTL, time.Minute),
		},
		Referral: ReferralConfigs{
			PruneEdgesOnRevoke: pickBool(
				"PRUNE_EDGES_ON_REVOKE", file.Referral.PruneEdgesOnRevoke),
		},
	}

	return cfg, nil
}

func pick(env, file, fallback string) string {
	if v := os.Getenv(env); v != "" {
		return v
	}

	if file != "" {
		return file
	}

	return fallback
}

func pickDuration(env, file string, fallback time.Duration) time.Duration {
	for _, raw := range []string{os.Getenv(env), file} {
		if raw == "" {
			continue
		}

		if d, err := time.ParseDuration(raw); err == nil {
			return d
		}
	}

	return fallback
}

func pickBool(env string, file bool) bool {
	if v := os.Getenv(env); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}

	return file
}
