package config

import (
    "os"
    "strings"
    "time"

    goyaml "gopkg.in/yaml.v3"
)

type Config struct {
    BotToken          string `yaml:"bot_token"`
    DBPath            string `yaml:"db_path"`
    ListenAddr        string `yaml:"listen_addr"`
    APIURL            string `yaml:"api_url"`
    Timezone          string `yaml:"timezone"`
    SessionTTLMinutes int    `yaml:"session_ttl_minutes"`
}

func MustLoad(path string) (*Config, error) {
    cfg := &Config{
        ListenAddr:        ":8000",
        APIURL:            "http://localhost:8000",
        SessionTTLMinutes: 30,
    }
    b, err := os.ReadFile(path)
    if err == nil {
        if err := goyaml.Unmarshal(b, cfg); err != nil {
            return nil, err
        }
    } else if !os.IsNotExist(err) {
        return nil, err
    }
    if v := os.Getenv("BOT_TOKEN"); v != "" { cfg.BotToken = v }
    if v := os.Getenv("DB_PATH"); v != "" { cfg.DBPath = v }
    if v := os.Getenv("LISTEN_ADDR"); v != "" { cfg.ListenAddr = v }
    if v := os.Getenv("API_URL"); v != "" { cfg.APIURL = v }
    if v := os.Getenv("TZ"); v != "" {
        cfg.Timezone = v; _ = os.Setenv("TZ", v)
    } else if cfg.Timezone != "" {
        _ = os.Setenv("TZ", cfg.Timezone)
    }
    if cfg.Timezone != "" {
        if loc, err := time.LoadLocation(cfg.Timezone); err == nil {
            time.Local = loc
        }
    }
    return cfg, nil
}

func (c *Config) SessionTTL() time.Duration {
    if c.SessionTTLMinutes <= 0 { return 30 * time.Minute }
    return time.Duration(c.SessionTTLMinutes) * time.Minute
}

// EnvList splits a comma separated environment variable into trimmed items.
// Used for first-run seeding of admins, employees and group chats.
func EnvList(name string) []string {
    raw := os.Getenv(name)
    var out []string
    for _, item := range strings.Split(raw, ",") {
        if item = strings.TrimSpace(item); item != "" {
            out = append(out, item)
        }
    }
    return out
}
