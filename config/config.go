// Package config はアプリケーション設定を管理します。
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	env "github.com/Netflix/go-env"
	"github.com/joho/godotenv"
	"github.com/spf13/afero"
)

// DotEnvFile は設定を補完する .env ファイルの名前です。
const DotEnvFile = ".env"

// ErrAPIKeyRequired はAPIキーが設定されていない場合のエラーです。
var ErrAPIKeyRequired = errors.New("CALHEAT_API_KEY is not set")

// Config はアプリケーション全体の設定を保持します。
type Config struct {
	// データディレクトリのパス
	DataDir string `env:"CALHEAT_DATA_DIR,default=./data"`

	// HTTPサーバーのポート
	Port string `env:"CALHEAT_SERVER_PORT,default=8080"`

	// API認証キー
	APIKey string `env:"CALHEAT_API_KEY"`

	// 日付を解釈するタイムゾーン
	Timezone string `env:"CALHEAT_TIMEZONE,default=UTC"`

	// デバッグログを有効にする
	Debug bool `env:"CALHEAT_DEBUG,default=false"`
}

// Load は環境変数から設定を読み込みます。
// dotenvPath のファイルが存在する場合、環境変数に無いキーだけを補完します。
func Load(fs afero.Fs, dotenvPath string) (*Config, error) {
	es, err := env.EnvironToEnvSet(os.Environ())
	if err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	if dotenvPath != "" {
		extra, err := readDotEnv(fs, dotenvPath)
		if err != nil {
			return nil, err
		}
		for k, v := range extra {
			if _, ok := es[k]; !ok {
				es[k] = v
			}
		}
	}

	// 空文字は未設定として扱い、デフォルト値を使う
	for k, v := range es {
		if v == "" {
			delete(es, k)
		}
	}

	cfg := &Config{}
	if err := env.Unmarshal(es, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if _, err := cfg.Location(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func readDotEnv(fs afero.Fs, path string) (map[string]string, error) {
	exists, err := afero.Exists(fs, path)
	if err != nil || !exists {
		return nil, err
	}

	f, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	values, err := godotenv.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return values, nil
}

// Validate はサーバー起動に必要な設定を検証します。
func (c *Config) Validate() error {
	if c.APIKey == "" {
		// デフォルトキーは設定しない
		return ErrAPIKeyRequired
	}
	if c.Port == "" {
		return errors.New("CALHEAT_SERVER_PORT must not be empty")
	}
	return nil
}

// Location は設定されたタイムゾーンを返します。
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid CALHEAT_TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}
