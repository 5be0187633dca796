// Licensed to the LF AI & Data foundation under one
// or more contributor license agreements. See the NOTICE file
// distributed with this work for additional information
// regarding copyright ownership. The ASF licenses this file
// to you under the Apache License, Version 2.0 (the
// "License"); you may not use this file except in compliance
// with the License. You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package configs

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
	"go.uber.org/atomic"
	"go.uber.org/zap"

	"github.com/montaglue/greaters/pkg/log"
	"github.com/montaglue/greaters/pkg/util/merr"
)

const (
	// DefaultDataCapacity is the byte capacity reserved by variable length builders.
	DefaultDataCapacity = 1024

	envPrefix = "greaters"
)

type Config struct {
	Log      Log      `toml:"log" json:"log"`
	Function Function `toml:"function" json:"function"`
}

type Log struct {
	Level  string     `toml:"level" json:"level"`
	Format string     `toml:"format" json:"format"`
	File   LogFileCfg `toml:"file" json:"file"`
}

type LogFileCfg struct {
	Filename   string `toml:"filename" json:"filename"`
	MaxSize    int    `toml:"max-size" json:"max-size"`
	MaxDays    int    `toml:"max-days" json:"max-days"`
	MaxBackups int    `toml:"max-backups" json:"max-backups"`
}

type Function struct {
	Greatest Greatest `toml:"greatest" json:"greatest"`
}

type Greatest struct {
	DataCapacity int `toml:"data-capacity" json:"data-capacity"`
}

var defaultCfg = Config{
	Log: Log{
		Level:  "info",
		Format: log.FormatText,
		File: LogFileCfg{
			MaxSize:    300,
			MaxDays:    10,
			MaxBackups: 20,
		},
	},
	Function: Function{
		Greatest: Greatest{
			DataCapacity: DefaultDataCapacity,
		},
	},
}

var globalConfig atomic.Pointer[Config]

func init() {
	cfg := defaultCfg
	SetGlobalConfig(&cfg)
}

// Default returns a copy of the built-in configuration.
func Default() *Config {
	cfg := defaultCfg
	return &cfg
}

func SetGlobalConfig(cfg *Config) {
	globalConfig.Store(cfg)
}

func GetGlobalConfig() *Config {
	return globalConfig.Load()
}

// InitializeConfig loads path on top of the defaults, applies the enforce hooks in order,
// installs the configured global logger and publishes the result as the global config.
// Pass EnforceEnv to honor GREATERS_* variables.
func InitializeConfig(path string, enforceEnvCfg func(c *Config), enforceCmdCfg func(c *Config)) {
	cfg := Default()
	if path != "" {
		err := cfg.Load(path)
		if err != nil {
			if _, ok := err.(*ErrUndecodedConfig); ok {
				log.Warn(err.Error())
			} else {
				log.Fatal("failed to load config", zap.String("filePath", path), zap.Error(err))
			}
		}
	}
	if enforceEnvCfg != nil {
		enforceEnvCfg(cfg)
	}
	if enforceCmdCfg != nil {
		enforceCmdCfg(cfg)
	}

	if err := cfg.Validate(); err != nil {
		log.Fatal("config is not valid, please check the config file, environment variables and command options", zap.Error(err))
	}
	logger, props, err := log.InitLogger(cfg.LogConfig())
	if err != nil {
		log.Fatal("failed to initialize logger", zap.String("filePath", cfg.Log.File.Filename), zap.Error(err))
	}
	log.ReplaceGlobals(logger, props)
	SetGlobalConfig(cfg)
	log.Info("config initialized",
		zap.String("level", cfg.Log.Level),
		zap.String("format", cfg.Log.Format),
		zap.Int("dataCapacity", cfg.Function.Greatest.DataCapacity))
}

func (c *Config) Load(path string) error {
	meta, err := toml.DecodeFile(path, c)

	undecodedKeys := meta.Undecoded()
	if len(undecodedKeys) > 0 && err == nil {
		undecoded := make([]string, 0, len(undecodedKeys))
		for _, k := range undecodedKeys {
			undecoded = append(undecoded, k.String())
		}
		return &ErrUndecodedConfig{ConfigFile: path, Undecoded: undecoded}
	}

	return err
}

func (c *Config) Validate() error {
	if c.Function.Greatest.DataCapacity < 0 {
		return merr.WrapErrParameterInvalidMsg("function.greatest: data capacity can not be negative, got %d", c.Function.Greatest.DataCapacity)
	}
	return c.LogConfig().Validate()
}

// LogConfig converts the log section to the logger configuration.
func (c *Config) LogConfig() *log.Config {
	return &log.Config{
		Level:  c.Log.Level,
		Format: c.Log.Format,
		File: log.FileLogConfig{
			Filename:   c.Log.File.Filename,
			MaxSize:    c.Log.File.MaxSize,
			MaxDays:    c.Log.File.MaxDays,
			MaxBackups: c.Log.File.MaxBackups,
		},
	}
}

// EnforceEnv overrides c with GREATERS_* environment variables,
// e.g. GREATERS_LOG_LEVEL or GREATERS_FUNCTION_GREATEST_DATA_CAPACITY.
func EnforceEnv(c *Config) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if v.IsSet("log.level") {
		c.Log.Level = v.GetString("log.level")
	}
	if v.IsSet("log.format") {
		c.Log.Format = v.GetString("log.format")
	}
	if v.IsSet("log.file.filename") {
		c.Log.File.Filename = v.GetString("log.file.filename")
	}
	if v.IsSet("function.greatest.data-capacity") {
		capacity, err := cast.ToIntE(v.Get("function.greatest.data-capacity"))
		if err != nil {
			log.Warn("ignore invalid data capacity from environment", zap.Error(err))
		} else {
			c.Function.Greatest.DataCapacity = capacity
		}
	}
}

type ErrUndecodedConfig struct {
	ConfigFile string
	Undecoded  []string
}

func (e *ErrUndecodedConfig) Error() string {
	return fmt.Sprintf("config file %s contains invalid configuration options: %s", e.ConfigFile, strings.Join(e.Undecoded, ","))
}
