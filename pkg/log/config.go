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

package log

import (
	"os"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"

	"github.com/montaglue/greaters/pkg/util/merr"
)

const (
	defaultLogMaxSize = 300 // MB

	// DefaultLevel is used when no level is configured.
	DefaultLevel = "info"

	// FormatText encodes entries as human readable console lines.
	FormatText = "text"
	// FormatJSON encodes entries as json objects.
	FormatJSON = "json"
)

// FileLogConfig configures the rotated log file.
type FileLogConfig struct {
	// Log filename, leave empty to log to stdout.
	Filename string `toml:"filename" json:"filename"`
	// Max size for a single file, in MB.
	MaxSize int `toml:"max-size" json:"max-size"`
	// Max log keep days, default is never deleting.
	MaxDays int `toml:"max-days" json:"max-days"`
	// Maximum number of old log files to retain.
	MaxBackups int `toml:"max-backups" json:"max-backups"`
}

// Config is the logger part of the greaters configuration.
type Config struct {
	// One of debug, info, warn, error. Empty means DefaultLevel.
	Level string `toml:"level" json:"level"`
	// One of text or json. Empty means text.
	Format string `toml:"format" json:"format"`
	// Drop the time key from every entry.
	DisableTimestamp bool `toml:"disable-timestamp" json:"disable-timestamp"`
	// Rotated file output.
	File FileLogConfig `toml:"file" json:"file"`
	// Development makes DPanic panic and takes stacktraces at warn.
	Development bool `toml:"development" json:"development"`
	// DisableCaller drops the file:line annotation.
	DisableCaller bool `toml:"disable-caller" json:"disable-caller"`
}

// ZapProperties keeps what is needed to adjust a logger after it is built.
type ZapProperties struct {
	Core   zapcore.Core
	Syncer zapcore.WriteSyncer
	Level  zap.AtomicLevel
}

// Validate checks level, format and rotation settings without opening any sink.
func (cfg *Config) Validate() error {
	if _, err := cfg.level(); err != nil {
		return err
	}
	switch cfg.Format {
	case "", FormatText, FormatJSON:
	default:
		return merr.WrapErrParameterInvalidMsg("log: unknown format %q, expected %s or %s", cfg.Format, FormatText, FormatJSON)
	}
	if cfg.File.MaxSize < 0 || cfg.File.MaxDays < 0 || cfg.File.MaxBackups < 0 {
		return merr.WrapErrParameterInvalidMsg("log.file: rotation settings can not be negative")
	}
	return nil
}

func (cfg *Config) level() (zapcore.Level, error) {
	text := cfg.Level
	if text == "" {
		text = DefaultLevel
	}
	lvl, err := zapcore.ParseLevel(text)
	if err != nil {
		return lvl, merr.WrapErrParameterInvalidMsg("log: unknown level %q", cfg.Level)
	}
	return lvl, nil
}

func (cfg *Config) encoder() zapcore.Encoder {
	encCfg := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "name",
		CallerKey:      "caller",
		MessageKey:     "message",
		StacktraceKey:  "stack",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
	if cfg.DisableTimestamp {
		encCfg.TimeKey = ""
	}
	if cfg.Format == FormatJSON {
		return zapcore.NewJSONEncoder(encCfg)
	}
	return zapcore.NewConsoleEncoder(encCfg)
}

func (cfg *Config) options(errSink zapcore.WriteSyncer) []zap.Option {
	opts := []zap.Option{zap.ErrorOutput(errSink)}
	if cfg.Development {
		opts = append(opts, zap.Development())
	}
	if !cfg.DisableCaller {
		opts = append(opts, zap.AddCaller())
	}
	return opts
}

// writeSyncer opens the rotated log file, or stdout when no file is configured.
func (cfg FileLogConfig) writeSyncer() (zapcore.WriteSyncer, error) {
	if cfg.Filename == "" {
		return zapcore.Lock(os.Stdout), nil
	}
	if st, err := os.Stat(cfg.Filename); err == nil && st.IsDir() {
		return nil, errors.Newf("log file %s is a directory", cfg.Filename)
	}
	maxSize := cfg.MaxSize
	if maxSize == 0 {
		maxSize = defaultLogMaxSize
	}
	return zapcore.AddSync(&lumberjack.Logger{
		Filename:   cfg.Filename,
		MaxSize:    maxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxDays,
		LocalTime:  true,
	}), nil
}
