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
	"go.uber.org/atomic"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// logger is the unit swapped by ReplaceGlobals, so readers never see a
// logger paired with the properties of another one.
type logger struct {
	l     *zap.Logger
	s     *zap.SugaredLogger
	props *ZapProperties
}

var global atomic.Pointer[logger]

func init() {
	l, props, err := InitLogger(&Config{Level: DefaultLevel, Format: FormatText})
	if err != nil {
		panic(err)
	}
	ReplaceGlobals(l, props)
}

// InitLogger builds a logger from cfg. Entries go to the rotated file when
// cfg.File names one and to stdout otherwise.
func InitLogger(cfg *Config, opts ...zap.Option) (*zap.Logger, *ZapProperties, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	output, err := cfg.File.writeSyncer()
	if err != nil {
		return nil, nil, err
	}
	return InitLoggerWithWriteSyncer(cfg, output, opts...)
}

// InitLoggerWithWriteSyncer builds a logger from cfg writing to output.
func InitLoggerWithWriteSyncer(cfg *Config, output zapcore.WriteSyncer, opts ...zap.Option) (*zap.Logger, *ZapProperties, error) {
	lvl, err := cfg.level()
	if err != nil {
		return nil, nil, err
	}
	level := zap.NewAtomicLevelAt(lvl)
	core := zapcore.NewCore(cfg.encoder(), output, level)
	lg := zap.New(core, append(cfg.options(output), opts...)...)
	return lg, &ZapProperties{Core: core, Syncer: output, Level: level}, nil
}

// L returns the global Logger. It's safe for concurrent use.
func L() *zap.Logger {
	return global.Load().l
}

// S returns the global SugaredLogger. It's safe for concurrent use.
func S() *zap.SugaredLogger {
	return global.Load().s
}

// ReplaceGlobals installs lg as the global logger.
// A nil props keeps the level handle of the current global logger.
func ReplaceGlobals(lg *zap.Logger, props *ZapProperties) {
	next := &logger{l: lg, s: lg.Sugar(), props: props}
	if props == nil {
		if cur := global.Load(); cur != nil {
			next.props = cur.props
		}
	}
	global.Store(next)
}

// SetLevel alters the logging level of the global logger.
func SetLevel(l zapcore.Level) {
	global.Load().props.Level.SetLevel(l)
}

// GetLevel gets the logging level of the global logger.
func GetLevel() zapcore.Level {
	return global.Load().props.Level.Level()
}

// Sync flushes any buffered log entries.
func Sync() error {
	return L().Sync()
}
