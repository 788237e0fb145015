//
// Copyright (c) 2025-2026 Markku Rossi
//
// All rights reserved.
//

// Package env implements global environment for the MPC network.
package env

import (
	"crypto/rand"
	"io"
	"log"
	"os"
)

// Config defines the global system configuration for the MPC
// network. It configures system operation for all modules. Config
// must not be modified after being passed to any module. It is safe
// for concurrent use by multiple modules as they do not modify it.
type Config struct {
	// Rand specifies the source of entropy. If unset, crypto/rand is
	// used.
	Rand io.Reader

	// Verbose enables progress logging.
	Verbose bool

	// Debug enables protocol level debug logging.
	Debug bool

	// Logger receives log output. If unset, the standard logger
	// writing to stderr is used.
	Logger *log.Logger
}

// GetRandom returns the source of entropy for secret sharing, OT, and
// other cryptography operations.
func (config *Config) GetRandom() io.Reader {
	if config != nil && config.Rand != nil {
		return config.Rand
	}
	return rand.Reader
}

// GetLogger returns the logger for the configuration.
func (config *Config) GetLogger() *log.Logger {
	if config != nil && config.Logger != nil {
		return config.Logger
	}
	return defaultLogger
}

var defaultLogger = log.New(os.Stderr, "", log.LstdFlags)

// Logf logs a message if verbose logging is enabled.
func (config *Config) Logf(format string, a ...interface{}) {
	if config == nil || !config.Verbose {
		return
	}
	config.GetLogger().Printf(format, a...)
}

// Debugf logs a debug message if debug logging is enabled.
func (config *Config) Debugf(format string, a ...interface{}) {
	if config == nil || !config.Debug {
		return
	}
	config.GetLogger().Printf(format, a...)
}
