// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package config loads the bridge configuration.
//
// Configuration comes from a YAML file, then NOVABRIDGE_* environment
// variables, then command line flags (applied by the caller). A missing
// file is not an error; the defaults describe a local file source.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/unswdb/NovaGraph-v2-sub000/services/bridge/engine"
	"github.com/unswdb/NovaGraph-v2-sub000/services/bridge/source/badgersource"
	"github.com/unswdb/NovaGraph-v2-sub000/services/bridge/source/neo4jsource"
	"github.com/unswdb/NovaGraph-v2-sub000/services/bridge/source/pgsource"
	"github.com/unswdb/NovaGraph-v2-sub000/services/bridge/telemetry"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "NOVABRIDGE_"

// Source kinds.
const (
	SourceFile     = "file"
	SourceNeo4j    = "neo4j"
	SourcePostgres = "postgres"
	SourceBadger   = "badger"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the complete bridge configuration.
type Config struct {
	Log       LogConfig        `yaml:"log"`
	Engine    EngineConfig     `yaml:"engine"`
	Source    SourceConfig     `yaml:"source"`
	Server    ServerConfig     `yaml:"server"`
	Telemetry telemetry.Config `yaml:"telemetry"`
}

// LogConfig configures pkg/logging.
type LogConfig struct {
	Level string `yaml:"level" validate:"omitempty,oneof=debug info warn warning error"`
	JSON  bool   `yaml:"json"`

	// Dir, when set, also writes a log file there.
	Dir string `yaml:"dir"`
}

// EngineConfig bounds engine use.
type EngineConfig struct {
	// Timeout bounds one invocation. Negative disables the bound.
	Timeout time.Duration `yaml:"timeout"`

	// MaxVertices lowers the marshalled graph's vertex ceiling. Zero keeps
	// the engine's own limit.
	MaxVertices int64 `yaml:"max_vertices" validate:"gte=0"`

	PageRankTolerance float64 `yaml:"pagerank_tolerance" validate:"gte=0"`
}

// SourceConfig selects and configures the snapshot source. Only the
// section named by Kind is used.
type SourceConfig struct {
	Kind string `yaml:"kind" validate:"required,oneof=file neo4j postgres badger"`

	// File is the snapshot file path for the file source.
	File string `yaml:"file"`

	// Watch keeps the decoded file until it changes on disk.
	Watch bool `yaml:"watch"`

	// CacheTTL reuses a database snapshot for this long. Concurrent
	// fetches are always coalesced.
	CacheTTL time.Duration `yaml:"cache_ttl" validate:"gte=0"`

	Neo4j    neo4jsource.Config  `yaml:"neo4j" validate:"-"`
	Postgres pgsource.Config     `yaml:"postgres" validate:"-"`
	Badger   badgersource.Config `yaml:"badger" validate:"-"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Addr string `yaml:"addr" validate:"required"`

	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	return Config{
		Log: LogConfig{Level: "info"},
		Engine: EngineConfig{
			Timeout: engine.DefaultTimeout,
		},
		Source: SourceConfig{
			Kind:   SourceFile,
			File:   "graph.yaml",
			Badger: badgersource.DefaultConfig(filepath.Join(".novabridge", "snapshots")),
			Neo4j: neo4jsource.Config{
				URI:      "neo4j://localhost:7687",
				Username: "neo4j",
			},
		},
		Server: ServerConfig{
			Addr:            ":12230",
			ShutdownTimeout: 10 * time.Second,
		},
		Telemetry: telemetry.DefaultConfig(),
	}
}

// Load reads path over the defaults, applies environment overrides and
// validates the result.
//
// Outputs:
//
//	Config - The merged configuration.
//	error - Read, parse or ErrInvalidConfig failures. A missing file at
//	  path is not an error.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Save writes cfg to path as YAML, creating the directory.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// ApplyEnv overrides fields from the environment. lookup is normally
// os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(name string, dst *string) {
		if v, ok := lookup(EnvPrefix + name); ok {
			*dst = v
		}
	}
	str("LOG_LEVEL", &c.Log.Level)
	str("LOG_DIR", &c.Log.Dir)
	str("SOURCE_KIND", &c.Source.Kind)
	str("SOURCE_FILE", &c.Source.File)
	str("NEO4J_URI", &c.Source.Neo4j.URI)
	str("NEO4J_USERNAME", &c.Source.Neo4j.Username)
	str("NEO4J_PASSWORD", &c.Source.Neo4j.Password)
	str("NEO4J_DATABASE", &c.Source.Neo4j.Database)
	str("POSTGRES_DSN", &c.Source.Postgres.DSN)
	str("BADGER_PATH", &c.Source.Badger.Path)
	str("SERVER_ADDR", &c.Server.Addr)
	str("TRACE_EXPORTER", &c.Telemetry.TraceExporter)
	str("METRIC_EXPORTER", &c.Telemetry.MetricExporter)
	str("OTLP_ENDPOINT", &c.Telemetry.OTLPEndpoint)

	if v, ok := lookup(EnvPrefix + "LOG_JSON"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: %sLOG_JSON: %v", ErrInvalidConfig, EnvPrefix, err)
		}
		c.Log.JSON = b
	}
	if v, ok := lookup(EnvPrefix + "ENGINE_TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%w: %sENGINE_TIMEOUT: %v", ErrInvalidConfig, EnvPrefix, err)
		}
		c.Engine.Timeout = d
	}
	if v, ok := lookup(EnvPrefix + "CACHE_TTL"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%w: %sCACHE_TTL: %v", ErrInvalidConfig, EnvPrefix, err)
		}
		c.Source.CacheTTL = d
	}
	if v, ok := lookup(EnvPrefix + "MAX_VERTICES"); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: %sMAX_VERTICES: %v", ErrInvalidConfig, EnvPrefix, err)
		}
		c.Engine.MaxVertices = n
	}
	return nil
}

var validate = validator.New()

// Validate checks the configuration, including the selected source
// section.
func (c *Config) Validate() error {
	var problems []string
	collect := func(err error) {
		if err == nil {
			return
		}
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			problems = append(problems, err.Error())
			return
		}
		for _, fe := range verrs {
			problems = append(problems, fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag()))
		}
	}

	collect(validate.Struct(c))
	switch c.Source.Kind {
	case SourceFile:
		if c.Source.File == "" {
			problems = append(problems, "source.file is required for the file source")
		}
	case SourceNeo4j:
		collect(validate.Struct(c.Source.Neo4j))
	case SourcePostgres:
		collect(validate.Struct(c.Source.Postgres))
	case SourceBadger:
		if c.Source.Badger.Path == "" && !c.Source.Badger.InMemory {
			problems = append(problems, "source.badger.path is required for the badger source")
		}
		collect(validate.Struct(c.Source.Badger))
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}
