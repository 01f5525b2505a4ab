// Package config resolves database connection settings from the environment.
package config

import (
	"strings"

	"github.com/joho/godotenv"
)

// Load reads an optional .env file into the process environment and resolves
// the connection settings from it.
func Load() (ConnectionConfig, error) {
	LoadDotEnv()
	return Resolve(OSEnv)
}

// LoadDotEnv loads .env into the process environment if the file exists.
// Variables that are already set are left alone.
func LoadDotEnv() {
	_ = godotenv.Load()
}

// Runtime holds process settings that are not part of the connection itself.
type Runtime struct {
	LogLevel        string
	LogFormat       string
	HTTPAddr        string
	ServiceName     string
	TracesExporter  string
	MetricsExporter string
	OTLPProtocol    string
}

// Exporter names accepted by OTEL_TRACES_EXPORTER and OTEL_METRICS_EXPORTER.
const (
	ExporterNone   = "none"
	ExporterStdout = "stdout"
	ExporterOTLP   = "otlp"
)

// OTLP protocols accepted by OTEL_EXPORTER_OTLP_PROTOCOL.
const (
	ProtocolGRPC = "grpc"
	ProtocolHTTP = "http/protobuf"
)

// LoadRuntime reads runtime settings from env. Unknown or malformed values
// fall back to their defaults instead of failing.
func LoadRuntime(env Env) Runtime {
	rt := Runtime{
		LogLevel:        "info",
		LogFormat:       "console",
		HTTPAddr:        ":8080",
		ServiceName:     "pgconnect",
		TracesExporter:  ExporterNone,
		MetricsExporter: ExporterNone,
		OTLPProtocol:    ProtocolGRPC,
	}

	if v := get(env, "LOG_LEVEL"); v != "" {
		rt.LogLevel = strings.ToLower(v)
	}
	if v := strings.ToLower(get(env, "LOG_FORMAT")); v == "json" || v == "console" {
		rt.LogFormat = v
	}
	if v := get(env, "HTTP_ADDR"); v != "" {
		rt.HTTPAddr = v
	}
	if v := get(env, "OTEL_SERVICE_NAME"); v != "" {
		rt.ServiceName = v
	}
	if v := exporter(get(env, "OTEL_TRACES_EXPORTER")); v != "" {
		rt.TracesExporter = v
	}
	if v := exporter(get(env, "OTEL_METRICS_EXPORTER")); v != "" {
		rt.MetricsExporter = v
	}
	switch v := strings.ToLower(get(env, "OTEL_EXPORTER_OTLP_PROTOCOL")); v {
	case ProtocolGRPC, ProtocolHTTP:
		rt.OTLPProtocol = v
	}

	return rt
}

func get(env Env, key string) string {
	v, _ := env.Lookup(key)
	return strings.TrimSpace(v)
}

func exporter(v string) string {
	switch v = strings.ToLower(v); v {
	case ExporterNone, ExporterStdout, ExporterOTLP:
		return v
	default:
		return ""
	}
}
