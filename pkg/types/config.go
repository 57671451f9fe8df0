// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// ConversionBackend identifies the PDF conversion engine.
type ConversionBackend string

const (
	// BackendNative extracts the PDF text layer in-process.
	BackendNative ConversionBackend = "native"
	// BackendMarkitdown pipes the PDF through the markitdown container image.
	BackendMarkitdown ConversionBackend = "markitdown"
)

// S3Config holds settings for uploading output to S3-compatible storage.
type S3Config struct {
	// Region is the AWS region (e.g. "us-east-1").
	Region string `json:"region" yaml:"region"`

	// Endpoint overrides the S3 endpoint, for MinIO and similar services.
	// Path-style addressing is used whenever it is set.
	Endpoint string `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`

	// AccessKeyID and SecretAccessKey select static credentials. When either
	// is empty the default AWS credential chain is used.
	AccessKeyID     string `json:"access_key_id,omitempty" yaml:"access_key_id,omitempty"`
	SecretAccessKey string `json:"secret_access_key,omitempty" yaml:"secret_access_key,omitempty"`
}

// HistoryConfig controls the optional run ledger.
type HistoryConfig struct {
	// Enabled turns on recording of every conversion run.
	Enabled bool `json:"enabled" yaml:"enabled"`

	// Path is the sqlite database file (default ~/.local/state/pdf2yaml/history.db).
	Path string `json:"path" yaml:"path"`
}

// Config groups everything read from the config file and environment.
type Config struct {
	Backend     ConversionBackend `json:"backend" yaml:"backend"`
	TableHeader string            `json:"table_header" yaml:"table_header"`
	S3          S3Config          `json:"s3" yaml:"s3"`
	History     HistoryConfig     `json:"history" yaml:"history"`
}
