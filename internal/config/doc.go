// Package config provides configuration structures and utilities for pagelens.
// It defines the main configuration options for fetching pages, audit
// behavior, usage quotas, and report generation preferences.
package config
