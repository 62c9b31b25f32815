package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// Version information (set via ldflags at build time)
var (
	Version = "0.0.1-dev"
	Commit  = "unknown"
)

// CLI flags that override config file values
var (
	cfgFile   string
	logLevel  string
	logFormat string
)

var rootCmd = &cobra.Command{
	Use:   "gffarchive",
	Short: "GFF3/GTF annotation ingestion and embedded store",
	Long: `gffarchive ingests GFF3 or GTF annotation files into an embedded
SQLite store, synthesising feature ids, resolving duplicate-id
collisions, and computing the two-level parent/child relation closure
feature hierarchies imply.

Features:
  - GFF3 and GTF dialect sniffing and percent-encoded attribute parsing
  - UCSC bin-indexed coordinate-range queries
  - Configurable id synthesis and duplicate collision policies
  - GTF transcript/gene extent inference from exon records
  - Canonical gene-subtree rendering back to GFF3/GTF text`,
	Version: Version,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "gffarchive.yaml",
		"Path to configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"Override log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "",
		"Override log format (json, text)")
}

// GetConfigFile returns the config file path
func GetConfigFile() string {
	return cfgFile
}

// applyLogOverrides applies CLI-level log flag overrides onto a loaded
// LoggingConfig, mirroring the teacher's CLI-override-over-file pattern.
func applyLogOverrides(level, format *string) {
	if logLevel != "" {
		*level = logLevel
	}
	if logFormat != "" {
		*format = logFormat
	}
}
