package config

import (
	"strings"
	"testing"
)

func validJob() JobConfig {
	return JobConfig{
		Data:          "genes.gff3",
		Dbfn:          "genes.db",
		MergeStrategy: "error",
	}
}

func TestValidConfig(t *testing.T) {
	cfg := &Config{
		Jobs: map[string]JobConfig{
			"ingest_genes": validJob(),
		},
		Logging: LoggingConfig{Level: "info", Format: "text"},
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("expected no validation errors, got: %v", err)
	}
}

func TestNoJobs(t *testing.T) {
	cfg := &Config{Jobs: map[string]JobConfig{}}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error for no jobs")
	}
	if !strings.Contains(err.Error(), "at least one job") {
		t.Errorf("expected error about jobs, got: %v", err)
	}
}

func TestJobMissingData(t *testing.T) {
	job := validJob()
	job.Data = ""

	cfg := &Config{Jobs: map[string]JobConfig{"ingest_genes": job}}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error for missing data")
	}
	if !strings.Contains(err.Error(), "jobs.ingest_genes.data") {
		t.Errorf("expected error about data, got: %v", err)
	}
}

func TestJobMissingDataAllowedWithFromString(t *testing.T) {
	job := validJob()
	job.Data = ""
	job.FromString = true

	cfg := &Config{Jobs: map[string]JobConfig{"ingest_genes": job}}

	if err := cfg.Validate(); err != nil {
		t.Errorf("expected no error when from_string substitutes for data, got: %v", err)
	}
}

func TestJobMissingDbfn(t *testing.T) {
	job := validJob()
	job.Dbfn = ""

	cfg := &Config{Jobs: map[string]JobConfig{"ingest_genes": job}}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error for missing dbfn")
	}
	if !strings.Contains(err.Error(), "jobs.ingest_genes.dbfn") {
		t.Errorf("expected error about dbfn, got: %v", err)
	}
}

func TestJobInvalidMergeStrategy(t *testing.T) {
	job := validJob()
	job.MergeStrategy = "clobber"

	cfg := &Config{Jobs: map[string]JobConfig{"ingest_genes": job}}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error for invalid merge_strategy")
	}
	if !strings.Contains(err.Error(), "merge_strategy") {
		t.Errorf("expected error about merge_strategy, got: %v", err)
	}
}

func TestJobNegativeChecklines(t *testing.T) {
	job := validJob()
	job.Checklines = -5

	cfg := &Config{Jobs: map[string]JobConfig{"ingest_genes": job}}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error for negative checklines")
	}
	if !strings.Contains(err.Error(), "checklines") {
		t.Errorf("expected error about checklines, got: %v", err)
	}
}

func TestInvalidLoggingLevel(t *testing.T) {
	cfg := &Config{
		Jobs:    map[string]JobConfig{"ingest_genes": validJob()},
		Logging: LoggingConfig{Level: "verbose"},
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error for invalid logging level")
	}
	if !strings.Contains(err.Error(), "logging.level") {
		t.Errorf("expected error about logging.level, got: %v", err)
	}
}

func TestInvalidLoggingFormat(t *testing.T) {
	cfg := &Config{
		Jobs:    map[string]JobConfig{"ingest_genes": validJob()},
		Logging: LoggingConfig{Format: "xml"},
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error for invalid logging format")
	}
	if !strings.Contains(err.Error(), "logging.format") {
		t.Errorf("expected error about logging.format, got: %v", err)
	}
}

func TestMultipleErrors(t *testing.T) {
	cfg := &Config{
		Jobs:    map[string]JobConfig{},
		Logging: LoggingConfig{Level: "loud", Format: "xml"},
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected multiple validation errors")
	}

	errStr := err.Error()
	if !strings.Contains(errStr, "at least one job") {
		t.Error("expected error about jobs")
	}
	if !strings.Contains(errStr, "logging.level") {
		t.Error("expected error about logging.level")
	}
	if !strings.Contains(errStr, "logging.format") {
		t.Error("expected error about logging.format")
	}
}
