// Package config provides configuration structures and loading for gffarchive.
package config

// Config represents the complete application configuration.
type Config struct {
	Jobs    map[string]JobConfig `yaml:"jobs" mapstructure:"jobs"`
	Store   StoreConfig          `yaml:"store" mapstructure:"store"`
	Logging LoggingConfig        `yaml:"logging" mapstructure:"logging"`
}

// JobConfig describes one ingestion job: an input file and the knobs
// gffutils' create_db exposes for id synthesis, collision handling and
// dialect control.
type JobConfig struct {
	Data              string    `yaml:"data" mapstructure:"data"`
	Dbfn              string    `yaml:"dbfn" mapstructure:"dbfn"`
	Force             bool      `yaml:"force" mapstructure:"force"`
	Verbose           bool      `yaml:"verbose" mapstructure:"verbose"`
	Checklines        int       `yaml:"checklines" mapstructure:"checklines"`
	IDSpecKey         string    `yaml:"id_spec" mapstructure:"id_spec"`
	MergeStrategy     string    `yaml:"merge_strategy" mapstructure:"merge_strategy"` // error, warning, merge, replace, create_unique
	ForceGFF          bool      `yaml:"force_gff" mapstructure:"force_gff"`
	ForceDialectCheck bool      `yaml:"force_dialect_check" mapstructure:"force_dialect_check"`
	FromString        bool      `yaml:"from_string" mapstructure:"from_string"`
	GTF               GTFConfig `yaml:"gtf" mapstructure:"gtf"`
	Transform         string    `yaml:"transform" mapstructure:"transform"` // name of a registered attribute transform, applied to every feature before storage
}

// GTFConfig holds the knobs specific to GTF ingestion's implicit
// gene/transcript hierarchy and second-pass extent inference.
type GTFConfig struct {
	DisableInferExtents bool   `yaml:"disable_infer_extents" mapstructure:"disable_infer_extents"`
	TranscriptKey       string `yaml:"transcript_key" mapstructure:"transcript_key"` // attribute holding the transcript id, default "transcript_id"
	GeneKey             string `yaml:"gene_key" mapstructure:"gene_key"`             // attribute holding the gene id, default "gene_id"
	Subfeature          string `yaml:"subfeature" mapstructure:"subfeature"`         // featuretype aggregated into synthesised transcript/gene extents, default "exon"
}

// Defaults for the GTF knobs above, applied wherever the config leaves
// them blank. Mirrors create_db's transcript_key="transcript_id",
// gene_key="gene_id", subfeature="exon" keyword defaults.
const (
	DefaultGTFTranscriptKey = "transcript_id"
	DefaultGTFGeneKey       = "gene_id"
	DefaultGTFSubfeature    = "exon"
)

// TranscriptKeyOrDefault returns g.TranscriptKey, or the default if unset.
func (g GTFConfig) TranscriptKeyOrDefault() string {
	if g.TranscriptKey == "" {
		return DefaultGTFTranscriptKey
	}
	return g.TranscriptKey
}

// GeneKeyOrDefault returns g.GeneKey, or the default if unset.
func (g GTFConfig) GeneKeyOrDefault() string {
	if g.GeneKey == "" {
		return DefaultGTFGeneKey
	}
	return g.GeneKey
}

// SubfeatureOrDefault returns g.Subfeature, or the default if unset.
func (g GTFConfig) SubfeatureOrDefault() string {
	if g.Subfeature == "" {
		return DefaultGTFSubfeature
	}
	return g.Subfeature
}

// StoreConfig controls the embedded SQLite backing store.
type StoreConfig struct {
	JournalMode string `yaml:"journal_mode" mapstructure:"journal_mode"` // WAL during bulk load, restored after
}

// LoggingConfig represents logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`   // debug, info, warn, error
	Format string `yaml:"format" mapstructure:"format"` // json or text
	Output string `yaml:"output" mapstructure:"output"` // stdout, stderr, or file path
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() *Config {
	return &Config{
		Store: StoreConfig{
			JournalMode: "WAL",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stdout",
		},
	}
}

// GetJob retrieves a specific job configuration by name.
func (c *Config) GetJob(name string) (*JobConfig, error) {
	job, exists := c.Jobs[name]
	if !exists {
		return nil, &jobNotFoundError{name: name}
	}
	return &job, nil
}

// ListJobs returns all job names defined in the configuration.
func (c *Config) ListJobs() []string {
	jobs := make([]string, 0, len(c.Jobs))
	for name := range c.Jobs {
		jobs = append(jobs, name)
	}
	return jobs
}

type jobNotFoundError struct{ name string }

func (e *jobNotFoundError) Error() string {
	return "job " + e.name + " not found in configuration"
}
