package config

// Role is a policy bucket for domains. Attrs carries arbitrary
// role-specific attributes consumed only by downstream annotation plugins.
type Role struct {
	Domains []string          `yaml:"domains" json:"domains"`
	Attrs   map[string]string `yaml:"attrs,omitempty" json:"attrs,omitempty"`
}

// NetworkPolicy is the part of the configuration consumed by the network
// aggregate: names to drop after acquisition and the role table.
type NetworkPolicy struct {
	// Exclusions are domain names deleted from the model once acquisition
	// is complete.
	Exclusions []string `yaml:"exclusions" json:"exclusions"`
	// Roles maps role name to the domains it covers.
	Roles map[string]Role `yaml:"roles" json:"roles"`
}

// LocationsConfig maps a location label to the subnets it covers.
type LocationsConfig map[string][]string

// SnapshotConfig controls the on-disk model snapshot.
type SnapshotConfig struct {
	Path string `yaml:"path" json:"path"`
}

// DatabaseConfig points at the sqlite policy store.
type DatabaseConfig struct {
	Path string `yaml:"path" json:"path"`
}

// SecretsConfig points at the sealed plugin-credentials file and its key.
type SecretsConfig struct {
	Path    string `yaml:"path" json:"path"`
	KeyPath string `yaml:"key_path" json:"key_path"`
}

// PluginsConfig controls which plugins run and where file-based plugins
// read from.
type PluginsConfig struct {
	// Enabled is a whitelist of plugin names; ["*"] enables every
	// registered plugin.
	Enabled []string `yaml:"enabled" json:"enabled"`
	// ZoneDir is the directory the zonefile plugin scans.
	ZoneDir string `yaml:"zone_dir" json:"zone_dir"`
	// NATDumpPath is the firewall dump the natdump plugin scans.
	NATDumpPath string `yaml:"nat_dump_path" json:"nat_dump_path"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level            string            `yaml:"level" json:"level"`
	Structured       bool              `yaml:"structured" json:"structured"`
	StructuredFormat string            `yaml:"structured_format" json:"structured_format"`
	IncludePID       bool              `yaml:"include_pid" json:"include_pid"`
	ExtraFields      map[string]string `yaml:"extra_fields,omitempty" json:"extra_fields,omitempty"`
}

// APIConfig contains the read-only HTTP API settings.
type APIConfig struct {
	Enabled bool   `yaml:"enabled" json:"enabled"`
	Host    string `yaml:"host" json:"host"`
	Port    int    `yaml:"port" json:"port"`
	APIKey  string `yaml:"api_key,omitempty" json:"api_key,omitempty"`
}

// Config is the full run configuration.
type Config struct {
	Network   NetworkPolicy     `yaml:"network" json:"network"`
	Locations LocationsConfig   `yaml:"locations" json:"locations"`
	NAT       map[string]string `yaml:"nat" json:"nat"`
	Snapshot  SnapshotConfig    `yaml:"snapshot" json:"snapshot"`
	Database  DatabaseConfig    `yaml:"database" json:"database"`
	Secrets   SecretsConfig     `yaml:"secrets" json:"secrets"`
	Plugins   PluginsConfig     `yaml:"plugins" json:"plugins"`
	Logging   LoggingConfig     `yaml:"logging" json:"logging"`
	API       APIConfig         `yaml:"api" json:"api"`
}
