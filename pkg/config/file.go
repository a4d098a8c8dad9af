package config

import (
	"strings"
	"text/template"
)

// newConfigFile returns the YAML config file contents for the given config.
func newConfigFile(cfg *Config) string {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	var b strings.Builder
	if err := configFileTmpl.Execute(&b, cfg); err != nil {
		return ""
	}

	return b.String()
}

var configFileTmpl = template.Must(template.New("config").Parse(`# GitScope configuration.

# The name of this GitScope instance.
name: "{{ .Name }}"

# The remote forge to mirror commits from.
forge:
  # The forge type. Valid values are "github" and "gitlab".
  type: "{{ .Forge.Type }}"

  # The base URL of the forge API.
  # Leave empty to use the forge's public endpoint.
  base_url: "{{ .Forge.BaseURL }}"

  # The access token used to authenticate against the forge.
  token: "{{ .Forge.Token }}"

# The stats server configuration.
stats:
  # The address on which the stats server will listen.
  listen_addr: "{{ .Stats.ListenAddr }}"

# The database configuration.
db:
  # The database driver to use.
  # Valid values are "sqlite" and "postgres".
  driver: "{{ .DB.Driver }}"

  # The database data source name.
  data_source: "{{ .DB.DataSource }}"

# Logging configuration.
log:
  # Log format to use. Valid values are "json", "logfmt", and "text".
  format: "{{ .Log.Format }}"

  # Time format for the log "timestamp" field.
  # Should be described in Golang's time format.
  time_format: "{{ .Log.TimeFormat }}"

# Cron job configuration.
jobs:
  # The schedule of the commit synchronization job.
  sync: "{{ .Jobs.Sync }}"

# Commit synchronization configuration.
sync:
  # Glob patterns of repository names to skip.
  exclude: [{{ range $i, $e := .Sync.Exclude }}{{ if $i }}, {{ end }}"{{ $e }}"{{ end }}]
`))
