// Package config provides configuration loading for the pgparse CLI.
// Values are layered from defaults, an optional pgparse.yaml file,
// PGPARSE_* environment variables, and command-line flags.
package config

import (
	"github.com/relaystack/pgparse/pkg/session"
)

// Config holds all CLI configuration options.
type Config struct {
	ServerVersion             string `koanf:"server_version"`
	ServerEncoding            string `koanf:"server_encoding"`
	StandardConformingStrings bool   `koanf:"standard_conforming_strings"`
	Verbose                   bool   `koanf:"verbose"`
	Output                    string `koanf:"output"`

	// FileUsed is the path of the config file that was loaded, if any.
	FileUsed string `koanf:"-"`
}

// Default configuration values.
const (
	DefaultServerEncoding = "SQL_ASCII"
	DefaultOutput         = "table"
)

// Session builds a session configuration from the CLI options. The same
// parameter names a backend would report in ParameterStatus messages are
// applied here.
func (c *Config) Session() *session.Config {
	sess := session.New()
	if c.ServerVersion != "" {
		sess.SetParameter(session.ParamServerVersion, c.ServerVersion)
	}
	if c.ServerEncoding != "" {
		sess.SetParameter(session.ParamServerEncoding, c.ServerEncoding)
	}
	scs := "off"
	if c.StandardConformingStrings {
		scs = "on"
	}
	sess.SetParameter(session.ParamStandardConformingStrings, scs)
	return sess
}
