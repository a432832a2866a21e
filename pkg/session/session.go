// Package session holds the per-connection parameters that change how
// query text is lexed and parsed: the backend server version, the server
// encoding, and the string-literal escaping mode.
//
// A proxy learns these from ParameterStatus messages at connection setup,
// long before any statement is parsed. The store is an explicit object
// injected into the parse driver rather than process-global state, so
// independent sessions (and tests) can carry different configurations
// concurrently.
package session

import (
	"strconv"
	"strings"
	"sync"

	"github.com/relaystack/pgparse/pkg/encoding"
)

// VersionUnknown is stored when a server_version value cannot be parsed.
// The version is advisory metadata, so an unparseable value is recorded
// rather than reported as an error.
const VersionUnknown = -1

// Parameter names recognized by SetParameter. Unrecognized names are
// ignored so that newer servers can advertise parameters this parser has
// never heard of.
const (
	ParamServerVersion             = "server_version"
	ParamServerEncoding            = "server_encoding"
	ParamStandardConformingStrings = "standard_conforming_strings"
)

// Settings is an immutable snapshot of the session configuration, taken
// once at the start of a parse. A SetParameter issued while a parse is in
// flight affects the next parse, never the current one.
type Settings struct {
	VersionNum                int
	Encoding                  encoding.Encoding
	StandardConformingStrings bool
}

// Config is the mutable session configuration store. Reads and writes are
// guarded by an RWMutex: many parses may snapshot concurrently while the
// rare parameter update (connection setup, not per statement) is applied.
type Config struct {
	mu sync.RWMutex

	versionNum                int
	enc                       encoding.Encoding
	standardConformingStrings bool
}

// New returns a Config with defaults: version unset (0), single-byte
// encoding, standard_conforming_strings off.
func New() *Config {
	return &Config{}
}

// SetParameter applies a session parameter update.
//
// Recognized names are server_version, server_encoding, and
// standard_conforming_strings; anything else is silently ignored.
// Malformed values never produce an error: an unparseable version is
// stored as VersionUnknown, an unknown encoding falls back to the
// single-byte encoding, and any boolean value other than "on" is false.
func (c *Config) SetParameter(name, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch name {
	case ParamServerVersion:
		c.versionNum = parseVersion(value)
	case ParamServerEncoding:
		c.enc = encoding.Parse(value)
	case ParamStandardConformingStrings:
		c.standardConformingStrings = value == "on"
	}
}

// Snapshot returns the current settings as an immutable value.
func (c *Config) Snapshot() Settings {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Settings{
		VersionNum:                c.versionNum,
		Encoding:                  c.enc,
		StandardConformingStrings: c.standardConformingStrings,
	}
}

// VersionNum returns the numeric server version, 0 if never set, or
// VersionUnknown if the last value could not be parsed.
func (c *Config) VersionNum() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.versionNum
}

// Encoding returns the current server encoding.
func (c *Config) Encoding() encoding.Encoding {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.enc
}

// StandardConformingStrings reports whether backslashes in ordinary
// string literals are treated literally.
func (c *Config) StandardConformingStrings() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.standardConformingStrings
}

// parseVersion converts "major.minor[.revision]" to
// (100*major + minor)*100 + revision. Fewer than two components yields
// VersionUnknown; a missing revision defaults to 0.
//
// Trailing non-numeric suffixes on a component are tolerated, as version
// strings like "9.4beta1" appear in the wild.
func parseVersion(versionString string) int {
	parts := strings.SplitN(versionString, ".", 3)
	if len(parts) < 2 {
		return VersionUnknown
	}

	major, ok := leadingInt(parts[0])
	if !ok {
		return VersionUnknown
	}
	minor, ok := leadingInt(parts[1])
	if !ok {
		return VersionUnknown
	}

	revision := 0
	if len(parts) == 3 {
		if rev, ok := leadingInt(parts[2]); ok {
			revision = rev
		}
	}

	return (100*major+minor)*100 + revision
}

// leadingInt parses the leading decimal digits of s, mirroring sscanf's
// %d behavior of stopping at the first non-digit.
func leadingInt(s string) (int, bool) {
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}
