// Package resolve classifies raw copy specifiers into concrete locations.
//
// A specifier is one of four shapes, tried in order: "host:path" against a
// configured host, "user@host:path" as an ad-hoc connection, a bare path
// alias, or a literal local path. The first matching shape wins, so a
// configured alias always shadows a literal path of the same name.
package resolve

import (
	"errors"
	"fmt"
	"strings"

	"sshportal/internal/config"
)

var (
	ErrUnknownHost          = errors.New("unknown host")
	ErrUnknownPathAlias     = errors.New("unknown path alias")
	ErrAmbiguousRemoteAlias = errors.New("remote path alias requires a host qualifier")
	ErrInvalidConnection    = errors.New("invalid connection string")
)

// Location is a resolved transfer endpoint. Host is nil for local paths;
// a remote location always carries the fully resolved host record, never
// an alias name. Alias records which configured alias the host came from,
// so the other side of a copy can reuse it as lookup scope; it stays
// empty for ad-hoc user@host connections.
type Location struct {
	Host  *config.Host
	Path  string
	Alias string
}

func (l Location) IsRemote() bool {
	return l.Host != nil
}

// Target renders the location the way the copy command line expects it:
// connection:path for remote endpoints, the bare path otherwise.
func (l Location) Target() string {
	if l.Host != nil {
		return l.Host.Connection + ":" + l.Path
	}
	return l.Path
}

// Resolve classifies spec against the alias store. hostContext names a
// host whose path scope is consulted for bare aliases; the copy command
// passes the source's host when resolving the destination, so a bare
// alias on the destination side can name a path scoped to the source's
// host. The lookup for the first argument never sees the second, so the
// scope flows in one direction only.
//
// Resolution is pure: the same spec against the same store always yields
// the same location.
func Resolve(cfg *config.Config, spec, hostContext string) (Location, error) {
	if prefix, rest, ok := strings.Cut(spec, ":"); ok {
		return resolveQualified(cfg, prefix, rest)
	}
	return resolveBare(cfg, spec, hostContext)
}

func resolveQualified(cfg *config.Config, prefix, rest string) (Location, error) {
	if host, ok := cfg.LookupHost(prefix); ok {
		path := rest
		if entry, ok := cfg.LookupPath(rest, prefix); ok {
			path = entry.Path
		}
		return Location{Host: &host, Path: path, Alias: prefix}, nil
	}

	if strings.Contains(prefix, "@") {
		if !IsValidConnection(prefix) {
			return Location{}, fmt.Errorf("%w: %q", ErrInvalidConnection, prefix)
		}
		// Ad-hoc connection: no configured scope, so rest is always a
		// literal remote path.
		host := config.Host{Connection: prefix, Port: config.DefaultPort}
		return Location{Host: &host, Path: rest}, nil
	}

	return Location{}, fmt.Errorf("%w: %q", ErrUnknownHost, prefix)
}

func resolveBare(cfg *config.Config, spec, hostContext string) (Location, error) {
	if hostContext != "" {
		if host, ok := cfg.LookupHost(hostContext); ok {
			if entry, ok := cfg.LookupPath(spec, hostContext); ok && entry.Remote {
				return Location{Host: &host, Path: entry.Path, Alias: hostContext}, nil
			}
		}
	}

	if entry, ok := cfg.LookupPath(spec, ""); ok {
		if entry.Remote {
			return Location{}, fmt.Errorf("%w: %q", ErrAmbiguousRemoteAlias, spec)
		}
		return Location{Path: config.ExpandPath(entry.Path)}, nil
	}

	// Not an alias: a literal local path. Never an error.
	return Location{Path: config.ExpandPath(spec)}, nil
}
