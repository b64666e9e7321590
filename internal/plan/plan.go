// Package plan turns a pair of resolved locations into the argument list
// for a single scp invocation.
package plan

import (
	"errors"
	"fmt"
	"strconv"

	"sshportal/internal/config"
	"sshportal/internal/resolve"
)

var (
	ErrNoRemoteEndpoint      = errors.New("no remote endpoint in transfer")
	ErrConflictingPorts      = errors.New("remote endpoints use different ports")
	ErrConflictingIdentities = errors.New("remote endpoints use different identity files")
)

// TransferPlan is the ordered scp argument list for one transfer, plus
// the metadata the caller needs for logging.
type TransferPlan struct {
	Args         []string
	UsesPortFlag bool
	Recursive    bool
}

// Plan validates the src/dst pairing and builds the invocation arguments.
// Flags come first (port, identity, recursive), then source, then
// destination, so the output is stable for a given input.
//
// The port flag is emitted at most once and omitted entirely when the
// effective port is the default 22. Two remote endpoints must agree on
// port and identity file; a single scp run cannot address two of either.
func Plan(src, dst resolve.Location, recursive bool) (TransferPlan, error) {
	if !src.IsRemote() && !dst.IsRemote() {
		return TransferPlan{}, fmt.Errorf("%w: %q -> %q", ErrNoRemoteEndpoint, src.Path, dst.Path)
	}

	port, err := effectivePort(src, dst)
	if err != nil {
		return TransferPlan{}, err
	}
	keyPath, err := effectiveKey(src, dst)
	if err != nil {
		return TransferPlan{}, err
	}

	p := TransferPlan{Recursive: recursive}
	if port != config.DefaultPort {
		p.UsesPortFlag = true
		p.Args = append(p.Args, "-P", strconv.Itoa(int(port)))
	}
	if keyPath != "" {
		p.Args = append(p.Args, "-i", keyPath)
	}
	if recursive {
		p.Args = append(p.Args, "-r")
	}
	p.Args = append(p.Args, src.Target(), dst.Target())
	return p, nil
}

func effectivePort(src, dst resolve.Location) (uint16, error) {
	switch {
	case src.IsRemote() && dst.IsRemote():
		if src.Host.EffectivePort() != dst.Host.EffectivePort() {
			return 0, fmt.Errorf("%w: %d vs %d", ErrConflictingPorts, src.Host.EffectivePort(), dst.Host.EffectivePort())
		}
		return src.Host.EffectivePort(), nil
	case src.IsRemote():
		return src.Host.EffectivePort(), nil
	default:
		return dst.Host.EffectivePort(), nil
	}
}

func effectiveKey(src, dst resolve.Location) (string, error) {
	var srcKey, dstKey string
	if src.IsRemote() {
		srcKey = src.Host.KeyPath
	}
	if dst.IsRemote() {
		dstKey = dst.Host.KeyPath
	}
	if srcKey != "" && dstKey != "" && srcKey != dstKey {
		return "", fmt.Errorf("%w: %q vs %q", ErrConflictingIdentities, srcKey, dstKey)
	}
	if srcKey != "" {
		return srcKey, nil
	}
	return dstKey, nil
}
