// SPDX-License-Identifier: MPL-2.0

package sandbox

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"matrixrun/pkg/matrixfile"
)

// stampFileName marks a fully provisioned sandbox and records the cache
// key it was built for. A missing or stale stamp forces a rebuild.
const stampFileName = ".matrixrun-stamp"

// Provisioner materializes sandboxes for environment specs, caching
// them under CacheRoot keyed by a content hash of (runtime identity,
// sorted dependency set).
type Provisioner struct {
	// CacheRoot is the directory holding all sandboxes.
	CacheRoot string
	// Recreate forces fresh sandboxes, ignoring cached ones.
	Recreate bool
	// Installer is the dependency-installation collaborator. When nil,
	// a PipInstaller is used.
	Installer Installer
	// LookPath resolves runtime selectors to binary paths. When nil,
	// exec.LookPath is used. Tests inject fakes here.
	LookPath func(name string) (string, error)
	// Logger receives provisioning debug logging. When nil, the
	// package default logger is used.
	Logger *log.Logger

	locks keyedLocks
}

// NewProvisioner creates a Provisioner with the default pip installer.
func NewProvisioner(cacheRoot string) *Provisioner {
	return &Provisioner{CacheRoot: cacheRoot, Installer: &PipInstaller{}}
}

// Provision resolves the spec's runtime, then creates or reuses the
// sandbox for its cache key and installs the declared dependencies.
//
// A runtime selector that resolves to no installed binary returns a
// *RuntimeNotFoundError; the caller maps it to a skip or an error per
// the spec's skip flag. Installer failures return *InstallError.
// Provisioning is idempotent: an unchanged spec reuses its sandbox
// without re-invoking the installer.
func (p *Provisioner) Provision(ctx context.Context, spec *matrixfile.EnvironmentSpec) (*Sandbox, error) {
	logger := p.Logger
	if logger == nil {
		logger = log.Default()
	}
	installer := p.Installer
	if installer == nil {
		installer = &PipInstaller{}
	}

	runtimePath, err := p.resolveRuntime(spec)
	if err != nil {
		return nil, err
	}

	key := CacheKey(spec.Runtime, runtimePath, spec.Deps)
	dir := filepath.Join(p.CacheRoot, spec.Name+"-"+keyTag(key))

	// Serialize all filesystem work per cache key so concurrent
	// workers sharing a key cannot corrupt the cache entry.
	lock := p.locks.get(key)
	lock.Lock()
	defer lock.Unlock()

	sb := &Sandbox{
		Name:        spec.Name,
		Dir:         dir,
		BinDir:      filepath.Join(dir, "bin"),
		LibDir:      filepath.Join(dir, "lib"),
		RuntimePath: runtimePath,
		Key:         key,
	}

	if !p.Recreate && p.stampMatches(dir, key) {
		logger.Debug("reusing cached sandbox", "env", spec.Name, "dir", dir)
		sb.Reused = true
		sb.EnvVars = p.sandboxEnv(installer, sb)
		return sb, nil
	}

	logger.Debug("provisioning sandbox", "env", spec.Name, "dir", dir, "deps", len(spec.Deps))

	if err := os.RemoveAll(dir); err != nil {
		return nil, fmt.Errorf("failed to clear sandbox dir %s: %w", dir, err)
	}
	for _, sub := range []string{sb.BinDir, sb.LibDir} {
		if err := os.MkdirAll(sub, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create sandbox dir %s: %w", sub, err)
		}
	}

	if err := installer.Install(ctx, sb, spec.Deps); err != nil {
		return nil, err
	}

	// The stamp is written last: a crash mid-provision leaves no stamp
	// and the next run rebuilds from scratch.
	stamp := filepath.Join(dir, stampFileName)
	if err := os.WriteFile(stamp, []byte(key+"\n"), 0o644); err != nil {
		return nil, fmt.Errorf("failed to write sandbox stamp: %w", err)
	}

	sb.EnvVars = p.sandboxEnv(installer, sb)
	return sb, nil
}

// resolveRuntime maps the spec's runtime selector to a binary path.
// An empty selector means the environment runs without a dedicated
// runtime.
func (p *Provisioner) resolveRuntime(spec *matrixfile.EnvironmentSpec) (string, error) {
	if spec.Runtime == "" {
		return "", nil
	}
	lookPath := p.LookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	path, err := lookPath(spec.Runtime)
	if err != nil {
		return "", &RuntimeNotFoundError{Env: spec.Name, Selector: spec.Runtime}
	}
	return path, nil
}

// stampMatches reports whether dir holds a completed sandbox built for
// the same cache key.
func (p *Provisioner) stampMatches(dir, key string) bool {
	content, err := os.ReadFile(filepath.Join(dir, stampFileName))
	if err != nil {
		return false
	}
	return strings.TrimSpace(string(content)) == key
}

// sandboxEnv assembles the sandbox's env contributions from the
// installer plus the orchestrator's own identification variables.
func (p *Provisioner) sandboxEnv(installer Installer, sb *Sandbox) map[string]string {
	env := map[string]string{
		"MATRIXRUN_ENV":     sb.Name,
		"MATRIXRUN_SANDBOX": sb.Dir,
	}
	for k, v := range installer.Env(sb) {
		env[k] = v
	}
	return env
}
