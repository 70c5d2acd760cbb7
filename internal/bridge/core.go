package bridge

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/danmuck/verbridge/internal/config"
	"github.com/danmuck/verbridge/internal/fix"
	"github.com/danmuck/verbridge/internal/observability"
	"github.com/danmuck/verbridge/internal/protocol/codec"
	"github.com/danmuck/verbridge/internal/protocol/schema"
	"github.com/danmuck/verbridge/internal/session"
	"github.com/danmuck/verbridge/internal/translate"
	"github.com/danmuck/verbridge/internal/version"
	"github.com/rs/zerolog/log"
)

type state uint8

const (
	stateNew state = iota
	stateReady
	stateFailed
)

// Options configures a Core.
type Options struct {
	Installers []Installer
	// Notifier receives per-packet notices of every session.
	Notifier session.Notifier
}

// Core is the process-wide bridge. Registration happens before Initialize;
// afterwards every registry is frozen and sessions may be opened from any goroutine.
type Core struct {
	versions   *version.Registry
	schemas    *schema.Table
	steps      *translate.Registry
	fixes      *fix.Registry
	codec      *codec.Codec
	installers *installers
	notifier   session.Notifier

	mu        sync.RWMutex
	state     state
	configDir string
	settings  config.Settings
	servers   *config.ServerStore
	sessions  map[string]*session.Context
}

func New(opts Options) (*Core, error) {
	versions := version.NewRegistry()
	schemas := schema.NewTable(versions)
	c := &Core{
		versions:   versions,
		schemas:    schemas,
		steps:      translate.NewRegistry(versions),
		fixes:      fix.NewRegistry(versions),
		codec:      codec.New(schemas),
		installers: newInstallers(),
		notifier:   opts.Notifier,
		sessions:   make(map[string]*session.Context),
	}
	for _, in := range opts.Installers {
		if err := c.installers.add(in); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Core) RegisterVersion(v version.Version) error {
	return c.versions.Register(v)
}

func (c *Core) RegisterSchema(s schema.Schema) error {
	return c.schemas.Register(s)
}

func (c *Core) RegisterStep(s translate.Step) error {
	return c.steps.RegisterStep(s)
}

func (c *Core) RegisterFix(domain fix.Domain, rng fix.Range, u fix.Unit) error {
	return c.fixes.Register(domain, rng, u)
}

// Initialize runs the installers, loads settings and saved selections from
// configDir, validates them and freezes every registry. It may run once.
func (c *Core) Initialize(configDir string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != stateNew {
		return ErrAlreadyInitialized
	}
	if err := c.initialize(configDir); err != nil {
		c.state = stateFailed
		log.Error().Err(err).Str("config_dir", configDir).Msg("bridge.Initialize failed")
		return err
	}
	c.state = stateReady
	log.Info().
		Int("versions", len(c.versions.All())).
		Int("schemas", c.schemas.Len()).
		Int("fixes", c.fixes.Len()).
		Int("servers", len(c.servers.Entries())).
		Msg("bridge.Initialize ready")
	return nil
}

func (c *Core) initialize(configDir string) error {
	for _, in := range c.installers.ordered() {
		meta := in.Metadata()
		log.Debug().Str("installer", meta.ID).Msg("bridge.Initialize install")
		if err := in.Install(c); err != nil {
			return InitializationError{Stage: "install", Source: meta.ID, Err: err}
		}
	}

	settingsPath := filepath.Join(configDir, config.SettingsFile)
	settings, err := config.LoadSettings(settingsPath)
	if err != nil {
		return InitializationError{Stage: "settings", Source: settingsPath, Err: err}
	}
	if settings.DefaultTarget != "" {
		if _, err := c.versions.Resolve(settings.DefaultTarget); err != nil {
			return InitializationError{Stage: "settings", Source: "default_target", Err: err}
		}
	}
	for _, d := range settings.FixDomains() {
		if !c.knownDomain(fix.Domain(d)) {
			log.Warn().Str("domain", d).Msg("bridge.Initialize toggle for domain without fixes")
		}
	}

	serversPath := filepath.Join(configDir, config.ServersFile)
	servers, err := config.LoadServers(serversPath)
	if err != nil {
		return InitializationError{Stage: "servers", Source: serversPath, Err: err}
	}
	for _, entry := range servers.Entries() {
		if _, err := c.versions.Resolve(entry.Version); err != nil {
			return InitializationError{Stage: "servers", Source: entry.Address, Err: err}
		}
	}

	c.warnMissingSteps()

	c.versions.Freeze()
	c.schemas.Freeze()
	c.steps.Freeze()
	c.fixes.Freeze()

	c.configDir = configDir
	c.settings = settings
	c.servers = servers
	return nil
}

func (c *Core) knownDomain(d fix.Domain) bool {
	for _, known := range c.fixes.Domains() {
		if known == d.Normalize() {
			return true
		}
	}
	return false
}

// warnMissingSteps logs adjacent versions that cannot be bridged. Sessions
// across such a gap fail with NoTransformPathError.
func (c *Core) warnMissingSteps() {
	all := c.versions.All()
	for i := 1; i < len(all); i++ {
		lower, upper := all[i-1], all[i]
		if _, ok := c.steps.Step(lower.ID, upper.ID); !ok {
			log.Warn().Str("lower", lower.ID).Str("upper", upper.ID).Msg("bridge.Initialize missing step")
		}
	}
}

func (c *Core) ready() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.state != stateReady {
		return ErrNotInitialized
	}
	return nil
}

// OpenSession builds the chain between native and target and resolves the
// fixes of target once.
func (c *Core) OpenSession(native, target string) (*session.Context, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	chain, err := c.steps.Build(native, target)
	observability.RecordChainBuild(native, target, err == nil)
	if err != nil {
		return nil, err
	}
	c.mu.RLock()
	toggles := c.settings.Toggles()
	c.mu.RUnlock()
	engine, err := fix.NewEngine(c.fixes, target, toggles)
	if err != nil {
		return nil, err
	}
	s, err := session.New(chain, c.codec, engine, session.Options{Notifier: c.notifier})
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.sessions[s.ID()] = s
	c.mu.Unlock()
	return s, nil
}

// TargetFor resolves the version to speak with the server at address: the
// saved selection, then the configured default, then native.
func (c *Core) TargetFor(native, address string) (string, error) {
	if err := c.ready(); err != nil {
		return "", err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	if v, ok := c.servers.Lookup(address); ok {
		return v, nil
	}
	if c.settings.DefaultTarget != "" {
		return c.settings.DefaultTarget, nil
	}
	return native, nil
}

// OpenSessionForServer opens a session toward address using TargetFor.
func (c *Core) OpenSessionForServer(native, address string) (*session.Context, error) {
	target, err := c.TargetFor(native, address)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("address", address).Str("native", native).Str("target", target).Msg("bridge.OpenSessionForServer")
	return c.OpenSession(native, target)
}

// SelectVersion remembers ver for address and persists the selection.
func (c *Core) SelectVersion(address, ver string) error {
	if err := c.ready(); err != nil {
		return err
	}
	if _, err := c.versions.Resolve(strings.TrimSpace(ver)); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.servers.Set(address, ver); err != nil {
		return err
	}
	if err := c.servers.Save(); err != nil {
		return fmt.Errorf("bridge: select version: %w", err)
	}
	return nil
}

// CloseSession closes s and forgets it.
func (c *Core) CloseSession(s *session.Context) error {
	c.mu.Lock()
	_, ok := c.sessions[s.ID()]
	delete(c.sessions, s.ID())
	c.mu.Unlock()
	if !ok {
		return ErrUnknownSession
	}
	return s.Close()
}

func (c *Core) TranslateInbound(s *session.Context, raw []byte) ([][]byte, error) {
	return s.TranslateInbound(raw)
}

func (c *Core) TranslateOutbound(s *session.Context, raw []byte) ([][]byte, error) {
	return s.TranslateOutbound(raw)
}

func (c *Core) IsFixActive(s *session.Context, domain fix.Domain) bool {
	return s.IsFixActive(domain)
}

// Versions returns every registered version in ordinal order.
func (c *Core) Versions() []version.Version {
	return c.versions.All()
}

// ActiveFixes returns the fixes ver activates, ignoring toggles.
func (c *Core) ActiveFixes(ver string) ([]fix.Unit, error) {
	return c.fixes.ActiveFixes(ver)
}

// Codec is the shared packet codec over every registered schema.
func (c *Core) Codec() *codec.Codec {
	return c.codec
}

// Schemas returns the packet schemas of ver.
func (c *Core) Schemas(ver string) []schema.Schema {
	return c.schemas.Schemas(ver)
}

func (c *Core) Installers() []InstallerMetadata {
	return c.installers.list()
}

// Settings returns the loaded settings. Zero before Initialize.
func (c *Core) Settings() config.Settings {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.settings
}

// Servers returns the saved selections.
func (c *Core) Servers() []config.Server {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.servers == nil {
		return nil
	}
	return c.servers.Entries()
}

// Session returns an open session by id.
func (c *Core) Session(id string) (*session.Context, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.sessions[id]
	return s, ok
}

// Sessions returns a snapshot of open sessions ordered by open time.
func (c *Core) Sessions() []session.Info {
	c.mu.RLock()
	list := make([]session.Info, 0, len(c.sessions))
	for _, s := range c.sessions {
		list = append(list, s.Info())
	}
	c.mu.RUnlock()
	sort.Slice(list, func(i, j int) bool {
		if list[i].OpenedAt.Equal(list[j].OpenedAt) {
			return list[i].ID < list[j].ID
		}
		return list[i].OpenedAt.Before(list[j].OpenedAt)
	})
	return list
}
