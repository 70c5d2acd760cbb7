package bridge

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/danmuck/verbridge/internal/fix"
	"github.com/danmuck/verbridge/internal/protocol/schema"
	"github.com/danmuck/verbridge/internal/translate"
	"github.com/danmuck/verbridge/internal/version"
)

var (
	ErrInstallerExists = errors.New("bridge: installer already exists")
	ErrInstallerNil    = errors.New("bridge: installer is nil")
	ErrInvalidMetadata = errors.New("bridge: invalid installer metadata")
)

// Registrar is the registration surface handed to installers.
type Registrar interface {
	RegisterVersion(v version.Version) error
	RegisterSchema(s schema.Schema) error
	RegisterStep(s translate.Step) error
	RegisterFix(domain fix.Domain, rng fix.Range, u fix.Unit) error
}

// InstallerMetadata is the identity and display data of an installer.
type InstallerMetadata struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Installer contributes versions, schemas, steps and fixes during Initialize.
type Installer interface {
	Metadata() InstallerMetadata
	Install(r Registrar) error
}

// installers keeps registration order; later installers may build on the
// versions of earlier ones.
type installers struct {
	items map[string]Installer
	order []string
}

func newInstallers() *installers {
	return &installers{items: make(map[string]Installer)}
}

// ValidateMetadata checks required metadata fields and id format.
func ValidateMetadata(meta InstallerMetadata) error {
	id := strings.TrimSpace(meta.ID)
	name := strings.TrimSpace(meta.Name)
	desc := strings.TrimSpace(meta.Description)
	if id == "" || name == "" || desc == "" {
		return fmt.Errorf("%w: id, name, and description are required", ErrInvalidMetadata)
	}
	if !isValidID(id) {
		return fmt.Errorf("%w: invalid id format %q", ErrInvalidMetadata, id)
	}
	return nil
}

func (r *installers) add(in Installer) error {
	if in == nil {
		return ErrInstallerNil
	}
	meta := in.Metadata()
	if err := ValidateMetadata(meta); err != nil {
		return err
	}
	if _, ok := r.items[meta.ID]; ok {
		return fmt.Errorf("%w: %s", ErrInstallerExists, meta.ID)
	}
	r.items[meta.ID] = in
	r.order = append(r.order, meta.ID)
	return nil
}

func (r *installers) ordered() []Installer {
	out := make([]Installer, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.items[id])
	}
	return out
}

// list returns deterministic metadata ordering by id.
func (r *installers) list() []InstallerMetadata {
	list := make([]InstallerMetadata, 0, len(r.items))
	for _, in := range r.items {
		list = append(list, in.Metadata())
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].ID < list[j].ID
	})
	return list
}

func isValidID(id string) bool {
	if id == "" {
		return false
	}
	lastSep := false
	for i := 0; i < len(id); i++ {
		c := id[i]
		isLower := c >= 'a' && c <= 'z'
		isDigit := c >= '0' && c <= '9'
		isSep := c == '.' || c == '-' || c == '_'
		if !(isLower || isDigit || isSep) {
			return false
		}
		if i == 0 || i == len(id)-1 {
			if isSep {
				return false
			}
		}
		if isSep && lastSep {
			return false
		}
		lastSep = isSep
	}
	return true
}
