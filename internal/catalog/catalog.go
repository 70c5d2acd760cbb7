package catalog

import (
	"github.com/danmuck/verbridge/internal/bridge"
	"github.com/danmuck/verbridge/internal/version"
)

const (
	V1_7  = "1.7"
	V1_8  = "1.8"
	V1_9  = "1.9"
	V1_12 = "1.12"
)

// Versions is the demo family in ordinal order.
func Versions() []version.Version {
	return []version.Version{
		{ID: V1_7, Ordinal: 0, Label: "1.7.2-1.7.10"},
		{ID: V1_8, Ordinal: 1, Label: "1.8.x"},
		{ID: V1_9, Ordinal: 2, Label: "1.9.x"},
		{ID: V1_12, Ordinal: 3, Label: "1.12.2"},
	}
}

// Pack installs the demo family into a bridge.
type Pack struct{}

func (Pack) Metadata() bridge.InstallerMetadata {
	return bridge.InstallerMetadata{
		ID:          "catalog.demo",
		Name:        "Demo catalog",
		Description: "Four-version demonstration family with schemas, hops and fixes",
	}
}

// Install registers versions, then schemas, steps and fixes.
func (Pack) Install(r bridge.Registrar) error {
	for _, v := range Versions() {
		if err := r.RegisterVersion(v); err != nil {
			return err
		}
	}
	for _, s := range Schemas() {
		if err := r.RegisterSchema(s); err != nil {
			return err
		}
	}
	for _, s := range Steps() {
		if err := r.RegisterStep(s); err != nil {
			return err
		}
	}
	for _, f := range Fixes() {
		if err := r.RegisterFix(f.Domain, f.Range, f); err != nil {
			return err
		}
	}
	return nil
}
