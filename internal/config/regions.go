package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/gschone-data/pySurf/internal/domain"
	"gopkg.in/yaml.v3"
)

// ErrUnknownRegion is returned when a slug names no configured region.
var ErrUnknownRegion = errors.New("unknown region")

// DefaultRegions returns the built-in Atlantic coast regions in display order.
func DefaultRegions() []domain.Region {
	return []domain.Region{
		{
			Slug: "finistere",
			Name: "Finistere (La Torche)",
			Spots: []string{
				"Pointdela-Torche", "Penhors", "Tronoen", "Ste-Anne-La-Palud", "La-Palue",
				"Pentrez-Plage", "Trez-Hir", "Anse-de-Pen-Hat", "Plage-de-Mesperleuc",
			},
		},
		{
			Slug: "vendee",
			Name: "Vendee",
			Spots: []string{
				"La-Sauzaie", "Les-Dunes", "Saint-Gilles-Croixde-Vie", "Tanchet",
				"La-Baie-Des-Sables", "Plage-Des-Granges", "Sion", "L-Aubraie",
				"Sauveterre", "La-Tranchesur-Mer", "Les-Conches",
			},
		},
		{
			Slug: "charente",
			Name: "Charente-Maritime (La Rochelle)",
			Spots: []string{
				"La-Couarde-Mer_Ilede-Re", "Ile-de-Re-Le-Gouyot", "Ile-de-Re-Le-Lizay",
				"Ile-de-Re-Les-Grenettes", "Ile-de-Re-Petit-Bec", "Ile-de-re-Rivedoux",
				"Oleron-Vert-Bois-Les-Allassins", "Les-Huttes", "Saint-Trojan_Ile-D-Oleron",
				"La-Cotiniere_Ile-D-Oleron",
			},
		},
		{
			Slug: "gironde",
			Name: "Gironde (Lacanau)",
			Spots: []string{
				"Lacanau-Ocean", "Le-Truc-Vert", "Le-Grand-Crohot", "Carcans-Plage",
				"Hourtin-Plage", "Montalivetles-Bains", "Le-Porge", "Soulacsur-Mer",
			},
		},
	}
}

type regionsFile struct {
	Regions []domain.Region `yaml:"regions"`
}

// LoadRegionsFile reads a YAML region catalogue of the form
//
//	regions:
//	  - slug: vendee
//	    name: Vendee
//	    spots: [La-Sauzaie, Les-Dunes]
func LoadRegionsFile(path string) ([]domain.Region, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read REGIONS_FILE: %w", err)
	}

	var f regionsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse REGIONS_FILE: %w", err)
	}
	if err := ValidateRegions(f.Regions); err != nil {
		return nil, fmt.Errorf("REGIONS_FILE: %w", err)
	}
	return f.Regions, nil
}

// ValidateRegions checks that slugs are present and unique and that every
// region lists at least one spot.
func ValidateRegions(regions []domain.Region) error {
	if len(regions) == 0 {
		return errors.New("no regions defined")
	}
	seen := make(map[string]bool, len(regions))
	for i, r := range regions {
		if r.Slug == "" {
			return fmt.Errorf("region %d has no slug", i)
		}
		if seen[r.Slug] {
			return fmt.Errorf("duplicate region %q", r.Slug)
		}
		seen[r.Slug] = true
		if len(r.Spots) == 0 {
			return fmt.Errorf("region %q has no spots", r.Slug)
		}
	}
	return nil
}

// RegionBySlug finds a region by slug.
func RegionBySlug(regions []domain.Region, slug string) (domain.Region, error) {
	for _, r := range regions {
		if r.Slug == slug {
			return r, nil
		}
	}
	return domain.Region{}, fmt.Errorf("%w: %q", ErrUnknownRegion, slug)
}
