package seed

import (
	_ "embed"
	"fmt"

	"yatube/internal/models"
	"yatube/internal/validation"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:embed groups.yml
var builtInGroupsYAML []byte

// BuiltInGroup is a permanent group shipped with the application.
type BuiltInGroup struct {
	Title       string `yaml:"title"`
	Slug        string `yaml:"slug"`
	Description string `yaml:"description"`
}

type groupFixture struct {
	Groups []BuiltInGroup `yaml:"groups"`
}

// ParseGroups decodes a groups fixture and validates every slug.
func ParseGroups(raw []byte) ([]BuiltInGroup, error) {
	var fx groupFixture
	if err := yaml.Unmarshal(raw, &fx); err != nil {
		return nil, fmt.Errorf("parse groups fixture: %w", err)
	}
	seen := make(map[string]bool, len(fx.Groups))
	for _, g := range fx.Groups {
		if g.Title == "" {
			return nil, fmt.Errorf("group %q has no title", g.Slug)
		}
		if err := validation.ValidateGroupSlug(g.Slug); err != nil {
			return nil, fmt.Errorf("group %q: %w", g.Slug, err)
		}
		if seen[g.Slug] {
			return nil, fmt.Errorf("duplicate group slug %q", g.Slug)
		}
		seen[g.Slug] = true
	}
	return fx.Groups, nil
}

// BuiltInGroups returns the embedded group fixture.
func BuiltInGroups() ([]BuiltInGroup, error) {
	return ParseGroups(builtInGroupsYAML)
}

// Groups upserts the built-in groups by slug. Running it twice is harmless.
func Groups(db *gorm.DB) error {
	items, err := BuiltInGroups()
	if err != nil {
		return err
	}
	return db.Transaction(func(tx *gorm.DB) error {
		for _, item := range items {
			group := models.Group{
				Title:       item.Title,
				Slug:        item.Slug,
				Description: item.Description,
			}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "slug"}},
				DoUpdates: clause.AssignmentColumns([]string{"title", "description", "updated_at"}),
			}).Create(&group).Error; err != nil {
				return fmt.Errorf("seed group %s: %w", item.Slug, err)
			}
		}
		return nil
	})
}
