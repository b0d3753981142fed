package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"bundle-configurator/models"
)

type rawEntry struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Price     int64  `json:"price"`
	Available *bool  `json:"available"`
	Image     string `json:"image"`
	Model     string `json:"model"`
}

type rawModel struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Image string `json:"image"`
}

type rawGroup struct {
	ID       string     `json:"id"`
	Title    string     `json:"title"`
	Models   []string   `json:"models"`
	Variants []rawEntry `json:"variants"`
}

// Load parses every kind of raw once and builds the id index.
// The returned snapshot is never nil: a kind that fails to parse is treated
// as empty and reported as a *ParseError in the joined error.
func Load(raw Raw) (*Snapshot, error) {
	s := Empty()
	var errs []error

	var rawModels []rawModel
	if err := decodeKind(raw, KindModels, &rawModels); err != nil {
		errs = append(errs, err)
	} else if err := s.addModels(rawModels); err != nil {
		errs = append(errs, &ParseError{Kind: KindModels, Err: err})
	}

	var variants []rawEntry
	if err := decodeKind(raw, KindModelVariants, &variants); err != nil {
		errs = append(errs, err)
	} else if err := s.addModelVariants(variants); err != nil {
		errs = append(errs, &ParseError{Kind: KindModelVariants, Err: err})
	}

	var groups []rawGroup
	if err := decodeKind(raw, KindDependentAccessories, &groups); err != nil {
		errs = append(errs, err)
	} else if err := s.addGroups(groups); err != nil {
		errs = append(errs, &ParseError{Kind: KindDependentAccessories, Err: err})
	}

	var independent []rawEntry
	if err := decodeKind(raw, KindIndependentAccessories, &independent); err != nil {
		errs = append(errs, err)
	} else if err := s.addIndependent(independent); err != nil {
		errs = append(errs, &ParseError{Kind: KindIndependentAccessories, Err: err})
	}

	return s, errors.Join(errs...)
}

func decodeKind(raw Raw, kind Kind, v any) error {
	data := bytes.TrimSpace(raw[kind])
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return &ParseError{Kind: kind, Err: err}
	}
	return nil
}

func toEntry(r rawEntry, role models.Role) (models.CatalogEntry, error) {
	if r.ID == "" {
		return models.CatalogEntry{}, errors.New("entry without id")
	}
	if r.Price < 0 {
		return models.CatalogEntry{}, fmt.Errorf("entry %s: negative price %d", r.ID, r.Price)
	}
	available := true
	if r.Available != nil {
		available = *r.Available
	}
	return models.CatalogEntry{
		ID:           r.ID,
		DisplayTitle: r.Title,
		UnitPrice:    r.Price,
		ImageRef:     r.Image,
		IsAvailable:  available,
		Role:         role,
	}, nil
}

// Each add* validates the whole kind before touching the snapshot so a bad
// kind leaves no partial state behind.

func (s *Snapshot) addModels(raw []rawModel) error {
	seen := map[string]bool{}
	for _, m := range raw {
		if m.ID == "" {
			return errors.New("model without id")
		}
		if seen[m.ID] {
			return fmt.Errorf("duplicate model id %s", m.ID)
		}
		seen[m.ID] = true
	}
	for _, m := range raw {
		s.modelIndex[m.ID] = len(s.models)
		s.models = append(s.models, models.Model{ID: m.ID, Title: m.Title, ImageRef: m.Image, Variants: []string{}})
	}
	return nil
}

func (s *Snapshot) addModelVariants(raw []rawEntry) error {
	entries := make([]models.CatalogEntry, 0, len(raw))
	for _, r := range raw {
		e, err := toEntry(r, models.RoleModelVariant)
		if err != nil {
			return err
		}
		e.ModelID = r.Model
		entries = append(entries, e)
	}
	for _, e := range entries {
		s.modelVariants = append(s.modelVariants, e)
		if _, taken := s.index[e.ID]; !taken {
			s.index[e.ID] = e
		}
		if i, ok := s.modelIndex[e.ModelID]; ok {
			s.models[i].Variants = append(s.models[i].Variants, e.ID)
		}
	}
	return nil
}

func (s *Snapshot) addGroups(raw []rawGroup) error {
	var groups []models.AccessoryGroup
	var entries []models.CatalogEntry
	seen := map[string]bool{}
	for _, g := range raw {
		if g.ID == "" {
			return errors.New("accessory group without id")
		}
		if seen[g.ID] {
			return fmt.Errorf("duplicate accessory group id %s", g.ID)
		}
		seen[g.ID] = true

		owners := g.Models
		if owners == nil {
			owners = []string{}
		}
		group := models.AccessoryGroup{ID: g.ID, Title: g.Title, OwnerModelIDs: owners, Variants: []string{}}
		for _, r := range g.Variants {
			e, err := toEntry(r, models.RoleDependentAccessory)
			if err != nil {
				return fmt.Errorf("group %s: %w", g.ID, err)
			}
			e.GroupID = g.ID
			e.OwnerModelIDs = owners
			group.Variants = append(group.Variants, e.ID)
			entries = append(entries, e)
		}
		groups = append(groups, group)
	}
	for _, g := range groups {
		s.groupIndex[g.ID] = len(s.groups)
		s.groups = append(s.groups, g)
	}
	for _, e := range entries {
		s.dependent = append(s.dependent, e)
		if _, taken := s.index[e.ID]; !taken {
			s.index[e.ID] = e
		}
	}
	return nil
}

func (s *Snapshot) addIndependent(raw []rawEntry) error {
	entries := make([]models.CatalogEntry, 0, len(raw))
	for _, r := range raw {
		e, err := toEntry(r, models.RoleIndependentAccessory)
		if err != nil {
			return err
		}
		entries = append(entries, e)
	}
	for _, e := range entries {
		s.independent = append(s.independent, e)
		if _, taken := s.index[e.ID]; !taken {
			s.index[e.ID] = e
		}
	}
	return nil
}
