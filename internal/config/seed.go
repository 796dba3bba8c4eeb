package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v2"
)

// Seed is an optional fixture of users and their items loaded at startup.
type Seed struct {
	Users []SeedUser `yaml:"users"`
}

type SeedUser struct {
	Name  string     `yaml:"name"`
	Email string     `yaml:"email"`
	Items []SeedItem `yaml:"items"`
}

type SeedItem struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Available   *bool  `yaml:"available"`
}

// IsAvailable defaults to true when the field is omitted.
func (i SeedItem) IsAvailable() bool {
	return i.Available == nil || *i.Available
}

func LoadSeed(path string) (*Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var seed Seed
	if err := yaml.UnmarshalStrict(data, &seed); err != nil {
		return nil, fmt.Errorf("parse seed %s: %w", path, err)
	}
	if err := ValidateSeed(&seed); err != nil {
		return nil, err
	}
	return &seed, nil
}

func ValidateSeed(seed *Seed) error {
	emails := make(map[string]bool, len(seed.Users))
	for i, u := range seed.Users {
		email := strings.ToLower(strings.TrimSpace(u.Email))
		if email == "" {
			return fmt.Errorf("seed user #%d has no email", i+1)
		}
		if emails[email] {
			return fmt.Errorf("duplicate seed email %s", u.Email)
		}
		emails[email] = true

		for j, item := range u.Items {
			if strings.TrimSpace(item.Name) == "" || strings.TrimSpace(item.Description) == "" {
				return fmt.Errorf("seed item #%d of %s needs name and description", j+1, u.Email)
			}
		}
	}
	return nil
}
