package pipeline

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/manifoldco/promptui"
	"gopkg.in/yaml.v3"
)

// LoadBriefing reads a briefing from a YAML (.yml, .yaml) or JSON file.
func LoadBriefing(path string) (*Briefing, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading briefing: %w", err)
	}

	var b Briefing
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		err = yaml.Unmarshal(data, &b)
	default:
		err = json.Unmarshal(data, &b)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing briefing %s: %w", path, err)
	}
	if strings.TrimSpace(b.Description) == "" {
		return nil, fmt.Errorf("briefing %s has no description", path)
	}
	return &b, nil
}

// Save writes the briefing as YAML, creating parent directories as needed.
func (b *Briefing) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating briefing directory: %w", err)
	}

	data, err := yaml.Marshal(b)
	if err != nil {
		return fmt.Errorf("marshaling briefing: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing briefing: %w", err)
	}
	return nil
}

// CollectBriefing asks for the briefing interactively. Only the description
// is required; lang is the default answer for the site language.
func CollectBriefing(lang string) (*Briefing, error) {
	fmt.Println("Describe the business the site is for.")
	fmt.Println("Press Enter to skip optional questions.")
	fmt.Println()

	b := &Briefing{}
	var err error

	if b.Description, err = ask("What does the business do?", "", required); err != nil {
		return nil, fmt.Errorf("description prompt: %w", err)
	}
	if b.BusinessName, err = ask("Business name", "", nil); err != nil {
		return nil, fmt.Errorf("name prompt: %w", err)
	}
	if b.Audience, err = ask("Who are the customers?", "", nil); err != nil {
		return nil, fmt.Errorf("audience prompt: %w", err)
	}
	if b.Language, err = ask("Site language", lang, nil); err != nil {
		return nil, fmt.Errorf("language prompt: %w", err)
	}

	pages, err := ask("Pages (comma-separated, empty to let the model choose)", "", nil)
	if err != nil {
		return nil, fmt.Errorf("pages prompt: %w", err)
	}
	for _, p := range strings.Split(pages, ",") {
		if p = strings.TrimSpace(p); p != "" {
			b.Pages = append(b.Pages, p)
		}
	}
	return b, nil
}

func required(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("required")
	}
	return nil
}

// ask displays a prompt and returns the trimmed answer.
func ask(label, def string, validate promptui.ValidateFunc) (string, error) {
	p := promptui.Prompt{
		Label:    label,
		Default:  def,
		Validate: validate,
	}
	result, err := p.Run()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(result), nil
}
