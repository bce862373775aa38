package prompts

import (
	"embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed templates/*.yaml
var templateFS embed.FS

// PromptProvider is implemented by the manager and by test doubles.
type PromptProvider interface {
	BuildMessages(mode string, data map[string]string) (system string, user string, err error)
}

// promptTemplate is one loaded YAML template: a fixed system prompt plus a
// user prompt with {{.Key}} placeholders.
type promptTemplate struct {
	SystemPrompt string `yaml:"system_prompt"`
	UserPrompt   string `yaml:"user_prompt"`
}

// Manager loads the embedded prompt templates at startup.
type Manager struct {
	templates map[string]promptTemplate
}

func NewManager() (*Manager, error) {
	m := &Manager{templates: make(map[string]promptTemplate)}
	if err := m.load(); err != nil {
		return nil, fmt.Errorf("failed to load prompt templates: %w", err)
	}
	return m, nil
}

// BuildMessages renders the template for a mode. Placeholders are replaced by
// plain string substitution; data values pass through verbatim.
func (m *Manager) BuildMessages(mode string, data map[string]string) (string, string, error) {
	tpl, exists := m.templates[mode]
	if !exists {
		return "", "", fmt.Errorf("template not found for mode: %s", mode)
	}

	user := tpl.UserPrompt
	for key, value := range data {
		user = strings.ReplaceAll(user, "{{."+key+"}}", value)
	}
	return strings.TrimSpace(tpl.SystemPrompt), strings.TrimSpace(user), nil
}

func (m *Manager) load() error {
	entries, err := templateFS.ReadDir("templates")
	if err != nil {
		return fmt.Errorf("failed to read templates directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}

		data, err := templateFS.ReadFile("templates/" + entry.Name())
		if err != nil {
			return fmt.Errorf("failed to read template file %s: %w", entry.Name(), err)
		}

		var tpl promptTemplate
		if err := yaml.Unmarshal(data, &tpl); err != nil {
			return fmt.Errorf("failed to parse template file %s: %w", entry.Name(), err)
		}

		m.templates[strings.TrimSuffix(entry.Name(), ".yaml")] = tpl
	}
	return nil
}
