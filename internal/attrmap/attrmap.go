// Package attrmap promotes record attributes into extra template variables
// by regex-matching configured URL patterns against the template.
package attrmap

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"sync"

	"github.com/lunyk/kindred/internal/models"
	"github.com/lunyk/kindred/internal/vars"
)

// Rule maps one record attribute to a template variable when the rule's
// regex matches the template URL. Only People rules are honored today;
// rules for other navigation types are accepted but never applied.
type Rule struct {
	NavType   string `json:"nav_type"`
	Attribute string `json:"attribute_name"`
	URLRegex  string `json:"url_regex"`
	Variable  string `json:"variable_name"`
}

// Mapper evaluates attribute-mapping rules. Compiled regexes are cached;
// a malformed regex disables its rule and is reported once.
type Mapper struct {
	rules  []Rule
	logger *slog.Logger

	mu       sync.Mutex
	compiled map[string]*regexp.Regexp
	bad      map[string]struct{}
}

// NewMapper creates a Mapper over the given rule list.
func NewMapper(rules []Rule, logger *slog.Logger) *Mapper {
	if logger == nil {
		logger = slog.Default()
	}
	return &Mapper{
		rules:    rules,
		logger:   logger,
		compiled: make(map[string]*regexp.Regexp),
		bad:      make(map[string]struct{}),
	}
}

// LoadRules reads a JSON rule file. A missing file is not an error and
// yields no rules.
func LoadRules(path string) ([]Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("attrmap: read rules: %w", err)
	}
	var rules []Rule
	if err := json.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("attrmap: parse rules %s: %w", path, err)
	}
	return rules, nil
}

// Augment returns a copy of v extended with variables from attributes whose
// rules match templateURL. Existing keys are never overwritten: a colliding
// rule is a no-op, so normalized fields cannot be corrupted and the first
// matching rule for a variable wins.
func (m *Mapper) Augment(v vars.Variables, templateURL string, nav models.NavType, attrs []models.Attribute) vars.Variables {
	out := v.Clone()
	if nav != models.NavPerson || len(attrs) == 0 {
		return out
	}
	for _, rule := range m.rules {
		ruleNav, ok := models.ParseNavType(rule.NavType)
		if !ok || ruleNav != nav {
			continue
		}
		re := m.regex(rule.URLRegex)
		if re == nil || !re.MatchString(templateURL) {
			continue
		}
		if _, exists := out[rule.Variable]; exists {
			continue
		}
		for _, attr := range attrs {
			if attr.Name == rule.Attribute && attr.Value != "" {
				out[rule.Variable] = attr.Value
				break
			}
		}
	}
	return out
}

// Matched returns the variable names a rule set would introduce for
// templateURL, before collision filtering. Used to tag UID-promoted rows.
func (m *Mapper) Matched(templateURL string, nav models.NavType) []string {
	if nav != models.NavPerson {
		return nil
	}
	var names []string
	for _, rule := range m.rules {
		ruleNav, ok := models.ParseNavType(rule.NavType)
		if !ok || ruleNav != nav {
			continue
		}
		if re := m.regex(rule.URLRegex); re != nil && re.MatchString(templateURL) {
			names = append(names, rule.Variable)
		}
	}
	return names
}

// regex returns the compiled pattern, or nil when it is malformed. The
// first failure per pattern is logged; later ones are silent.
func (m *Mapper) regex(pattern string) *regexp.Regexp {
	m.mu.Lock()
	defer m.mu.Unlock()
	if re, ok := m.compiled[pattern]; ok {
		return re
	}
	if _, ok := m.bad[pattern]; ok {
		return nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		m.bad[pattern] = struct{}{}
		m.logger.Warn("attrmap: skipping rule with malformed regex",
			slog.String("pattern", pattern),
			slog.String("error", err.Error()))
		return nil
	}
	m.compiled[pattern] = re
	return re
}
