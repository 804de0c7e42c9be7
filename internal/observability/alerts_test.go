package observability

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

type alertRule struct {
	Alert       string            `yaml:"alert"`
	Expr        string            `yaml:"expr"`
	For         string            `yaml:"for"`
	Labels      map[string]string `yaml:"labels"`
	Annotations map[string]string `yaml:"annotations"`
}

type alertGroup struct {
	Name  string      `yaml:"name"`
	Rules []alertRule `yaml:"rules"`
}

type alertSpec struct {
	Groups []alertGroup `yaml:"groups"`
}

// The alert rules ship with the repo; keep them referencing metric
// families that actually exist.
func TestAuthzAlertRules(t *testing.T) {
	path := filepath.Join("..", "..", "deploy", "prometheus", "alerts", "authz.yml")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read alert file: %v", err)
	}

	var spec alertSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		t.Fatalf("failed to unmarshal alert file: %v", err)
	}

	var authzGroup *alertGroup
	for i := range spec.Groups {
		if spec.Groups[i].Name == "authz" {
			authzGroup = &spec.Groups[i]
			break
		}
	}
	if authzGroup == nil {
		t.Fatal("expected an authz alert group")
	}
	if len(authzGroup.Rules) == 0 {
		t.Fatal("expected at least one authz rule")
	}
	for _, rule := range authzGroup.Rules {
		if rule.Alert == "" {
			t.Fatal("rule without a name")
		}
		if !strings.Contains(rule.Expr, "praxis_authz_decisions_total") {
			t.Fatalf("rule %s does not reference the decision counter", rule.Alert)
		}
		if rule.Labels["severity"] == "" {
			t.Fatalf("rule %s missing severity label", rule.Alert)
		}
		if rule.Annotations["summary"] == "" {
			t.Fatalf("rule %s missing summary", rule.Alert)
		}
	}
}
