package guard

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Route paths known to the console shell.
const (
	LoginPath             = "/login"
	RegisterPath          = "/register"
	ForgotPasswordPath    = "/forgot-password"
	DashboardPath         = "/dashboard"
	TransactionsPath      = "/transactions"
	PayoutsPath           = "/payouts"
	SettingsPath          = "/settings"
	ApplicationStatusPath = "/application-status"
)

// Class tags a route as public or protected.
type Class int

const (
	ClassPublic Class = iota
	ClassProtected
)

func (c Class) String() string {
	if c == ClassPublic {
		return "public"
	}
	return "protected"
}

// RouteTable is the static classification of navigable paths. Classification
// is total: paths not present in the table are protected, so an unregistered
// route fails closed rather than leaking content.
type RouteTable struct {
	classes map[string]Class
}

// DefaultRouteTable returns the built-in classification for the console.
func DefaultRouteTable() *RouteTable {
	return &RouteTable{classes: map[string]Class{
		LoginPath:             ClassPublic,
		RegisterPath:          ClassPublic,
		ForgotPasswordPath:    ClassPublic,
		DashboardPath:         ClassProtected,
		TransactionsPath:      ClassProtected,
		PayoutsPath:           ClassProtected,
		SettingsPath:          ClassProtected,
		ApplicationStatusPath: ClassProtected,
	}}
}

// Classify returns the class for a path.
func (t *RouteTable) Classify(path string) Class {
	if class, ok := t.classes[path]; ok {
		return class
	}
	return ClassProtected
}

// Paths returns every registered path, useful for wiring HTTP handlers.
func (t *RouteTable) Paths() []string {
	paths := make([]string, 0, len(t.classes))
	for path := range t.classes {
		paths = append(paths, path)
	}
	return paths
}

type routeOverrides struct {
	Public    []string `yaml:"public"`
	Protected []string `yaml:"protected"`
}

// LoadOverrides merges route classifications from a YAML file into the
// table. A path listed in both sections is an error, classification must
// stay total with exactly one tag per path.
func (t *RouteTable) LoadOverrides(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read route file: %w", err)
	}

	var overrides routeOverrides
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return fmt.Errorf("failed to parse route file: %w", err)
	}

	seen := make(map[string]bool, len(overrides.Public))
	for _, p := range overrides.Public {
		seen[p] = true
		t.classes[p] = ClassPublic
	}
	for _, p := range overrides.Protected {
		if seen[p] {
			return fmt.Errorf("route %s is tagged both public and protected", p)
		}
		t.classes[p] = ClassProtected
	}

	return nil
}
