package scenario

import (
	_ "embed"
)

//go:embed demo.yaml
var demoYAML []byte

// DemoYAML returns the built-in demo scenario document.
func DemoYAML() []byte {
	return demoYAML
}

// Demo returns the built-in demo scenario.
func Demo() (*Scenario, error) {
	return Parse(demoYAML)
}
