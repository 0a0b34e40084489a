package scenario

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/ledger/internal/ledger"
)

// Commands accepted in steps.
var knownCommands = map[string]bool{
	ledger.CommandRegister:    true,
	ledger.CommandAdd:         true,
	ledger.CommandWithdraw:    true,
	ledger.CommandSend:        true,
	ledger.CommandGet:         true,
	ledger.CommandChangeLimit: true,
}

// Error codes accepted in expect.error.
var knownCodes = map[string]bool{
	string(ledger.ErrCodeDuplicateName):     true,
	string(ledger.ErrCodeInvalidBalance):    true,
	string(ledger.ErrCodeNotFound):          true,
	string(ledger.ErrCodeNonPositiveAmount): true,
	string(ledger.ErrCodeInsufficientFunds): true,
	string(ledger.ErrCodePolicyRejected):    true,
	string(ledger.ErrCodeBalanceOverflow):   true,
}

// Load reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a scenario document with strict field checking and
// validates it.
func Parse(data []byte) (*Scenario, error) {
	var s Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&s); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &s, nil
}

// validateScenario checks required fields and per-command arguments.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps must contain at least one step")
	}

	seen := make(map[string]bool, len(s.Clients))
	for i, c := range s.Clients {
		if c.Name == "" {
			return fmt.Errorf("clients[%d]: name is required", i)
		}
		if seen[c.Name] {
			return fmt.Errorf("clients[%d]: duplicate client %q", i, c.Name)
		}
		seen[c.Name] = true
	}

	for i := range s.Steps {
		if err := validateStep(i, &s.Steps[i]); err != nil {
			return err
		}
	}

	return nil
}

func validateStep(index int, st *Step) error {
	if !knownCommands[st.Command] {
		return fmt.Errorf("steps[%d]: unknown command %q", index, st.Command)
	}
	if st.Client == "" {
		return fmt.Errorf("steps[%d]: client is required", index)
	}

	switch st.Command {
	case ledger.CommandRegister:
		if st.Balance == nil {
			return fmt.Errorf("steps[%d]: balance is required for register", index)
		}
	case ledger.CommandAdd, ledger.CommandWithdraw:
		if st.Amount == nil {
			return fmt.Errorf("steps[%d]: amount is required for %s", index, st.Command)
		}
	case ledger.CommandSend:
		if st.To == "" {
			return fmt.Errorf("steps[%d]: to is required for send", index)
		}
		if st.Amount == nil {
			return fmt.Errorf("steps[%d]: amount is required for send", index)
		}
	}

	if st.To != "" && st.Command != ledger.CommandSend {
		return fmt.Errorf("steps[%d]: to is only valid for send", index)
	}
	if st.Limit != nil && st.Command != ledger.CommandRegister && st.Command != ledger.CommandChangeLimit {
		return fmt.Errorf("steps[%d]: limit is only valid for register and changeLimit", index)
	}

	if st.Expect != nil && st.Expect.Error != "" && !knownCodes[st.Expect.Error] {
		return fmt.Errorf("steps[%d]: unknown error code %q", index, st.Expect.Error)
	}

	return nil
}
