package config

import (
	"context"
	"fmt"
	"strconv"

	"github.com/pterm/pterm"

	"netorg/internal/netspace"
)

// Prompter asks the user for values
type Prompter interface {
	Input(prompt, defaultValue string) (string, error)
	Secret(prompt string) (string, error)
	Select(prompt string, options []string, defaultOption string) (string, error)
	Confirm(prompt string, defaultValue bool) (bool, error)
}

// TerminalPrompter prompts on the terminal with pterm's interactive printers
type TerminalPrompter struct{}

func (TerminalPrompter) Input(prompt, defaultValue string) (string, error) {
	return pterm.DefaultInteractiveTextInput.WithDefaultValue(defaultValue).Show(prompt)
}

func (TerminalPrompter) Secret(prompt string) (string, error) {
	return pterm.DefaultInteractiveTextInput.WithMask("*").Show(prompt)
}

func (TerminalPrompter) Select(prompt string, options []string, defaultOption string) (string, error) {
	return pterm.DefaultInteractiveSelect.
		WithOptions(options).
		WithDefaultOption(defaultOption).
		Show(prompt)
}

func (TerminalPrompter) Confirm(prompt string, defaultValue bool) (bool, error) {
	return pterm.DefaultInteractiveConfirm.WithDefaultValue(defaultValue).Show(prompt)
}

// maxAttempts bounds how often an invalid answer is asked again
const maxAttempts = 5

// PromptWizard builds a configuration by asking questions. Answers default
// to the current configuration.
type PromptWizard struct {
	prompt Prompter
}

// NewWizard creates a wizard. A nil prompter uses the terminal.
func NewWizard(p Prompter) *PromptWizard {
	if p == nil {
		p = TerminalPrompter{}
	}
	return &PromptWizard{prompt: p}
}

// Generate asks for every setting and returns the new configuration
func (w *PromptWizard) Generate(ctx context.Context, current *Config) (*Config, error) {
	if current == nil {
		current = DefaultConfig()
	}
	cfg := *current

	var err error
	if cfg.DevicesYAML, err = w.prompt.Input("Known devices file", current.DevicesYAML); err != nil {
		return nil, err
	}
	if cfg.VLANSubnet, err = w.askSubnet(ctx, current.VLANSubnet); err != nil {
		return nil, err
	}
	if cfg.Reservations.DB, err = w.prompt.Input("Reservations database", current.Reservations.DB); err != nil {
		return nil, err
	}

	source, err := w.prompt.Select("Active clients source", Sources, current.ActiveClients.Source)
	if err != nil {
		return nil, err
	}
	cfg.ActiveClients.Source = source

	switch source {
	case SourceNmap:
		if cfg.ActiveClients.Nmap.Privileged, err = w.prompt.Confirm("Run nmap privileged (ARP discovery, needs root)?", current.ActiveClients.Nmap.Privileged); err != nil {
			return nil, err
		}
	case SourceSNMP:
		if err := w.askSNMP(&cfg.ActiveClients.SNMP); err != nil {
			return nil, err
		}
	case SourceDnsmasq:
		if err := w.askDnsmasq(&cfg.ActiveClients.Dnsmasq); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (w *PromptWizard) askSubnet(ctx context.Context, current string) (string, error) {
	for i := 0; i < maxAttempts; i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		subnet, err := w.prompt.Input("VLAN subnet (e.g. 192.168.128.0/24)", current)
		if err != nil {
			return "", err
		}
		if err := netspace.ValidateCIDR(subnet); err != nil {
			pterm.Warning.Printfln("%s: %v", subnet, err)
			continue
		}
		return subnet, nil
	}
	return "", fmt.Errorf("%w: no valid vlan_subnet after %d attempts", ErrInvalidConfig, maxAttempts)
}

func (w *PromptWizard) askSNMP(s *SNMPConfig) error {
	var err error
	if s.Target, err = w.prompt.Input("Router address", s.Target); err != nil {
		return err
	}
	if s.Community, err = w.prompt.Input("SNMP community", s.Community); err != nil {
		return err
	}
	s.Port, err = w.askInt("SNMP port", s.Port)
	return err
}

func (w *PromptWizard) askDnsmasq(d *DnsmasqConfig) error {
	var err error
	if d.Host, err = w.prompt.Input("DHCP server address", d.Host); err != nil {
		return err
	}
	if d.Port, err = w.askInt("SSH port", d.Port); err != nil {
		return err
	}
	if d.User, err = w.prompt.Input("SSH user", d.User); err != nil {
		return err
	}
	if d.KeyFile, err = w.prompt.Input("SSH private key file (empty for password)", d.KeyFile); err != nil {
		return err
	}
	if d.KeyFile == "" {
		if d.Password, err = w.prompt.Secret("SSH password"); err != nil {
			return err
		}
	}
	d.LeaseFile, err = w.prompt.Input("Lease file", d.LeaseFile)
	return err
}

func (w *PromptWizard) askInt(prompt string, current int) (int, error) {
	for i := 0; i < maxAttempts; i++ {
		answer, err := w.prompt.Input(prompt, strconv.Itoa(current))
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(answer)
		if err == nil && n > 0 && n < 65536 {
			return n, nil
		}
		pterm.Warning.Printfln("%q is not a port number", answer)
	}
	return 0, fmt.Errorf("%w: no valid %s after %d attempts", ErrInvalidConfig, prompt, maxAttempts)
}
