package plugin

import (
	"fmt"
	"sort"
)

// Registry holds the plugins available to a run and the enabled
// whitelist from configuration.
type Registry struct {
	plugins map[string]Plugin
	order   []string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{plugins: make(map[string]Plugin)}
}

// Register adds a plugin. Registering two plugins with the same name is
// an error: the name is the provenance tag, so a collision would make
// facts unattributable.
func (r *Registry) Register(p Plugin) error {
	name := p.Name()
	if name == "" {
		return fmt.Errorf("plugin has empty name")
	}
	for _, stage := range p.Stages() {
		if !ValidStage(stage) {
			return fmt.Errorf("plugin %s declares unknown stage %q", name, stage)
		}
	}
	if _, ok := r.plugins[name]; ok {
		return fmt.Errorf("plugin %s already registered", name)
	}
	r.plugins[name] = p
	r.order = append(r.order, name)
	return nil
}

// Names returns the registered plugin names, sorted.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	sort.Strings(out)
	return out
}

// Get returns the named plugin.
func (r *Registry) Get(name string) (Plugin, bool) {
	p, ok := r.plugins[name]
	return p, ok
}

// Configurable is implemented by plugins that take credentials from the
// secrets store ahead of a run.
type Configurable interface {
	Configure(creds map[string]string) error
}

// ApplyCredentials resolves every registered plugin's declared credential
// keys through lookup and hands each plugin its map. Any gap is an error:
// a plugin must never reach its stage without the credentials it declared.
func (r *Registry) ApplyCredentials(lookup func(name string) (map[string]string, error)) error {
	for _, name := range r.Names() {
		p := r.plugins[name]
		keys := p.ConfigKeys()
		if len(keys) == 0 {
			continue
		}
		c, ok := p.(Configurable)
		if !ok {
			return fmt.Errorf("plugin %s declares credential keys but does not accept credentials", name)
		}
		creds, err := lookup(name)
		if err != nil {
			return fmt.Errorf("credentials for plugin %s: %w", name, err)
		}
		for _, key := range keys {
			if _, ok := creds[key]; !ok {
				return fmt.Errorf("plugin %s: credential %q is not in the secrets store", name, key)
			}
		}
		if err := c.Configure(creds); err != nil {
			return fmt.Errorf("configuring plugin %s: %w", name, err)
		}
	}
	return nil
}

// ForStage returns the enabled plugins participating in stage, in sorted
// name order so runs are deterministic. The enabled list is a whitelist;
// the single entry "*" enables everything.
func (r *Registry) ForStage(stage Stage, enabled []string) []Plugin {
	all := len(enabled) == 1 && enabled[0] == "*"
	allow := make(map[string]bool, len(enabled))
	for _, name := range enabled {
		allow[name] = true
	}

	var out []Plugin
	for _, name := range r.Names() {
		if !all && !allow[name] {
			continue
		}
		p := r.plugins[name]
		for _, s := range p.Stages() {
			if s == stage {
				out = append(out, p)
				break
			}
		}
	}
	return out
}
