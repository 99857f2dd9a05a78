package telescope

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrUnknownTelescope is returned by Select for identifiers that are not
// in the registry.
var ErrUnknownTelescope = errors.New("unknown telescope")

//go:embed telescopes.yaml
var defaultRegistry []byte

// Registry is the immutable set of known telescopes, in file order.
type Registry struct {
	observatories []Observatory
	telescopes    []Telescope
	index         map[string]int
	sites         map[string]Site
}

type registryFile struct {
	Observatories []Observatory `yaml:"observatories"`
}

// UnmarshalYAML defaults omitted hour-angle limits to the full range.
func (t *Telescope) UnmarshalYAML(node *yaml.Node) error {
	type plain Telescope
	p := plain{PositiveHALimit: 12, NegativeHALimit: -12}
	if err := node.Decode(&p); err != nil {
		return err
	}
	*t = Telescope(p)
	return nil
}

// Default returns the registry compiled into the binary.
func Default() (*Registry, error) {
	return Parse(defaultRegistry)
}

// Load reads a registry file.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read registry: %w", err)
	}
	r, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return r, nil
}

// Parse decodes and validates a YAML registry document.
func Parse(data []byte) (*Registry, error) {
	var f registryFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse registry: %w", err)
	}

	r := &Registry{
		observatories: f.Observatories,
		index:         make(map[string]int),
		sites:         make(map[string]Site),
	}
	var errs []error

	for _, obs := range f.Observatories {
		if obs.ID == "" || strings.Contains(obs.ID, ".") {
			errs = append(errs, fmt.Errorf("observatory %q: id must be a single non-empty name", obs.ID))
			continue
		}
		for _, site := range obs.Sites {
			if !childID(site.ID, obs.ID) {
				errs = append(errs, fmt.Errorf("site %q: Site id must follow the format 'observatory.site'", site.ID))
				continue
			}
			if !(site.ElevationM >= -500 && site.ElevationM <= 100000) {
				errs = append(errs, fmt.Errorf("site %s: elevation %g outside [-500, 100000]", site.ID, site.ElevationM))
			}
			if _, dup := r.sites[site.ID]; dup {
				errs = append(errs, fmt.Errorf("site %s: duplicate id", site.ID))
			}
			r.sites[site.ID] = site

			for _, tel := range site.Telescopes {
				if !childID(tel.ID, site.ID) {
					errs = append(errs, fmt.Errorf("telescope %q: Telescope id must follow the format 'observatory.site.telescope'", tel.ID))
					continue
				}
				if err := tel.Validate().Err(); err != nil {
					errs = append(errs, fmt.Errorf("telescope %s: %w", tel.ID, err))
					continue
				}
				if _, dup := r.index[tel.ID]; dup {
					errs = append(errs, fmt.Errorf("telescope %s: duplicate id", tel.ID))
					continue
				}
				tel.SiteID = site.ID
				tel.ElevationM = site.ElevationM
				r.index[tel.ID] = len(r.telescopes)
				r.telescopes = append(r.telescopes, tel)
			}
		}
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return r, nil
}

// childID reports whether id is parent followed by one more dotted name.
func childID(id, parent string) bool {
	name, ok := strings.CutPrefix(id, parent+".")
	return ok && name != "" && !strings.Contains(name, ".")
}

// Telescopes returns every telescope in registry order.
func (r *Registry) Telescopes() []Telescope {
	out := make([]Telescope, len(r.telescopes))
	copy(out, r.telescopes)
	return out
}

// Lookup returns the telescope with the given id.
func (r *Registry) Lookup(id string) (Telescope, bool) {
	i, ok := r.index[id]
	if !ok {
		return Telescope{}, false
	}
	return r.telescopes[i], true
}

// Site returns the site a telescope belongs to.
func (r *Registry) Site(id string) (Site, bool) {
	s, ok := r.sites[id]
	return s, ok
}

// Select resolves ids to telescopes in request order. An empty list
// selects the whole registry. Unknown ids are all reported in one error
// wrapping ErrUnknownTelescope.
func (r *Registry) Select(ids []string) ([]Telescope, error) {
	if len(ids) == 0 {
		return r.Telescopes(), nil
	}

	var (
		out     = make([]Telescope, 0, len(ids))
		unknown []string
		seen    = make(map[string]bool, len(ids))
	)
	for _, id := range ids {
		t, ok := r.Lookup(id)
		if !ok {
			unknown = append(unknown, id)
			continue
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, t)
	}
	if len(unknown) > 0 {
		return nil, &UnknownError{IDs: unknown}
	}
	return out, nil
}

// UnknownError lists the identifiers Select could not resolve.
type UnknownError struct {
	IDs []string
}

func (e *UnknownError) Error() string {
	return fmt.Sprintf("%s: %s", ErrUnknownTelescope, strings.Join(e.IDs, ", "))
}

func (e *UnknownError) Unwrap() error { return ErrUnknownTelescope }
