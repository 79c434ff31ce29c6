package object

import (
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/puzpuzpuz/xsync/v3"
)

// FieldBP declares one field of a class.
type FieldBP struct {
	Name     string `yaml:"name"`
	TypeName string `yaml:"type"`
}

// Blueprint is the ordered field schema of a class. A blueprint is not
// modified once registered.
type Blueprint struct {
	ClassName string    `yaml:"name"`
	Fields    []FieldBP `yaml:"fields"`
}

// Field returns the declaration of the named field.
func (b *Blueprint) Field(name string) (FieldBP, bool) {
	for _, f := range b.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldBP{}, false
}

// BlueprintRegistry maps class names to blueprints. It is safe for concurrent use.
type BlueprintRegistry struct {
	bps *xsync.MapOf[string, *Blueprint]
}

// NewBlueprintRegistry creates an empty registry.
func NewBlueprintRegistry() *BlueprintRegistry {
	return &BlueprintRegistry{bps: xsync.NewMapOf[string, *Blueprint]()}
}

// Register adds or replaces the blueprint of bp.ClassName.
func (r *BlueprintRegistry) Register(bp *Blueprint) error {
	if bp == nil || bp.ClassName == "" {
		return fmt.Errorf("object: blueprint without class name")
	}
	seen := make(map[string]struct{}, len(bp.Fields))
	for _, f := range bp.Fields {
		if f.Name == "" || f.TypeName == "" {
			return fmt.Errorf("object: blueprint %s: field without name or type", bp.ClassName)
		}
		if _, dup := seen[f.Name]; dup {
			return fmt.Errorf("object: blueprint %s: duplicate field %s", bp.ClassName, f.Name)
		}
		seen[f.Name] = struct{}{}
	}
	r.bps.Store(bp.ClassName, bp)
	return nil
}

// Get returns the blueprint of class.
func (r *BlueprintRegistry) Get(class string) (*Blueprint, bool) {
	return r.bps.Load(class)
}

// GetOrMake returns the blueprint of class, registering an empty one if the
// class is unknown.
func (r *BlueprintRegistry) GetOrMake(class string) *Blueprint {
	bp, _ := r.bps.LoadOrStore(class, &Blueprint{ClassName: class})
	return bp
}

// Classes returns the registered class names in no particular order.
func (r *BlueprintRegistry) Classes() []string {
	names := make([]string, 0, r.bps.Size())
	r.bps.Range(func(name string, _ *Blueprint) bool {
		names = append(names, name)
		return true
	})
	return names
}

type blueprintFile struct {
	Classes []*Blueprint `yaml:"classes"`
}

// LoadYAML registers every class of a blueprint document:
//
//	classes:
//	  - name: gameItemData
//	    fields:
//	      - {name: quantity, type: Uint32}
func (r *BlueprintRegistry) LoadYAML(in io.Reader) (int, error) {
	var doc blueprintFile
	if err := yaml.NewDecoder(in).Decode(&doc); err != nil {
		return 0, fmt.Errorf("object: parsing blueprints: %w", err)
	}
	for _, bp := range doc.Classes {
		if err := r.Register(bp); err != nil {
			return 0, err
		}
	}
	return len(doc.Classes), nil
}

// LoadYAMLFile is LoadYAML on the named file.
func (r *BlueprintRegistry) LoadYAMLFile(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return r.LoadYAML(f)
}
