package gen

import (
	"strings"

	"github.com/go-openapi/inflect"

	"github.com/syssam/oneshot/compiler/scan"
	"github.com/syssam/oneshot/marker"
)

// FieldConfig is the resolved configuration for one marked field. Every
// field in a valid group has exactly one FieldConfig before synthesis
// starts.
type FieldConfig struct {
	Field *scan.Field
	// ConsumeName is the name of the generated reset operation.
	ConsumeName string
	// CallbackName is the dispatcher parameter name for the field's
	// effect callback ("on" + PascalCase(field)).
	CallbackName string
	// Policy orders the effect callback against the reset.
	Policy marker.Policy
}

// ResolveConfigs derives a FieldConfig for every field in the group.
//
// The consume name is the tag's name argument verbatim when present,
// otherwise "Consume" + PascalCase(field name). The policy is the tag's
// policy argument normalized through marker.ParsePolicy, defaulting to
// ActionThenConsume when absent. An unrecognized policy or tag argument
// falls back to the default and is reported as an error diagnostic; a
// consume-name collision inside the group is a contradiction the
// generator cannot resolve, so it returns an *OwnerError and the group is
// skipped.
func ResolveConfigs(g *Group, sink Sink) ([]*FieldConfig, error) {
	configs := make([]*FieldConfig, 0, len(g.Fields))
	byName := make(map[string]*scan.Field)
	for _, f := range g.Fields {
		cfg := &FieldConfig{
			Field:        f,
			ConsumeName:  "Consume" + pascalCase(f.Name),
			CallbackName: "on" + pascalCase(f.Name),
			Policy:       marker.ActionThenConsume,
		}
		for _, arg := range splitArgs(f.Tag) {
			key, value, _ := strings.Cut(arg, "=")
			switch key {
			case "name":
				if value != "" {
					cfg.ConsumeName = value
				}
			case "policy":
				p, ok := marker.ParsePolicy(value)
				if !ok {
					reportf(sink, Error, f.Pos,
						"unrecognized ordering policy %q on %s.%s; using %s",
						value, g.Owner.Name, f.Name, marker.ActionThenConsume)
				}
				cfg.Policy = p
			default:
				reportf(sink, Error, f.Pos,
					"unknown marker argument %q on %s.%s", key, g.Owner.Name, f.Name)
			}
		}
		if prev, ok := byName[cfg.ConsumeName]; ok {
			return nil, NewOwnerError(g.Owner.Name, f.Name,
				"consume operation name "+cfg.ConsumeName+" collides with field "+prev.Name)
		}
		if prev, ok := byName[cfg.CallbackName]; ok {
			return nil, NewOwnerError(g.Owner.Name, f.Name,
				"callback name "+cfg.CallbackName+" collides with field "+prev.Name)
		}
		byName[cfg.ConsumeName] = f
		byName[cfg.CallbackName] = f
		configs = append(configs, cfg)
	}
	return configs, nil
}

func splitArgs(tag string) []string {
	var args []string
	for _, arg := range strings.Split(tag, ",") {
		if arg = strings.TrimSpace(arg); arg != "" {
			args = append(args, arg)
		}
	}
	return args
}

// pascalCase upper-camels a field name. Snake and kebab names go through
// inflect; plain names only need their first letter raised.
func pascalCase(name string) string {
	if name == "" {
		return name
	}
	if strings.ContainsAny(name, "_-") {
		return inflect.Camelize(strings.ReplaceAll(name, "-", "_"))
	}
	return strings.ToUpper(name[:1]) + name[1:]
}
