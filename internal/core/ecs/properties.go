package ecs

import (
	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"
)

// Properties is a flat string-keyed configuration bag, as produced by map
// importers, data templates and the console.
type Properties map[string]string

// Merge returns a new bag holding p overlaid with other.
func (p Properties) Merge(other Properties) Properties {
	out := make(Properties, len(p)+len(other))
	for k, v := range p {
		out[k] = v
	}
	for k, v := range other {
		out[k] = v
	}
	return out
}

// BuildProperty converts props[key] to T and passes it to apply. Missing keys
// are skipped silently; conversion failures are logged and skipped.
func BuildProperty[T any](log *zap.Logger, props Properties, key string, apply func(T)) bool {
	raw, ok := props[key]
	if !ok {
		return false
	}
	var v T
	if err := mapstructure.WeakDecode(raw, &v); err != nil {
		if log != nil {
			log.Warn("unable to build property",
				zap.String("key", key),
				zap.String("value", raw),
				zap.Error(err),
			)
		}
		return false
	}
	apply(v)
	return true
}

// PropertiesArg returns the first Properties value in a template argument
// list, or nil.
func PropertiesArg(args []any) Properties {
	for _, a := range args {
		switch p := a.(type) {
		case Properties:
			return p
		case map[string]string:
			return Properties(p)
		}
	}
	return nil
}
