package prefabs

import "gopkg.in/yaml.v3"

// DecodeBehaviorSpec re-decodes the free-form parameters of a behaviour into
// its typed spec.
func DecodeBehaviorSpec[T any](b BehaviorSpec) (T, error) {
	return decodeComponentSpec[T](b.Params)
}

func decodeComponentSpec[T any](raw any) (T, error) {
	var zero T
	if raw == nil {
		return zero, nil
	}
	b, err := yaml.Marshal(raw)
	if err != nil {
		return zero, err
	}
	var out T
	if err := yaml.Unmarshal(b, &out); err != nil {
		return zero, err
	}
	return out, nil
}
