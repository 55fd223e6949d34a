package registry

import (
	"fmt"
	"reflect"

	"github.com/mitchellh/mapstructure"

	"github.com/xzdarcy/rete/internal/graph"
)

// TagName is the struct tag DecodeData reads field names from.
const TagName = "rete"

// DecodeData decodes node.Data into the struct pointed to by out. Fields are
// matched by their `rete` tag. Values are converted loosely, so "2" fills an
// int and "5s" fills a time.Duration.
func DecodeData(node *graph.Node, out any) error {
	if node == nil {
		return fmt.Errorf("cannot decode data of nil node")
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		TagName:          TagName,
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
	})
	if err != nil {
		return fmt.Errorf("node '%s': %w", node.ID, err)
	}
	if err := dec.Decode(node.Data); err != nil {
		return fmt.Errorf("node '%s': invalid data: %w", node.ID, err)
	}
	return nil
}

// Number converts v to a float64. Strings, json.Number, booleans and every
// integer and float kind are accepted.
func Number(v any) (float64, error) {
	if v == nil {
		return 0, fmt.Errorf("value is nil")
	}
	var f float64
	if err := mapstructure.WeakDecode(v, &f); err != nil {
		return 0, fmt.Errorf("value %v of type %s is not a number: %w", v, reflect.TypeOf(v), err)
	}
	return f, nil
}
