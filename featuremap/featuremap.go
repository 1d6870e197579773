/*
Package featuremap provides feature-name-to-index maps, also known as
feature metadata, and methods to parse them from YAML documents.

Serialized boosters sometimes encode split features as name strings
instead of feature-vector indices. Compiling such a model without
knowing the caller's feature ordering would mean guessing, so the
caller supplies a Map and the normalizer treats any name missing from
it as a hard error.
*/
package featuremap

import (
	"fmt"
	"os"

	yaml "gopkg.in/yaml.v2"
)

/*
Map maps a feature name to the index of that feature in the flat
vector the compiled model scores.
*/
type Map map[string]int

/*
Read takes a slice of bytes with a feature map specification in YML
and returns the Map parsed from it or an error.
The YML is expected to be an object containing a features property,
holding either a list of feature names in vector order or an object
with a non-negative integer index per feature name.
*/
func Read(md []byte) (Map, error) {
	metadata := struct {
		Features interface{}
	}{}
	err := yaml.Unmarshal(md, &metadata)
	if err != nil {
		return nil, fmt.Errorf("parsing yml feature map: %v", err)
	}
	if metadata.Features == nil {
		return nil, fmt.Errorf("metadata file has no feature information")
	}
	m := Map{}
	switch features := metadata.Features.(type) {
	case []interface{}:
		for i, name := range features {
			m[fmt.Sprintf("%v", name)] = i
		}
	case map[interface{}]interface{}:
		for name, index := range features {
			i, ok := index.(int)
			if !ok || i < 0 {
				return nil, fmt.Errorf("feature %v declares invalid index %v", name, index)
			}
			m[fmt.Sprintf("%v", name)] = i
		}
	default:
		return nil, fmt.Errorf("invalid feature declaration of type %T", metadata.Features)
	}
	return m, nil
}

/*
ReadFromFile takes a filepath string, reads its contents and uses Read
to parse it and return the Map or an error. If the file indicated by
the filepath cannot be opened for reading an error will be returned.
*/
func ReadFromFile(filepath string) (Map, error) {
	md, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("reading feature map yml file %s: %v", filepath, err)
	}
	m, err := Read(md)
	if err != nil {
		err = fmt.Errorf("parsing feature map yml file %s: %v", filepath, err)
	}
	return m, err
}
