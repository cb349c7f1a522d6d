package state

// Parameter represents a named init value, optionally typed.
type Parameter struct {
	Name     string      `json:"name" yaml:"name"`
	Value    interface{} `json:"value" yaml:"value"`
	DataType string      `json:"dataType,omitempty" yaml:"dataType,omitempty"`
}

// Parameters is a collection of named values.
type Parameters []*Parameter

// Add appends a parameter to the collection.
func (p *Parameters) Add(name string, value interface{}) {
	*p = append(*p, &Parameter{Name: name, Value: value})
}

// Get retrieves a parameter by name.
func (p Parameters) Get(name string) (*Parameter, bool) {
	for _, param := range p {
		if param.Name == name {
			return param, true
		}
	}
	return nil, false
}

// ToMap converts Parameters to a map.
func (p Parameters) ToMap() map[string]interface{} {
	result := make(map[string]interface{})
	for _, param := range p {
		result[param.Name] = param.Value
	}
	return result
}
