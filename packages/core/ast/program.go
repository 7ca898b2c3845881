package ast

// Program is the result of parsing one file. Items keeps every top-level
// entry in source order; the accessors derive the views later stages use.
type Program struct {
	File  string
	Items []Item
}

// Config returns the last config block, or nil.
func (p *Program) Config() *Config {
	var cfg *Config
	for _, it := range p.Items {
		if c, ok := it.(*Config); ok {
			cfg = c
		}
	}
	return cfg
}

func (p *Program) Configs() []*Config {
	var out []*Config
	for _, it := range p.Items {
		if c, ok := it.(*Config); ok {
			out = append(out, c)
		}
	}
	return out
}

func (p *Program) Variables() *Variables {
	vars := NewVariables()
	for _, it := range p.Items {
		if v, ok := it.(*Variable); ok {
			vars.Declare(v)
		}
	}
	return vars
}

func (p *Program) Tests() []*TestCase {
	var out []*TestCase
	for _, it := range p.Items {
		if t, ok := it.(*TestCase); ok {
			out = append(out, t)
		}
	}
	return out
}
