package hashid

// Projection declares that a derived string field mirrors an underlying
// integer id as a public token. Models list their projections as static
// metadata and Apply fills them uniformly.
type Projection struct {
	Target *string
	ID     int64
}

// Tokenizable is implemented by models that expose public id tokens.
type Tokenizable interface {
	TokenProjections() []Projection
}

// Apply encodes every declared projection on the given entities. A zero or
// negative id leaves the target field empty.
func Apply(c *Codec, entities ...Tokenizable) error {
	for _, e := range entities {
		for _, p := range e.TokenProjections() {
			if p.ID <= 0 {
				continue
			}
			token, err := c.Encode(p.ID)
			if err != nil {
				return err
			}
			*p.Target = token
		}
	}
	return nil
}
