package mock

import "github.com/fwojciec/catalog"

var _ catalog.Converter = (*Converter)(nil)

// Converter is a mock implementation of catalog.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
