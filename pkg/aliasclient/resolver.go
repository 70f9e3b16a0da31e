package aliasclient

// Aliases maps short names to path templates such as "/posts/:id".
type Aliases[K ~string] map[K]string

// ResolverOption tweaks how a Resolver interpolates parameters.
type ResolverOption func(*resolverConfig)

type resolverConfig struct {
	strict bool
}

// WithStrictParams substitutes the empty string only for missing keys and nil values,
// so 0 and false are kept in the path as literal text.
func WithStrictParams() ResolverOption {
	return func(c *resolverConfig) { c.strict = true }
}

// Resolver turns an alias or literal path plus a parameter bag into a request path.
// It holds its own copy of the alias table and never modifies it.
type Resolver[K ~string] struct {
	aliases Aliases[K]
	strict  bool
}

// NewResolver copies aliases into a new Resolver.
func NewResolver[K ~string](aliases map[K]string, opts ...ResolverOption) *Resolver[K] {
	var cfg resolverConfig
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	table := make(Aliases[K], len(aliases))
	for name, tmpl := range aliases {
		table[name] = tmpl
	}
	return &Resolver[K]{aliases: table, strict: cfg.strict}
}

// Template returns the template registered for path, or path itself when it is not a
// known alias (or maps to an empty template).
func (r *Resolver[K]) Template(path K) string {
	if r != nil {
		if tmpl := r.aliases[path]; tmpl != "" {
			return tmpl
		}
	}
	return string(path)
}

// Resolve looks up path in the alias table and interpolates params into the result.
// It never fails: unknown aliases are used literally and unknown placeholders collapse
// to the empty string.
func (r *Resolver[K]) Resolve(path K, params any) string {
	strict := r != nil && r.strict
	return interpolate(r.Template(path), params, strict)
}

// Has reports whether name is a registered alias.
func (r *Resolver[K]) Has(name K) bool {
	if r == nil {
		return false
	}
	_, ok := r.aliases[name]
	return ok
}

// Aliases returns a copy of the alias table.
func (r *Resolver[K]) Aliases() Aliases[K] {
	if r == nil {
		return nil
	}
	out := make(Aliases[K], len(r.aliases))
	for name, tmpl := range r.aliases {
		out[name] = tmpl
	}
	return out
}
