package dnsbench

// SystemResolvers returns the resolvers configured for the operating system,
// or nil when none can be determined.
func SystemResolvers() []Resolver {
	return systemResolvers()
}
