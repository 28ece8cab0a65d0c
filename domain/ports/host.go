package ports

// Host is the handle a host hands to a plugin through SetHost.
type Host interface {
	// FetchSuite returns the suite registered under name and version, or nil
	// when the host does not provide it.
	FetchSuite(name string, version int) any
}
