package constants

type ContextKey string

const (
	// APIName prefixes environment variable overrides of the config file.
	APIName = "SHOPMESH"

	// DefaultConfigPath1 and DefaultConfigPath2 are searched, in order, for the
	// application config file before falling back to the working directory.
	DefaultConfigPath1 = "/etc/shopmesh"
	DefaultConfigPath2 = "$HOME/.shopmesh"

	DefaultSkip = 0
	DefaultTop  = 50

	// SessionCookiePrefix namespaces tenant session cookies so a session issued
	// for one store can never be presented to another.
	SessionCookiePrefix  = "shopmesh_store_"
	CentralSessionCookie = "shopmesh_session"

	CentralUser ContextKey = "centralUser"
)
