package ports

// ConfigParser parses raw configuration bytes into a generic map.
// Validation happens in the config package.
type ConfigParser interface {
	Parse(data []byte) (map[string]any, error)
}
