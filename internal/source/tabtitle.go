package source

// NoopTabTitler is the fallback tab-title capability for platforms without
// scripting access to the browser. It always reports unknown.
type NoopTabTitler struct{}

func (NoopTabTitler) TabTitle(string) (string, bool) {
	return "", false
}
