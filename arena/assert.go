package arena

import "fmt"

// assertf panics in debug builds and does nothing otherwise.
func assertf(format string, args ...any) {
	if debugAssertions {
		panic(fmt.Sprintf("arena: "+format, args...))
	}
}
