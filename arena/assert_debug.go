//go:build utf8arena_debug

package arena

const debugAssertions = true
