// Parsercache parses files through per-extension parser stacks.
//
// Usage:
//
//	# Parse a file with the stack registered for its extension
//	parsercache parse notes/today.md
//
//	# Parse stdin as markdown and print the result as JSON
//	cat today.md | parsercache parse --ext md --json
//
//	# Parse every file under a directory, skipping unchanged ones
//	parsercache batch ~/notes
//
//	# Re-parse files as they change and serve metrics
//	parsercache watch ~/notes --metrics-addr :9090
package main

func main() {
	Execute()
}
