// Command gitline compiles high-level developer intent into ordered,
// auditable git operation sequences and remote CI dispatch calls.
package main

func main() {
	Execute()
}
