// Command heapctl exercises the implicit boundary-tag allocator: it runs the
// randomized fragmentation benchmark, prints the reference layouts and draws
// block maps.
package main

func main() {
	execute()
}
