// Command axtreectl replays accessibility tree update batches and inspects
// the resulting tree.
package main

func main() {
	execute()
}
