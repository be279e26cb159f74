// Command modelctl checks the entity model, prints its schema and applies it
// to a SQLite database.
package main

func main() {
	Execute()
}
