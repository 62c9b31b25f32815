// Command gffarchive ingests GFF3/GTF annotation files into an embedded
// SQLite store and serves feature-tree inspection and region queries
// back out of it.
package main

import "github.com/gffarchive/gffarchive/cmd/gffarchive/cmd"

func main() {
	cmd.Execute()
}
