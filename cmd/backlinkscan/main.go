// Package main provides the entry point for the backlinkscan CLI.
//
// backlinkscan checks whether candidate backlink pages still link to your
// sites, and whether those links are Dofollow or Nofollow.
//
// Usage:
//
//	backlinkscan check --target example.com https://blog.test/post
//	backlinkscan check --target example.com --list backlinks.txt --xlsx report.xlsx
//
// See --help for all available options.
package main

// main is the entry point for backlinkscan.
func main() {
	Execute()
}
