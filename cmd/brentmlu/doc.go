// Package main hosts the brentmlu CLI entrypoint and command graph.
//
// The Cobra command tree maps terminal invocations onto pipeline runs that
// turn CHILDES transcripts into lemma MLU statistics. It centralizes
// configuration resolution and logging setup so subcommands only parse
// arguments and render results.
//
// Add new functionality in the internal packages first, then surface it
// through a dedicated command or flag here.
package main
