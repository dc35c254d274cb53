// Package chat extracts caregiver utterance records from CHAT transcripts.
//
// The Extractor walks a transcript line by line with a small state machine.
// A section header (a line starting with "---", as written by the corpus
// concatenator) sets the caregiver code and child age. Each caregiver turn
// (*MOT:, *EVA:, *OTH:) opens a record; its %mor and %gra dependent tiers
// fill the morphology and grammatical-relation buffers. A record is emitted
// when the turn closes with a non-empty grammar buffer.
//
// Turns by any other speaker, and caregiver turns marked as sung, read,
// whispered or voice-altered speech, never contribute %mor or %gra data.
//
// Each tier applies an ordered textutil.Pipeline, with the CDI substitution
// tables applied at fixed points relative to counting. See the cdi package
// for the tables themselves.
package chat
