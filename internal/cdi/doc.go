// Package cdi holds the fixed lexical normalization tables that align Brent
// corpus tokens with the MacArthur-Bates CDI vocabulary inventory.
//
// The tables are plain data. Where they are applied matters more than what
// they contain:
//   - Words rewrites caregiver utterance text before word tokenization.
//   - BeforeMorphs rewrites %mor text before morphemes are counted, for
//     changes that alter the morpheme count (glass-PL becomes glasses).
//   - AfterMorphs rewrites %mor text after counting, for changes that only
//     alter orthography (n|ice n|cream becomes n|icecream).
//   - Replace merges lemma keys during MLU aggregation (scare into scared).
//
// Default returns a fresh copy on every call so callers can hand the value to
// concurrent extractors without sharing mutable state.
package cdi
