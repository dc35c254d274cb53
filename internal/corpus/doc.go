// Package corpus holds the helpers that surround extraction: discovering
// transcript files, concatenating them into one corpus, collecting the
// lemma inventory and mapping utterance words to their morphology entries.
package corpus
