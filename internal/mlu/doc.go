// Package mlu aggregates extracted caregiver turns into per-lemma mean
// length of utterance statistics.
//
// Every (speaker, lemma) pair of the corpus gets a row. Pairs with no
// occurrences report the corpus-wide median of the lemma instead, marked as
// imputed. Lemma merges from the CDI replace table are applied before
// medians are taken.
package mlu
