package cdi

import "strings"

// Pair is a single old -> new rewrite. Pairs are applied in slice order.
type Pair struct {
	Old string
	New string
}

// Tables bundles the four CDI normalization tables.
type Tables struct {
	Words        []Pair
	BeforeMorphs []Pair
	AfterMorphs  []Pair
	Replace      []Pair
}

// Default returns the Brent/CDI tables.
func Default() Tables {
	return Tables{
		Words: []Pair{
			{"all gone", "allgone"},
			{"bath tub", "bathtub"},
			{"fire truck", "firetruck"},
			{"ice cream", "icecream"},
			{"t_v", "tv"},
		},
		BeforeMorphs: []Pair{
			{"n|glass-PL", "n|glasses"},
			{"n|pot-DIM", "n|potty"},
			{"n|t_v", "n|tv"},
			{"n|teach&dv-AGT", "n|teacher"},
			{"bi#n|cycle", "n|bicycle"},
			{"adj|sleep&dn-Y", "adj|sleepy"},
			{"n|zip&dv-AGT", "n|zipper"},
			{"adj|dirt&dn-Y", "adj|dirty"},
			{"n|child&PL", "n|children"},
			{"part|break&PASTP", "part|broken"},
			{"adj|care&dn-FULL", "adj|careful"},
			{"n|foot&PL", "n|feet"},
			{"n|person&PL", "n|people"},
			{"adj|pen&dn-Y", "n|penny"},
			{"n|stroll&dv-AGT", "n|stroller"},
			{"v|tire-PAST", "part|tired"},
			{"part|tire-PASTP", "part|tired"},
			{"v|fall&PAST", "v|fell"},
		},
		AfterMorphs: []Pair{
			{"adv|all part|go&PASTP", "co|allgone"},
			{"n|bath n|tub", "n|bathtub"},
			{"n|fire n|truck", "n|firetruck"},
			{"n|ice n|cream", "n|icecream"},
			{"v|want~inf|to", "v|wanna"},
		},
		Replace: []Pair{
			{"bead", "beads"},
			{"bubble", "bubbles"},
			{"carrot", "carrots"},
			{"key", "keys"},
			{"noodle", "noodles"},
			{"scare", "scared"},
			{"stair", "stairs"},
			{"thirst", "thirsty"},
			{"yuck", "yucky"},
			{"pea", "peas"},
		},
	}
}

// Apply rewrites every occurrence of each pair's Old with New, one pair at a
// time in order. A later pair sees the output of earlier ones.
func Apply(pairs []Pair, s string) string {
	for _, p := range pairs {
		if p.Old == "" {
			continue
		}
		if strings.Contains(s, p.Old) {
			s = strings.ReplaceAll(s, p.Old, p.New)
		}
	}
	return s
}

// ReplaceMap returns the Replace table as a lookup keyed by the old lemma.
func (t Tables) ReplaceMap() map[string]string {
	out := make(map[string]string, len(t.Replace))
	for _, p := range t.Replace {
		out[p.Old] = p.New
	}
	return out
}
