package domain

// Classify maps one finding's qualitative channel values to a pathology
// verdict. It is a pure function of amplitude, latency and velocity only;
// the F-wave and H-wave channels are informational and never participate.
//
// The rule is an ordered decision table, not a scoring function:
//
//  1. demyelinating signs: velocity decreased or latency increased
//  2. axonal signs: amplitude decreased or absent
//  3. both present        -> mixed
//  4. demyelinating only  -> demyelinating
//  5. axonal only         -> axonal
//  6. all channels normal -> normal
//  7. anything else       -> unclassified
//
// Combinations not covered by steps 1-6 (increased amplitude, absent latency
// or velocity) deliberately fall through to unclassified, surfacing
// ambiguous qualitative input for manual interpretation instead of guessing.
func Classify(amplitude, latency, velocity QualitativeLevel) PathologyVerdict {
	isDemyelinating := velocity == LevelDecreased || latency == LevelIncreased
	isAxonal := amplitude == LevelDecreased || amplitude == LevelAbsent

	switch {
	case isDemyelinating && isAxonal:
		return VerdictMixed
	case isDemyelinating:
		return VerdictDemyelinating
	case isAxonal:
		return VerdictAxonal
	case amplitude == LevelNormal && latency == LevelNormal && velocity == LevelNormal:
		return VerdictNormal
	default:
		return VerdictUnclassified
	}
}
