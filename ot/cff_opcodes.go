package ot

// Type 2 CharString operators (CFF spec Appendix A / Adobe TN#5177).
// Two-byte (escape-prefixed) operators are encoded as 12<<8|b, matching
// how cff_outline.go's execute() builds the op value.
const (
	csHstem     = 1
	csVstem     = 3
	csVmoveto   = 4
	csRlineto   = 5
	csHlineto   = 6
	csVlineto   = 7
	csRrcurveto = 8
	csCallsubr  = 10
	csReturn    = 11
	csEscape    = 12
	csEndchar   = 14
	csHstemhm   = 18
	csHintmask  = 19
	csCntrmask  = 20
	csRmoveto   = 21
	csHmoveto   = 22
	csVstemhm   = 23
	csRcurveline = 24
	csRlinecurve = 25
	csVvcurveto  = 26
	csHhcurveto  = 27
	csCallgsubr  = 29
	csVhcurveto  = 30
	csHvcurveto  = 31

	csFlex  = 12<<8 | 35
	csHflex = 12<<8 | 34
	csFlex1 = 12<<8 | 37
	csHflex1 = 12<<8 | 36
)
