// Package schedule holds the two encodings of a commitment schedule.
//
// A Binary schedule flags every unit online (1) or offline (0) per period.
// An Integer schedule stores, for every cell, the signed number of
// consecutive periods the unit has spent in its current state: positive
// while online, negative while offline. Start costs and minimum up/down
// constraints are evaluated on the integer form. Rows are periods and
// columns are generators in both encodings.
package schedule
