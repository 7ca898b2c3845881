// Package checker validates a parsed program against the rules the grammar
// cannot express.
//
// Check never stops at the first problem: it returns every error and
// warning it finds so that a whole file can be fixed in one pass. Errors
// make the program invalid; warnings are informational.
package checker
