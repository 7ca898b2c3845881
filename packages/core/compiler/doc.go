// Package compiler runs the full pipeline over one source file:
//
//	lexer -> parser -> checker -> generator
//
// Errors keep the type of the stage that produced them, so callers can use
// errors.As or StageOf to tell a *parser.LexError, a *parser.ParseError, a
// *SemanticError and a *GenerateError apart.
package compiler
