// Package refpath implements the reference path notation used throughout
// workflow definitions to address locations inside the working data
// document.
//
// A reference is a "$."-prefixed, dot-separated token list. Tokens are map
// keys, decimal array indexes, the wildcard "*" (every index of an array)
// or the relative marker "^" (the index of the entry being evaluated).
package refpath
