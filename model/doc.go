// Package model contains the in-memory representation of compiled workflow
// images and their source recipes.
//
// A recipe is compiled by the assembler into the structures defined here and
// in the `graph` and `expr` sub-packages. The root model package simply
// aggregates those building blocks so that they can be referenced from other
// parts of the code base with a single import.
package model
