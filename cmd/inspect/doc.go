// Package inspect implements the commands that decode node content: object
// records through the reflective field serializer and the typed nodes of
// package cnodes.
package inspect
