// Package tree implements the commands working on the node tree of a save.
package tree
