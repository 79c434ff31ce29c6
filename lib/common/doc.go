// Package common provides the types shared by every csav package: the error
// taxonomy, the logger integration and the configuration structure.
//
// Key Components:
//
//   - Error: an error code plus message. Corruption errors abandon a subtree or
//     object, schema mismatch errors are fatal to the enclosing object. Sentinel
//     values (ErrCorruption, ErrSchemaMismatch, ...) match any error of the same code
//     through errors.Is.
//
//   - Logger: a custom implementation of dragonboat's logger.ILogger. Packages obtain
//     their logger through logger.GetLogger(name); InitLoggers installs the factory and
//     the level for all of them.
//
//   - Config: the settings of one CLI invocation with a human readable String().
package common
