// Package permission holds the action registry of the guarded API.
//
// Every controller registers a Definition describing its actions, their stable external
// aliases and, for the coarse mode, the read/write partition of the actions. The Registry
// classifies these definitions into a Catalog through the View of the configured Mode:
//
//   - ModeActions grants permissions per action
//   - ModeReadWrite grants permissions per read or write bucket
//
// The Catalog is cached under the TagControllers tag. A Translator converts internal
// controller and action identifiers to their aliases and back.
package permission
