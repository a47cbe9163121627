// Package main provides the entry point of permgate, a role based permission engine.
// It serves a fiber REST API whose controller actions are guarded by role grants
// stored with gorm. Grants are managed at runtime per action or per read/write
// bucket, and the resolved permissions are kept in a tagged cache.
package main
