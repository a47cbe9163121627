// Package rbac resolves and enforces role based permissions.
//
// Grants are stored per (role, controller, action). The RoleResolver reads the authorized
// grants of one role, the UserResolver folds them over every role of a user with a
// positive-grant-wins union and the Checker decides single requests. Every resolver step
// is cached in a tagged cache; the Coordinator invalidates it when roles, users or grants
// change. The Reconciler replaces the grants of a role from an aliased payload.
//
// Holders of models.RoleSuperAdmin bypass every check and never have their permissions
// materialized.
package rbac
