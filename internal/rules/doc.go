// Package rules turns ordering violations into diagnostics with fixes.
//
// The SA12xx family is reported here: the ordering rules computed by
// package order (SA1200–SA1204, SA1208–SA1211, SA1214, SA1216, SA1217)
// and the declaration-local rules checked directly on the tree (SA1205
// partial access, SA1206 modifier order, SA1207 protected internal,
// SA1212/SA1213 accessor order).
//
// Fixes are lazy: the edits of a member fix are planned only when the fix
// engine selects it. Directive fixes of one file share an ID, so applying
// any of them rewrites all directive regions at once.
package rules
