// Package userstore provides auth.UserStore implementations.
//
// Memory keeps users in a map and suits tests and single-instance demos.
// Mongo stores one document per user in the "users" collection:
//
//	{username, passwordHash, email, active, createdAt, lastLoginAt}
//
// A unique index on username turns concurrent duplicate signups into
// auth.ErrAlreadyExists for all but one caller.
package userstore
