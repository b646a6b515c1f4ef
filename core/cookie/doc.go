// Package cookie manages HTTP cookies with shared, configurable attributes.
package cookie
