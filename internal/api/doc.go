// Package api handles incoming HTTP requests, request validation and
// response formatting. It translates HTTP calls into job submissions and
// job store lookups; it never writes job status itself.
package api
