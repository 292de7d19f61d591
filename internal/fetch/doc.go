// Package fetch retrieves page HTML for auditing.
//
// The client wraps net/http with the behavior an auditor needs: a
// request timeout, a recognizable User-Agent, per-site header and
// cookie overrides, a response size cap, and a politeness rate limiter
// so batch audits do not hammer a single host.
//
// URL normalization lives here too. Users type bare hosts like
// "example.org"; NormalizeURL upgrades them to a full https URL before
// anything else sees them, so the engine and the database always work
// with one canonical shape.
package fetch
