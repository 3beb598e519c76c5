// Package remote is the HTTP client for the movies API.
//
// Client satisfies collection.Service. It accepts both list shapes the API
// has served over time (a bare JSON array and an object with a "movies"
// array) and turns anything else into collection.ErrMalformedResponse, so the
// controller never inspects payload shapes itself.
package remote
