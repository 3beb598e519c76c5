// Package collection owns the locally held movie list and the hero derived
// from the most recently added title.
//
// A Controller is seeded with a fallback set at construction so readers never
// observe an empty list, reconciles with the remote service on Initialize, and
// only mutates after the remote service confirms a create or delete. Failures
// are logged and returned; they never corrupt state or stop the controller.
//
// The controller talks to the remote side exclusively through the Service
// interface, so transports and test doubles plug in the same way.
package collection
