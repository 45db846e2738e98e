// Package formapi exposes the blueprint engine over net/http: listing
// blueprints, fetching a single projected blueprint, and validating one
// field's submitted value against its rule chain.
//
// The handler follows the component conventions used across this repository:
// configuration through Options/OptionFn, registration through a minimal Mux
// interface satisfied by *http.ServeMux, and an optional guard hook for
// host-side authorization.
package formapi
