/*
Package streaming holds the reactive sequence types.

  - flux: Flux and Mono, their operators, subscribers and subscriptions

See the flux package documentation for the execution model.
*/
package streaming
