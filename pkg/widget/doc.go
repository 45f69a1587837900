// Package widget is the root composition layer of the embeddable chat widget.
//
// A Root owns three pieces of shared state (settings, message history, path
// history), resolves its configuration once on Start, and renders either
// nothing (gate closed) or the body wrapped in the provider layers the
// configuration did not opt out of.
//
// Ownership model:
//   - The Root owns its stores. Setting an advance flag (use_custom_*)
//     transfers ownership of that state to the embedding application; the
//     corresponding provider layer is then never mounted and descendants must
//     obtain that state from the application instead.
//   - The body node is application-owned; the Root only decides whether and
//     inside which providers it renders.
package widget
