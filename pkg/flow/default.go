package flow

// DefaultStartID is the start block of the built-in flow.
const DefaultStartID = "start"

// Default returns the built-in flow used when the embedding application
// supplies none: a greeting that loops back on itself.
func Default() *Graph {
	g, err := New(DefaultStartID,
		Block{
			ID:      DefaultStartID,
			Message: "Hello! I am your assistant. How can I help you today?",
			Path:    "loop",
		},
		Block{
			ID:      "loop",
			Message: "Is there anything else I can help you with?",
			Path:    "loop",
		},
	)
	if err != nil {
		// The built-in flow is static; failing to build it is a programming error.
		panic(err)
	}
	return g
}
