package interaction

import "fmt"

var examples = []string{
	"Government announces free iPhone for every citizen",
	"Scientists discover new planet similar to Earth",
	"New hospital opens in the city to serve poor families",
	"Breaking: Prime minister resigns after secret alien invasion",
}

// Examples returns the sample headlines offered to the user.
func Examples() []string {
	out := make([]string, len(examples))
	copy(out, examples)
	return out
}

// Example returns the headline at index.
func Example(index int) (string, error) {
	if index < 0 || index >= len(examples) {
		return "", fmt.Errorf("%w: %d", ErrUnknownExample, index)
	}
	return examples[index], nil
}

func exampleViews() []ExampleView {
	out := make([]ExampleView, len(examples))
	for i, text := range examples {
		out[i] = ExampleView{Index: i, Text: text}
	}
	return out
}
