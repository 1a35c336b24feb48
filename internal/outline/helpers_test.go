package outline_test

import (
	"github.com/dgallion1/mdoutline/internal/buffer"
	"github.com/dgallion1/mdoutline/internal/scope"
)

const sample = "# A\n## B\ntext\n# C\n"

// plainView builds a view whose every line is in heading scope.
func plainView(text string) *buffer.View {
	return buffer.NewView(buffer.New(text, buffer.WithClassifier(scope.Plain{})))
}

// markdownView builds a view classified by the Markdown parser.
func markdownView(text string) *buffer.View {
	return buffer.NewView(buffer.New(text))
}
