// Package prompt builds the few-shot prompts sent to the completion service.
//
// Templates use a small Handlebars-like syntax that is converted to Go
// text/template before execution:
//
//	{{variable}}               -> {{.variable}}
//	{{#if variable}}...{{/if}} -> {{if .variable}}...{{end}}
//
// The tag prompt embeds the exemplar tags after an example text so the model
// sees the expected output format, then the document to tag:
//
//	b, err := prompt.NewBuilder(prompt.Config{
//	    Exemplars:   []string{"Quantum Origami", "Lunar Beekeeping"},
//	    ExampleText: "...",
//	    Delimiter:   ",",
//	})
//	p, err := b.Tags("Title", preparedBody)
//
// The hypernym prompt asks for one broader category for a single tag:
//
//	p, err := b.Hypernym("Refrigerator")
package prompt
