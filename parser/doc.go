// Package parser turns raw completion text into candidate strings.
//
// Tag completions are delimited lists that continue the prompt's final
// "Tags:" line. Fragments that still contain a line break after trimming mean
// the model ran past the list into prose; they are discarded:
//
//	p := parser.NewParser(",")
//	candidates := p.Candidates(" Cash, Do it yourself,Covid 19\n\nText: more")
//	// ["Cash", "Do it yourself"]
//
// Hypernym completions are a single short phrase:
//
//	p.Phrase(" Appliance.\nTerm: next") // "Appliance"
package parser
