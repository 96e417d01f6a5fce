// Package truncate prepares document text for inclusion in a prompt.
//
// Prompts have a fixed character budget for the document body. Prepare
// removes line breaks and cuts the text on a whitespace boundary so no word
// is ever split:
//
//	body := truncate.Prepare(doc.Body, truncate.DefaultBudget)
//
// # Convenience Functions
//
//	result := truncate.StripLineBreaks(text)      // newlines become spaces
//	result := truncate.ToWordBoundary(text, 200)  // whole words only, <= 200 runes
//	result := truncate.ToLength(text, 80)         // hard cut with "..." for log previews
//
// # UTF-8 Support
//
// All lengths count runes rather than bytes, so multi-byte characters are
// never split and budgets mean characters, not bytes.
package truncate
