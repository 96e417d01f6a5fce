// Package tokens estimates token counts for completion prompts.
//
// Estimates use the rule of thumb that about 4 characters make one token for
// English text, which is close enough to account usage when a service omits
// it and to reject prompts that cannot fit a model's context window before
// they are sent.
//
//	n := tokens.Estimate("Text: gold rallied\nTags:")
//	ok := tokens.Fits("davinci-002", prompt, 60)
package tokens
