// Package tagging extracts curated topical tags from document text using a
// completion service as an imperfect oracle.
//
// An Extractor prepares the document body, renders a few-shot prompt, and
// asks the gateway for a delimited tag list at a quality tier. Every
// candidate passes through a Gate:
//
//   - more than MaxWords words: escalate below WordCountCeiling, else drop
//   - equal to an exemplar tag: escalate below ExemplarCeiling, else drop
//   - otherwise: keep
//
// The first escalating candidate discards the whole attempt and the prompt
// is re-sent one tier up. Kept candidates are normalized (marker cleanup,
// exemplar purge, case-insensitive dedupe, consecutive numeric-run collapse)
// before they are returned.
//
// The API is total. Empty input, transport failures and malformed responses
// all produce an empty tag list; the details go to the logger.
//
//	ex, err := tagging.New(gw, tagging.DefaultConfig())
//	if err != nil {
//	    return err
//	}
//	tags := ex.ExtractTags(ctx, doc.Title, doc.Body)
//	hypernyms := ex.Hypernyms(ctx, tags)
package tagging
