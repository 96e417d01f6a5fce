// Command tagkit extracts topical tags from documents with a tiered
// completion model.
//
// Usage:
//
//	tagkit extract --title "Market report" --file report.txt
//	tagkit hypernyms Refrigerator "Labrador Retriever"
//	tagkit batch --config tagkit.yaml --watch < docs.jsonl
//	tagkit schema
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/randalmurphal/tagkit/openai"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd(newApp()).ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
